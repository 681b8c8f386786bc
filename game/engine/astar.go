package engine

import (
	"container/heap"
	"sort"
)

// weightedSquare is a successor square with the cost of stepping onto it.
type weightedSquare struct {
	square Square
	cost   int
}

// gridSearch parameterizes the weighted-grid A* shared by all pathfinder
// tiers. Only these three knobs differ between the tiers.
type gridSearch struct {
	// successors appends the reachable neighbors of s to buf.
	successors func(s Square, buf []weightedSquare) []weightedSquare
	// heuristic estimates the remaining cost from s to the goal.
	heuristic func(s Square) int
	// success is evaluated when a square is expanded; returning true
	// finishes the search at that square.
	success func(s Square) bool
}

// squareQueueItem is a priority queue entry for the grid A*.
type squareQueueItem struct {
	square Square
	fScore int
	order  int
}

type squareQueue []squareQueueItem

func (q squareQueue) Len() int { return len(q) }
func (q squareQueue) Less(i, j int) bool {
	if q[i].fScore != q[j].fScore {
		return q[i].fScore < q[j].fScore
	}
	// insertion order breaks ties so searches are deterministic
	return q[i].order < q[j].order
}
func (q squareQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *squareQueue) Push(x any)        { *q = append(*q, x.(squareQueueItem)) }
func (q *squareQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// astarSearch runs weighted A* from start. The returned path includes the
// start square and ends at the square accepted by the success predicate.
func astarSearch(start Square, g gridSearch) ([]Square, bool) {
	gScore := map[Square]int{start: 0}
	cameFrom := map[Square]Square{}
	closed := map[Square]bool{}

	order := 0
	open := squareQueue{{square: start, fScore: g.heuristic(start)}}
	heap.Init(&open)

	var buf []weightedSquare
	for open.Len() > 0 {
		current := heap.Pop(&open).(squareQueueItem).square
		if closed[current] {
			continue
		}
		closed[current] = true

		if g.success(current) {
			return reconstructPath(cameFrom, start, current), true
		}

		buf = g.successors(current, buf[:0])
		for _, next := range buf {
			tentative := gScore[current] + next.cost
			if best, seen := gScore[next.square]; seen && tentative >= best {
				continue
			}
			gScore[next.square] = tentative
			cameFrom[next.square] = current
			order++
			heap.Push(&open, squareQueueItem{
				square: next.square,
				fScore: tentative + g.heuristic(next.square),
				order:  order,
			})
		}
	}

	return nil, false
}

func reconstructPath(cameFrom map[Square]Square, start, end Square) []Square {
	path := []Square{end}
	for end != start {
		end = cameFrom[end]
		path = append(path, end)
	}
	// reverse in place
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// weightedZone is a zone-graph edge: the successor zone and its weight
// (the target zone's instance count).
type weightedZone struct {
	zone ZoneKind
	cost int
}

// zoneDijkstra finds one cheapest zone sequence from `from` to `to` over
// the successor relation, skipping banned nodes and, for the source node
// only, banned outgoing edges. Used as the inner search of yenKShortest.
func zoneDijkstra(
	from, to ZoneKind,
	successors func(ZoneKind) []weightedZone,
	bannedNodes map[ZoneKind]bool,
	bannedEdges map[[2]ZoneKind]bool,
) ([]ZoneKind, int, bool) {
	type item struct {
		zone  ZoneKind
		dist  int
		order int
	}
	dist := map[ZoneKind]int{from: 0}
	prev := map[ZoneKind]ZoneKind{}
	done := map[ZoneKind]bool{}

	queue := []item{{zone: from}}
	order := 0
	for len(queue) > 0 {
		// zone graphs hold a handful of nodes; a linear scan beats
		// maintaining a heap here
		best := 0
		for i := 1; i < len(queue); i++ {
			if queue[i].dist < queue[best].dist ||
				(queue[i].dist == queue[best].dist && queue[i].order < queue[best].order) {
				best = i
			}
		}
		cur := queue[best]
		queue = append(queue[:best], queue[best+1:]...)

		if done[cur.zone] {
			continue
		}
		done[cur.zone] = true

		if cur.zone == to {
			seq := []ZoneKind{to}
			for seq[len(seq)-1] != from {
				seq = append(seq, prev[seq[len(seq)-1]])
			}
			for i, j := 0, len(seq)-1; i < j; i, j = i+1, j-1 {
				seq[i], seq[j] = seq[j], seq[i]
			}
			return seq, cur.dist, true
		}

		for _, edge := range successors(cur.zone) {
			if bannedNodes[edge.zone] {
				continue
			}
			if bannedEdges != nil && bannedEdges[[2]ZoneKind{cur.zone, edge.zone}] {
				continue
			}
			d := cur.dist + edge.cost
			if old, seen := dist[edge.zone]; seen && d >= old {
				continue
			}
			dist[edge.zone] = d
			prev[edge.zone] = cur.zone
			order++
			queue = append(queue, item{zone: edge.zone, dist: d, order: order})
		}
	}

	return nil, 0, false
}

// yenKShortest enumerates up to k loopless cheapest zone sequences from
// `from` to `to`, cheapest first. The zone graph has a handful of nodes,
// so this is very cheap compared to the square-level searches that follow.
func yenKShortest(
	from, to ZoneKind,
	k int,
	successors func(ZoneKind) []weightedZone,
) [][]ZoneKind {
	debugAssert(k > 0, "yenKShortest needs k >= 1")

	shortest, _, ok := zoneDijkstra(from, to, successors, nil, nil)
	if !ok {
		return nil
	}

	result := [][]ZoneKind{shortest}
	var candidates []zoneCandidate

	for len(result) < k {
		last := result[len(result)-1]

		for spurIdx := 0; spurIdx < len(last)-1; spurIdx++ {
			spurNode := last[spurIdx]
			rootSeq := last[:spurIdx+1]

			bannedEdges := map[[2]ZoneKind]bool{}
			for _, found := range result {
				if len(found) > spurIdx && zoneSeqEqual(found[:spurIdx+1], rootSeq) {
					bannedEdges[[2]ZoneKind{found[spurIdx], found[spurIdx+1]}] = true
				}
			}
			bannedNodes := map[ZoneKind]bool{}
			for _, z := range rootSeq[:len(rootSeq)-1] {
				bannedNodes[z] = true
			}

			spurSeq, _, ok := zoneDijkstra(spurNode, to, successors, bannedNodes, bannedEdges)
			if !ok {
				continue
			}

			total := append(append([]ZoneKind{}, rootSeq[:len(rootSeq)-1]...), spurSeq...)
			if !containsZoneSeq(result, total) && !containsCandidate(candidates, total) {
				candidates = append(candidates, zoneCandidate{
					seq:  total,
					cost: zoneSeqCost(total, successors),
				})
			}
		}

		if len(candidates) == 0 {
			break
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].cost < candidates[j].cost
		})
		result = append(result, candidates[0].seq)
		candidates = candidates[1:]
	}

	return result
}

func zoneSeqCost(seq []ZoneKind, successors func(ZoneKind) []weightedZone) int {
	total := 0
	for i := 0; i+1 < len(seq); i++ {
		for _, edge := range successors(seq[i]) {
			if edge.zone == seq[i+1] {
				total += edge.cost
				break
			}
		}
	}
	return total
}

func zoneSeqEqual(a, b []ZoneKind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func containsZoneSeq(seqs [][]ZoneKind, seq []ZoneKind) bool {
	for _, s := range seqs {
		if zoneSeqEqual(s, seq) {
			return true
		}
	}
	return false
}

// zoneCandidate is a provisional Yen path with its total edge cost.
type zoneCandidate struct {
	seq  []ZoneKind
	cost int
}

func containsCandidate(candidates []zoneCandidate, seq []ZoneKind) bool {
	for _, c := range candidates {
		if zoneSeqEqual(c.seq, seq) {
			return true
		}
	}
	return false
}
