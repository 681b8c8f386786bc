package engine

import "sort"

// ZoneEventKind discriminates zone events.
type ZoneEventKind string

const (
	// ZoneEntered is emitted when an actor steps into a zone.
	ZoneEntered ZoneEventKind = "zone_entered"
	// ZoneLeft is emitted when an actor steps out of a zone or is
	// despawned while inside it.
	ZoneLeft ZoneEventKind = "zone_left"
)

// ZoneEvent reports an actor crossing a zone boundary. For every entered
// event of an actor a matching left event is eventually emitted.
type ZoneEvent struct {
	Kind  ZoneEventKind `json:"kind"`
	Zone  ZoneKind      `json:"zone"`
	Actor ActorHandle   `json:"actor"`
	// Name and Controlled are copied from the actor so consumers don't
	// need registry access.
	Name       string `json:"name"`
	Controlled bool   `json:"controlled"`
	// At is where the actor stood when the event fired, nil when the
	// event was caused by a despawn.
	At *Square `json:"at,omitempty"`
}

// ZoneTracker remembers which zones each actor stands in and turns
// square changes into enter and leave events. An actor can be in several
// zones at once; duplicate zone tags on different layers of the same
// square count once.
type ZoneTracker struct {
	m     *TileMap
	zones map[ActorHandle]map[ZoneKind]bool
}

// NewZoneTracker creates a tracker over the given map.
func NewZoneTracker(m *TileMap) *ZoneTracker {
	return &ZoneTracker{
		m:     m,
		zones: map[ActorHandle]map[ZoneKind]bool{},
	}
}

// Update diffs the zones of the actor's current square against the
// tracked set and returns the resulting events, leaves before enters,
// each sorted by zone.
func (t *ZoneTracker) Update(h ActorHandle, a *Actor) []ZoneEvent {
	tracked := t.zones[h]
	if tracked == nil {
		tracked = map[ZoneKind]bool{}
		t.zones[h] = tracked
	}

	current := map[ZoneKind]bool{}
	for _, zone := range squareZones(t.m.Get(a.CurrentSquare())) {
		current[zone] = true
	}

	at := a.CurrentSquare()
	var events []ZoneEvent
	for _, zone := range sortedZoneSet(tracked) {
		if !current[zone] {
			delete(tracked, zone)
			events = append(events, t.event(ZoneLeft, zone, h, a, &at))
		}
	}
	for _, zone := range sortedZoneSet(current) {
		if !tracked[zone] {
			tracked[zone] = true
			events = append(events, t.event(ZoneEntered, zone, h, a, &at))
		}
	}
	return events
}

// Forget drops the actor from the tracker, emitting a leave event for
// every zone it was still in. Called on despawn, hence no position.
func (t *ZoneTracker) Forget(h ActorHandle, a *Actor) []ZoneEvent {
	tracked := t.zones[h]
	delete(t.zones, h)

	var events []ZoneEvent
	for _, zone := range sortedZoneSet(tracked) {
		events = append(events, t.event(ZoneLeft, zone, h, a, nil))
	}
	return events
}

func (t *ZoneTracker) event(kind ZoneEventKind, zone ZoneKind, h ActorHandle, a *Actor, at *Square) ZoneEvent {
	return ZoneEvent{
		Kind:       kind,
		Zone:       zone,
		Actor:      h,
		Name:       a.Name,
		Controlled: a.Controlled,
		At:         at,
	}
}

func sortedZoneSet(set map[ZoneKind]bool) []ZoneKind {
	out := make([]ZoneKind, 0, len(set))
	for z := range set {
		out = append(out, z)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
