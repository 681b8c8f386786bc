package engine

// Target is a square an actor committed to walk onto. The move is taken
// on the next tick regardless of contention; occupancy is reconciled at
// arrival. Planned, when set, is the step to take after arriving. It is
// re-checked for walkability at that moment and dropped if the square
// closed up in the meantime.
type Target struct {
	Square  Square  `json:"square"`
	Planned *Square `json:"planned,omitempty"`
}

// Actor is a character on the grid. It remembers which tiles it occupies
// so the occupancy resolver can release them on the next move.
type Actor struct {
	// Name identifies the actor in logs and over the wire.
	Name string `json:"name"`
	// Controlled marks the directly steered actor. It gets priority
	// treatment when boxed in and must be resolved last each tick.
	Controlled bool `json:"controlled"`
	// WalkingFrom is the square the actor last stood on.
	WalkingFrom Square `json:"square"`
	// Direction is where the actor faces.
	Direction Direction `json:"direction"`
	// WalkingTo is the square the actor committed to, nil when idle.
	WalkingTo *Target `json:"walking_to,omitempty"`

	// occupies is maintained exclusively by the occupancy resolver
	occupies []TileIndex
}

// CurrentSquare is where the actor effectively is: the committed target
// while walking, else WalkingFrom.
func (a *Actor) CurrentSquare() Square {
	if a.WalkingTo != nil {
		return a.WalkingTo.Square
	}
	return a.WalkingFrom
}

type actorSlot struct {
	gen   uint32
	live  bool
	actor Actor
}

// ActorRegistry owns the actors of one scene and hands out generational
// handles. A handle outlives its actor safely: after despawn the slot's
// generation advances, so the stale handle simply stops resolving.
type ActorRegistry struct {
	slots []actorSlot
	free  []uint32
}

// NewActorRegistry creates an empty registry.
func NewActorRegistry() *ActorRegistry {
	return &ActorRegistry{}
}

// Spawn stores the actor and returns its handle.
func (r *ActorRegistry) Spawn(a Actor) ActorHandle {
	if n := len(r.free); n > 0 {
		idx := r.free[n-1]
		r.free = r.free[:n-1]
		slot := &r.slots[idx]
		slot.live = true
		slot.actor = a
		return ActorHandle{Index: idx, Gen: slot.gen}
	}

	// generations start at 1 so a live handle never equals NoActor
	r.slots = append(r.slots, actorSlot{gen: 1, live: true, actor: a})
	return ActorHandle{Index: uint32(len(r.slots) - 1), Gen: 1}
}

// Get resolves a handle to its actor. The pointer stays valid until the
// next Spawn. Returns false for stale or zero handles.
func (r *ActorRegistry) Get(h ActorHandle) (*Actor, bool) {
	if int(h.Index) >= len(r.slots) {
		return nil, false
	}
	slot := &r.slots[h.Index]
	if !slot.live || slot.gen != h.Gen {
		return nil, false
	}
	return &slot.actor, true
}

// Despawn removes the actor behind the handle and reports whether the
// handle was live. The caller is responsible for releasing the actor's
// tiles first.
func (r *ActorRegistry) Despawn(h ActorHandle) bool {
	if _, ok := r.Get(h); !ok {
		return false
	}
	slot := &r.slots[h.Index]
	slot.live = false
	slot.gen++
	slot.actor = Actor{}
	r.free = append(r.free, h.Index)
	return true
}

// Each calls f for every live actor in spawn-slot order.
func (r *ActorRegistry) Each(f func(ActorHandle, *Actor)) {
	for i := range r.slots {
		slot := &r.slots[i]
		if slot.live {
			f(ActorHandle{Index: uint32(i), Gen: slot.gen}, &slot.actor)
		}
	}
}

// Len returns how many actors are live.
func (r *ActorRegistry) Len() int {
	return len(r.slots) - len(r.free)
}
