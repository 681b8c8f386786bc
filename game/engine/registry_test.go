package engine

import "testing"

func TestRegistrySpawnAndGet(t *testing.T) {
	r := NewActorRegistry()

	h := r.Spawn(Actor{Name: "winnie", WalkingFrom: Sq(1, 2)})
	if h.IsZero() {
		t.Fatal("expected a live handle not to be the zero handle")
	}

	actor, ok := r.Get(h)
	if !ok {
		t.Fatal("expected the handle to resolve")
	}
	if actor.Name != "winnie" || actor.WalkingFrom != Sq(1, 2) {
		t.Errorf("unexpected actor %+v", actor)
	}

	actor.WalkingFrom = Sq(3, 3)
	if again, _ := r.Get(h); again.WalkingFrom != Sq(3, 3) {
		t.Error("expected Get to return a mutable pointer into the registry")
	}
}

func TestActorCurrentSquare(t *testing.T) {
	actor := &Actor{Name: "winnie", WalkingFrom: Sq(1, 2)}

	if actor.CurrentSquare() != Sq(1, 2) {
		t.Errorf("expected the idle actor at its standing square, got %s", actor.CurrentSquare())
	}

	actor.WalkingTo = &Target{Square: Sq(2, 2)}
	if actor.CurrentSquare() != Sq(2, 2) {
		t.Errorf("expected the walking actor at its committed target, got %s", actor.CurrentSquare())
	}
}

func TestRegistryDespawnInvalidatesHandle(t *testing.T) {
	r := NewActorRegistry()
	h := r.Spawn(Actor{Name: "ghost"})

	if !r.Despawn(h) {
		t.Fatal("expected despawn of a live handle to succeed")
	}
	if _, ok := r.Get(h); ok {
		t.Error("expected a despawned handle to stop resolving")
	}
	if r.Despawn(h) {
		t.Error("expected double despawn to report a stale handle")
	}
	if r.Len() != 0 {
		t.Errorf("expected no live actors, got %d", r.Len())
	}
}

func TestRegistryReusesSlotsWithNewGeneration(t *testing.T) {
	r := NewActorRegistry()
	old := r.Spawn(Actor{Name: "first"})
	r.Despawn(old)

	fresh := r.Spawn(Actor{Name: "second"})
	if fresh.Index != old.Index {
		t.Errorf("expected the slot to be reused, got index %d vs %d", fresh.Index, old.Index)
	}
	if fresh.Gen == old.Gen {
		t.Error("expected the generation to advance on reuse")
	}

	if _, ok := r.Get(old); ok {
		t.Error("expected the stale handle to miss the reused slot")
	}
	if actor, ok := r.Get(fresh); !ok || actor.Name != "second" {
		t.Errorf("expected the fresh handle to resolve, got %v %v", actor, ok)
	}
}

func TestRegistryEachVisitsLiveActors(t *testing.T) {
	r := NewActorRegistry()
	a := r.Spawn(Actor{Name: "a"})
	r.Spawn(Actor{Name: "b"})
	r.Despawn(a)

	var seen []string
	r.Each(func(_ ActorHandle, actor *Actor) {
		seen = append(seen, actor.Name)
	})
	if len(seen) != 1 || seen[0] != "b" {
		t.Errorf("expected only the live actor to be visited, got %v", seen)
	}
}
