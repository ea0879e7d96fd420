package bigspace

import "testing"

func TestPartitionEntitiesTracksInitialAssignment(t *testing.T) {
	cl := NewCellLookup[int32, int]()
	pl := NewPartitionLookup[int32, int]()
	pe := NewPartitionEntities[int32, int]()

	cl.BeginTick()
	cl.Update(1, 0, Cell[int32]{}, false, 1, Cell[int32]{X: 0}, true)
	pl.Tick(cl)
	pe.Update(cl, pl)

	fp := ComputeFingerprint[int32, int](1, Cell[int32]{X: 0})
	wantID, _ := pl.Lookup(fp)
	gotID, ok := pe.Get(1)
	if !ok || gotID != wantID {
		t.Fatalf("Get(1) = (%v,%v), want (%v,true)", gotID, ok, wantID)
	}
	change, ok := pe.Changed()[1]
	if !ok || change.HadFrom || !change.HasTo || change.To != wantID {
		t.Fatalf("Changed()[1] = %+v, want a fresh assignment", change)
	}
}

func TestPartitionEntitiesTracksMergeWithoutEntityMoving(t *testing.T) {
	cl := NewCellLookup[int32, int]()
	pl := NewPartitionLookup[int32, int]()
	pe := NewPartitionEntities[int32, int]()

	cl.BeginTick()
	cl.Update(1, 0, Cell[int32]{}, false, 1, Cell[int32]{X: 0}, true)
	cl.Update(2, 0, Cell[int32]{}, false, 1, Cell[int32]{X: 5}, true)
	pl.Tick(cl)
	pe.Update(cl, pl)

	idBefore1, _ := pe.Get(1)
	idBefore2, _ := pe.Get(2)
	if idBefore1 == idBefore2 {
		t.Fatal("entities 1 and 2 must start in distinct partitions")
	}

	// Bridge the gap with stationary entities 1 and 2 never moving
	// themselves; the merge must still be reflected in their assignment.
	cl.BeginTick()
	for i, e := range []int{3, 4, 5, 6} {
		cl.Update(e, 0, Cell[int32]{}, false, 1, Cell[int32]{X: int32(i + 1)}, true)
	}
	pl.Tick(cl)
	pe.Update(cl, pl)

	idAfter1, _ := pe.Get(1)
	idAfter2, _ := pe.Get(2)
	if idAfter1 != idAfter2 {
		t.Fatalf("after a merge, both stationary entities must share a partition: %v vs %v", idAfter1, idAfter2)
	}
	// The merge keeps one of the two original ids, so exactly one of the
	// stationary entities was reassigned; its change must be published
	// even though it never moved itself.
	changes := pe.Changed()
	for _, c := range []struct {
		e             int
		before, after PartitionId
	}{{1, idBefore1, idAfter1}, {2, idBefore2, idAfter2}} {
		if c.before == c.after {
			continue
		}
		change, ok := changes[c.e]
		if !ok || change.From != c.before || change.To != c.after {
			t.Fatalf("entity %d's partition change must be published even though it never moved itself: got (%+v,%v), want %v -> %v", c.e, change, ok, c.before, c.after)
		}
	}
}

func TestPartitionEntitiesTracksDespawn(t *testing.T) {
	cl := NewCellLookup[int32, int]()
	pl := NewPartitionLookup[int32, int]()
	pe := NewPartitionEntities[int32, int]()

	cl.BeginTick()
	cl.Update(1, 0, Cell[int32]{}, false, 1, Cell[int32]{X: 0}, true)
	pl.Tick(cl)
	pe.Update(cl, pl)

	cl.BeginTick()
	cl.Update(1, 1, Cell[int32]{X: 0}, true, 0, Cell[int32]{}, false)
	pl.Tick(cl)
	pe.Update(cl, pl)

	if _, ok := pe.Get(1); ok {
		t.Fatal("a despawned entity must no longer carry a partition assignment")
	}
	change, ok := pe.Changed()[1]
	if !ok || !change.HadFrom || change.HasTo {
		t.Fatalf("Changed()[1] = %+v, want HadFrom=true, HasTo=false", change)
	}
}
