package bigspace

import "testing"

func TestOriginPropagatorSetsRootOriginFromFloatingOrigin(t *testing.T) {
	s := newMockStore()
	s.setBigSpaces(1)
	s.grids[1] = NewGrid[int32](10, 1)
	s.link(1, 2)
	s.floatingOrigin[2] = true
	s.cells[2] = Cell[int32]{X: 3, Y: -1, Z: 0}
	s.transforms[2] = IdentityAffine3f()

	p := NewOriginPropagator[int32, int](s)
	p.Propagate()

	origin := s.grids[1].LocalOrigin()
	if origin.Cell != s.cells[2] {
		t.Fatalf("root grid's LocalOrigin.Cell = %+v, want %+v", origin.Cell, s.cells[2])
	}
	if origin.Unchanged {
		t.Fatal("a grid whose origin record moved from the freshly constructed zero cell must not read Unchanged")
	}

	// A second pass with nothing moved produces an identical record.
	p.Propagate()
	if !s.grids[1].LocalOrigin().Unchanged {
		t.Fatal("a grid whose origin record is identical to its prior value should read Unchanged")
	}
}

func TestOriginPropagatorPropagatesIntoNestedGrid(t *testing.T) {
	s := newMockStore()
	s.setBigSpaces(1)
	s.grids[1] = NewGrid[int32](10, 1) // root grid
	s.grids[10] = NewGrid[int32](10, 1)
	s.link(1, 10) // grid 10 is a cell-carrying child grid of root
	s.cells[10] = Cell[int32]{}
	s.transforms[10] = IdentityAffine3f()
	s.link(10, 2) // floating origin lives inside grid 10
	s.floatingOrigin[2] = true
	s.cells[2] = Cell[int32]{X: 5}
	s.transforms[2] = IdentityAffine3f()

	p := NewOriginPropagator[int32, int](s)
	p.Propagate()

	childOrigin := s.grids[10].LocalOrigin()
	if childOrigin.Cell != (Cell[int32]{X: 5}) {
		t.Fatalf("child grid's own LocalOrigin.Cell = %+v, want {5,0,0}", childOrigin.Cell)
	}

	// The root grid must also have received a propagated origin (the "up"
	// direction from grid 10 to its parent grid 1): grid 10 sits at cell
	// zero within grid 1 with an identity transform, so grid 1's own
	// origin should land on grid 10's floating-origin cell (5) scaled by
	// the shared edge length of 10, i.e. 50 world units on X.
	rootOrigin := s.grids[1].LocalOrigin()
	gotX := float64(rootOrigin.Cell.X)*10 + float64(rootOrigin.Translation.X())
	if gotX < 49.999 || gotX > 50.001 {
		t.Fatalf("root grid's propagated origin X = %v, want ~50", gotX)
	}
}

func TestOriginPropagatorSkipsMissingFloatingOrigin(t *testing.T) {
	s := newMockStore()
	s.setBigSpaces(1)
	s.grids[1] = NewGrid[int32](10, 1)
	s.link(1, 2) // no FloatingOrigin tag anywhere

	p := NewOriginPropagator[int32, int](s)
	// Must not panic; grid 1's origin stays at its constructed default.
	p.Propagate()
	if s.grids[1].LocalOrigin().Cell != (Cell[int32]{}) {
		t.Fatal("propagation must be a no-op when no FloatingOrigin descendant exists")
	}
}
