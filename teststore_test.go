package bigspace

import "sync"

// mockStore is a minimal in-memory Store[int32, int] used by the core
// package's propagation tests, playing the role the ecs subpackage's
// Plugin plays against a real donburi.World.
type mockStore struct {
	parent   map[int]int
	hasParent map[int]bool
	children map[int][]int

	grids map[int]*Grid[int32]

	floatingOrigin map[int]bool

	cells       map[int]Cell[int32]
	transforms  map[int]Affine3f
	globals     map[int]Affine3f
	hasTransform map[int]bool

	dirtyTick    map[int]uint32
	hasDirtyTick map[int]bool

	stationary         map[int]bool
	stationaryComputed map[int]bool

	changedTransform map[int]bool
	changedCell      map[int]bool
	changedParent    map[int]bool

	lowPrecisionRoot map[int]bool

	bigSpaces []int

	// globalsMu guards globals, the same way ecs.Plugin guards its
	// GlobalTransform writes, since LowPrecisionPropagator.Propagate
	// calls SetGlobalTransform from one goroutine per low-precision root.
	globalsMu sync.Mutex
}

func newMockStore() *mockStore {
	return &mockStore{
		parent:             make(map[int]int),
		hasParent:          make(map[int]bool),
		children:           make(map[int][]int),
		grids:              make(map[int]*Grid[int32]),
		floatingOrigin:     make(map[int]bool),
		cells:              make(map[int]Cell[int32]),
		transforms:         make(map[int]Affine3f),
		globals:            make(map[int]Affine3f),
		hasTransform:       make(map[int]bool),
		dirtyTick:          make(map[int]uint32),
		hasDirtyTick:       make(map[int]bool),
		stationary:         make(map[int]bool),
		stationaryComputed: make(map[int]bool),
		changedTransform:   make(map[int]bool),
		changedCell:        make(map[int]bool),
		changedParent:      make(map[int]bool),
		lowPrecisionRoot:   make(map[int]bool),
	}
}

func (s *mockStore) link(parent, child int) {
	s.parent[child] = parent
	s.hasParent[child] = true
	s.children[parent] = append(s.children[parent], child)
}

// BigSpaces returns the roots registered via setBigSpaces. A mock has no
// component query to derive this from, so tests populate it directly.
func (s *mockStore) BigSpaces() []int { return s.bigSpaces }

func (s *mockStore) setBigSpaces(roots ...int) { s.bigSpaces = roots }

func (s *mockStore) ParentOf(e int) (int, bool) {
	p, ok := s.hasParent[e]
	if !ok || !p {
		return 0, false
	}
	return s.parent[e], true
}

func (s *mockStore) ChildrenOf(e int) []int { return s.children[e] }

func (s *mockStore) Grid(e int) (*Grid[int32], bool) {
	g, ok := s.grids[e]
	return g, ok
}

func (s *mockStore) DirtyTick(e int) (uint32, bool) {
	return s.dirtyTick[e], s.hasDirtyTick[e]
}

func (s *mockStore) SetDirtyTick(e int, tick uint32) {
	s.dirtyTick[e] = tick
	s.hasDirtyTick[e] = true
}

func (s *mockStore) FloatingOriginDescendant(root int) (int, bool) {
	var found int
	count := 0
	seen := make(map[int]bool)
	var walk func(int)
	walk = func(e int) {
		if seen[e] {
			return
		}
		seen[e] = true
		if s.floatingOrigin[e] {
			found = e
			count++
		}
		for _, c := range s.children[e] {
			walk(c)
		}
	}
	walk(root)
	return found, count == 1
}

func (s *mockStore) Cell(e int) (Cell[int32], bool) {
	c, ok := s.cells[e]
	return c, ok
}

func (s *mockStore) SetCell(e int, c Cell[int32]) {
	s.cells[e] = c
	s.changedCell[e] = true
}

func (s *mockStore) Transform(e int) Affine3f { return s.transforms[e] }

func (s *mockStore) SetTransform(e int, t Affine3f) {
	s.transforms[e] = t
	s.changedTransform[e] = true
}

func (s *mockStore) GlobalTransform(e int) Affine3f {
	s.globalsMu.Lock()
	defer s.globalsMu.Unlock()
	return s.globals[e]
}

func (s *mockStore) SetGlobalTransform(e int, g Affine3f) {
	s.globalsMu.Lock()
	defer s.globalsMu.Unlock()
	s.globals[e] = g
}

func (s *mockStore) IsStationary(e int) bool { return s.stationary[e] }

func (s *mockStore) HasStationaryComputed(e int) bool { return s.stationaryComputed[e] }

func (s *mockStore) SetStationaryComputed(e int) { s.stationaryComputed[e] = true }

func (s *mockStore) TransformChanged(e int) bool { return s.changedTransform[e] }
func (s *mockStore) CellChanged(e int) bool      { return s.changedCell[e] }
func (s *mockStore) ParentChanged(e int) bool     { return s.changedParent[e] }

func (s *mockStore) HasTransform(e int) bool { return s.hasTransform[e] }

func (s *mockStore) IsLowPrecisionRoot(e int) bool { return s.lowPrecisionRoot[e] }

func (s *mockStore) SetLowPrecisionRoot(e int, isRoot bool) { s.lowPrecisionRoot[e] = isRoot }
