package bigspace

// Store is the read/write seam between the host-agnostic algorithms in
// this package and a concrete ECS. It stands in for the bundle of host
// capabilities spec §6 lists as external collaborators: change detection,
// parent→child relations, and entity storage. The ecs subpackage
// implements Store against github.com/yohamta/donburi; anything with
// change-tracked component storage and a parent index can implement it.
//
// Implementations do not need to support the unchecked-aliased-access
// trick the Rust original uses to visit a tree with O(N) lookups (spec §9
// "Design notes"): Go has no equivalent safe escape hatch, so every method
// here is a plain, bounds-checked call. This is the "(b) per-entity
// indexed fetches at a ~2x cost" alternative spec §9 names explicitly.
type Store[T Coord, E comparable] interface {
	// --- hierarchy ---

	// BigSpaces returns every BigSpace root entity.
	BigSpaces() []E
	// ParentOf returns the parent entity of e, if any.
	ParentOf(e E) (E, bool)
	// ChildrenOf returns the direct children of e, in a stable order.
	ChildrenOf(e E) []E

	// --- grids ---

	// Grid returns the Grid component of e, if e carries one.
	Grid(e E) (*Grid[T], bool)
	// DirtyTick returns the GridDirtyTick stamp for grid e, and whether
	// the grid carries one at all (stationary pruning may be disabled).
	DirtyTick(e E) (tick uint32, ok bool)
	// SetDirtyTick stamps grid e's dirty tick.
	SetDirtyTick(e E, tick uint32)

	// --- floating origin ---

	// FloatingOriginDescendant returns the single FloatingOrigin-tagged
	// descendant of a BigSpace root, and whether exactly one was found
	// (spec §4.3 step 1 / invariant: "zero or >1 is an error").
	FloatingOriginDescendant(root E) (E, bool)

	// --- cell-carrying entities ---

	// Cell returns the GridCell of e, if e carries one.
	Cell(e E) (Cell[T], bool)
	// SetCell overwrites e's GridCell (used by recentering).
	SetCell(e E, c Cell[T])
	// Transform returns e's local Transform as an affine.
	Transform(e E) Affine3f
	// SetTransform overwrites e's local Transform (used by recentering,
	// which rewrites only the translation, but takes the whole affine to
	// keep the Store interface symmetric).
	SetTransform(e E, t Affine3f)
	// GlobalTransform returns e's cached GlobalTransform.
	GlobalTransform(e E) Affine3f
	// SetGlobalTransform overwrites e's GlobalTransform. Implementations
	// must be safe for concurrent calls: LowPrecisionPropagator.Propagate
	// (spec §6, "in parallel over low-precision roots") calls this from
	// one goroutine per root.
	SetGlobalTransform(e E, g Affine3f)

	// IsStationary reports whether e carries the Stationary marker.
	IsStationary(e E) bool
	// HasStationaryComputed reports whether e carries the private
	// StationaryComputed marker.
	HasStationaryComputed(e E) bool
	// SetStationaryComputed inserts the StationaryComputed marker on e.
	SetStationaryComputed(e E)

	// TransformChanged, CellChanged, and ParentChanged report whether the
	// respective value was written since the last tick this was queried
	// (the Go stand-in for bevy's Changed<T> filter; see SPEC_FULL.md §2).
	TransformChanged(e E) bool
	CellChanged(e E) bool
	ParentChanged(e E) bool

	// --- low-precision entities ---

	// HasTransform reports whether e carries a Transform+GlobalTransform
	// pair at all (every spatial entity does; used to filter candidates
	// for low-precision-root tagging).
	HasTransform(e E) bool
	// IsLowPrecisionRoot reports whether e carries the private
	// LowPrecisionRoot marker.
	IsLowPrecisionRoot(e E) bool
	// SetLowPrecisionRoot adds or removes the LowPrecisionRoot marker.
	SetLowPrecisionRoot(e E, isRoot bool)
}
