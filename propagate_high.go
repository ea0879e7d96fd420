package bigspace

import "github.com/sirupsen/logrus"

// HighPrecisionPropagator writes GlobalTransform for every cell-carrying
// entity, honoring the grid-tree's stationary-subtree pruning gate (spec
// §4.4).
type HighPrecisionPropagator[T Coord, E comparable] struct {
	Store  Store[T, E]
	Logger logrus.FieldLogger

	// ThisRun and LastRun are the host's monotone tick ids (spec §5,
	// §4.8), used only to decide whether a grid's GridDirtyTick equals
	// "this tick" for the pruning gate.
	ThisRun, LastRun uint32
}

// NewHighPrecisionPropagator constructs a propagator against the given
// Store, defaulting to the standard logger.
func NewHighPrecisionPropagator[T Coord, E comparable](s Store[T, E]) *HighPrecisionPropagator[T, E] {
	return &HighPrecisionPropagator[T, E]{Store: s, Logger: logrus.StandardLogger()}
}

// Propagate recurses from each BigSpace root.
func (p *HighPrecisionPropagator[T, E]) Propagate() {
	for _, root := range p.Store.BigSpaces() {
		p.propagateRoot(root)
	}
}

func (p *HighPrecisionPropagator[T, E]) propagateRoot(root E) {
	grid, ok := p.Store.Grid(root)
	if !ok {
		p.Logger.WithFields(logrus.Fields{"kind": KindConfiguration, "big_space": root}).Error("bigspace: BigSpace root does not carry a Grid; skipping")
		return
	}
	origin := grid.LocalOrigin()
	if !origin.Unchanged || !p.Store.HasStationaryComputed(root) {
		p.Store.SetGlobalTransform(root, grid.GlobalTransform(ZeroCell[T](), IdentityAffine3f()))
		if !p.Store.HasStationaryComputed(root) {
			p.Store.SetStationaryComputed(root)
		}
	}
	p.walk(root, grid, origin.Unchanged, 0)
}

// walk visits every direct child of gridEntity. originUnchanged is whether
// gridEntity's own LocalFloatingOrigin is unchanged this tick; when false
// (the origin changed), every direct child is recomputed regardless of the
// child's own change flags (spec §4.4 "the grid's local floating origin
// changed").
func (p *HighPrecisionPropagator[T, E]) walk(gridEntity E, grid *Grid[T], originUnchanged bool, depth int) {
	if depth > MaxGridTreeDepth {
		p.Logger.WithFields(logrus.Fields{"kind": KindDegenerateHierarchy, "grid": gridEntity}).Error("bigspace: grid tree depth exceeded during high-precision propagation; aborting subtree")
		return
	}

	if tick, hasDirty := p.Store.DirtyTick(gridEntity); hasDirty {
		dirtyThisTick := TickCurrent(tick, p.ThisRun, p.LastRun)
		if originUnchanged && !dirtyThisTick {
			// spec §4.4 subtree-pruning gate: grid unchanged and not
			// dirty this tick -> skip the entire subtree.
			return
		}
	}

	// Collect children first; donburi queries are not safe to mutate
	// while iterating, and Go interface calls give us no aliasing
	// shortcut to skip this the way the Rust original's unchecked
	// indexed fetch does (spec §9 design notes) — this is the "(a)
	// pre-collecting all children" alternative it names.
	children := append([]E(nil), p.Store.ChildrenOf(gridEntity)...)

	var subGrids []struct {
		entity E
		grid   *Grid[T]
	}

	for _, child := range children {
		cell, hasCell := p.Store.Cell(child)
		if !hasCell {
			continue
		}
		if p.shouldUpdate(child, !originUnchanged) {
			transform := p.Store.Transform(child)
			p.Store.SetGlobalTransform(child, grid.GlobalTransform(cell, transform))
			if p.Store.IsStationary(child) && !p.Store.HasStationaryComputed(child) {
				p.Store.SetStationaryComputed(child)
			}
		}
		if childGrid, ok := p.Store.Grid(child); ok {
			subGrids = append(subGrids, struct {
				entity E
				grid   *Grid[T]
			}{child, childGrid})
		}
	}

	// All mutable work on direct children is finished before recursing
	// into any sub-grid, per spec §4.4's concurrency contract.
	for _, sg := range subGrids {
		childOrigin := sg.grid.LocalOrigin()
		p.walk(sg.entity, sg.grid, childOrigin.Unchanged, depth+1)
	}
}

// shouldUpdate implements spec §4.4's "update if any of" predicate.
func (p *HighPrecisionPropagator[T, E]) shouldUpdate(child E, originChanged bool) bool {
	if originChanged {
		return true
	}
	if p.Store.TransformChanged(child) && !p.Store.IsStationary(child) {
		return true
	}
	if p.Store.CellChanged(child) {
		return true
	}
	if p.Store.ParentChanged(child) {
		return true
	}
	if p.Store.IsStationary(child) && !p.Store.HasStationaryComputed(child) {
		return true
	}
	return false
}
