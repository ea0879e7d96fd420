package bigspace

// StationaryPruner runs the mark-dirty pre-pass of spec §4.8: it walks the
// ancestor chain of every entity whose Transform, Cell, or parent relation
// changed this tick, stamping each grid ancestor's GridDirtyTick to the
// current run. Grounded on the ancestor-cache-invalidation walk pattern
// (stop at the first ancestor that already carries this tick's stamp,
// since every ancestor above it is necessarily already stamped).
//
// Must run after local-origin propagation and before high-precision
// propagation (spec §4.8).
type StationaryPruner[T Coord, E comparable] struct {
	Store Store[T, E]
}

// NewStationaryPruner constructs a pruner against the given Store.
func NewStationaryPruner[T Coord, E comparable](s Store[T, E]) *StationaryPruner[T, E] {
	return &StationaryPruner[T, E]{Store: s}
}

// MarkDirty walks the ancestor chain of each entity in changed, stamping
// every GridDirtyTick ancestor to thisRun. Entities known to be stationary
// are skipped by the caller before calling this (spec §4.8 "non-stationary
// cell-carrying entities").
func (sp *StationaryPruner[T, E]) MarkDirty(changed []E, thisRun Tick) {
	for _, e := range changed {
		sp.stampAncestors(e, thisRun)
	}
}

func (sp *StationaryPruner[T, E]) stampAncestors(e E, thisRun Tick) {
	cur := e
	for {
		parent, ok := sp.Store.ParentOf(cur)
		if !ok {
			return
		}
		if tick, hasDirty := sp.Store.DirtyTick(parent); hasDirty {
			if tick == thisRun {
				// Already stamped this tick; every ancestor above it
				// was stamped by whoever stamped this one first.
				return
			}
			sp.Store.SetDirtyTick(parent, thisRun)
		}
		cur = parent
	}
}
