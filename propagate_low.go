package bigspace

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// LowPrecisionPropagator tags and propagates low-precision Transform
// subtrees living under cell-carrying entities (spec §4.5).
type LowPrecisionPropagator[T Coord, E comparable] struct {
	Store  Store[T, E]
	Logger logrus.FieldLogger
}

// NewLowPrecisionPropagator constructs a propagator against the given
// Store, defaulting to the standard logger.
func NewLowPrecisionPropagator[T Coord, E comparable](s Store[T, E]) *LowPrecisionPropagator[T, E] {
	return &LowPrecisionPropagator[T, E]{Store: s, Logger: logrus.StandardLogger()}
}

// TagSweep adds or removes the LowPrecisionRoot marker across all
// entities, per spec §4.5's "tagging sweep (runs before propagation)".
// candidates is every entity that might need (re)tagging this tick: newly
// spawned entities, entities whose parent relation changed, and entities
// that gained or lost a Cell.
func (lp *LowPrecisionPropagator[T, E]) TagSweep(candidates []E) {
	for _, e := range candidates {
		parent, hasParent := lp.Store.ParentOf(e)
		valid := hasParent &&
			lp.Store.HasTransform(e) &&
			!hasCell(lp.Store, e) &&
			hasCell(lp.Store, parent) &&
			lp.Store.HasTransform(parent)

		switch {
		case valid && !lp.Store.IsLowPrecisionRoot(e):
			lp.Store.SetLowPrecisionRoot(e, true)
		case !valid && lp.Store.IsLowPrecisionRoot(e):
			lp.Store.SetLowPrecisionRoot(e, false)
		}
	}
}

func hasCell[T Coord, E comparable](s Store[T, E], e E) bool {
	_, ok := s.Cell(e)
	return ok
}

// Propagate walks every low-precision root in parallel (spec §4.5
// "In parallel over low-precision roots"), recomputing GlobalTransform for
// any subtree whose root's parent GlobalTransform changed this tick. The
// walk excludes any entity with a Cell or Grid — those are high-precision
// and owned by propagate_high.go.
//
// Each child verifies its recorded parent equals the entity visiting it;
// a mismatch panics (spec §4.5, §7: "the only fatal condition in
// propagation").
func (lp *LowPrecisionPropagator[T, E]) Propagate(roots []E, parentGlobalChanged map[E]bool) {
	var wg sync.WaitGroup
	for _, root := range roots {
		root := root
		parent, ok := lp.Store.ParentOf(root)
		if !ok || !parentGlobalChanged[parent] {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			lp.propagateSubtree(root, parent, lp.Store.GlobalTransform(parent))
		}()
	}
	wg.Wait()
}

func (lp *LowPrecisionPropagator[T, E]) propagateSubtree(e, expectedParent E, parentGlobal Affine3f) {
	actualParent, ok := lp.Store.ParentOf(e)
	if !ok || actualParent != expectedParent {
		panic(fmt.Sprintf("bigspace: malformed hierarchy: entity %v's recorded parent does not match the visiting entity", e))
	}
	global := parentGlobal.Compose(lp.Store.Transform(e))
	lp.Store.SetGlobalTransform(e, global)

	for _, child := range lp.Store.ChildrenOf(e) {
		if hasCell(lp.Store, child) {
			continue // high-precision; not ours to propagate.
		}
		if _, isGrid := lp.Store.Grid(child); isGrid {
			continue
		}
		lp.propagateSubtree(child, e, global)
	}
}
