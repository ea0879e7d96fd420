package bigspace

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
)

// MaxGridTreeDepth is the minimum depth cap spec §4.3 requires ("at least
// 1000"). It bounds both the local-origin walk below and the high-
// precision grid-tree walk in propagate_high.go.
const MaxGridTreeDepth = 1000

// OriginPropagator recomputes every grid's LocalFloatingOrigin once per
// tick (spec §4.3).
type OriginPropagator[T Coord, E comparable] struct {
	Store  Store[T, E]
	Logger logrus.FieldLogger
}

// NewOriginPropagator constructs a propagator against the given Store,
// defaulting to the standard logger.
func NewOriginPropagator[T Coord, E comparable](s Store[T, E]) *OriginPropagator[T, E] {
	return &OriginPropagator[T, E]{Store: s, Logger: logrus.StandardLogger()}
}

// Propagate walks every BigSpace's grid tree, recomputing each grid's
// LocalFloatingOrigin. Degenerate hierarchies (missing/duplicate floating
// origin, cycles, excessive depth) are logged at error severity and
// skipped — this pass never panics the host (spec §4.3, §7).
func (p *OriginPropagator[T, E]) Propagate() {
	for _, root := range p.Store.BigSpaces() {
		p.propagateOne(root)
	}
}

func (p *OriginPropagator[T, E]) propagateOne(root E) {
	originEntity, ok := p.Store.FloatingOriginDescendant(root)
	if !ok {
		p.Logger.WithFields(logrus.Fields{"kind": KindConfiguration, "big_space": root}).Error("bigspace: big space has zero or multiple FloatingOrigin descendants; skipping propagation")
		return
	}
	originParent, ok := p.Store.ParentOf(originEntity)
	if !ok {
		p.Logger.WithFields(logrus.Fields{"kind": KindConfiguration, "floating_origin": originEntity}).Error("bigspace: floating origin has no parent; skipping propagation")
		return
	}
	originGrid, ok := p.Store.Grid(originParent)
	if !ok {
		p.Logger.WithFields(logrus.Fields{"kind": KindConfiguration, "floating_origin": originEntity}).Error("bigspace: floating origin's parent does not carry a Grid; skipping propagation")
		return
	}
	originCell, ok := p.Store.Cell(originEntity)
	if !ok {
		p.Logger.WithFields(logrus.Fields{"kind": KindConfiguration, "floating_origin": originEntity}).Error("bigspace: floating origin has no GridCell; skipping propagation")
		return
	}

	// Step 2: initialize the origin's own grid.
	before := originGrid.LocalOrigin()
	lo := LocalFloatingOrigin[T]{
		Cell:     originCell,
		Rotation: mgl64.QuatIdent(),
	}
	lo.recomputeView()
	lo.Unchanged = before.equalBitwise(lo)
	originGrid.SetLocalOrigin(lo)

	visited := map[E]bool{originParent: true}
	queue := []E{originParent}
	depth := 0

	for len(queue) > 0 {
		depth++
		if depth > MaxGridTreeDepth {
			p.Logger.WithFields(logrus.Fields{"kind": KindDegenerateHierarchy, "big_space": root}).Error("bigspace: grid tree depth exceeded during local-origin propagation; aborting walk")
			return
		}
		cur := queue[0]
		queue = queue[1:]

		if parent, ok := p.Store.ParentOf(cur); ok {
			if parentGrid, ok := p.Store.Grid(parent); ok && !visited[parent] {
				p.propagateUp(cur, parent)
				visited[parent] = true
				queue = append(queue, parent)
				_ = parentGrid
			}
			// Siblings of cur, reached via their shared parent.
			if _, ok := p.Store.Grid(parent); ok {
				for _, sib := range p.Store.ChildrenOf(parent) {
					if sib == cur || visited[sib] {
						continue
					}
					if _, ok := p.Store.Grid(sib); !ok {
						continue
					}
					p.propagateDown(parent, sib)
					visited[sib] = true
					queue = append(queue, sib)
				}
			}
		}

		for _, child := range p.Store.ChildrenOf(cur) {
			if visited[child] {
				continue
			}
			if _, ok := p.Store.Grid(child); !ok {
				continue
			}
			p.propagateDown(cur, child)
			visited[child] = true
			queue = append(queue, child)
		}
	}
}

// propagateDown computes childGrid's LocalFloatingOrigin from parentGrid's,
// given the child grid entity's own cell+transform within the parent grid
// (spec §4.3 "Down").
func (p *OriginPropagator[T, E]) propagateDown(parent, child E) {
	parentGrid, _ := p.Store.Grid(parent)
	childGrid, _ := p.Store.Grid(child)
	parentOrigin := parentGrid.LocalOrigin()

	childCell, _ := p.Store.Cell(child)
	childTransform := p.Store.Transform(child)

	edge := float64(parentGrid.CellEdgeLength())
	cellDelta := parentOrigin.Cell.Sub(childCell)
	originInChildLocal := mgl64.Vec3{
		float64(cellDelta.X) * edge,
		float64(cellDelta.Y) * edge,
		float64(cellDelta.Z) * edge,
	}.Add(mgl64.Vec3{float64(parentOrigin.Translation[0]), float64(parentOrigin.Translation[1]), float64(parentOrigin.Translation[2])})

	originAffine := Affine3d{Rotation: parentOrigin.Rotation, Translation: originInChildLocal}

	childLocalAffine := Affine3d{
		Rotation:    quatFromAffine3f(childTransform),
		Translation: mgl64.Vec3{float64(childTransform.Translation[0]), float64(childTransform.Translation[1]), float64(childTransform.Translation[2])},
	}
	result := childLocalAffine.Inverse().Compose(originAffine)

	p.commit(childGrid, result)
}

// propagateUp computes parentGrid's LocalFloatingOrigin from childGrid's,
// the symmetric inverse of propagateDown (spec §4.3 "Up").
func (p *OriginPropagator[T, E]) propagateUp(child, parent E) {
	childGrid, _ := p.Store.Grid(child)
	parentGrid, _ := p.Store.Grid(parent)
	childOrigin := childGrid.LocalOrigin()

	childCell, _ := p.Store.Cell(child)
	childTransform := p.Store.Transform(child)

	childLocalAffine := Affine3d{
		Rotation:    quatFromAffine3f(childTransform),
		Translation: mgl64.Vec3{float64(childTransform.Translation[0]), float64(childTransform.Translation[1]), float64(childTransform.Translation[2])},
	}
	edge := float64(childGrid.CellEdgeLength())
	childOriginAffine := Affine3d{
		Rotation: childOrigin.Rotation,
		Translation: mgl64.Vec3{
			float64(childOrigin.Cell.X) * edge,
			float64(childOrigin.Cell.Y) * edge,
			float64(childOrigin.Cell.Z) * edge,
		}.Add(mgl64.Vec3{float64(childOrigin.Translation[0]), float64(childOrigin.Translation[1]), float64(childOrigin.Translation[2])}),
	}
	result := childLocalAffine.Compose(childOriginAffine)
	parentEdge := float64(parentGrid.CellEdgeLength())
	result.Translation = result.Translation.Add(mgl64.Vec3{
		float64(childCell.X) * parentEdge,
		float64(childCell.Y) * parentEdge,
		float64(childCell.Z) * parentEdge,
	})
	p.commit(parentGrid, result)
}

// commit decomposes result into (rotation, translation), quantizes the
// translation into grid via §4.1, and writes the grid's LocalFloatingOrigin.
func (p *OriginPropagator[T, E]) commit(grid *Grid[T], result Affine3d) {
	before := grid.LocalOrigin()
	delta, offset := PositionToCellOffset(result.Translation, grid.CellEdgeLength(), grid.SwitchThreshold())
	next := LocalFloatingOrigin[T]{
		Cell:        ZeroCell[T]().AddDelta(delta.X, delta.Y, delta.Z),
		Translation: offset,
		Rotation:    result.Rotation,
	}
	next.recomputeView()
	next.Unchanged = before.equalBitwise(next)
	grid.SetLocalOrigin(next)
}

// quatFromAffine3f extracts a double-precision quaternion from a single-
// precision local transform's rotation.
func quatFromAffine3f(t Affine3f) mgl64.Quat {
	return mgl64.Quat{
		W: float64(t.Rotation.W),
		V: mgl64.Vec3{float64(t.Rotation.V[0]), float64(t.Rotation.V[1]), float64(t.Rotation.V[2])},
	}
}
