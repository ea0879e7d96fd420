package bigspace

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Grid holds the parameters of one node in the spatial hierarchy: the
// metric size of one cell, and the recentering hysteresis margin. Both are
// fixed at construction (spec §3: "parameters that never change after
// construction").
type Grid[T Coord] struct {
	cellEdgeLength  float32
	switchThreshold float32

	mu          sync.RWMutex
	localOrigin LocalFloatingOrigin[T]
}

// NewGrid constructs a Grid with the given cell edge length and switch
// threshold (spec §6: "configuration via Grid::new(cell_edge, switch_threshold)").
func NewGrid[T Coord](cellEdgeLength, switchThreshold float32) *Grid[T] {
	g := &Grid[T]{cellEdgeLength: cellEdgeLength, switchThreshold: switchThreshold}
	g.localOrigin = LocalFloatingOrigin[T]{Rotation: mgl64.QuatIdent()}
	g.localOrigin.recomputeView()
	return g
}

// CellEdgeLength returns the metric length of one cell edge.
func (g *Grid[T]) CellEdgeLength() float32 { return g.cellEdgeLength }

// SwitchThreshold returns the recentering hysteresis margin.
func (g *Grid[T]) SwitchThreshold() float32 { return g.switchThreshold }

// MaxLocalOffset returns cellEdgeLength/2 + switchThreshold.
func (g *Grid[T]) MaxLocalOffset() float32 {
	return MaxLocalOffset(g.cellEdgeLength, g.switchThreshold)
}

// LocalOrigin returns a copy of the grid's cached LocalFloatingOrigin.
func (g *Grid[T]) LocalOrigin() LocalFloatingOrigin[T] {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.localOrigin
}

// SetLocalOrigin overwrites the grid's cached LocalFloatingOrigin. Called
// only by the local-origin propagation pass (propagate_origin.go).
func (g *Grid[T]) SetLocalOrigin(o LocalFloatingOrigin[T]) {
	g.mu.Lock()
	g.localOrigin = o
	g.mu.Unlock()
}

// TranslationToGrid converts a double-precision world-space position into
// a cell delta (relative to ZERO) and single-precision local offset, using
// this grid's cell edge length and switch threshold.
func (g *Grid[T]) TranslationToGrid(p mgl64.Vec3) (Cell[T], mgl32.Vec3) {
	delta, offset := PositionToCellOffset(p, g.cellEdgeLength, g.switchThreshold)
	return ZeroCell[T]().AddDelta(delta.X, delta.Y, delta.Z), offset
}

// ImpreciseTranslationToGrid applies the same conversion to a single
// local offset that has left its cell bounds (the recentering path).
func (g *Grid[T]) ImpreciseTranslationToGrid(translation mgl32.Vec3) (CellDelta, mgl32.Vec3) {
	return Recenter(translation, g.cellEdgeLength, g.switchThreshold)
}

// Position returns the single-precision position of (cell, transform) in
// this grid's own frame (i.e. relative to ZERO, not the floating origin) —
// a debug/utility accessor (spec §4.2).
func (g *Grid[T]) Position(cell Cell[T], transform Affine3f) mgl32.Vec3 {
	d := g.PositionDouble(cell, transform)
	return mgl32.Vec3{float32(d.X()), float32(d.Y()), float32(d.Z())}
}

// PositionDouble is the double-precision counterpart of Position.
func (g *Grid[T]) PositionDouble(cell Cell[T], transform Affine3f) mgl64.Vec3 {
	edge := float64(g.cellEdgeLength)
	cellOffset := mgl64.Vec3{float64(cell.X) * edge, float64(cell.Y) * edge, float64(cell.Z) * edge}
	local := mgl64.Vec3{float64(transform.Translation[0]), float64(transform.Translation[1]), float64(transform.Translation[2])}
	return cellOffset.Add(local)
}

// GlobalTransform computes the single-precision global affine for an
// entity at the given cell with the given local transform, relative to
// this grid's cached floating origin (spec §4.2):
//
//  1. the grid's view transform (inverse of the origin's local position),
//  2. the double-precision offset between cell and the origin's cell,
//  3. the entity's own local transform,
//
// composed in that order and down-cast to single precision at the end.
func (g *Grid[T]) GlobalTransform(cell Cell[T], transform Affine3f) Affine3f {
	origin := g.LocalOrigin()
	edge := float64(g.cellEdgeLength)
	cellDelta := cell.Sub(origin.Cell)
	cellOffset := mgl64.Vec3{float64(cellDelta.X) * edge, float64(cellDelta.Y) * edge, float64(cellDelta.Z) * edge}
	offsetAffine := Affine3d{Rotation: mgl64.QuatIdent(), Translation: cellOffset}
	composed := origin.View.Compose(offsetAffine)
	single := composed.ToSingle()
	single.Scale = mgl32.Vec3{1, 1, 1}
	return single.Compose(transform)
}
