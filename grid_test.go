package bigspace

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestNewGridDefaults(t *testing.T) {
	g := NewGrid[int32](10, 1)
	if g.CellEdgeLength() != 10 {
		t.Fatalf("CellEdgeLength = %v, want 10", g.CellEdgeLength())
	}
	if g.SwitchThreshold() != 1 {
		t.Fatalf("SwitchThreshold = %v, want 1", g.SwitchThreshold())
	}
	origin := g.LocalOrigin()
	if origin.Cell != (Cell[int32]{}) {
		t.Fatalf("fresh grid's local origin cell = %+v, want zero", origin.Cell)
	}
}

func TestGridTranslationToGridRoundTrip(t *testing.T) {
	g := NewGrid[int32](10, 1)
	cell, offset := g.TranslationToGrid(mgl64.Vec3{25, 0, 0})
	pos := g.PositionDouble(cell, Affine3f{Translation: [3]float32{offset.X(), offset.Y(), offset.Z()}})
	if d := pos.X() - 25; d > 1e-5 || d < -1e-5 {
		t.Fatalf("round trip through TranslationToGrid/PositionDouble drifted: got %v, want 25", pos.X())
	}
}

func TestGridGlobalTransformAtOrigin(t *testing.T) {
	g := NewGrid[int32](10, 1)
	global := g.GlobalTransform(ZeroCell[int32](), IdentityAffine3f())
	if global.Translation != ([3]float32{0, 0, 0}) {
		t.Fatalf("GlobalTransform at the origin cell with identity local transform = %+v, want zero translation", global.Translation)
	}
}

func TestGridGlobalTransformOffsetByCellDelta(t *testing.T) {
	g := NewGrid[int32](10, 1)
	// Move the floating origin to cell (1,0,0); an entity still at cell
	// (0,0,0) should now read as being at x=-10 in the grid's view.
	g.SetLocalOrigin(LocalFloatingOrigin[int32]{Cell: Cell[int32]{X: 1}, Rotation: mgl64.QuatIdent()})
	lo := g.LocalOrigin()
	lo.recomputeView()
	g.SetLocalOrigin(lo)

	global := g.GlobalTransform(ZeroCell[int32](), IdentityAffine3f())
	if global.Translation.X() != -10 {
		t.Fatalf("GlobalTransform.Translation.X = %v, want -10", global.Translation.X())
	}
}
