package bigspace

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/go-gl/mathgl/mgl32"
)

// CellDelta is an ordinary (non-wrapping) int64 triple describing how many
// cells to step, in each axis, to relocate a position. It is added to a
// Cell[T] via Cell.AddDelta, where the wraparound happens.
type CellDelta struct {
	X, Y, Z int64
}

// PositionToCellOffset converts a double-precision world-space position p,
// within a grid of the given cell edge length and switch threshold, into a
// cell-delta plus single-precision local offset (spec §4.1).
//
// Below the hysteresis threshold the position is reported relative to the
// zero cell as-is; otherwise each axis is independently rounded to the
// nearest cell using half-to-even rounding (see DESIGN.md Open Question 2),
// and the remainder becomes the offset.
func PositionToCellOffset(p mgl64.Vec3, cellEdgeLength, switchThreshold float32) (CellDelta, mgl32.Vec3) {
	m := math.Max(math.Abs(p.X()), math.Max(math.Abs(p.Y()), math.Abs(p.Z())))
	if m < float64(switchThreshold) {
		return CellDelta{}, mgl32.Vec3{float32(p.X()), float32(p.Y()), float32(p.Z())}
	}
	l := float64(cellEdgeLength)
	cx := math.RoundToEven(p.X() / l)
	cy := math.RoundToEven(p.Y() / l)
	cz := math.RoundToEven(p.Z() / l)
	ox := p.X() - cx*l
	oy := p.Y() - cy*l
	oz := p.Z() - cz*l
	return CellDelta{int64(cx), int64(cy), int64(cz)}, mgl32.Vec3{float32(ox), float32(oy), float32(oz)}
}

// MaxLocalOffset returns cellEdgeLength/2 + switchThreshold, the hysteresis
// band outer edge beyond which a transform triggers recentering (spec §3,
// §4.1).
func MaxLocalOffset(cellEdgeLength, switchThreshold float32) float32 {
	return cellEdgeLength/2 + switchThreshold
}

// NeedsRecenter reports whether a local translation has left the bounds of
// its cell and must be recentered. The comparison is strict: a value
// exactly at MaxLocalOffset is not recentered (spec invariant 9).
func NeedsRecenter(translation mgl32.Vec3, cellEdgeLength, switchThreshold float32) bool {
	max := MaxLocalOffset(cellEdgeLength, switchThreshold)
	abs := func(v float32) float32 {
		if v < 0 {
			return -v
		}
		return v
	}
	return abs(translation.X()) > max || abs(translation.Y()) > max || abs(translation.Z()) > max
}

// Recenter computes the cell delta and new local offset for a translation
// that has triggered NeedsRecenter, applying the §4.1 conversion rule to
// the offset alone (not the cell's absolute position — the delta is
// relative). Callers commit the result via Cell.AddDelta and by replacing
// the entity's local translation.
//
// Recenter is idempotent: calling it again on its own output (which, by
// construction, satisfies |offset| <= cellEdgeLength/2) returns a zero
// delta and the same offset unchanged, because 0 < switchThreshold is not
// required for the magnitude check — the hysteresis hand-off is owned by
// NeedsRecenter, not by Recenter itself.
func Recenter(translation mgl32.Vec3, cellEdgeLength, switchThreshold float32) (CellDelta, mgl32.Vec3) {
	p := mgl64.Vec3{float64(translation.X()), float64(translation.Y()), float64(translation.Z())}
	return PositionToCellOffset(p, cellEdgeLength, switchThreshold)
}
