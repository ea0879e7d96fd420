package bigspace

import "math/bits"

// Coord constrains the integer precision used for a Cell's components.
// Implementations are chosen at compile time by instantiating Cell[T] (or
// a host package built on top of it) with a concrete integer type: int8,
// int16, int32, or int64. 128-bit precision is not expressible as a Go
// integer constraint and is served separately by Cell128.
type Coord interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// Cell is an integer 3-vector naming one cubic region of a grid's uniform
// lattice. Arithmetic wraps (two's complement overflow), giving a toroidal
// address space: MaxCell[T]().Add(OneCell[T]()) == MinCell[T]() componentwise.
type Cell[T Coord] struct {
	X, Y, Z T
}

// ZeroCell returns the cell at the origin of its grid's lattice.
func ZeroCell[T Coord]() Cell[T] { return Cell[T]{} }

// OneCell returns the unit cell, useful as a componentwise offset.
func OneCell[T Coord]() Cell[T] { return Cell[T]{1, 1, 1} }

// MaxCell returns the maximum representable cell for precision T.
func MaxCell[T Coord]() Cell[T] {
	m := maxOf[T]()
	return Cell[T]{m, m, m}
}

// MinCell returns the minimum representable cell for precision T.
func MinCell[T Coord]() Cell[T] {
	m := minOf[T]()
	return Cell[T]{m, m, m}
}

func maxOf[T Coord]() T {
	var zero T
	var m int64
	switch any(zero).(type) {
	case int8:
		m = 1<<7 - 1
	case int16:
		m = 1<<15 - 1
	case int32:
		m = 1<<31 - 1
	default:
		m = 1<<63 - 1
	}
	return T(m)
}

func minOf[T Coord]() T {
	var zero T
	var m int64
	switch any(zero).(type) {
	case int8:
		m = -1 << 7
	case int16:
		m = -1 << 15
	case int32:
		m = -1 << 31
	default:
		m = -1 << 63
	}
	return T(m)
}

// Add returns the wrapping sum of two cells. Go's fixed-width signed
// integer arithmetic is defined to wrap on overflow (two's complement),
// so this is ordinary '+'.
func (c Cell[T]) Add(o Cell[T]) Cell[T] {
	return Cell[T]{c.X + o.X, c.Y + o.Y, c.Z + o.Z}
}

// Sub returns the wrapping difference of two cells.
func (c Cell[T]) Sub(o Cell[T]) Cell[T] {
	return Cell[T]{c.X - o.X, c.Y - o.Y, c.Z - o.Z}
}

// AddDelta wraps-adds an ordinary int64 triple (e.g. the output of a
// position-to-cell conversion) to c.
func (c Cell[T]) AddDelta(dx, dy, dz int64) Cell[T] {
	return Cell[T]{c.X + T(dx), c.Y + T(dy), c.Z + T(dz)}
}

// AddI32 adds an ordinary 32-bit integer triple to c, wrapping.
func (c Cell[T]) AddI32(dx, dy, dz int32) Cell[T] {
	return Cell[T]{c.X + T(dx), c.Y + T(dy), c.Z + T(dz)}
}

// SubI32 subtracts an ordinary 32-bit integer triple from c, wrapping.
func (c Cell[T]) SubI32(dx, dy, dz int32) Cell[T] {
	return Cell[T]{c.X - T(dx), c.Y - T(dy), c.Z - T(dz)}
}

// Min returns the componentwise minimum of two cells.
func (c Cell[T]) Min(o Cell[T]) Cell[T] {
	return Cell[T]{minT(c.X, o.X), minT(c.Y, o.Y), minT(c.Z, o.Z)}
}

// Max returns the componentwise maximum of two cells.
func (c Cell[T]) Max(o Cell[T]) Cell[T] {
	return Cell[T]{maxT(c.X, o.X), maxT(c.Y, o.Y), maxT(c.Z, o.Z)}
}

func minT[T Coord](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func maxT[T Coord](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// ChebyshevDistance returns max(|dx|, |dy|, |dz|) between two cells,
// computed in int64 to avoid overflow when differencing near the bounds
// of T.
func ChebyshevDistance[T Coord](a, b Cell[T]) int64 {
	dx := absI64(int64(a.X) - int64(b.X))
	dy := absI64(int64(a.Y) - int64(b.Y))
	dz := absI64(int64(a.Z) - int64(b.Z))
	m := dx
	if dy > m {
		m = dy
	}
	if dz > m {
		m = dz
	}
	return m
}

func absI64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// Adjacent26 reports whether a and b are 26-adjacent: they differ by at
// most 1 in each coordinate, excluding the identity.
func Adjacent26[T Coord](a, b Cell[T]) bool {
	if a == b {
		return false
	}
	return ChebyshevDistance(a, b) <= 1
}

// Neighbors26 returns the 26 cells adjacent to c (excluding c itself).
func Neighbors26[T Coord](c Cell[T]) [26]Cell[T] {
	var out [26]Cell[T]
	i := 0
	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				out[i] = c.AddI32(int32(dx), int32(dy), int32(dz))
				i++
			}
		}
	}
	return out
}

// Int128 is a 128-bit signed integer represented as a (hi, lo) pair in
// two's complement, used by Cell128 for the 128-bit cell precision option
// named in spec §3. Go's generic ~intN constraints cannot express 128-bit
// width, so this precision is served by a dedicated, non-generic type
// rather than folded into Cell[T].
type Int128 struct {
	Hi int64
	Lo uint64
}

// AddWrap returns a+b, wrapping silently on overflow (two's complement),
// matching Cell's wraparound semantics for the other precisions.
func (a Int128) AddWrap(b Int128) Int128 {
	lo, carry := bits.Add64(a.Lo, b.Lo, 0)
	hi := a.Hi + b.Hi + int64(carry)
	return Int128{Hi: hi, Lo: lo}
}

// SubWrap returns a-b, wrapping silently on overflow.
func (a Int128) SubWrap(b Int128) Int128 {
	lo, borrow := bits.Sub64(a.Lo, b.Lo, 0)
	hi := a.Hi - b.Hi - int64(borrow)
	return Int128{Hi: hi, Lo: lo}
}

// Cmp returns -1, 0, or 1 as a is less than, equal to, or greater than b,
// treating the pair as a signed two's complement 128-bit integer.
func (a Int128) Cmp(b Int128) int {
	if a.Hi != b.Hi {
		if a.Hi < b.Hi {
			return -1
		}
		return 1
	}
	if a.Lo != b.Lo {
		if a.Lo < b.Lo {
			return -1
		}
		return 1
	}
	return 0
}

// Cell128 is the 128-bit-precision analogue of Cell[T].
type Cell128 struct {
	X, Y, Z Int128
}

// ZeroCell128 is the origin cell.
var ZeroCell128 = Cell128{}

// OneCell128 is the unit cell.
var OneCell128 = Cell128{X: Int128{Lo: 1}, Y: Int128{Lo: 1}, Z: Int128{Lo: 1}}

// Add returns the wrapping sum of two 128-bit cells.
func (c Cell128) Add(o Cell128) Cell128 {
	return Cell128{c.X.AddWrap(o.X), c.Y.AddWrap(o.Y), c.Z.AddWrap(o.Z)}
}

// Sub returns the wrapping difference of two 128-bit cells.
func (c Cell128) Sub(o Cell128) Cell128 {
	return Cell128{c.X.SubWrap(o.X), c.Y.SubWrap(o.Y), c.Z.SubWrap(o.Z)}
}

func minI128(a, b Int128) Int128 {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

func maxI128(a, b Int128) Int128 {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// Min returns the componentwise minimum of two 128-bit cells.
func (c Cell128) Min(o Cell128) Cell128 {
	return Cell128{minI128(c.X, o.X), minI128(c.Y, o.Y), minI128(c.Z, o.Z)}
}

// Max returns the componentwise maximum of two 128-bit cells.
func (c Cell128) Max(o Cell128) Cell128 {
	return Cell128{maxI128(c.X, o.X), maxI128(c.Y, o.Y), maxI128(c.Z, o.Z)}
}
