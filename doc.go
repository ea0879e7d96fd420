// Package bigspace implements a floating-origin spatial engine: a
// numerically-precise coordinate system for worlds whose extents exceed
// the representable range of 32-bit floating point.
//
// Positions are represented as an integer cell index plus a small-magnitude
// single-precision local offset. Cells are organized into a hierarchy of
// nestable grids, and a single observer-relative "floating origin" transform
// is computed once per tick so that the world is always rendered relative
// to a point near the camera.
//
// This package is host-agnostic: it has no dependency on any particular
// ECS. Every type that needs entity identity is generic over a comparable
// entity-id type parameter E. See the ecs subpackage for a concrete
// binding to github.com/yohamta/donburi.
package bigspace
