package ecs

import (
	"github.com/yohamta/donburi"

	"github.com/phanxgames/bigspace"
)

// coordT is the cell precision this bridge instantiates the generic core
// with. The core itself is generic over bigspace.Coord; a host that needs
// a different precision can copy this file and swap the type.
type coordT = int32

// Cell holds a cell-carrying entity's GridCell (spec §3).
var Cell = donburi.NewComponentType[bigspace.Cell[coordT]]()

// Transform holds an entity's local transform, relative to its cell's
// centre (spec §3).
var Transform = donburi.NewComponentType[bigspace.Affine3f]()

// GlobalTransform holds the single-precision affine computed by
// propagation, ready for rendering (spec §3).
var GlobalTransform = donburi.NewComponentType[bigspace.Affine3f]()

// Grid marks an entity as a grid node and holds its parameters (spec §3).
var Grid = donburi.NewComponentType[*bigspace.Grid[coordT]]()

// BigSpace marks the root of an independent high-precision hierarchy
// (spec §3).
var BigSpace = donburi.NewComponentType[struct{}]()

// FloatingOrigin marks the entity whose cell defines the rendering origin
// for its big space (spec §3).
var FloatingOrigin = donburi.NewComponentType[struct{}]()

// Stationary marks an entity whose cell and local transform never change
// after initialization (spec §3, §4.8).
var Stationary = donburi.NewComponentType[struct{}]()

// stationaryComputed is the private marker tracking whether a stationary
// entity's global transform has been computed at least once (spec §3).
var stationaryComputed = donburi.NewComponentType[struct{}]()

// GridDirtyTick is the per-grid dirty-tick stamp maintained by the
// stationary-pruning pre-pass (spec §4.8).
var GridDirtyTick = donburi.NewComponentType[bigspace.Tick]()

// lowPrecisionRoot is the private marker applied by the low-precision
// tagging sweep (spec §4.5).
var lowPrecisionRoot = donburi.NewComponentType[struct{}]()

// parentComponent holds an entity's parent, the Go analogue of bevy's
// ChildOf relationship (spec SPEC_FULL.md §2).
var parentComponent = donburi.NewComponentType[donburi.Entity]()
