package ecs

import "github.com/yohamta/donburi"

// Grids navigates grid ancestry without mutating anything, the Go
// analogue of the original's Grids/GridsMut system parameters named in
// spec §6 (SPEC_FULL.md §9, supplemented feature 3).
type Grids struct {
	plugin *Plugin
}

// NewGrids constructs a Grids helper over plugin.
func NewGrids(plugin *Plugin) Grids {
	return Grids{plugin: plugin}
}

// Root walks e's parent chain and returns the BigSpace root it descends
// from, if any.
func (g Grids) Root(e donburi.Entity) (donburi.Entity, bool) {
	cur := e
	for depth := 0; depth < 1000; depth++ {
		entry := g.plugin.world.Entry(cur)
		if entry.HasComponent(BigSpace) {
			return cur, true
		}
		parent, ok := g.plugin.ParentOf(cur)
		if !ok {
			return donburi.Entity(0), false
		}
		cur = parent
	}
	return donburi.Entity(0), false
}

// Ancestors returns every grid entity on the path from e up to (and
// including) its BigSpace root, nearest first.
func (g Grids) Ancestors(e donburi.Entity) []donburi.Entity {
	var out []donburi.Entity
	cur := e
	for depth := 0; depth < 1000; depth++ {
		parent, ok := g.plugin.ParentOf(cur)
		if !ok {
			return out
		}
		if _, isGrid := g.plugin.Grid(parent); isGrid {
			out = append(out, parent)
		}
		if g.plugin.world.Entry(parent).HasComponent(BigSpace) {
			return out
		}
		cur = parent
	}
	return out
}
