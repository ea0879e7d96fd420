package ecs

import (
	"github.com/yohamta/donburi"

	"github.com/phanxgames/bigspace"
)

// SpawnBigSpace creates a new BigSpace root carrying grid.
func (p *Plugin) SpawnBigSpace(grid *bigspace.Grid[coordT]) donburi.Entity {
	e := p.world.Create(BigSpace, Grid, GlobalTransform)
	entry := p.world.Entry(e)
	Grid.SetValue(entry, grid)
	GlobalTransform.SetValue(entry, bigspace.IdentityAffine3f())
	return e
}

// SpawnGrid creates a cell-carrying entity under parent that is itself a
// grid node, wiring the parent relation through SetParent.
func (p *Plugin) SpawnGrid(parent donburi.Entity, grid *bigspace.Grid[coordT], cell bigspace.Cell[coordT], transform bigspace.Affine3f) donburi.Entity {
	e := p.world.Create(Cell, Transform, GlobalTransform, Grid)
	entry := p.world.Entry(e)
	Cell.SetValue(entry, cell)
	Transform.SetValue(entry, transform)
	GlobalTransform.SetValue(entry, bigspace.IdentityAffine3f())
	Grid.SetValue(entry, grid)
	p.SetParent(e, parent)
	p.changedCells[e] = struct{}{}
	p.changedTransforms[e] = struct{}{}
	return e
}

// SpawnCellEntity creates a cell-carrying leaf entity under parent (a
// grid or a grid-carrying entity).
func (p *Plugin) SpawnCellEntity(parent donburi.Entity, cell bigspace.Cell[coordT], transform bigspace.Affine3f) donburi.Entity {
	e := p.world.Create(Cell, Transform, GlobalTransform)
	entry := p.world.Entry(e)
	Cell.SetValue(entry, cell)
	Transform.SetValue(entry, transform)
	GlobalTransform.SetValue(entry, bigspace.IdentityAffine3f())
	p.SetParent(e, parent)
	p.changedCells[e] = struct{}{}
	p.changedTransforms[e] = struct{}{}
	return e
}

// SpawnLowPrecisionChild creates a Transform-only entity under parent
// (no GridCell), eligible for low-precision-root tagging (spec §4.5).
func (p *Plugin) SpawnLowPrecisionChild(parent donburi.Entity, transform bigspace.Affine3f) donburi.Entity {
	e := p.world.Create(Transform, GlobalTransform)
	entry := p.world.Entry(e)
	Transform.SetValue(entry, transform)
	GlobalTransform.SetValue(entry, bigspace.IdentityAffine3f())
	p.SetParent(e, parent)
	p.changedTransforms[e] = struct{}{}
	return e
}

// MarkFloatingOrigin tags e as the floating origin of its big space.
func (p *Plugin) MarkFloatingOrigin(e donburi.Entity) {
	entry := p.world.Entry(e)
	if !entry.HasComponent(FloatingOrigin) {
		entry.AddComponent(FloatingOrigin)
	}
}

// MarkStationary tags e as stationary (spec §3, §4.8).
func (p *Plugin) MarkStationary(e donburi.Entity) {
	entry := p.world.Entry(e)
	if !entry.HasComponent(Stationary) {
		entry.AddComponent(Stationary)
	}
}

// Despawn removes e from the world.
func (p *Plugin) Despawn(e donburi.Entity) {
	if parent, ok := p.ParentOf(e); ok {
		p.removeChild(parent, e)
	}
	delete(p.children, e)
	p.world.Entry(e).Remove()
}
