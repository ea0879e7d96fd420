// Package ecs binds the host-agnostic bigspace core to
// github.com/yohamta/donburi. It declares the component types named in
// the core package's invariants, maintains the parent/children index and
// per-tick change-tracking sets donburi does not provide natively, and
// drives the nine-phase tick through [Plugin.Tick].
//
// Usage:
//
//	world := donburi.NewWorld()
//	plugin := ecs.NewPlugin(world, ecs.WithStationaryPruning(true))
//	...
//	plugin.Tick(thisRun, lastRun)
package ecs
