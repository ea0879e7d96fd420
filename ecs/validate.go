package ecs

import (
	"github.com/phanxgames/bigspace"
	"github.com/yohamta/donburi"
)

// Validate runs bigspace.ValidateHierarchy against plugin's world. Never
// called by Tick; callers wire it into startup or tests as they see fit
// (spec §6 "Startup validation... optional").
func Validate(plugin *Plugin) []string {
	return bigspace.ValidateHierarchy[coordT, donburi.Entity](plugin)
}
