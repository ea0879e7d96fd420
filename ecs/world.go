package ecs

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"

	"github.com/phanxgames/bigspace"
)

// Config is the set of constructor options mapping to spec §6's
// "Configuration options that affect behaviour" table (cell precision
// and cell_edge_length/switch_threshold are per-Grid, not process-wide,
// and configured via bigspace.NewGrid instead).
type Config struct {
	StationaryPruning       bool
	PartitionChangeTracking bool
	TimingStats             bool
}

// Option configures a Plugin at construction, the functional-options
// idiom used for every library entry point in this module (SPEC_FULL.md
// §2.2).
type Option func(*Config)

// WithStationaryPruning enables the §4.8 dirty-tick subtree pruning pass.
func WithStationaryPruning(enabled bool) Option {
	return func(c *Config) { c.StationaryPruning = enabled }
}

// WithPartitionChangeTracking enables the optional per-entity partition
// delta log (spec §4.7).
func WithPartitionChangeTracking(enabled bool) Option {
	return func(c *Config) { c.PartitionChangeTracking = enabled }
}

// WithTimingStats enables per-phase duration recording.
func WithTimingStats(enabled bool) Option {
	return func(c *Config) { c.TimingStats = enabled }
}

var (
	bigSpaceQuery  = donburi.NewQuery(filter.Contains(BigSpace))
	cellQuery      = donburi.NewQuery(filter.Contains(Cell, Transform))
	transformQuery = donburi.NewQuery(filter.Contains(Transform))
)

// Plugin bridges the host-agnostic bigspace core to a donburi.World: it
// implements bigspace.Store[int32, donburi.Entity], maintains the
// parent/children index and per-tick change sets donburi does not track
// itself, and drives the nine-phase tick (SPEC_FULL.md §2).
type Plugin struct {
	world  donburi.World
	cfg    Config
	Logger logrus.FieldLogger

	children map[donburi.Entity][]donburi.Entity

	changedTransforms map[donburi.Entity]struct{}
	changedCells      map[donburi.Entity]struct{}
	changedParents    map[donburi.Entity]struct{}
	globalWritten     map[donburi.Entity]struct{}

	// globalMu guards SetGlobalTransform and globalWritten against the
	// concurrent fan-out LowPrecisionPropagator.Propagate runs one
	// goroutine per low-precision root (spec §6): without it, two roots
	// resolving in the same tick race both the globalWritten map and
	// donburi's archetype-structural AddComponent(GlobalTransform) call.
	globalMu sync.Mutex

	prevCellState map[donburi.Entity]cellKey

	CellLookup        *bigspace.CellLookup[coordT, donburi.Entity]
	PartitionLookup   *bigspace.PartitionLookup[coordT, donburi.Entity]
	PartitionEntities *bigspace.PartitionEntities[coordT, donburi.Entity]

	// Timings is the most recent tick's per-phase duration record (spec
	// §6 "timing stats enabled"); populated only when Config.TimingStats
	// is set.
	Timings bigspace.PhaseTimings
}

type cellKey struct {
	Parent donburi.Entity
	Cell   bigspace.Cell[coordT]
}

// NewPlugin constructs a Plugin bound to world.
func NewPlugin(world donburi.World, opts ...Option) *Plugin {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Plugin{
		world:             world,
		cfg:               cfg,
		Logger:            logrus.StandardLogger(),
		children:          make(map[donburi.Entity][]donburi.Entity),
		changedTransforms: make(map[donburi.Entity]struct{}),
		changedCells:      make(map[donburi.Entity]struct{}),
		changedParents:    make(map[donburi.Entity]struct{}),
		globalWritten:     make(map[donburi.Entity]struct{}),
		prevCellState:     make(map[donburi.Entity]cellKey),
		CellLookup:        bigspace.NewCellLookup[coordT, donburi.Entity](),
		PartitionLookup:   bigspace.NewPartitionLookup[coordT, donburi.Entity](),
		PartitionEntities: bigspace.NewPartitionEntities[coordT, donburi.Entity](),
	}
}

// WithLogger overrides the plugin's logger.
func (p *Plugin) WithLogger(l logrus.FieldLogger) *Plugin {
	p.Logger = l
	return p
}

// --- hierarchy maintenance ---

// SetParent establishes child's parent relation, maintaining the
// children index and marking child's parent-relation as changed this
// tick.
func (p *Plugin) SetParent(child, parent donburi.Entity) {
	entry := p.world.Entry(child)
	if entry.HasComponent(parentComponent) {
		old := *parentComponent.Get(entry)
		p.removeChild(old, child)
	}
	entry.AddComponent(parentComponent)
	parentComponent.SetValue(entry, parent)
	p.children[parent] = append(p.children[parent], child)
	p.changedParents[child] = struct{}{}
}

// RemoveParent detaches child from its parent, if any.
func (p *Plugin) RemoveParent(child donburi.Entity) {
	entry := p.world.Entry(child)
	if !entry.HasComponent(parentComponent) {
		return
	}
	old := *parentComponent.Get(entry)
	p.removeChild(old, child)
	entry.RemoveComponent(parentComponent)
	p.changedParents[child] = struct{}{}
}

func (p *Plugin) removeChild(parent, child donburi.Entity) {
	siblings := p.children[parent]
	for i, s := range siblings {
		if s == child {
			p.children[parent] = append(siblings[:i], siblings[i+1:]...)
			return
		}
	}
}

// --- bigspace.Store[coordT, donburi.Entity] ---

func (p *Plugin) BigSpaces() []donburi.Entity {
	var out []donburi.Entity
	bigSpaceQuery.Each(p.world, func(entry *donburi.Entry) {
		out = append(out, entry.Entity())
	})
	return out
}

func (p *Plugin) ParentOf(e donburi.Entity) (donburi.Entity, bool) {
	entry := p.world.Entry(e)
	if !entry.HasComponent(parentComponent) {
		return donburi.Entity(0), false
	}
	return *parentComponent.Get(entry), true
}

func (p *Plugin) ChildrenOf(e donburi.Entity) []donburi.Entity {
	return p.children[e]
}

func (p *Plugin) Grid(e donburi.Entity) (*bigspace.Grid[coordT], bool) {
	entry := p.world.Entry(e)
	if !entry.HasComponent(Grid) {
		return nil, false
	}
	return *Grid.Get(entry), true
}

func (p *Plugin) DirtyTick(e donburi.Entity) (uint32, bool) {
	entry := p.world.Entry(e)
	if !entry.HasComponent(GridDirtyTick) {
		return 0, false
	}
	return *GridDirtyTick.Get(entry), true
}

func (p *Plugin) SetDirtyTick(e donburi.Entity, tick uint32) {
	entry := p.world.Entry(e)
	if !entry.HasComponent(GridDirtyTick) {
		entry.AddComponent(GridDirtyTick)
	}
	GridDirtyTick.SetValue(entry, tick)
}

// FloatingOriginDescendant walks the subtree rooted at root and returns
// its single FloatingOrigin-tagged descendant (spec §4.3 invariant: zero
// or more than one is a configuration error).
func (p *Plugin) FloatingOriginDescendant(root donburi.Entity) (donburi.Entity, bool) {
	var found donburi.Entity
	count := 0
	var walk func(donburi.Entity, int)
	walk = func(e donburi.Entity, depth int) {
		if depth > bigspace.MaxGridTreeDepth {
			return
		}
		entry := p.world.Entry(e)
		if entry.HasComponent(FloatingOrigin) {
			found = e
			count++
		}
		for _, c := range p.children[e] {
			walk(c, depth+1)
		}
	}
	walk(root, 0)
	return found, count == 1
}

func (p *Plugin) Cell(e donburi.Entity) (bigspace.Cell[coordT], bool) {
	entry := p.world.Entry(e)
	if !entry.HasComponent(Cell) {
		return bigspace.Cell[coordT]{}, false
	}
	return *Cell.Get(entry), true
}

func (p *Plugin) SetCell(e donburi.Entity, c bigspace.Cell[coordT]) {
	entry := p.world.Entry(e)
	if !entry.HasComponent(Cell) {
		entry.AddComponent(Cell)
	}
	Cell.SetValue(entry, c)
	p.changedCells[e] = struct{}{}
}

func (p *Plugin) Transform(e donburi.Entity) bigspace.Affine3f {
	entry := p.world.Entry(e)
	return *Transform.Get(entry)
}

func (p *Plugin) SetTransform(e donburi.Entity, t bigspace.Affine3f) {
	entry := p.world.Entry(e)
	if !entry.HasComponent(Transform) {
		entry.AddComponent(Transform)
	}
	Transform.SetValue(entry, t)
	p.changedTransforms[e] = struct{}{}
}

func (p *Plugin) GlobalTransform(e donburi.Entity) bigspace.Affine3f {
	entry := p.world.Entry(e)
	if !entry.HasComponent(GlobalTransform) {
		return bigspace.IdentityAffine3f()
	}
	return *GlobalTransform.Get(entry)
}

func (p *Plugin) SetGlobalTransform(e donburi.Entity, g bigspace.Affine3f) {
	p.globalMu.Lock()
	defer p.globalMu.Unlock()

	entry := p.world.Entry(e)
	if !entry.HasComponent(GlobalTransform) {
		entry.AddComponent(GlobalTransform)
	}
	GlobalTransform.SetValue(entry, g)
	p.globalWritten[e] = struct{}{}
}

func (p *Plugin) IsStationary(e donburi.Entity) bool {
	return p.world.Entry(e).HasComponent(Stationary)
}

func (p *Plugin) HasStationaryComputed(e donburi.Entity) bool {
	return p.world.Entry(e).HasComponent(stationaryComputed)
}

func (p *Plugin) SetStationaryComputed(e donburi.Entity) {
	entry := p.world.Entry(e)
	if !entry.HasComponent(stationaryComputed) {
		entry.AddComponent(stationaryComputed)
	}
}

func (p *Plugin) TransformChanged(e donburi.Entity) bool {
	_, ok := p.changedTransforms[e]
	return ok
}

func (p *Plugin) CellChanged(e donburi.Entity) bool {
	_, ok := p.changedCells[e]
	return ok
}

func (p *Plugin) ParentChanged(e donburi.Entity) bool {
	_, ok := p.changedParents[e]
	return ok
}

func (p *Plugin) HasTransform(e donburi.Entity) bool {
	return p.world.Entry(e).HasComponent(Transform)
}

func (p *Plugin) IsLowPrecisionRoot(e donburi.Entity) bool {
	return p.world.Entry(e).HasComponent(lowPrecisionRoot)
}

func (p *Plugin) SetLowPrecisionRoot(e donburi.Entity, isRoot bool) {
	entry := p.world.Entry(e)
	has := entry.HasComponent(lowPrecisionRoot)
	switch {
	case isRoot && !has:
		entry.AddComponent(lowPrecisionRoot)
	case !isRoot && has:
		entry.RemoveComponent(lowPrecisionRoot)
	}
}

// --- tick driver ---

// Tick runs the nine-phase update in the order SPEC_FULL.md §2 specifies,
// with the mark-dirty pre-pass placed after local-origin propagation and
// before high-precision propagation per spec §4.8's more detailed
// ordering constraint (resolving the apparent conflict with spec §2's
// summary list; see DESIGN.md).
func (p *Plugin) Tick(thisRun, lastRun bigspace.Tick) {
	var timings bigspace.PhaseTimings
	timed := func(dst *time.Duration, fn func()) {
		if !p.cfg.TimingStats {
			fn()
			return
		}
		start := time.Now()
		fn()
		*dst = time.Now().Sub(start)
	}

	clear(p.globalWritten)

	timed(&timings.Recenter, p.phaseRecenter)
	timed(&timings.LocalOriginPropagation, func() {
		op := bigspace.NewOriginPropagator[coordT, donburi.Entity](p)
		op.Logger = p.Logger
		op.Propagate()
	})

	if p.cfg.StationaryPruning {
		timed(&timings.MarkDirty, func() { p.phaseMarkDirty(thisRun) })
	}

	timed(&timings.HighPrecisionPropagation, func() {
		hp := bigspace.NewHighPrecisionPropagator[coordT, donburi.Entity](p)
		hp.ThisRun, hp.LastRun = thisRun, lastRun
		hp.Logger = p.Logger
		hp.Propagate()
	})

	lp := bigspace.NewLowPrecisionPropagator[coordT, donburi.Entity](p)
	lp.Logger = p.Logger
	timed(&timings.LowPrecisionRootTagging, func() {
		lp.TagSweep(p.lowPrecisionCandidates())
	})
	timed(&timings.LowPrecisionPropagation, func() {
		lp.Propagate(p.lowPrecisionRoots(), p.parentGlobalChanged())
	})

	timed(&timings.HashUpdate, p.phaseHashUpdate)
	timed(&timings.PartitionUpdate, func() { p.PartitionLookup.Tick(p.CellLookup) })

	if p.cfg.PartitionChangeTracking {
		timed(&timings.PartitionChangeUpdate, func() {
			p.PartitionEntities.Update(p.CellLookup, p.PartitionLookup)
		})
	}

	// Cleared last, once every consumer (HighPrecisionPropagation's
	// TransformChanged/CellChanged/ParentChanged, phaseMarkDirty,
	// lowPrecisionCandidates/parentGlobalChanged) has had a chance to read
	// this tick's accumulated changes. Clearing them up front would erase
	// changes the host made between the previous Tick and this one -
	// including every freshly spawned entity's own initial change flags -
	// before this tick's propagation ever saw them.
	clear(p.changedTransforms)
	clear(p.changedCells)
	clear(p.changedParents)

	if p.cfg.TimingStats {
		p.Timings = timings
	}
}

func (p *Plugin) phaseRecenter() {
	cellQuery.Each(p.world, func(entry *donburi.Entry) {
		e := entry.Entity()
		cell := *Cell.Get(entry)
		transform := *Transform.Get(entry)

		parent, ok := p.ParentOf(e)
		if !ok {
			return
		}
		grid, ok := p.Grid(parent)
		if !ok {
			return
		}
		if !bigspace.NeedsRecenter(transform.Translation, grid.CellEdgeLength(), grid.SwitchThreshold()) {
			return
		}
		delta, offset := grid.ImpreciseTranslationToGrid(transform.Translation)
		newCell := cell.AddDelta(delta.X, delta.Y, delta.Z)
		transform.Translation = offset
		p.SetCell(e, newCell)
		p.SetTransform(e, transform)
	})
}

func (p *Plugin) phaseMarkDirty(thisRun bigspace.Tick) {
	// Every grid carries a GridDirtyTick while pruning is enabled; a grid
	// seen for the first time is stamped dirty so its subtree is visited.
	var fresh []donburi.Entity
	donburi.NewQuery(filter.Contains(Grid)).Each(p.world, func(entry *donburi.Entry) {
		if !entry.HasComponent(GridDirtyTick) {
			fresh = append(fresh, entry.Entity())
		}
	})
	for _, e := range fresh {
		p.SetDirtyTick(e, thisRun)
	}

	pruner := bigspace.NewStationaryPruner[coordT, donburi.Entity](p)
	var changed []donburi.Entity
	seen := make(map[donburi.Entity]struct{})
	collect := func(set map[donburi.Entity]struct{}) {
		for e := range set {
			if _, done := seen[e]; done {
				continue
			}
			if _, hasCell := p.Cell(e); !hasCell {
				continue
			}
			if p.IsStationary(e) {
				continue
			}
			seen[e] = struct{}{}
			changed = append(changed, e)
		}
	}
	collect(p.changedTransforms)
	collect(p.changedCells)
	collect(p.changedParents)
	pruner.MarkDirty(changed, thisRun)
}

// lowPrecisionCandidates returns every entity that might need
// (re)tagging: spec §4.5 names newly spawned entities, parent-changed
// entities, and cell-gain/loss, which in this bridge are all entities
// carrying a Transform (the sweep itself is idempotent and cheap, so
// evaluating every Transform-bearing entity each tick is a correct, if
// not maximally incremental, implementation of the same sweep).
func (p *Plugin) lowPrecisionCandidates() []donburi.Entity {
	var out []donburi.Entity
	transformQuery.Each(p.world, func(entry *donburi.Entry) {
		out = append(out, entry.Entity())
	})
	return out
}

func (p *Plugin) lowPrecisionRoots() []donburi.Entity {
	var out []donburi.Entity
	transformQuery.Each(p.world, func(entry *donburi.Entry) {
		if entry.HasComponent(lowPrecisionRoot) {
			out = append(out, entry.Entity())
		}
	})
	return out
}

func (p *Plugin) parentGlobalChanged() map[donburi.Entity]bool {
	out := make(map[donburi.Entity]bool, len(p.globalWritten))
	for e := range p.globalWritten {
		out[e] = true
	}
	return out
}

func (p *Plugin) phaseHashUpdate() {
	p.CellLookup.BeginTick()

	live := make(map[donburi.Entity]struct{})
	cellQuery.Each(p.world, func(entry *donburi.Entry) {
		e := entry.Entity()
		live[e] = struct{}{}
		parent, _ := p.ParentOf(e)
		cell := *Cell.Get(entry)
		newKey := cellKey{Parent: parent, Cell: cell}

		prev, hadOld := p.prevCellState[e]
		if hadOld && prev == newKey {
			return
		}
		p.CellLookup.Update(e, prev.Parent, prev.Cell, hadOld, parent, cell, true)
		p.prevCellState[e] = newKey
	})

	for e, prev := range p.prevCellState {
		if _, ok := live[e]; ok {
			continue
		}
		var zero donburi.Entity
		p.CellLookup.Update(e, prev.Parent, prev.Cell, true, zero, bigspace.Cell[coordT]{}, false)
		delete(p.prevCellState, e)
	}
}
