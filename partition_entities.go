package bigspace

import "sync"

// PartitionChange is a single entity's partition transition published by
// PartitionEntities for one tick.
type PartitionChange struct {
	From, To       PartitionId
	HadFrom, HasTo bool
}

// PartitionEntities is the optional companion resource mapping each
// cell-carrying entity to its current PartitionId and publishing a
// per-tick delta (spec §4.7 "Per-entity partition change tracking
// (optional)").
type PartitionEntities[T Coord, E comparable] struct {
	mu sync.RWMutex

	assignment map[E]PartitionId
	prevCell   map[Fingerprint]PartitionId
	changed    map[E]PartitionChange
}

// NewPartitionEntities constructs an empty tracker.
func NewPartitionEntities[T Coord, E comparable]() *PartitionEntities[T, E] {
	return &PartitionEntities[T, E]{
		assignment: make(map[E]PartitionId),
		prevCell:   make(map[Fingerprint]PartitionId),
		changed:    make(map[E]PartitionChange),
	}
}

// Get returns e's current partition assignment.
func (pe *PartitionEntities[T, E]) Get(e E) (PartitionId, bool) {
	pe.mu.RLock()
	defer pe.mu.RUnlock()
	id, ok := pe.assignment[e]
	return id, ok
}

// Changed returns this tick's published delta.
func (pe *PartitionEntities[T, E]) Changed() map[E]PartitionChange {
	pe.mu.RLock()
	defer pe.mu.RUnlock()
	out := make(map[E]PartitionChange, len(pe.changed))
	for e, c := range pe.changed {
		out[e] = c
	}
	return out
}

// Update recomputes the per-entity delta for one tick from cl's
// moved/despawned sets plus a snapshot comparison of the cell→partition
// mapping, to also catch entities that did not move but were reassigned
// by a merge or split (spec §4.7).
func (pe *PartitionEntities[T, E]) Update(cl *CellLookup[T, E], pl *PartitionLookup[T, E]) {
	pe.mu.Lock()
	defer pe.mu.Unlock()

	pe.changed = make(map[E]PartitionChange)
	handled := make(map[E]struct{})

	for e, mv := range cl.JustMoved() {
		newID, hasNew := pl.Lookup(mv.NewFP)
		pe.applyChange(e, newID, hasNew)
		handled[e] = struct{}{}
	}
	for e := range cl.JustDespawned() {
		pe.applyChange(e, 0, false)
		handled[e] = struct{}{}
	}

	// Snapshot diff: cells whose partition id changed since last tick
	// carry every member entity along, even if that entity itself never
	// moved (merges/splits reassign stationary cells too).
	curSnapshot := make(map[Fingerprint]PartitionId)
	pl.mu.RLock()
	for fp, id := range pl.reverse {
		curSnapshot[fp] = id
	}
	pl.mu.RUnlock()

	for fp, newID := range curSnapshot {
		if oldID, ok := pe.prevCell[fp]; ok && oldID == newID {
			continue
		}
		entry, ok := cl.Get(fp)
		if !ok {
			continue
		}
		for e := range entry.Entities {
			if _, done := handled[e]; done {
				continue
			}
			pe.applyChange(e, newID, true)
			handled[e] = struct{}{}
		}
	}

	pe.prevCell = curSnapshot
}

func (pe *PartitionEntities[T, E]) applyChange(e E, newID PartitionId, hasNew bool) {
	oldID, hadOld := pe.assignment[e]
	if hadOld == hasNew && (!hasNew || oldID == newID) {
		return
	}
	pe.changed[e] = PartitionChange{From: oldID, HadFrom: hadOld, To: newID, HasTo: hasNew}
	if hasNew {
		pe.assignment[e] = newID
	} else {
		delete(pe.assignment, e)
	}
}
