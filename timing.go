package bigspace

import "time"

// PhaseTimings records how long each of the nine tick phases took, when
// the host enables the "timing stats" configuration option (spec §6).
// Field names mirror the phases ecs.Plugin.Tick runs.
type PhaseTimings struct {
	Recenter                 time.Duration
	MarkDirty                time.Duration
	LocalOriginPropagation   time.Duration
	HighPrecisionPropagation time.Duration
	LowPrecisionRootTagging  time.Duration
	LowPrecisionPropagation  time.Duration
	HashUpdate               time.Duration
	PartitionUpdate          time.Duration
	PartitionChangeUpdate    time.Duration
}

// Total sums every recorded phase.
func (t PhaseTimings) Total() time.Duration {
	return t.Recenter + t.MarkDirty + t.LocalOriginPropagation +
		t.HighPrecisionPropagation + t.LowPrecisionRootTagging +
		t.LowPrecisionPropagation + t.HashUpdate + t.PartitionUpdate +
		t.PartitionChangeUpdate
}
