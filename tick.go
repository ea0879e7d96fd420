package bigspace

// Tick is the host's monotone, wrapping frame counter (spec §5, §9). It is
// supplied explicitly to every dirty-check rather than read from global
// state, since the core package has no notion of "now".
type Tick = uint32

// TickNewer reports whether a was stamped strictly after b, under the
// host's monotone-but-wrapping convention: comparisons use wraparound-safe
// signed subtraction so a 32-bit counter can wrap without ever producing a
// false "stale" reading (spec §9 "Tick representation").
func TickNewer(a, b Tick) bool {
	return int32(a-b) > 0
}

// TickCurrent reports whether tick was stamped during the run identified
// by thisRun; lastRun is accepted for symmetry with the host's
// (last_run, this_run) convention but every stamp this package writes
// always equals one exact run id, so equality is the whole test.
func TickCurrent(tick, thisRun, lastRun Tick) bool {
	return tick == thisRun
}
