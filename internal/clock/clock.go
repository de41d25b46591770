// Package clock provides a mockable monotonic time source for the monitor.
//
// Every timestamp in the analyzer — HttpEvent.Timestamp, HitEntry.LastSeen,
// AlertRecord.TriggeredAt — is expressed in seconds since an arbitrary
// epoch, not wall-clock time, so that retention/prune math never has to
// reason about calendar time. Production code reads the real clock; tests
// drive a Fake clock to assert exact retention-boundary behavior.
package clock

import "time"

// Clock returns monotonic seconds since an arbitrary epoch, and the
// wall-clock instant that corresponds to Now() == 0.
type Clock interface {
	Now() float64
	Anchor() time.Time
}

// System is the production Clock, backed by time.Now()'s monotonic reading.
type System struct {
	start time.Time
}

// NewSystem creates a System clock anchored at the current instant.
func NewSystem() *System {
	return &System{start: time.Now()}
}

// Now returns seconds elapsed since the clock was created.
func (s *System) Now() float64 {
	return time.Since(s.start).Seconds()
}

// Anchor returns the wall-clock instant corresponding to Now() == 0, so
// callers that need to render a monotonic timestamp as a local
// wall-clock time (the dashboard's last_seen/triggered_at columns) can
// convert via Anchor().Add(time.Duration(seconds * float64(time.Second))).
func (s *System) Anchor() time.Time {
	return s.start
}

// Fake is a settable Clock for deterministic tests.
type Fake struct {
	t      float64
	anchor time.Time
}

// NewFake creates a Fake clock starting at the given time, anchored at the
// Unix epoch so wall-clock conversions in tests are deterministic.
func NewFake(t float64) *Fake {
	return &Fake{t: t, anchor: time.Unix(0, 0).UTC()}
}

// Anchor returns the wall-clock instant corresponding to Now() == 0.
func (f *Fake) Anchor() time.Time {
	return f.anchor
}

// Now returns the clock's current value.
func (f *Fake) Now() float64 {
	return f.t
}

// Set jumps the clock to an absolute time.
func (f *Fake) Set(t float64) {
	f.t = t
}

// Advance moves the clock forward by delta seconds and returns the new time.
func (f *Fake) Advance(delta float64) float64 {
	f.t += delta
	return f.t
}
