package capture

import (
	"context"
	"math/rand"
	"time"

	"github.com/cdzombak/httpwatch/internal/clock"
	"github.com/cdzombak/httpwatch/internal/event"
)

// FakeSource is a channel-backed Source for tests and the -synthetic CLI
// mode, where no root privilege or libpcap is available. It does not
// capture anything; it replays whatever is fed to it through Events, or a
// trivial fixed-rate generator if Generate is set.
type FakeSource struct {
	// Events, if non-nil, is read directly by Run: each value sent here
	// is emitted verbatim. Close the channel to end Run cleanly.
	Events chan event.HttpEvent

	// Generate, if true and Events is nil, makes Run synthesize one
	// request event per GenerateInterval (default 200ms) until ctx is
	// cancelled. This is a fixed, unconfigurable pattern: the shape of
	// synthetic traffic is not a feature of this package.
	Generate         bool
	GenerateInterval time.Duration
	Clock            clock.Clock

	opened bool
}

// Open marks the source ready. interfaceName/port are accepted only for
// parity with the real Source interface; FakeSource ignores them.
func (f *FakeSource) Open(_ context.Context, _ string, _ int) error {
	f.opened = true
	return nil
}

// Run drains Events (or runs the fixed generator) until ctx is done or the
// channel is closed.
func (f *FakeSource) Run(ctx context.Context, emit func(event.HttpEvent), onTransient func(error)) error {
	if !f.opened {
		return ErrNotOpen
	}

	if f.Events != nil {
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-f.Events:
				if !ok {
					return nil
				}
				emit(ev)
			}
		}
	}

	if !f.Generate {
		<-ctx.Done()
		return nil
	}

	interval := f.GenerateInterval
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	paths := []string{"/api/widgets", "/api/widgets/42", "/health", "/static/app.js"}
	var seq int
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			now := 0.0
			if f.Clock != nil {
				now = f.Clock.Now()
			}
			path := paths[seq%len(paths)]
			seq++
			emit(event.HttpEvent{
				Timestamp:   now,
				FrameLength: 512 + rand.Intn(512),
				Kind:        event.Request,
				Host:        "synthetic.local",
				Path:        path,
				Method:      "GET",
				UserAgent:   "httpwatch-synthetic/1.0",
			})
		}
	}
}

// Close marks the source as not open; FakeSource holds no OS resources.
func (f *FakeSource) Close() error {
	f.opened = false
	return nil
}
