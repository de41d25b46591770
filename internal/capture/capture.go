// Package capture defines the ingestion boundary between a live packet
// source and the analyzer: a Source reads frames from the wire (or a
// synthetic stand-in) and emits HttpEvent values.
package capture

import (
	"context"
	"errors"
	"fmt"

	"github.com/cdzombak/httpwatch/internal/event"
)

// Source captures HTTP traffic on one interface/port pair and emits parsed
// events. Open must be called before Run; Close is safe to call multiple
// times and after a failed Open.
type Source interface {
	// Open acquires whatever handle the source needs (a live pcap handle,
	// a channel, ...). A CaptureUnavailable error here is fatal to the
	// monitor.
	Open(ctx context.Context, interfaceName string, port int) error

	// Run blocks, reading frames until ctx is cancelled or a non-transient
	// error occurs. emit is called once per parsed HttpEvent; onTransient
	// is called once per frame that failed to parse, and Run continues
	// afterward.
	Run(ctx context.Context, emit func(event.HttpEvent), onTransient func(error)) error

	// Close releases the underlying handle. Idempotent.
	Close() error
}

// CaptureUnavailable indicates the capture source could not be opened at
// all (interface missing, permission denied, device busy). It is fatal.
type CaptureUnavailable struct {
	Interface string
	Port      int
	Err       error
}

func (e *CaptureUnavailable) Error() string {
	return fmt.Sprintf("capture unavailable on %s:%d: %v", e.Interface, e.Port, e.Err)
}

func (e *CaptureUnavailable) Unwrap() error { return e.Err }

// CaptureTransient indicates a single frame failed to parse. It never
// aborts the capture loop; the caller logs and counts it.
type CaptureTransient struct {
	Reason string
	Err    error
}

func (e *CaptureTransient) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transient capture error (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("transient capture error: %s", e.Reason)
}

func (e *CaptureTransient) Unwrap() error { return e.Err }

// ErrNotOpen is returned by Run when called before a successful Open.
var ErrNotOpen = errors.New("capture: source not open")
