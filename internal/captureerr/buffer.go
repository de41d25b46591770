// Package captureerr buffers and classifies the transient per-frame parse
// failures the capture source reports, logging each one and keeping them
// for the exit summary.
package captureerr

import (
	"log/slog"
	"strings"
	"sync"
)

const (
	// MaxLineLength is the maximum length of a buffered message before
	// truncation.
	MaxLineLength = 2048

	// MaxBufferedMessages is the maximum number of messages retained.
	MaxBufferedMessages = 100
)

// Patterns are common transient-failure substrings counted for the exit
// summary.
var Patterns = []string{
	"malformed header",
	"truncated frame",
	"unsupported encoding",
	"short read",
	"timeout",
}

// Buffer is a circular buffer of recent CaptureTransient messages, logged
// and counted as they arrive.
type Buffer struct {
	logger *slog.Logger

	mu      sync.Mutex
	entries []string
	idx     int
	total   int
}

// New creates an empty Buffer that logs each recorded message through
// logger at warn level.
func New(logger *slog.Logger) *Buffer {
	return &Buffer{
		logger:  logger,
		entries: make([]string, MaxBufferedMessages),
	}
}

// Record stores one transient-failure message and logs it.
func (b *Buffer) Record(msg string) {
	if len(msg) > MaxLineLength {
		msg = msg[:MaxLineLength] + "...(truncated)"
	}

	b.mu.Lock()
	b.entries[b.idx] = msg
	b.idx = (b.idx + 1) % MaxBufferedMessages
	b.total++
	b.mu.Unlock()

	if b.logger != nil {
		b.logger.Warn("capture_transient_error", "message", msg)
	}
}

// Total returns the number of messages ever recorded, including ones since
// evicted from the circular buffer.
func (b *Buffer) Total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.total
}

// Recent returns up to n of the most recently recorded messages, oldest
// first.
func (b *Buffer) Recent(n int) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if n > MaxBufferedMessages {
		n = MaxBufferedMessages
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		idx := (b.idx - n + i + MaxBufferedMessages) % MaxBufferedMessages
		if b.entries[idx] != "" {
			out = append(out, b.entries[idx])
		}
	}
	return out
}

// CountByPattern counts occurrences of each entry in Patterns across the
// currently buffered messages, for the exit summary.
func (b *Buffer) CountByPattern() map[string]int {
	b.mu.Lock()
	defer b.mu.Unlock()

	counts := make(map[string]int)
	for _, msg := range b.entries {
		if msg == "" {
			continue
		}
		lower := strings.ToLower(msg)
		for _, pattern := range Patterns {
			if strings.Contains(lower, pattern) {
				counts[pattern]++
			}
		}
	}
	return counts
}
