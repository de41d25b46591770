// Package stats implements the monitor's top-N statistics aggregators.
//
// All six concrete aggregators (by section, host, upload volume, user
// agent, method, status code) share one shape: observe an event, optionally
// derive a key and a weight from it, and maintain a table of HitEntry
// values keyed by that string. The shape is expressed once as Aggregator,
// configured per concrete aggregator by an extract/weight closure pair
// instead of an inheritance hierarchy.
//
// Aggregator holds no lock of its own: the monitor's single mutex
// serializes every call into it.
package stats

import (
	"net/url"
	"sort"
	"strings"

	"github.com/cdzombak/httpwatch/internal/event"
)

// HitEntry is one aggregator value: a running tally and the last time it
// was updated.
type HitEntry struct {
	Count    int
	LastSeen float64
}

// Hit is a ranked (key, HitEntry) pair returned by Top.
type Hit struct {
	Key   string
	Entry HitEntry
}

// Extractor derives a string key from an event, or ("", false) to skip it.
type Extractor func(e event.HttpEvent) (string, bool)

// Weigher derives the amount to add to a key's count for this event.
type Weigher func(e event.HttpEvent) int

// Aggregator is a uniform top-N counter keyed on a field derived from each
// observed event.
type Aggregator struct {
	title   string
	extract Extractor
	weight  Weigher
	table   map[string]HitEntry
}

// New creates an Aggregator with the given display title and extract/weight
// closures.
func New(title string, extract Extractor, weight Weigher) *Aggregator {
	return &Aggregator{
		title:   title,
		extract: extract,
		weight:  weight,
		table:   make(map[string]HitEntry),
	}
}

// Title returns the aggregator's human label.
func (a *Aggregator) Title() string {
	return a.title
}

// Observe updates the table from one event, if extract yields a key.
func (a *Aggregator) Observe(e event.HttpEvent) {
	key, ok := a.extract(e)
	if !ok {
		return
	}
	entry := a.table[key]
	entry.Count += a.weight(e)
	entry.LastSeen = e.Timestamp
	a.table[key] = entry
}

// Top returns up to n entries ordered by (count desc, last_seen desc), with
// key as a final deterministic tiebreak.
func (a *Aggregator) Top(n int) []Hit {
	hits := make([]Hit, 0, len(a.table))
	for k, v := range a.table {
		hits = append(hits, Hit{Key: k, Entry: v})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Entry.Count != hits[j].Entry.Count {
			return hits[i].Entry.Count > hits[j].Entry.Count
		}
		if hits[i].Entry.LastSeen != hits[j].Entry.LastSeen {
			return hits[i].Entry.LastSeen > hits[j].Entry.LastSeen
		}
		return hits[i].Key < hits[j].Key
	})
	if n >= 0 && n < len(hits) {
		hits = hits[:n]
	}
	return hits
}

// Prune removes every entry whose LastSeen is older than
// maxRetentionLength relative to now.
func (a *Aggregator) Prune(now, maxRetentionLength float64) {
	for k, v := range a.table {
		if now-v.LastSeen > maxRetentionLength {
			delete(a.table, k)
		}
	}
}

// Len returns the current number of live keys.
func (a *Aggregator) Len() int {
	return len(a.table)
}

// NewBySection builds the aggregator keyed on a request's section: the
// scheme+host, optionally suffixed with the first non-empty, query-stripped
// path segment.
func NewBySection(maxStrLength int) *Aggregator {
	return New("Sections", func(e event.HttpEvent) (string, bool) {
		if e.Kind != event.Request || e.Host == "" {
			return "", false
		}
		return event.Truncate(sectionKey(e.Host, e.Path, maxStrLength), maxStrLength), true
	}, countOne)
}

// NewByHost builds the aggregator keyed on request host.
func NewByHost(maxStrLength int) *Aggregator {
	return New("Hosts", func(e event.HttpEvent) (string, bool) {
		if e.Kind != event.Request || e.Host == "" {
			return "", false
		}
		return event.Truncate(e.Host, maxStrLength), true
	}, countOne)
}

// NewUploadByHost builds the aggregator keyed on request host, weighted by
// frame length to track upload volume.
func NewUploadByHost(maxStrLength int) *Aggregator {
	return New("Upload by host", func(e event.HttpEvent) (string, bool) {
		if e.Kind != event.Request || e.Host == "" {
			return "", false
		}
		return event.Truncate(e.Host, maxStrLength), true
	}, func(e event.HttpEvent) int {
		return e.FrameLength
	})
}

// NewByUserAgent builds the aggregator keyed on request user agent.
func NewByUserAgent(maxStrLength int) *Aggregator {
	return New("User agents", func(e event.HttpEvent) (string, bool) {
		if e.Kind != event.Request || e.UserAgent == "" {
			return "", false
		}
		return event.Truncate(e.UserAgent, maxStrLength), true
	}, countOne)
}

// NewByMethod builds the aggregator keyed on request method.
func NewByMethod(maxStrLength int) *Aggregator {
	return New("Methods", func(e event.HttpEvent) (string, bool) {
		if e.Kind != event.Request || e.Method == "" {
			return "", false
		}
		return event.Truncate(e.Method, maxStrLength), true
	}, countOne)
}

// NewByStatus builds the aggregator keyed on response status line.
func NewByStatus(maxStrLength int) *Aggregator {
	return New("Status codes", func(e event.HttpEvent) (string, bool) {
		if e.Kind != event.Response || e.StatusLine == "" {
			return "", false
		}
		return event.Truncate(e.StatusLine, maxStrLength), true
	}, countOne)
}

func countOne(event.HttpEvent) int {
	return 1
}

// sectionKey derives the section key for a request: percent-decode path,
// split on "/", skip empty segments (collapsing repeated slashes), take the
// first non-empty segment's prefix before "?", and append it to
// "http://" + host. A missing or empty path, or one with no non-empty
// segment, yields "http://" + host with no suffix.
//
// Decoding uses PathUnescape rather than QueryUnescape: a literal '+' in a
// path segment is a literal character, not an encoded space.
func sectionKey(host, rawPath string, maxStrLength int) string {
	base := "http://" + event.Truncate(host, maxStrLength)
	if rawPath == "" {
		return base
	}
	decoded, err := url.PathUnescape(rawPath)
	if err != nil {
		decoded = rawPath
	}
	for _, segment := range strings.Split(decoded, "/") {
		if segment == "" {
			continue
		}
		prefix := segment
		if idx := strings.IndexByte(segment, '?'); idx >= 0 {
			prefix = segment[:idx]
		}
		if prefix == "" {
			return base
		}
		return base + "/" + event.Truncate(prefix, maxStrLength)
	}
	return base
}
