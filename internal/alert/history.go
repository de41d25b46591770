package alert

// Record is a single alert occurrence: the request count of the bucket
// that triggered it and the monotonic time it fired.
type Record struct {
	Count       int
	TriggeredAt float64
}

// History holds alert records with index 0 as the most recent, as required
// by the spec's ordering invariant.
type History struct {
	records []Record
}

// NewHistory creates an empty alert history.
func NewHistory() *History {
	return &History{}
}

// Prepend inserts a new record at index 0, shifting all others back.
func (h *History) Prepend(r Record) {
	h.records = append(h.records, Record{})
	copy(h.records[1:], h.records[:len(h.records)-1])
	h.records[0] = r
}

// Prune removes every record older than maxRetentionLength relative to now.
// Records are stored most-recent-first, so the oldest entries are at the
// tail; Prune trims the tail.
func (h *History) Prune(now, maxRetentionLength float64) {
	cut := len(h.records)
	for cut > 0 && now-h.records[cut-1].TriggeredAt > maxRetentionLength {
		cut--
	}
	h.records = h.records[:cut]
}

// Records returns the history in most-recent-first order. The returned
// slice must not be mutated by the caller.
func (h *History) Records() []Record {
	return h.records
}

// Len returns the number of retained records.
func (h *History) Len() int {
	return len(h.records)
}

// Most returns the most recent record and true, or a zero Record and false
// if the history is empty.
func (h *History) Most() (Record, bool) {
	if len(h.records) == 0 {
		return Record{}, false
	}
	return h.records[0], true
}
