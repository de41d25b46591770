// Package event defines the ingestion contract between a packet capture
// source and the analyzer: a parsed summary of one captured HTTP frame.
package event

// Kind identifies whether an HttpEvent summarizes a request or a response.
type Kind int

const (
	// Request marks an event synthesized from an HTTP request frame.
	Request Kind = iota
	// Response marks an event synthesized from an HTTP response frame.
	Response
)

func (k Kind) String() string {
	switch k {
	case Request:
		return "request"
	case Response:
		return "response"
	default:
		return "unknown"
	}
}

// HttpEvent is a parsed summary of one captured frame. Every string field
// must already be truncated to the producer's max_str_length by the time it
// reaches the analyzer.
type HttpEvent struct {
	// Timestamp is monotonic seconds at observation (clock.Clock.Now()).
	Timestamp float64
	// FrameLength is the captured frame size in bytes.
	FrameLength int
	// Kind distinguishes Request from Response.
	Kind Kind

	// Host is set only for Request events.
	Host string
	// Path is the raw, un-decoded request URI, set only for Request events.
	Path string
	// Method is set only for Request events.
	Method string
	// UserAgent is set only for Request events.
	UserAgent string

	// StatusLine (e.g. "200 OK") is set only for Response events.
	StatusLine string
}

// Truncate trims s to at most max bytes. A non-positive max truncates to
// the empty string.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	return s[:max]
}
