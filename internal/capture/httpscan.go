package capture

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"net/textproto"
	"strings"

	"github.com/cdzombak/httpwatch/internal/event"
)

// errNotHTTP marks a payload that does not start with a recognizable
// HTTP/1.x request or response line; the caller treats this as "not our
// traffic", not a transient parse failure.
var errNotHTTP = errors.New("capture: payload is not an HTTP/1.x start line")

// scanHTTP inspects one TCP segment's payload and, if it begins with an
// HTTP/1.x request or response start-line, returns a populated HttpEvent.
// Every string field is truncated to maxStrLength before it leaves this
// function, matching the producer-boundary truncation contract in
// event.HttpEvent's doc comment.
func scanHTTP(payload []byte, frameLength int, timestamp float64, maxStrLength int) (event.HttpEvent, error) {
	reader := textproto.NewReader(bufio.NewReader(bytes.NewReader(payload)))
	line, err := reader.ReadLine()
	if err != nil {
		return event.HttpEvent{}, fmt.Errorf("reading start line: %w", err)
	}

	if method, uri, ok := parseRequestLine(line); ok {
		headers, _ := reader.ReadMIMEHeader()
		return event.HttpEvent{
			Timestamp:   timestamp,
			FrameLength: frameLength,
			Kind:        event.Request,
			Host:        event.Truncate(headers.Get("Host"), maxStrLength),
			Path:        event.Truncate(uri, maxStrLength),
			Method:      event.Truncate(method, maxStrLength),
			UserAgent:   event.Truncate(headers.Get("User-Agent"), maxStrLength),
		}, nil
	}

	if status, ok := parseStatusLine(line); ok {
		return event.HttpEvent{
			Timestamp:   timestamp,
			FrameLength: frameLength,
			Kind:        event.Response,
			StatusLine:  event.Truncate(status, maxStrLength),
		}, nil
	}

	return event.HttpEvent{}, errNotHTTP
}

var httpMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "DELETE": true, "HEAD": true,
	"OPTIONS": true, "PATCH": true, "CONNECT": true, "TRACE": true,
}

// parseRequestLine splits a "METHOD uri HTTP/x.y" start line.
func parseRequestLine(line string) (method, uri string, ok bool) {
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 {
		return "", "", false
	}
	if !httpMethods[parts[0]] {
		return "", "", false
	}
	if !strings.HasPrefix(parts[2], "HTTP/") {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// parseStatusLine splits a "HTTP/x.y CODE reason" status line, returning
// "CODE reason".
func parseStatusLine(line string) (status string, ok bool) {
	if !strings.HasPrefix(line, "HTTP/") {
		return "", false
	}
	parts := strings.SplitN(line, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	return parts[1], true
}
