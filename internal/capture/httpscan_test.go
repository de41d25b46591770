package capture

import (
	"strings"
	"testing"

	"github.com/cdzombak/httpwatch/internal/event"
)

func rawRequest(method, path, host, ua string) []byte {
	var b strings.Builder
	b.WriteString(method + " " + path + " HTTP/1.1\r\n")
	b.WriteString("Host: " + host + "\r\n")
	if ua != "" {
		b.WriteString("User-Agent: " + ua + "\r\n")
	}
	b.WriteString("\r\n")
	return []byte(b.String())
}

func TestScanHTTP_Request(t *testing.T) {
	payload := rawRequest("GET", "/foo/bar?x=1", "example.com", "curl/8.0")

	ev, err := scanHTTP(payload, 256, 10.5, 1024)
	if err != nil {
		t.Fatalf("scanHTTP: %v", err)
	}
	if ev.Kind != event.Request {
		t.Errorf("Kind = %v, want Request", ev.Kind)
	}
	if ev.Method != "GET" {
		t.Errorf("Method = %q", ev.Method)
	}
	if ev.Host != "example.com" {
		t.Errorf("Host = %q", ev.Host)
	}
	if ev.Path != "/foo/bar?x=1" {
		t.Errorf("Path = %q", ev.Path)
	}
	if ev.UserAgent != "curl/8.0" {
		t.Errorf("UserAgent = %q", ev.UserAgent)
	}
	if ev.FrameLength != 256 {
		t.Errorf("FrameLength = %d", ev.FrameLength)
	}
	if ev.Timestamp != 10.5 {
		t.Errorf("Timestamp = %v", ev.Timestamp)
	}
}

func TestScanHTTP_Response(t *testing.T) {
	payload := []byte("HTTP/1.1 200 OK\r\nContent-Length: 0\r\n\r\n")

	ev, err := scanHTTP(payload, 64, 1.0, 1024)
	if err != nil {
		t.Fatalf("scanHTTP: %v", err)
	}
	if ev.Kind != event.Response {
		t.Errorf("Kind = %v, want Response", ev.Kind)
	}
	if ev.StatusLine != "200 OK" {
		t.Errorf("StatusLine = %q", ev.StatusLine)
	}
}

func TestScanHTTP_TruncatesFields(t *testing.T) {
	payload := rawRequest("GET", "/path-is-long-enough-to-be-truncated", "example.com", "")

	ev, err := scanHTTP(payload, 64, 0, 5)
	if err != nil {
		t.Fatalf("scanHTTP: %v", err)
	}
	if len(ev.Path) != 5 {
		t.Errorf("Path len = %d, want 5 (got %q)", len(ev.Path), ev.Path)
	}
	if len(ev.Host) != 5 {
		t.Errorf("Host len = %d, want 5 (got %q)", len(ev.Host), ev.Host)
	}
}

func TestScanHTTP_NotHTTP(t *testing.T) {
	_, err := scanHTTP([]byte("not an http frame at all\r\n\r\n"), 10, 0, 1024)
	if err != errNotHTTP {
		t.Errorf("err = %v, want errNotHTTP", err)
	}
}

func TestScanHTTP_EmptyPayload(t *testing.T) {
	_, err := scanHTTP([]byte{}, 0, 0, 1024)
	if err == nil {
		t.Error("expected error for empty payload")
	}
}
