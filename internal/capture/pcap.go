package capture

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"github.com/cdzombak/httpwatch/internal/clock"
	"github.com/cdzombak/httpwatch/internal/event"
)

// PcapSource is the production Source, backed by gopacket/pcap. It opens a
// non-promiscuous live handle with a BPF filter scoped to one TCP port and
// performs a minimal HTTP/1.x start-line scan over each TCP segment's
// payload. Segments are not reassembled: headers split across segments are
// not seen.
type PcapSource struct {
	// MaxStrLength bounds every string field copied into an HttpEvent.
	MaxStrLength int
	// Clock supplies HttpEvent.Timestamp; defaults to a fresh clock.System.
	Clock clock.Clock
	// SnapLen bounds how much of each frame pcap captures. Zero uses a
	// default large enough for typical HTTP headers.
	SnapLen int32

	mu     sync.Mutex
	handle *pcap.Handle
}

const defaultSnapLen = 65536

// Open acquires a live pcap handle on interfaceName, filtered to TCP
// traffic on port.
func (s *PcapSource) Open(_ context.Context, interfaceName string, port int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapLen := s.SnapLen
	if snapLen <= 0 {
		snapLen = defaultSnapLen
	}

	handle, err := pcap.OpenLive(interfaceName, snapLen, false, pcap.BlockForever)
	if err != nil {
		return &CaptureUnavailable{Interface: interfaceName, Port: port, Err: err}
	}

	filter := fmt.Sprintf("tcp and port %d", port)
	if err := handle.SetBPFFilter(filter); err != nil {
		handle.Close()
		return &CaptureUnavailable{Interface: interfaceName, Port: port, Err: err}
	}

	if s.Clock == nil {
		s.Clock = clock.NewSystem()
	}
	s.handle = handle
	return nil
}

// Run reads packets from the live handle until ctx is cancelled. Its select
// loop wakes at least once per second even when no packet arrives, so ctx
// is checked at that cadence.
func (s *PcapSource) Run(ctx context.Context, emit func(event.HttpEvent), onTransient func(error)) error {
	s.mu.Lock()
	handle := s.handle
	s.mu.Unlock()
	if handle == nil {
		return ErrNotOpen
	}

	packetSource := gopacket.NewPacketSource(handle, handle.LinkType())
	packets := packetSource.Packets()

	for {
		select {
		case <-ctx.Done():
			return nil
		case pkt, ok := <-packets:
			if !ok {
				return nil
			}
			s.handlePacket(pkt, emit, onTransient)
		case <-time.After(time.Second):
			// wake up to re-check ctx even if the interface is idle
		}
	}
}

func (s *PcapSource) handlePacket(pkt gopacket.Packet, emit func(event.HttpEvent), onTransient func(error)) {
	tcpLayer := pkt.Layer(layers.LayerTypeTCP)
	if tcpLayer == nil {
		return
	}
	tcp, ok := tcpLayer.(*layers.TCP)
	if !ok || len(tcp.Payload) == 0 {
		return
	}

	ts := 0.0
	if s.Clock != nil {
		ts = s.Clock.Now()
	}

	ev, err := scanHTTP(tcp.Payload, len(pkt.Data()), ts, s.MaxStrLength)
	if err != nil {
		if err == errNotHTTP {
			return
		}
		onTransient(&CaptureTransient{Reason: "frame parse failed", Err: err})
		return
	}
	emit(ev)
}

// Close releases the pcap handle. Idempotent.
func (s *PcapSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handle != nil {
		s.handle.Close()
		s.handle = nil
	}
	return nil
}
