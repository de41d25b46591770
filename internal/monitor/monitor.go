// Package monitor wires the clock, aggregators, baseline learner, alert
// FSM, evaluator, dashboard renderer, metrics collector, and capture
// source into the two-worker loop described by the traffic monitor: one
// worker blocks in the capture source, the other runs a periodic
// sleep-then-analyze loop. A single mutex serializes every mutation of
// shared state between them.
package monitor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/cdzombak/httpwatch/internal/alert"
	"github.com/cdzombak/httpwatch/internal/baseline"
	"github.com/cdzombak/httpwatch/internal/capture"
	"github.com/cdzombak/httpwatch/internal/captureerr"
	"github.com/cdzombak/httpwatch/internal/clock"
	"github.com/cdzombak/httpwatch/internal/config"
	"github.com/cdzombak/httpwatch/internal/dashboard"
	"github.com/cdzombak/httpwatch/internal/event"
	"github.com/cdzombak/httpwatch/internal/evaluator"
	"github.com/cdzombak/httpwatch/internal/metrics"
	"github.com/cdzombak/httpwatch/internal/preflight"
	"github.com/cdzombak/httpwatch/internal/stats"
)

// namedAggregator pairs an Aggregator with the stable key used to look it
// up (distinct from its display Title, which can change independently).
type namedAggregator struct {
	name string
	agg  *stats.Aggregator
}

// MonitorStatus is the monitor's mutable scalar state: everything the
// periodic loop and the capture worker both touch, besides the FSM,
// history, learner, and aggregators, which are already their own
// explicit, mutex-guarded values. Replacing a status-map bag with this
// struct means every field the loop reads or writes is named and typed,
// not looked up by string key.
type MonitorStatus struct {
	RequestCount             int
	State                    alert.RunState
	AverageBaseline          int
	AverageBucketCountdown   int
	DashboardBucketCountdown int
	AverageLearningCountdown int
}

// Monitor owns all analytics state and the two workers that mutate it.
type Monitor struct {
	cfg    *config.Config
	logger *slog.Logger
	clock  clock.Clock

	source    capture.Source
	errBuf    *captureerr.Buffer
	collector *metrics.Collector
	mserver   *metrics.Server

	mu sync.Mutex

	fsm     *alert.FSM
	history *alert.History
	learner *baseline.Learner

	aggregators []namedAggregator
	status      MonitorStatus

	dashboardOut io.Writer
}

// Status returns a copy of the monitor's current status, taken under the
// mutex. Safe to call concurrently with the running workers.
func (m *Monitor) Status() MonitorStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.syncStatus()
	return m.status
}

// syncStatus refreshes the status fields that mirror the FSM and learner,
// rather than storing them redundantly. Callers must hold m.mu.
func (m *Monitor) syncStatus() {
	m.status.State = m.fsm.State()
	m.status.AverageBaseline = m.learner.Baseline()
	m.status.AverageLearningCountdown = m.learner.Countdown()
}

// New constructs a Monitor from cfg. source is the capture source to run
// (PcapSource in production, FakeSource in -synthetic mode or tests).
// collector is injected rather than constructed internally so tests can
// supply one backed by a private registry instead of Prometheus's global
// default, which only tolerates a single registration per process.
func New(cfg *config.Config, logger *slog.Logger, clk clock.Clock, source capture.Source, collector *metrics.Collector) *Monitor {
	aggregators := []namedAggregator{
		{"section", stats.NewBySection(cfg.MaxStrLength)},
		{"host", stats.NewByHost(cfg.MaxStrLength)},
		{"upload_by_host", stats.NewUploadByHost(cfg.MaxStrLength)},
		{"user_agent", stats.NewByUserAgent(cfg.MaxStrLength)},
		{"method", stats.NewByMethod(cfg.MaxStrLength)},
		{"status", stats.NewByStatus(cfg.MaxStrLength)},
	}

	return &Monitor{
		cfg:    cfg,
		logger: logger,
		clock:  clk,

		source:    source,
		errBuf:    captureerr.New(logger),
		collector: collector,
		mserver:   metrics.NewServer(cfg.MetricsAddr, logger),

		fsm:     alert.NewFSM(),
		history: alert.NewHistory(),
		learner: baseline.New(baseline.Config{
			AverageBucketSize:       cfg.AverageBucketSize,
			AverageLearningDuration: cfg.AverageLearningDuration,
		}),

		aggregators: aggregators,
		status: MonitorStatus{
			AverageBucketCountdown:   cfg.AverageBucketSize,
			DashboardBucketCountdown: cfg.DashboardBucketSize,
			AverageLearningCountdown: cfg.AverageLearningDuration,
		},

		dashboardOut: os.Stdout,
	}
}

// Run executes preflight checks, opens the capture source, starts the
// metrics server and capture worker, then runs the periodic loop until ctx
// is cancelled or a termination signal arrives. It returns nil on orderly
// shutdown, or an error on an initialization or uncaught capture failure.
func (m *Monitor) Run(ctx context.Context) error {
	start := time.Now()

	if !m.cfg.SkipPreflight {
		result := preflight.RunAll(m.cfg.Interface, m.cfg.Port)
		preflight.PrintResults(result)
		if !result.Passed {
			return fmt.Errorf("preflight checks failed (use -skip-preflight to override)")
		}
	}

	if err := m.source.Open(ctx, m.cfg.Interface, m.cfg.Port); err != nil {
		return fmt.Errorf("opening capture source: %w", err)
	}

	if err := m.mserver.Start(); err != nil {
		return fmt.Errorf("starting metrics server: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	captureDone := make(chan error, 1)
	go func() {
		captureDone <- m.source.Run(ctx, m.onEvent, m.onTransient)
	}()

	m.logger.Info("monitor_starting", "interface", m.cfg.Interface, "port", m.cfg.Port)

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		m.loop(ctx)
	}()

	var captureErr error
	select {
	case sig := <-sigCh:
		m.logger.Info("received_signal", "signal", sig.String())
	case captureErr = <-captureDone:
		if captureErr != nil {
			m.logger.Error("capture_source_error", "error", captureErr)
		}
	case <-ctx.Done():
		m.logger.Info("context_cancelled")
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(m.cfg.Timeout+5)*time.Second)
	defer shutdownCancel()

	<-loopDone
	select {
	case <-captureDone:
	case <-shutdownCtx.Done():
		m.logger.Warn("capture_worker_did_not_exit_in_time")
	}

	if err := m.source.Close(); err != nil {
		m.logger.Warn("capture_close_error", "error", err)
	}
	if err := m.mserver.Shutdown(shutdownCtx); err != nil {
		m.logger.Warn("metrics_server_shutdown_error", "error", err)
	}

	m.printExitSummary(time.Since(start))

	if captureErr != nil {
		return fmt.Errorf("capture source exited: %w", captureErr)
	}
	return nil
}

// onEvent ingests one HttpEvent under the monitor's mutex, matching the
// concurrency model's single-lock-per-ingestion rule.
func (m *Monitor) onEvent(ev event.HttpEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	learning := m.fsm.State() == alert.Learn

	if ev.Kind == event.Request {
		if learning {
			m.learner.ObserveRequest()
		} else {
			m.status.RequestCount++
		}
	}

	if !learning {
		for _, na := range m.aggregators {
			na.agg.Observe(ev)
		}
	}
}

// onTransient records a per-frame parse failure: logged and counted, never
// propagated as a fatal error.
func (m *Monitor) onTransient(err error) {
	m.errBuf.Record(err.Error())
	m.collector.ObserveCaptureTransient()
}

// loop runs the periodic analyzer: sleep(timeout), then Learn-tick or
// evaluate/render, until ctx is cancelled.
func (m *Monitor) loop(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(m.cfg.Timeout) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tick()
		}
	}
}

func (m *Monitor) tick() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	m.syncStatus()

	if m.status.State == alert.Learn {
		if err := m.learner.Tick(m.cfg.Timeout, m.fsm); err != nil {
			m.logger.Error("baseline_tick_error", "error", err)
		}
		m.syncStatus()
		dashboard.RenderLearning(m.dashboardOut, m.learner.RequestCount(), m.status.AverageLearningCountdown, true)
		m.collector.ObserveBucket(m.learner.RequestCount(), m.status.AverageBaseline, m.cfg.AverageThreshold, m.status.State)
		return
	}

	m.status.DashboardBucketCountdown -= m.cfg.Timeout
	m.status.AverageBucketCountdown -= m.cfg.Timeout

	if m.status.AverageBucketCountdown <= 0 {
		m.status.AverageBucketCountdown = m.cfg.AverageBucketSize

		before := m.history.Len()
		if _, err := evaluator.Evaluate(m.status.RequestCount, m.status.AverageBaseline, m.cfg.AverageThreshold, m.fsm, m.history, now); err != nil {
			m.logger.Error("evaluator_transition_error", "error", err)
		}
		if m.history.Len() > before {
			m.collector.ObserveAlert()
		}

		m.status.RequestCount = 0
		m.history.Prune(now, float64(m.cfg.MaxRetentionLength))
		m.syncStatus()
	}

	if m.status.DashboardBucketCountdown <= 0 {
		m.status.DashboardBucketCountdown = m.cfg.DashboardBucketSize

		m.history.Prune(now, float64(m.cfg.MaxRetentionLength))
		aggSnapshots := make([]dashboard.AggregatorSnapshot, 0, len(m.aggregators))
		for _, na := range m.aggregators {
			na.agg.Prune(now, float64(m.cfg.MaxRetentionLength))
			m.collector.ObserveAggregatorEntries(na.agg.Title(), na.agg.Len())
			aggSnapshots = append(aggSnapshots, dashboard.AggregatorSnapshot{
				Title: na.agg.Title(),
				Hits:  na.agg.Top(m.cfg.MaxTopHits),
			})
		}

		snap := dashboard.Snapshot{
			Anchor:                 m.clock.Anchor(),
			AverageBaseline:        m.status.AverageBaseline,
			AverageThreshold:       m.cfg.AverageThreshold,
			RequestCount:           m.status.RequestCount,
			AverageBucketCountdown: m.status.AverageBucketCountdown,
			State:                  m.status.State,
			History:                m.history.Records(),
			Aggregators:            aggSnapshots,
		}
		dashboard.Render(m.dashboardOut, snap, true)
	}

	m.collector.ObserveBucket(m.status.RequestCount, m.status.AverageBaseline, m.cfg.AverageThreshold, m.status.State)
}

// printExitSummary prints a final report of capture diagnostics and alert
// activity, mirroring the orchestrator's own run-summary habit.
func (m *Monitor) printExitSummary(duration time.Duration) {
	m.mu.Lock()
	alerts := m.history.Len()
	m.mu.Unlock()

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════════")
	fmt.Println("                        httpwatch Exit Summary")
	fmt.Println("═══════════════════════════════════════════════════════════════════")
	fmt.Printf("Run Duration:               %s\n", formatDuration(duration))
	fmt.Printf("Alerts retained in history: %d\n", alerts)
	fmt.Printf("Transient capture errors:   %d\n", m.errBuf.Total())
	for pattern, count := range m.errBuf.CountByPattern() {
		if count > 0 {
			fmt.Printf("  %-20s %d\n", pattern, count)
		}
	}
	fmt.Printf("Metrics endpoint was:       http://%s/metrics\n", m.mserver.Addr())
	fmt.Println("═══════════════════════════════════════════════════════════════════")
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	mi := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, mi, s)
}
