// Package main provides the httpwatch CLI entry point.
//
// httpwatch is a live HTTP traffic monitor: it captures packets on a
// network interface, aggregates rolling top-N statistics, learns an
// adaptive request-rate baseline, and alerts when traffic departs from it.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cdzombak/httpwatch/internal/capture"
	"github.com/cdzombak/httpwatch/internal/clock"
	"github.com/cdzombak/httpwatch/internal/config"
	"github.com/cdzombak/httpwatch/internal/logging"
	"github.com/cdzombak/httpwatch/internal/metrics"
	"github.com/cdzombak/httpwatch/internal/monitor"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0" ./cmd/httpwatch
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) > 1 {
		arg := os.Args[1]
		if arg == "-version" || arg == "--version" || arg == "version" {
			fmt.Printf("httpwatch %s\n", version)
			return 0
		}
	}

	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		return 1
	}

	// The dashboard writes full-screen frames to stdout every tick; a
	// structured logger on the same stream would interleave with it, so
	// logs are discarded unless the operator asked for -v, matching the
	// dashboard's exclusive claim on the terminal.
	var logger *slog.Logger
	if !cfg.Verbose {
		logger = logging.NewLoggerWithWriter(io.Discard, cfg.LogFormat, "info")
	} else {
		logger = logging.NewLogger(cfg.LogFormat, "debug", cfg.Verbose, cfg.Interface)
	}
	logging.SetDefault(logger)

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}

	logger.Info("starting",
		"version", version,
		"port", cfg.Port,
		"synthetic", cfg.Synthetic,
		"metrics_addr", cfg.MetricsAddr,
	)

	printBanner(cfg)

	clk := clock.NewSystem()
	source := newCaptureSource(cfg, clk)
	m := monitor.New(cfg, logger, clk, source, metrics.NewCollector())

	if err := m.Run(context.Background()); err != nil {
		logger.Error("monitor_failed", "error", err)
		fmt.Fprintf(os.Stderr, "httpwatch exited with error: %v\n", err)
		return 1
	}

	return 0
}

// newCaptureSource builds the live pcap source, or a synthetic generator
// when -synthetic is set (useful for demos and environments without
// capture permissions).
func newCaptureSource(cfg *config.Config, clk clock.Clock) capture.Source {
	if cfg.Synthetic {
		return &capture.FakeSource{Generate: true, Clock: clk}
	}
	return &capture.PcapSource{MaxStrLength: cfg.MaxStrLength, Clock: clk}
}

// printBanner prints the startup banner.
func printBanner(cfg *config.Config) {
	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════════════════════════════════╗")
	fmt.Println("║                           httpwatch                                ║")
	fmt.Println("║        Live HTTP Traffic Monitor & Adaptive Baseline Alerting      ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("  Interface:   %s\n", cfg.Interface)
	fmt.Printf("  Port:        %d\n", cfg.Port)
	if cfg.Synthetic {
		fmt.Println("  Capture:     SYNTHETIC (no live packets)")
	}
	fmt.Printf("  Metrics:     http://%s/metrics\n", cfg.MetricsAddr)
	fmt.Printf("  Learning:    %ds before alerting begins\n", cfg.AverageLearningDuration)
	fmt.Println()
	fmt.Println("Press Ctrl+C to stop.")
	fmt.Println()
}
