package config

import (
	"flag"
	"fmt"
	"os"
)

// ParseFlags parses command-line flags and returns a Config. If -config
// names a YAML file, it is loaded over the defaults before flags are
// applied, so explicit flags always take precedence.
func ParseFlags() (*Config, error) {
	cfg := DefaultConfig()

	var configPath string

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `httpwatch - live HTTP traffic monitor with adaptive-baseline alerting

Usage:
  httpwatch [flags]

Capture Flags:
`)
		printFlagCategory([]string{"interface", "i", "port", "p", "synthetic"})

		fmt.Fprintf(os.Stderr, "\nTunables:\n")
		printFlagCategory([]string{"timeout", "dashboard-bucket-size", "average-bucket-size",
			"average-threshold", "average-learning-duration", "max-str-length",
			"max-top-hits", "max-retention-length"})

		fmt.Fprintf(os.Stderr, "\nConfig & Observability:\n")
		printFlagCategory([]string{"config", "metrics-addr", "log-format", "v", "skip-preflight"})

		fmt.Fprintf(os.Stderr, `
Examples:
  httpwatch -i eth0 -p 80
  httpwatch -config ./httpwatch.yaml -v

`)
	}

	flag.StringVar(&cfg.Interface, "interface", cfg.Interface, "Network interface to capture on")
	flag.StringVar(&cfg.Interface, "i", cfg.Interface, "Shorthand for -interface")
	flag.IntVar(&cfg.Port, "port", cfg.Port, "TCP port to capture")
	flag.IntVar(&cfg.Port, "p", cfg.Port, "Shorthand for -port")
	flag.BoolVar(&cfg.Synthetic, "synthetic", cfg.Synthetic, "Use a synthetic capture source instead of live pcap")

	flag.IntVar(&cfg.Timeout, "timeout", cfg.Timeout, "Periodic tick period, seconds")
	flag.IntVar(&cfg.DashboardBucketSize, "dashboard-bucket-size", cfg.DashboardBucketSize, "Dashboard refresh period, seconds")
	flag.IntVar(&cfg.AverageBucketSize, "average-bucket-size", cfg.AverageBucketSize, "Evaluation window, seconds")
	flag.Float64Var(&cfg.AverageThreshold, "average-threshold", cfg.AverageThreshold, "Alert trigger percent over baseline")
	flag.IntVar(&cfg.AverageLearningDuration, "average-learning-duration", cfg.AverageLearningDuration, "Learning window, seconds")
	flag.IntVar(&cfg.MaxStrLength, "max-str-length", cfg.MaxStrLength, "Per-field string truncation, bytes")
	flag.IntVar(&cfg.MaxTopHits, "max-top-hits", cfg.MaxTopHits, "Rows displayed per aggregator")
	flag.IntVar(&cfg.MaxRetentionLength, "max-retention-length", cfg.MaxRetentionLength, "Retention cutoff, seconds")

	flag.StringVar(&configPath, "config", "", "YAML config overlay, applied before flags")
	flag.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Prometheus metrics listen address")
	flag.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, `Log format: "json" or "text"`)
	flag.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Verbose logging")
	flag.BoolVar(&cfg.SkipPreflight, "skip-preflight", cfg.SkipPreflight, "Skip preflight checks")

	// Registering the flags above already wrote each default into cfg. The
	// YAML overlay is loaded on top of those defaults now, and flag.Parse
	// then sets only the flags given on the command line. flag.Parse can
	// only run once, so we scan os.Args ourselves for -config/--config.
	configPath = scanConfigFlag(os.Args[1:])
	if configPath != "" {
		if err := LoadYAML(configPath, cfg); err != nil {
			return nil, err
		}
		cfg.ConfigPath = configPath
	}

	flag.Parse()

	return cfg, nil
}

// scanConfigFlag looks for -config/--config <path> or -config=<path> ahead
// of the real flag.Parse call, since the YAML overlay must be loaded after
// flag defaults are bound and before flag.Parse, which must run only once.
func scanConfigFlag(args []string) string {
	for i, a := range args {
		switch {
		case a == "-config" || a == "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
		case len(a) > 8 && a[:8] == "-config=":
			return a[8:]
		case len(a) > 9 && a[:9] == "--config=":
			return a[9:]
		}
	}
	return ""
}

// printFlagCategory prints flags matching the given names (helper for usage).
func printFlagCategory(names []string) {
	flag.VisitAll(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				fmt.Fprintf(os.Stderr, "  -%s\n    \t%s", f.Name, f.Usage)
				if f.DefValue != "" && f.DefValue != "false" {
					fmt.Fprintf(os.Stderr, " (default %s)", f.DefValue)
				}
				fmt.Fprintln(os.Stderr)
				return
			}
		}
	})
}
