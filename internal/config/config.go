// Package config provides configuration management for the monitor.
package config

// Config holds all configuration options for the monitor.
type Config struct {
	// Capture
	Interface string `yaml:"interface" json:"interface"`
	Port      int    `yaml:"port" json:"port"`
	Synthetic bool   `yaml:"-" json:"synthetic"`

	// Tunables (spec §6)
	Timeout                 int     `yaml:"timeout" json:"timeout"`
	DashboardBucketSize     int     `yaml:"dashboard_bucket_size" json:"dashboard_bucket_size"`
	AverageBucketSize       int     `yaml:"average_bucket_size" json:"average_bucket_size"`
	AverageThreshold        float64 `yaml:"average_threshold" json:"average_threshold"`
	AverageLearningDuration int     `yaml:"average_learning_duration" json:"average_learning_duration"`
	MaxStrLength            int     `yaml:"max_str_length" json:"max_str_length"`
	MaxTopHits              int     `yaml:"max_top_hits" json:"max_top_hits"`
	MaxRetentionLength      int     `yaml:"max_retention_length" json:"max_retention_length"`

	// Observability
	MetricsAddr string `yaml:"-" json:"metrics_addr"`
	Verbose     bool   `yaml:"-" json:"verbose"`
	LogFormat   string `yaml:"-" json:"log_format"` // json, text

	// Diagnostic modes
	SkipPreflight bool `yaml:"-" json:"skip_preflight"`

	// ConfigPath, if set, is the YAML overlay applied before flags.
	ConfigPath string `yaml:"-" json:"-"`
}

// DefaultConfig returns a Config with the defaults from spec §6's table.
func DefaultConfig() *Config {
	return &Config{
		Interface: "eth0",
		Port:      80,

		Timeout:                 1,
		DashboardBucketSize:     10,
		AverageBucketSize:       120,
		AverageThreshold:        10,
		AverageLearningDuration: 120,
		MaxStrLength:            1024,
		MaxTopHits:              10,
		MaxRetentionLength:      86400,

		MetricsAddr: "0.0.0.0:9110",
		Verbose:     false,
		LogFormat:   "text",
	}
}
