package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadYAML reads path and unmarshals its contents over cfg, overlaying only
// the fields the YAML document sets. ParseFlags calls it after the flag
// defaults are bound and before flag.Parse, so flags always win over the
// overlay and the overlay always wins over built-in defaults.
func LoadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %q: %w", path, err)
	}
	return nil
}
