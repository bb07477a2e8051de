package application

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	diagram "sld-service/internal/diagram/domain"
)

// LoadLayoutConfig starts from the default spacing, overlays the yaml file named by
// LAYOUT_CONFIG when set, applies LAYOUT_ENUMERATE_CONNECTIONS, and validates the result.
func LoadLayoutConfig() (diagram.LayoutConfig, error) {
	cfg := diagram.DefaultLayoutConfig()

	if path := os.Getenv("LAYOUT_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if cfg, err = ParseLayoutConfig(data); err != nil {
			return cfg, err
		}
	}
	if value := os.Getenv("LAYOUT_ENUMERATE_CONNECTIONS"); value != "" {
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return cfg, fmt.Errorf("layout config: LAYOUT_ENUMERATE_CONNECTIONS: %w", err)
		}
		cfg.EnumerateConnections = enabled
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ParseLayoutConfig overlays yaml data on the default spacing. Keys left out of the
// document keep their defaults.
func ParseLayoutConfig(data []byte) (diagram.LayoutConfig, error) {
	cfg := diagram.DefaultLayoutConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("layout config: %w", err)
	}
	return cfg, nil
}
