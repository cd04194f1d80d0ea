// Package config loads service configuration from PATHPLAN_-prefixed
// environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/lixenwraith/pathplan/navigation"
	"github.com/lixenwraith/pathplan/parameter"
)

// Config holds the tunable surface of the planning service
type Config struct {
	// Mode is "immediate" or "budgeted"
	Mode string `env:"PATHPLAN_MODE" envDefault:"immediate"`

	MaxPlansPerFrame   int `env:"PATHPLAN_MAX_PLANS_PER_FRAME" envDefault:"8"`
	MaxReplansPerFrame int `env:"PATHPLAN_MAX_REPLANS_PER_FRAME" envDefault:"4"`

	GraphDensityMultiplier float64 `env:"PATHPLAN_GRAPH_DENSITY_MULT" envDefault:"1.0"`
	FlowDensityMultiplier  float64 `env:"PATHPLAN_FLOW_DENSITY_MULT" envDefault:"1.0"`

	// NodeExpansionCap bounds work per search invocation; 0 removes the cap
	NodeExpansionCap int `env:"PATHPLAN_NODE_EXPANSION_CAP" envDefault:"16384"`
}

// Load parses configuration from the environment
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if _, err := cfg.ExecutionMode(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ExecutionMode maps the mode string onto the manager's enum
func (c Config) ExecutionMode() (navigation.ExecutionMode, error) {
	switch c.Mode {
	case "immediate", "":
		return navigation.ModeImmediate, nil
	case "budgeted":
		return navigation.ModeBudgeted, nil
	}
	return 0, fmt.Errorf("unknown execution mode %q", c.Mode)
}

// ManagerConfig converts to the manager's construction config
// Invalid mode strings fall back to immediate; Load rejects them upfront
func (c Config) ManagerConfig() navigation.ManagerConfig {
	mode, err := c.ExecutionMode()
	if err != nil {
		mode = navigation.ModeImmediate
	}
	mc := navigation.ManagerConfig{
		Mode:               mode,
		MaxPlansPerFrame:   c.MaxPlansPerFrame,
		MaxReplansPerFrame: c.MaxReplansPerFrame,
	}
	if mc.MaxPlansPerFrame <= 0 {
		mc.MaxPlansPerFrame = parameter.DefaultMaxPlansPerFrame
	}
	if mc.MaxReplansPerFrame <= 0 {
		mc.MaxReplansPerFrame = parameter.DefaultMaxReplansPerFrame
	}
	return mc
}
