// Package config loads the tunable layout parameters (spec §6) via viper,
// grounded on junjiewwang-perf-analysis's pkg/config: defaults set on a
// fresh *viper.Viper, an optional file overlay, then environment overrides,
// unmarshaled into a plain struct via mapstructure tags.
package config

import (
	"bytes"
	"fmt"

	"github.com/spf13/viper"
)

// Params are the tunable constants threaded explicitly through straighten,
// joint, and vertical — never a package-level global, so a fresh Params per
// layout run is all that is needed to re-layout from scratch (spec §5).
type Params struct {
	ContentPadding float64 `mapstructure:"content_padding"`
	BlockGap       float64 `mapstructure:"block_gap"`
	PortStart      float64 `mapstructure:"port_start"`
	PortSpacing    float64 `mapstructure:"port_spacing"`
	ArrowRadius    float64 `mapstructure:"arrow_radius"`
	TrackPadding   float64 `mapstructure:"track_padding"`
	JointSpacing   float64 `mapstructure:"joint_spacing"`

	BackedgeArrowPushout float64 `mapstructure:"backedge_arrow_pushout"`
	HeaderArrowPushdown  float64 `mapstructure:"header_arrow_pushdown"`
	NearlyStraight       float64 `mapstructure:"nearly_straight"`

	LayoutIterations         int `mapstructure:"layout_iterations"`
	NearlyStraightIterations int `mapstructure:"nearly_straight_iterations"`

	// StrictMode makes layout.Build panic instead of warn when its
	// post-straightening overlap check fails, for debug/test builds.
	StrictMode bool `mapstructure:"strict_mode"`
}

// Default returns the parameter set with every value from spec §6's
// tunable-parameters table.
func Default() Params {
	return Params{
		ContentPadding:           20,
		BlockGap:                 44,
		PortStart:                16,
		PortSpacing:              60,
		ArrowRadius:              12,
		TrackPadding:             36,
		JointSpacing:             16,
		BackedgeArrowPushout:     32,
		HeaderArrowPushdown:      16,
		NearlyStraight:           30,
		LayoutIterations:         2,
		NearlyStraightIterations: 4,
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("content_padding", d.ContentPadding)
	v.SetDefault("block_gap", d.BlockGap)
	v.SetDefault("port_start", d.PortStart)
	v.SetDefault("port_spacing", d.PortSpacing)
	v.SetDefault("arrow_radius", d.ArrowRadius)
	v.SetDefault("track_padding", d.TrackPadding)
	v.SetDefault("joint_spacing", d.JointSpacing)
	v.SetDefault("backedge_arrow_pushout", d.BackedgeArrowPushout)
	v.SetDefault("header_arrow_pushdown", d.HeaderArrowPushdown)
	v.SetDefault("nearly_straight", d.NearlyStraight)
	v.SetDefault("layout_iterations", d.LayoutIterations)
	v.SetDefault("nearly_straight_iterations", d.NearlyStraightIterations)
	v.SetDefault("strict_mode", d.StrictMode)
}

// Load reads Params from configPath (yaml/json/toml, viper auto-detects by
// extension), overlaying spec defaults, then environment variables
// (IONGRAPH_LAYOUT_<KEY>). An empty configPath yields pure defaults plus any
// environment overrides.
func Load(configPath string) (Params, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("iongraph_layout")
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Params{}, fmt.Errorf("config: reading %s: %w", configPath, err)
		}
	}

	var p Params
	if err := v.Unmarshal(&p); err != nil {
		return Params{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return p, nil
}

// LoadFromReader loads Params from in-memory content, for tests.
func LoadFromReader(configType string, content []byte) (Params, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return Params{}, fmt.Errorf("config: reading buffer: %w", err)
	}
	var p Params
	if err := v.Unmarshal(&p); err != nil {
		return Params{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return p, nil
}
