// Package config loads curve-analysis tuning from JSON.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/banshee-data/curvefit/internal/analyzer"
	"github.com/banshee-data/curvefit/internal/sequence"
)

// DefaultConfigPath is the canonical defaults file. The Get* fallbacks
// below must agree with it.
const DefaultConfigPath = "config/analysis.defaults.json"

const maxConfigFileSize = 1 * 1024 * 1024 // 1MB

// AnalysisConfig is the on-disk tuning schema. Omitted fields fall back to
// their defaults, so partial files are valid.
type AnalysisConfig struct {
	// Analyzer
	BackwardsDistance      *float64 `json:"backwards_distance,omitempty"`
	VehicleWidth           *float64 `json:"vehicle_width,omitempty"`
	ReaimProximityRatio    *float64 `json:"reaim_proximity_ratio,omitempty"`
	ReaimDistanceTolerance *float64 `json:"reaim_distance_tolerance,omitempty"`
	MinRunSamples          *int     `json:"min_run_samples,omitempty"`

	// Extraction
	SteeringThresholdDegrees *float64 `json:"steering_threshold_degrees,omitempty"`
	LeadInDistance           *float64 `json:"lead_in_distance,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }

// DefaultAnalysisConfig returns a config with every field populated.
func DefaultAnalysisConfig() *AnalysisConfig {
	a := analyzer.DefaultConfig()
	e := sequence.DefaultExtractionConfig()
	return &AnalysisConfig{
		BackwardsDistance:        ptrFloat64(a.BackwardsDistance),
		VehicleWidth:             ptrFloat64(a.VehicleWidth),
		ReaimProximityRatio:      ptrFloat64(a.ReaimProximityRatio),
		ReaimDistanceTolerance:   ptrFloat64(a.ReaimDistanceTolerance),
		MinRunSamples:            ptrInt(a.MinRunSamples),
		SteeringThresholdDegrees: ptrFloat64(e.SteeringThresholdDegrees),
		LeadInDistance:           ptrFloat64(e.LeadInDistance),
	}
}

// LoadAnalysisConfig reads and validates a config file. The path must
// have a .json extension and the file must be under 1MB.
func LoadAnalysisConfig(path string) (*AnalysisConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxConfigFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &AnalysisConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath from the working directory
// or a parent of it. It panics when the file cannot be found; use it in
// tests and tools only.
func MustLoadDefaultConfig() *AnalysisConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadAnalysisConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run from repository root")
}

// Validate checks the fields that are set.
func (c *AnalysisConfig) Validate() error {
	positive := []struct {
		name string
		v    *float64
	}{
		{"backwards_distance", c.BackwardsDistance},
		{"reaim_proximity_ratio", c.ReaimProximityRatio},
		{"reaim_distance_tolerance", c.ReaimDistanceTolerance},
	}
	for _, f := range positive {
		if f.v != nil && !(*f.v > 0) {
			return fmt.Errorf("%s must be positive, got %v", f.name, *f.v)
		}
	}

	nonNegative := []struct {
		name string
		v    *float64
	}{
		{"vehicle_width", c.VehicleWidth},
		{"steering_threshold_degrees", c.SteeringThresholdDegrees},
		{"lead_in_distance", c.LeadInDistance},
	}
	for _, f := range nonNegative {
		if f.v != nil && (*f.v < 0 || math.IsNaN(*f.v)) {
			return fmt.Errorf("%s must be non-negative, got %v", f.name, *f.v)
		}
	}

	if c.MinRunSamples != nil && *c.MinRunSamples < 1 {
		return fmt.Errorf("min_run_samples must be at least 1, got %d", *c.MinRunSamples)
	}
	return nil
}

func (c *AnalysisConfig) GetBackwardsDistance() float64 {
	if c.BackwardsDistance == nil {
		return 2
	}
	return *c.BackwardsDistance
}

func (c *AnalysisConfig) GetVehicleWidth() float64 {
	if c.VehicleWidth == nil {
		return 0.225
	}
	return *c.VehicleWidth
}

func (c *AnalysisConfig) GetReaimProximityRatio() float64 {
	if c.ReaimProximityRatio == nil {
		return 0.5
	}
	return *c.ReaimProximityRatio
}

func (c *AnalysisConfig) GetReaimDistanceTolerance() float64 {
	if c.ReaimDistanceTolerance == nil {
		return 0.25
	}
	return *c.ReaimDistanceTolerance
}

func (c *AnalysisConfig) GetMinRunSamples() int {
	if c.MinRunSamples == nil {
		return 10
	}
	return *c.MinRunSamples
}

func (c *AnalysisConfig) GetSteeringThresholdDegrees() float64 {
	if c.SteeringThresholdDegrees == nil {
		return 5
	}
	return *c.SteeringThresholdDegrees
}

func (c *AnalysisConfig) GetLeadInDistance() float64 {
	if c.LeadInDistance == nil {
		return 2
	}
	return *c.LeadInDistance
}

// AnalyzerConfig converts to the analyzer's settings.
func (c *AnalysisConfig) AnalyzerConfig() analyzer.Config {
	return analyzer.Config{
		BackwardsDistance:      c.GetBackwardsDistance(),
		VehicleWidth:           c.GetVehicleWidth(),
		ReaimProximityRatio:    c.GetReaimProximityRatio(),
		ReaimDistanceTolerance: c.GetReaimDistanceTolerance(),
		MinRunSamples:          c.GetMinRunSamples(),
	}
}

// ExtractionConfig converts to the extraction settings.
func (c *AnalysisConfig) ExtractionConfig() sequence.ExtractionConfig {
	return sequence.ExtractionConfig{
		MinRunSamples:            c.GetMinRunSamples(),
		SteeringThresholdDegrees: c.GetSteeringThresholdDegrees(),
		LeadInDistance:           c.GetLeadInDistance(),
	}
}
