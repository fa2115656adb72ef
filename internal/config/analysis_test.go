package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/curvefit/internal/analyzer"
	"github.com/banshee-data/curvefit/internal/sequence"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestEmptyConfigUsesDefaults(t *testing.T) {
	cfg := &AnalysisConfig{}
	assert.Equal(t, analyzer.DefaultConfig(), cfg.AnalyzerConfig())
	assert.Equal(t, sequence.DefaultExtractionConfig(), cfg.ExtractionConfig())
}

func TestDefaultAnalysisConfig_MatchesGetters(t *testing.T) {
	cfg := DefaultAnalysisConfig()
	assert.Equal(t, (&AnalysisConfig{}).AnalyzerConfig(), cfg.AnalyzerConfig())
	assert.Equal(t, (&AnalysisConfig{}).ExtractionConfig(), cfg.ExtractionConfig())
}

func TestDefaultsFileMatchesCode(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	assert.Equal(t, DefaultAnalysisConfig(), cfg)
}

func TestLoadAnalysisConfig_Partial(t *testing.T) {
	path := writeConfig(t, "tuning.json", `{"vehicle_width": 0.3, "min_run_samples": 6}`)

	cfg, err := LoadAnalysisConfig(path)
	require.NoError(t, err)

	ac := cfg.AnalyzerConfig()
	assert.Equal(t, 0.3, ac.VehicleWidth)
	assert.Equal(t, 6, ac.MinRunSamples)
	assert.Equal(t, 2.0, ac.BackwardsDistance)

	ec := cfg.ExtractionConfig()
	assert.Equal(t, 6, ec.MinRunSamples)
	assert.Equal(t, 5.0, ec.SteeringThresholdDegrees)
}

func TestLoadAnalysisConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		wantErr string
	}{
		{"wrong extension", "tuning.yaml", `{}`, ".json extension"},
		{"bad json", "bad.json", `{"vehicle_width":`, "parse"},
		{"negative width", "neg.json", `{"vehicle_width": -1}`, "vehicle_width"},
		{"zero backwards distance", "zero.json", `{"backwards_distance": 0}`, "backwards_distance"},
		{"min run samples", "runs.json", `{"min_run_samples": 0}`, "min_run_samples"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAnalysisConfig(writeConfig(t, tt.file, tt.body))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	_, err := LoadAnalysisConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadAnalysisConfig_TooLarge(t *testing.T) {
	big := make([]byte, maxConfigFileSize+1)
	for i := range big {
		big[i] = ' '
	}
	path := filepath.Join(t.TempDir(), "big.json")
	require.NoError(t, os.WriteFile(path, big, 0644))

	_, err := LoadAnalysisConfig(path)
	assert.ErrorContains(t, err, "too large")
}
