package sequence

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/curvefit/internal/geometry"
	"github.com/banshee-data/curvefit/internal/monitoring"
	"github.com/banshee-data/curvefit/internal/telemetry"
)

// ExtractionConfig holds the thresholds used to split episodes into runs.
type ExtractionConfig struct {
	MinRunSamples            int     // minimum samples in a run (lookback)
	SteeringThresholdDegrees float64 // |steering| at or above this is curving
	LeadInDistance           float64 // plan units of lead-in kept before a run
}

// DefaultExtractionConfig returns the thresholds used by the analyzer.
func DefaultExtractionConfig() ExtractionConfig {
	return ExtractionConfig{
		MinRunSamples:            10,
		SteeringThresholdDegrees: 5,
		LeadInDistance:           2,
	}
}

type run struct {
	start, end int // end-exclusive sample indices
}

// ExtractAll extracts sequences from every episode in order.
func ExtractAll(episodes []telemetry.Episode, cfg ExtractionConfig) []Sequence {
	var out []Sequence
	for _, ep := range episodes {
		out = append(out, ExtractEpisode(ep, cfg)...)
	}
	return out
}

// ExtractEpisode splits one episode into sequences. A run is a maximal span
// of samples steering in one direction at or above the threshold. Runs
// shorter than MinRunSamples, and runs starting at the first sample (no
// entry sample precedes them), are dropped. Episodes shorter than
// MinRunSamples yield nothing.
func ExtractEpisode(ep telemetry.Episode, cfg ExtractionConfig) []Sequence {
	if cfg.MinRunSamples < 1 {
		cfg.MinRunSamples = 1
	}
	if len(ep.Samples) < cfg.MinRunSamples {
		monitoring.Debugf("episode %s: %d samples, below lookback %d", ep.Name, len(ep.Samples), cfg.MinRunSamples)
		return nil
	}

	runs := findRuns(ep.Samples, cfg)
	out := make([]Sequence, 0, len(runs))
	for _, r := range runs {
		seq := buildSequence(ep, r, cfg)
		if !seq.finite() {
			monitoring.Logf("episode %s: dropping sequence at step %d with non-finite values", ep.Name, seq.StartStep)
			continue
		}
		out = append(out, seq)
	}
	monitoring.Debugf("episode %s: %d sequences", ep.Name, len(out))
	return out
}

func findRuns(samples []telemetry.Sample, cfg ExtractionConfig) []run {
	var runs []run
	inRun := false
	start := 0
	left := false

	closeRun := func(end int) {
		if start > 0 && end-start >= cfg.MinRunSamples {
			runs = append(runs, run{start: start, end: end})
		}
		inRun = false
	}

	for i, s := range samples {
		steer := s.SteeringDegrees
		curving := steer != 0 && math.Abs(steer) >= cfg.SteeringThresholdDegrees
		if inRun && (!curving || (steer > 0) != left) {
			closeRun(i)
		}
		if !inRun && curving {
			inRun = true
			start = i
			left = steer > 0
		}
	}
	if inRun {
		closeRun(len(samples))
	}
	return runs
}

func buildSequence(ep telemetry.Episode, r run, cfg ExtractionConfig) Sequence {
	samples := ep.Samples
	entry := samples[r.start-1]
	origin := samples[r.start]

	speeds := make([]float64, 0, r.end-r.start)
	steering := make([]float64, 0, r.end-r.start)
	for _, s := range samples[r.start:r.end] {
		speeds = append(speeds, s.Speed)
		steering = append(steering, s.SteeringDegrees)
	}

	leadIn := r.start
	for leadIn > 0 && geometry.Distance(origin.Position, samples[leadIn-1].Position) <= cfg.LeadInDistance {
		leadIn--
	}

	offsets := make([]RelativeOffset, 0, r.end-leadIn)
	for _, s := range samples[leadIn:r.end] {
		offsets = append(offsets, relativeOffset(origin.Position, origin.Heading, s.Position))
	}

	seq := Sequence{
		EpisodeID:             ep.ID,
		StartStep:             origin.Step,
		EntrySpeed:            entry.Speed,
		ActionSpeed:           stat.Mean(speeds, nil),
		ActionSteeringDegrees: stat.Mean(steering, nil),
		Offsets:               offsets,
	}
	if entry.Slide != nil {
		slide := *entry.Slide
		seq.EntrySlide = &slide
	}
	return seq
}
