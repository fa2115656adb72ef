// Package telemetry holds the recorded per-episode sample model and the
// loaders that bring episodes in from disk.
package telemetry

import (
	"github.com/google/uuid"

	"github.com/banshee-data/curvefit/internal/geometry"
)

// episodeNamespace scopes name-based episode IDs so the same source name
// always yields the same ID.
var episodeNamespace = uuid.MustParse("5b0f8e2a-7c1d-4f3e-9a61-c2d84e0b7f15")

// Sample is one telemetry record.
type Sample struct {
	Step            int
	Position        geometry.Point
	Speed           float64
	SteeringDegrees float64
	Heading         geometry.Bearing
	// Slide is the lateral slip angle in degrees; nil when the source
	// did not record it.
	Slide *float64
}

// Episode is one complete recorded run.
type Episode struct {
	ID      string
	Name    string
	Samples []Sample
}

// EpisodeID returns the deterministic ID for an episode source name.
func EpisodeID(name string) string {
	return uuid.NewSHA1(episodeNamespace, []byte(name)).String()
}

// NewEpisode builds an episode whose ID is derived from name.
func NewEpisode(name string, samples []Sample) Episode {
	return Episode{ID: EpisodeID(name), Name: name, Samples: samples}
}

// StaticSource serves a fixed set of episodes.
type StaticSource []Episode

// Episodes returns the loaded episodes.
func (s StaticSource) Episodes() []Episode {
	return s
}
