// Package analyzer drives curve fitting: it turns a clicked reference
// point on the track plan into a chosen point, bearing and backwards
// anchor, and overlays matching historical sequences onto that frame.
//
// A CurveFitting instance is meant to be driven from a single goroutine,
// typically a UI event loop.
package analyzer

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/curvefit/internal/geometry"
	"github.com/banshee-data/curvefit/internal/monitoring"
	"github.com/banshee-data/curvefit/internal/sequence"
	"github.com/banshee-data/curvefit/internal/telemetry"
)

// State of the reference-point selection.
type State int

const (
	NoPointChosen State = iota
	PointChosen
)

func (s State) String() string {
	switch s {
	case NoPointChosen:
		return "no-point-chosen"
	case PointChosen:
		return "point-chosen"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Config holds the analyzer tuning values.
type Config struct {
	// BackwardsDistance is how far behind the chosen point the anchor sits.
	BackwardsDistance float64
	// VehicleWidth widens the snapping corridor around the centreline.
	VehicleWidth float64
	// A click re-aims the anchor when its distance to the anchor is below
	// ReaimProximityRatio times its distance to the chosen point, and that
	// distance to the chosen point is within
	// ReaimDistanceTolerance*BackwardsDistance of BackwardsDistance.
	ReaimProximityRatio    float64
	ReaimDistanceTolerance float64
	// MinRunSamples is the extraction lookback used on new episode data.
	MinRunSamples int
}

func DefaultConfig() Config {
	return Config{
		BackwardsDistance:      2,
		VehicleWidth:           0.225,
		ReaimProximityRatio:    0.5,
		ReaimDistanceTolerance: 0.25,
		MinRunSamples:          10,
	}
}

// CurveFitting is the curve-fitting analyzer.
type CurveFitting struct {
	cfg        Config
	extraction sequence.ExtractionConfig
	store      *sequence.Store
	controls   Controls
	episodes   EpisodeSource
	redraw     func()

	track Track

	chosen  *geometry.Point
	bearing *geometry.Bearing
	anchor  *geometry.Point

	// memoized extraction for the last episode set seen
	lastFingerprint string
	lastExtracted   []sequence.Sequence
}

// New builds an analyzer and loads the store's persisted history. The
// store is required. A load failure is returned; the analyzer is still
// usable with whatever the store holds.
func New(cfg Config, extraction sequence.ExtractionConfig, store *sequence.Store, controls Controls, episodes EpisodeSource, redraw func()) (*CurveFitting, error) {
	if store == nil {
		return nil, errors.New("analyzer: nil sequence store")
	}
	if redraw == nil {
		redraw = func() {}
	}
	extraction.MinRunSamples = cfg.MinRunSamples
	a := &CurveFitting{
		cfg:        cfg,
		extraction: extraction,
		store:      store,
		controls:   controls,
		episodes:   episodes,
		redraw:     redraw,
	}
	if err := store.Load(); err != nil {
		return a, err
	}
	return a, nil
}

// State reports whether a reference point is currently chosen.
func (a *CurveFitting) State() State {
	if a.chosen != nil && a.bearing != nil {
		return PointChosen
	}
	return NoPointChosen
}

// Reference returns the chosen point, bearing and backwards anchor.
func (a *CurveFitting) Reference() (point geometry.Point, bearing geometry.Bearing, anchor geometry.Point, ok bool) {
	if a.State() != PointChosen {
		return geometry.Point{}, 0, geometry.Point{}, false
	}
	return *a.chosen, *a.bearing, *a.anchor, true
}

// SetTrack switches the current track and forgets the reference point.
func (a *CurveFitting) SetTrack(t Track) {
	a.track = t
	a.chosen = nil
	a.anchor = nil
	a.bearing = nil
	monitoring.Debugf("track changed, reference cleared")
}

// ChoosePoint handles a click on the track plan at p.
func (a *CurveFitting) ChoosePoint(p geometry.Point) {
	if a.isReaim(p) {
		anchor := p
		bearing := geometry.BearingBetween(anchor, *a.chosen)
		a.anchor = &anchor
		a.bearing = &bearing
		monitoring.Debugf("anchor re-aimed to (%.3f, %.3f), bearing %.2f", p.X, p.Y, float64(bearing))
		a.redraw()
		return
	}

	if a.track == nil {
		monitoring.Logf("curve fitting: click at (%.3f, %.3f) ignored, no track selected", p.X, p.Y)
		return
	}
	id := a.track.ClosestWaypointID(p)
	if id < 0 {
		monitoring.Logf("curve fitting: click ignored, track has no waypoints")
		return
	}

	waypoint := a.track.Waypoint(id)
	chosen := p
	maxFromCentre := (a.track.Width() + a.cfg.VehicleWidth) / 2
	if geometry.Distance(waypoint, p) > maxFromCentre {
		chosen = geometry.PointAtBearing(waypoint, geometry.BearingBetween(waypoint, p), maxFromCentre)
	}
	bearing := a.track.BearingAtWaypoint(id)
	anchor := geometry.PointAtBearing(chosen, bearing.Add(-180), a.cfg.BackwardsDistance)

	a.chosen = &chosen
	a.bearing = &bearing
	a.anchor = &anchor
	monitoring.Debugf("chose (%.3f, %.3f) at waypoint %d, bearing %.2f", chosen.X, chosen.Y, id, float64(bearing))
	a.redraw()
}

func (a *CurveFitting) isReaim(p geometry.Point) bool {
	if a.anchor == nil || a.chosen == nil {
		return false
	}
	backwards := geometry.Distance(p, *a.anchor)
	primary := geometry.Distance(p, *a.chosen)
	bd := a.cfg.BackwardsDistance
	return backwards < a.cfg.ReaimProximityRatio*primary &&
		math.Abs(primary-bd) < a.cfg.ReaimDistanceTolerance*bd
}

// EpisodesChanged extracts sequences from every available episode,
// appends them to the store, saves it and triggers a redraw. A save error
// is returned after the in-memory store has been updated.
func (a *CurveFitting) EpisodesChanged() error {
	var episodes []telemetry.Episode
	if a.episodes != nil {
		episodes = a.episodes.Episodes()
	}

	fp := fingerprint(episodes)
	extracted := a.lastExtracted
	if fp != a.lastFingerprint {
		extracted = sequence.ExtractAll(episodes, a.extraction)
		a.lastFingerprint = fp
		a.lastExtracted = extracted
	} else {
		monitoring.Debugf("episode set unchanged, reusing %d extracted sequences", len(extracted))
	}

	a.store.Add(extracted...)
	monitoring.Logf("extracted %d sequences from %d episodes (store now %d)", len(extracted), len(episodes), a.store.Len())

	err := a.store.Save()
	a.redraw()
	return err
}

// fingerprint hashes the full content of an episode set, so any changed
// sample invalidates the memoized extraction.
func fingerprint(episodes []telemetry.Episode) string {
	h := sha256.New()
	var buf [8]byte
	putUint := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	putFloat := func(v float64) { putUint(math.Float64bits(v)) }

	putUint(uint64(len(episodes)))
	for _, ep := range episodes {
		putUint(uint64(len(ep.ID)))
		h.Write([]byte(ep.ID))
		putUint(uint64(len(ep.Samples)))
		for _, smp := range ep.Samples {
			putUint(uint64(smp.Step))
			putFloat(smp.Position.X)
			putFloat(smp.Position.Y)
			putFloat(smp.Speed)
			putFloat(smp.SteeringDegrees)
			putFloat(float64(smp.Heading))
			if smp.Slide != nil {
				putUint(1)
				putFloat(*smp.Slide)
			} else {
				putUint(0)
			}
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
