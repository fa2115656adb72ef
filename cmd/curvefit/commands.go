package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/banshee-data/curvefit/internal/analyzer"
	"github.com/banshee-data/curvefit/internal/curvedb"
	"github.com/banshee-data/curvefit/internal/monitoring"
	"github.com/banshee-data/curvefit/internal/render"
	"github.com/banshee-data/curvefit/internal/sequence"
	"github.com/banshee-data/curvefit/internal/telemetry"
	"github.com/banshee-data/curvefit/internal/track"
	"github.com/banshee-data/curvefit/internal/units"
)

func runIngest(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	dbPath := fs.String("db", "curves.db", "Sequence history (SQLite database, or .json file)")
	episodes := fs.String("episodes", "", "Comma-separated episode CSV files")
	configPath := fs.String("config", "", "Analysis config JSON (defaults when empty)")
	verbose := fs.Bool("v", false, "Verbose logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	monitoring.SetVerbose(*verbose)

	paths := append(splitList(*episodes), fs.Args()...)
	if len(paths) == 0 {
		return errors.New("no episodes given (use -episodes a.csv,b.csv)")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	persister, closer, err := openHistory(*dbPath)
	if err != nil {
		return err
	}
	defer closer.Close()

	source := telemetry.LoadEpisodes(paths)
	if len(source) == 0 {
		return errors.New("none of the episode files could be loaded")
	}

	store := sequence.NewStore(persister)
	a, err := analyzer.New(cfg.AnalyzerConfig(), cfg.ExtractionConfig(), store, analyzer.Controls{}, source, nil)
	if err != nil {
		return err
	}
	before := store.Len()

	if err := a.EpisodesChanged(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "ingested %d episodes: %d new sequences, %d in history\n",
		len(source), store.Len()-before, store.Len())
	return nil
}

func runMatch(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("match", flag.ContinueOnError)
	dbPath := fs.String("db", "curves.db", "Sequence history (SQLite database, or .json file)")
	trackPath := fs.String("track", "", "Track waypoint JSON file")
	configPath := fs.String("config", "", "Analysis config JSON (defaults when empty)")
	steering := fs.String("steering", "", "Action steering range lo:hi in degrees (left curve)")
	entrySpeed := fs.String("entry-speed", "", "Entry speed range lo:hi")
	actionSpeed := fs.String("action-speed", "", "Action speed range lo:hi")
	right := fs.Bool("right", false, "Match right-hand curves (mirrors the steering range)")
	unit := fs.String("units", units.MPS, "Speed units for ranges: "+units.ValidUnitsString())
	out := fs.String("out", "", "Render the overlay to .png, .svg or .html")
	verbose := fs.Bool("v", false, "Verbose logging")
	var clicks pointList
	fs.Var(&clicks, "click", "Click at x,y on the track plan (repeatable, applied in order)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	monitoring.SetVerbose(*verbose)

	if *trackPath == "" {
		return errors.New("-track is required")
	}
	if len(clicks) == 0 {
		return errors.New("at least one -click is required")
	}
	u, err := units.Parse(*unit)
	if err != nil {
		return err
	}

	steerRange, err := parseRange(*steering)
	if err != nil {
		return err
	}
	entryRange, err := parseSpeedRange(*entrySpeed, u)
	if err != nil {
		return err
	}
	actionRange, err := parseSpeedRange(*actionSpeed, u)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	t, err := track.Load(*trackPath)
	if err != nil {
		return err
	}
	persister, closer, err := openHistory(*dbPath)
	if err != nil {
		return err
	}
	defer closer.Close()

	controls := analyzer.Controls{
		Direction:   analyzer.FixedDirection(*right),
		Steering:    analyzer.FixedRange{R: steerRange},
		EntrySpeed:  analyzer.FixedRange{R: entryRange},
		ActionSpeed: analyzer.FixedRange{R: actionRange},
	}
	store := sequence.NewStore(persister)
	a, err := analyzer.New(cfg.AnalyzerConfig(), cfg.ExtractionConfig(), store, controls, nil, nil)
	if err != nil {
		return err
	}
	a.SetTrack(t)
	for _, c := range clicks {
		a.ChoosePoint(c)
	}

	ov, ok := a.Overlay()
	if !ok {
		return errors.New("no reference point could be chosen")
	}
	fmt.Fprintf(stdout, "reference (%.3f, %.3f) bearing %.2f\n", ov.Origin.X, ov.Origin.Y, float64(ov.Bearing))
	fmt.Fprintf(stdout, "query %s\n", ov.Query)
	fmt.Fprintf(stdout, "%d of %d sequences match\n", len(ov.Paths), store.Len())

	if *out == "" {
		return nil
	}
	title := fmt.Sprintf("%s: %d matching sequences", t.Name, len(ov.Paths))
	switch strings.ToLower(filepath.Ext(*out)) {
	case ".html":
		s := render.NewChartSurface(title)
		s.SetTrack(t)
		a.Redraw(s)
		return writeFile(*out, s.Render)
	default:
		s := render.NewPlotSurface(title)
		s.SetTrack(t)
		a.Redraw(s)
		return s.Save(*out)
	}
}

func runMigrate(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	dbPath := fs.String("db", "curves.db", "SQLite database")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("usage: curvefit migrate [-db PATH] up|down|version|status")
	}

	db, err := curvedb.OpenDB(*dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	switch action := fs.Arg(0); action {
	case "up":
		if err := db.MigrateUp(); err != nil {
			return err
		}
	case "down":
		if err := db.MigrateDown(); err != nil {
			return err
		}
	case "version":
	case "status":
		if err := printStatus(db, stdout); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown migrate action %q", action)
	}

	v, dirty, err := db.MigrateVersion()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "schema version %d (dirty: %v)\n", v, dirty)
	return nil
}

func printStatus(db *curvedb.DB, stdout io.Writer) error {
	v, _, err := db.MigrateVersion()
	if err != nil {
		return err
	}
	if v == 0 {
		fmt.Fprintln(stdout, "no migrations applied")
		return nil
	}
	counts, err := curvedb.NewSequenceRepository(db).CountByEpisode(context.Background())
	if err != nil {
		return err
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	fmt.Fprintf(stdout, "%d sequences from %d episodes\n", total, len(counts))
	return nil
}
