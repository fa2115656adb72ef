// Command curvefit builds a history of curve sequences from recorded
// telemetry and overlays matching sequences onto a track plan.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/banshee-data/curvefit/internal/config"
	"github.com/banshee-data/curvefit/internal/curvedb"
	"github.com/banshee-data/curvefit/internal/fsutil"
	"github.com/banshee-data/curvefit/internal/monitoring"
	"github.com/banshee-data/curvefit/internal/sequence"
	"github.com/banshee-data/curvefit/internal/version"
)

const usage = `usage: curvefit <command> [flags]

commands:
  ingest   extract sequences from episode CSVs into the history
  match    choose reference points on a track and render matching sequences
  migrate  manage the SQLite schema (up, down, version)
  version  print build information
`

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "ingest":
		err = runIngest(args, os.Stdout)
	case "match":
		err = runMatch(args, os.Stdout)
	case "migrate":
		err = runMigrate(args, os.Stdout)
	case "version":
		fmt.Println(version.String())
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

// openHistory opens the sequence history at path. A .json path uses the
// flat file format; anything else is a SQLite database, migrated on open.
// The returned closer releases the database, if any.
func openHistory(path string) (sequence.Persister, io.Closer, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return sequence.NewFilePersister(fsutil.OSFileSystem{}, path), nopCloser{}, nil
	}
	db, err := curvedb.OpenAndMigrate(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open database %s: %w", path, err)
	}
	return curvedb.NewSequenceRepository(db), db, nil
}

func loadConfig(path string) (*config.AnalysisConfig, error) {
	if path == "" {
		return &config.AnalysisConfig{}, nil
	}
	cfg, err := config.LoadAnalysisConfig(path)
	if err != nil {
		return nil, err
	}
	monitoring.Debugf("loaded analysis config from %s", path)
	return cfg, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
