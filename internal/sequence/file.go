package sequence

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/banshee-data/curvefit/internal/fsutil"
)

const fileFormatVersion = 1

type fileDocument struct {
	Version   int        `json:"version"`
	Sequences []Sequence `json:"sequences"`
}

// FilePersister stores sequences as a single JSON document. Floats are
// written with the shortest representation that parses back to the same
// value, so a save/load cycle is lossless.
type FilePersister struct {
	fs   fsutil.FileSystem
	path string
}

// NewFilePersister creates a persister writing to path on fsys.
func NewFilePersister(fsys fsutil.FileSystem, path string) *FilePersister {
	return &FilePersister{fs: fsys, path: path}
}

// LoadSequences reads the document. A missing file yields no sequences.
func (p *FilePersister) LoadSequences() ([]Sequence, error) {
	data, err := p.fs.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", p.path, err)
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", p.path, err)
	}
	if doc.Version != fileFormatVersion {
		return nil, fmt.Errorf("%s: unsupported format version %d", p.path, doc.Version)
	}
	return doc.Sequences, nil
}

// SaveSequences replaces the document with seqs.
func (p *FilePersister) SaveSequences(seqs []Sequence) error {
	if seqs == nil {
		seqs = []Sequence{}
	}
	data, err := json.Marshal(fileDocument{Version: fileFormatVersion, Sequences: seqs})
	if err != nil {
		return fmt.Errorf("encode sequences: %w", err)
	}
	return fsutil.WriteFileAtomic(p.fs, p.path, data, 0644)
}
