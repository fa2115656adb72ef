package curvedb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/banshee-data/curvefit/internal/geometry"
	"github.com/banshee-data/curvefit/internal/monitoring"
	"github.com/banshee-data/curvefit/internal/sequence"
)

// SequenceRepository stores sequences in the curve_sequences tables. It
// satisfies sequence.Persister.
type SequenceRepository struct {
	db *DB
}

var _ sequence.Persister = (*SequenceRepository)(nil)

func NewSequenceRepository(db *DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// LoadSequences returns every stored sequence in insertion order.
func (r *SequenceRepository) LoadSequences() ([]sequence.Sequence, error) {
	return r.LoadSequencesContext(context.Background())
}

// SaveSequences replaces the stored history with seqs.
func (r *SequenceRepository) SaveSequences(seqs []sequence.Sequence) error {
	return r.SaveSequencesContext(context.Background(), seqs)
}

func (r *SequenceRepository) LoadSequencesContext(ctx context.Context) ([]sequence.Sequence, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT sequence_id, episode_id, start_step, entry_speed, entry_slide,
		       action_speed, action_steering_degrees
		  FROM curve_sequences
		 ORDER BY sequence_id`)
	if err != nil {
		return nil, fmt.Errorf("query sequences: %w", err)
	}
	defer rows.Close()

	var seqs []sequence.Sequence
	index := make(map[int64]int)
	for rows.Next() {
		var (
			id    int64
			s     sequence.Sequence
			slide sql.NullFloat64
		)
		if err := rows.Scan(&id, &s.EpisodeID, &s.StartStep, &s.EntrySpeed, &slide,
			&s.ActionSpeed, &s.ActionSteeringDegrees); err != nil {
			return nil, fmt.Errorf("scan sequence: %w", err)
		}
		if slide.Valid {
			v := slide.Float64
			s.EntrySlide = &v
		}
		index[id] = len(seqs)
		seqs = append(seqs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	offsetRows, err := r.db.QueryContext(ctx, `
		SELECT sequence_id, distance, bearing
		  FROM curve_sequence_offsets
		 ORDER BY sequence_id, ordinal`)
	if err != nil {
		return nil, fmt.Errorf("query offsets: %w", err)
	}
	defer offsetRows.Close()

	for offsetRows.Next() {
		var (
			id       int64
			distance float64
			bearing  float64
		)
		if err := offsetRows.Scan(&id, &distance, &bearing); err != nil {
			return nil, fmt.Errorf("scan offset: %w", err)
		}
		i, ok := index[id]
		if !ok {
			return nil, fmt.Errorf("offset references unknown sequence %d", id)
		}
		seqs[i].Offsets = append(seqs[i].Offsets, sequence.RelativeOffset{
			Distance: distance,
			Bearing:  geometry.Bearing(bearing),
		})
	}
	if err := offsetRows.Err(); err != nil {
		return nil, err
	}

	monitoring.Debugf("loaded %d sequences from sqlite", len(seqs))
	return seqs, nil
}

func (r *SequenceRepository) SaveSequencesContext(ctx context.Context, seqs []sequence.Sequence) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM curve_sequence_offsets`); err != nil {
		return fmt.Errorf("clear offsets: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM curve_sequences`); err != nil {
		return fmt.Errorf("clear sequences: %w", err)
	}

	seqStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO curve_sequences (
			sequence_id, episode_id, start_step, entry_speed, entry_slide,
			action_speed, action_steering_degrees
		) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare sequence insert: %w", err)
	}
	defer seqStmt.Close()

	offStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO curve_sequence_offsets (sequence_id, ordinal, distance, bearing)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare offset insert: %w", err)
	}
	defer offStmt.Close()

	for i, s := range seqs {
		id := int64(i + 1)
		var slide sql.NullFloat64
		if s.EntrySlide != nil {
			slide = sql.NullFloat64{Float64: *s.EntrySlide, Valid: true}
		}
		if _, err := seqStmt.ExecContext(ctx, id, s.EpisodeID, s.StartStep, s.EntrySpeed, slide,
			s.ActionSpeed, s.ActionSteeringDegrees); err != nil {
			return fmt.Errorf("insert sequence %d: %w", id, err)
		}
		for ord, o := range s.Offsets {
			if _, err := offStmt.ExecContext(ctx, id, ord, o.Distance, float64(o.Bearing)); err != nil {
				return fmt.Errorf("insert offset %d of sequence %d: %w", ord, id, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	monitoring.Debugf("saved %d sequences to sqlite", len(seqs))
	return nil
}

// CountByEpisode reports how many stored sequences came from each episode.
func (r *SequenceRepository) CountByEpisode(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT episode_id, COUNT(*) FROM curve_sequences GROUP BY episode_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}
