package store

import (
	"context"
	"fmt"
)

// WriteCompilation appends c to the log and returns the stored row.
//
// Uses ON CONFLICT(id) DO NOTHING: a compilation whose id is already logged
// is not written again and the existing row is returned with inserted
// false. Otherwise c gets the next seq.
func (s *Store) WriteCompilation(ctx context.Context, c Compilation) (stored Compilation, inserted bool, err error) {
	if c.ID == "" {
		return Compilation{}, false, fmt.Errorf("write compilation: empty id")
	}

	issuesJSON, err := marshalIssues(c.Issues)
	if err != nil {
		return Compilation{}, false, fmt.Errorf("write compilation: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Compilation{}, false, fmt.Errorf("write compilation: begin: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(seq), 0) + 1 FROM compilations").Scan(&seq); err != nil {
		return Compilation{}, false, fmt.Errorf("write compilation: next seq: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO compilations
		(id, seq, trace_id, collection, max_depth, input, output, output_hash, error_code, error, issues)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		c.ID,
		seq,
		c.TraceID,
		c.Collection,
		c.MaxDepth,
		c.Input,
		c.Output,
		c.OutputHash,
		c.ErrorCode,
		c.Error,
		issuesJSON,
	)
	if err != nil {
		return Compilation{}, false, fmt.Errorf("write compilation: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return Compilation{}, false, fmt.Errorf("write compilation: rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Compilation{}, false, fmt.Errorf("write compilation: commit: %w", err)
	}

	if rows == 0 {
		existing, err := s.ReadCompilation(ctx, c.ID)
		if err != nil {
			return Compilation{}, false, err
		}
		return existing, false, nil
	}

	c.Seq = seq
	return c, true, nil
}
