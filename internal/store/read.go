package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a compilation id is not in the log.
var ErrNotFound = errors.New("compilation not found")

const selectCompilation = `
	SELECT id, seq, trace_id, collection, max_depth, input, output, output_hash, error_code, error, issues
	FROM compilations`

// ReadCompilation returns the compilation with the given id.
func (s *Store) ReadCompilation(ctx context.Context, id string) (Compilation, error) {
	row := s.db.QueryRowContext(ctx, selectCompilation+" WHERE id = ?", id)
	c, err := scanCompilation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Compilation{}, fmt.Errorf("read compilation %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Compilation{}, fmt.Errorf("read compilation %s: %w", id, err)
	}
	return c, nil
}

// ReadCompilations returns every logged compilation ordered by
// seq ASC, id ASC COLLATE BINARY. It returns an empty slice, not nil, for an
// empty log.
func (s *Store) ReadCompilations(ctx context.Context) ([]Compilation, error) {
	return s.queryCompilations(ctx, selectCompilation+`
		ORDER BY seq ASC, id COLLATE BINARY ASC`)
}

// ReadCompilationsForCollection returns the compilations targeting
// collection, in log order.
func (s *Store) ReadCompilationsForCollection(ctx context.Context, collection string) ([]Compilation, error) {
	return s.queryCompilations(ctx, selectCompilation+`
		WHERE collection = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC`, collection)
}

// LastSeq returns the highest seq in the log, or 0 when it is empty.
func (s *Store) LastSeq(ctx context.Context) (int64, error) {
	var seq int64
	if err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(seq), 0) FROM compilations").Scan(&seq); err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq, nil
}

func (s *Store) queryCompilations(ctx context.Context, query string, args ...any) ([]Compilation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query compilations: %w", err)
	}
	defer rows.Close()

	compilations := []Compilation{}
	for rows.Next() {
		c, err := scanCompilation(rows)
		if err != nil {
			return nil, err
		}
		compilations = append(compilations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate compilations: %w", err)
	}
	return compilations, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCompilation(row scanner) (Compilation, error) {
	var c Compilation
	var issuesJSON string
	err := row.Scan(
		&c.ID,
		&c.Seq,
		&c.TraceID,
		&c.Collection,
		&c.MaxDepth,
		&c.Input,
		&c.Output,
		&c.OutputHash,
		&c.ErrorCode,
		&c.Error,
		&issuesJSON,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Compilation{}, err
		}
		return Compilation{}, fmt.Errorf("scan compilation: %w", err)
	}

	c.Issues, err = unmarshalIssues(issuesJSON)
	if err != nil {
		return Compilation{}, fmt.Errorf("compilation %s: %w", c.ID, err)
	}
	return c, nil
}
