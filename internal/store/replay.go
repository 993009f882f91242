package store

import (
	"context"
	"fmt"
)

// Recompiler compiles a logged input again. It returns the canonical output
// JSON, or the compile error.
type Recompiler func(ctx context.Context, c Compilation) (output string, err error)

// Mismatch is a logged compilation whose replay disagrees with the log.
type Mismatch struct {
	ID       string `json:"id"`
	Seq      int64  `json:"seq"`
	Stored   string `json:"stored"`
	Replayed string `json:"replayed"`
}

// ReplayResult summarizes a replay over the whole log.
type ReplayResult struct {
	Total      int        `json:"total"`
	Matched    int        `json:"matched"`
	Mismatches []Mismatch `json:"mismatches,omitempty"`
}

// Deterministic reports whether every logged compilation replayed to the
// same result.
func (r ReplayResult) Deterministic() bool {
	return len(r.Mismatches) == 0
}

// Replay runs recompile over every logged compilation in log order and
// compares its result with the stored one. A failed compilation matches
// when the replay fails with the same error code.
func (s *Store) Replay(ctx context.Context, recompile Recompiler) (ReplayResult, error) {
	compilations, err := s.ReadCompilations(ctx)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("replay: %w", err)
	}

	res := ReplayResult{Total: len(compilations)}
	for _, c := range compilations {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("replay: %w", err)
		}

		stored := c.Output
		replayed, err := recompile(ctx, c)
		if err != nil {
			replayed = "error: " + ErrorCode(err)
		}
		if c.Failed() {
			stored = "error: " + c.ErrorCode
		}

		if stored == replayed {
			res.Matched++
			continue
		}
		res.Mismatches = append(res.Mismatches, Mismatch{
			ID:       c.ID,
			Seq:      c.Seq,
			Stored:   stored,
			Replayed: replayed,
		})
	}
	return res, nil
}
