package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/roach88/recopt/internal/canonical"
	"github.com/roach88/recopt/internal/expand"
	"github.com/roach88/recopt/internal/options"
	"github.com/roach88/recopt/internal/schema"
	"github.com/roach88/recopt/internal/store"
)

// Harness runs scenarios against a compile log.
type Harness struct {
	store  *store.Store
	logger *slog.Logger
}

// Run executes a scenario in a fresh in-memory store and returns the
// result. The returned error is reserved for infrastructure failures; an
// unmet expectation is reported through Result.Errors.
func Run(s *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return h.run(context.Background(), s)
}

func (h *Harness) run(ctx context.Context, s *Scenario) (*Result, error) {
	input, err := DecodeDescriptor(&s.Input)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	var sch *schema.Schema
	if s.Schema != "" {
		sch, err = schema.Load(s.Schema)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: load schema: %w", s.Name, err)
		}
	}

	maxDepth := s.MaxDepth
	if maxDepth <= 0 {
		maxDepth = expand.DefaultMaxDepth
	}
	compiler := &options.Compiler{MaxDepth: maxDepth}

	result := NewResult()
	output, compileErr := compiler.Process(input)
	h.logger.Debug("compiled scenario", "scenario", s.Name, "error", compileErr)

	if compileErr != nil {
		result.ErrorCode = store.ErrorCode(compileErr)
		checkError(s, result, compileErr)
	} else {
		result.Output = output
		if s.ExpectError != "" {
			result.AddError("expected error %s, compilation succeeded", s.ExpectError)
		}
		checkExpect(s, result, output)
		checkIdempotent(compiler, result, output)
	}

	if sch != nil {
		v := &schema.Validator{Schema: sch, MaxDepth: maxDepth}
		result.Issues = v.Validate(s.Collection, input).Issues
		checkIssues(s, result)
	}

	if err := h.record(ctx, s, maxDepth, input, output, compileErr, result); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	return result, nil
}

func checkError(s *Scenario, result *Result, err error) {
	switch {
	case s.ExpectError == "":
		result.AddError("unexpected compile error: %v", err)
	case s.ExpectError != result.ErrorCode:
		result.AddError("expected error %s, got %s: %v", s.ExpectError, result.ErrorCode, err)
	}
}

// checkExpect compares each expected key by its canonical encoding, so 2
// and 2.0 are equal and map ordering never matters.
func checkExpect(s *Scenario, result *Result, output options.Descriptor) {
	keys := make([]string, 0, len(s.Expect))
	for k := range s.Expect {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		got, ok := output[k]
		if !ok {
			result.AddError("expected key %q in output, not present", k)
			continue
		}
		want, err := canonical.Marshal(s.Expect[k])
		if err != nil {
			result.AddError("expect %q: %v", k, err)
			continue
		}
		have, err := canonical.Marshal(got)
		if err != nil {
			result.AddError("output %q: %v", k, err)
			continue
		}
		if string(want) != string(have) {
			result.AddError("key %q: expected %s, got %s", k, want, have)
		}
	}

	for _, k := range s.Absent {
		if v, ok := output[k]; ok {
			result.AddError("expected key %q to be absent, got %v", k, v)
		}
	}
}

func checkIdempotent(c *options.Compiler, result *Result, output options.Descriptor) {
	again, err := c.Process(output)
	if err != nil {
		result.AddError("recompiling output failed: %v", err)
		return
	}
	a, errA := canonical.Marshal(output)
	b, errB := canonical.Marshal(again)
	if errA != nil || errB != nil {
		result.AddError("output is not encodable: %v", firstErr(errA, errB))
		return
	}
	if string(a) != string(b) {
		result.AddError("recompiling output changed it: %s -> %s", a, b)
	}
}

func checkIssues(s *Scenario, result *Result) {
	got := make([]string, len(result.Issues))
	for i, issue := range result.Issues {
		got[i] = issue.Code
	}
	if len(got) != len(s.ExpectIssues) {
		result.AddError("expected issues %v, got %v", s.ExpectIssues, got)
		return
	}
	for i := range got {
		if got[i] != s.ExpectIssues[i] {
			result.AddError("expected issues %v, got %v", s.ExpectIssues, got)
			return
		}
	}
}

// record logs the compilation and replays the log. A replay that disagrees
// with the recorded result fails the scenario.
func (h *Harness) record(ctx context.Context, s *Scenario, maxDepth int, input, output options.Descriptor, compileErr error, result *Result) error {
	c, err := store.NewCompilation(s.Collection, maxDepth, input, output, compileErr)
	if err != nil {
		return fmt.Errorf("build compilation: %w", err)
	}
	c.Issues = result.Issues

	if _, _, err := h.store.WriteCompilation(ctx, c); err != nil {
		return fmt.Errorf("write compilation: %w", err)
	}

	replay, err := h.store.Replay(ctx, Recompile)
	if err != nil {
		return err
	}
	for _, m := range replay.Mismatches {
		result.AddError("replay of seq %d diverged: stored %s, replayed %s", m.Seq, m.Stored, m.Replayed)
	}
	return nil
}

// Recompile compiles a logged input again with the depth bound it was
// logged with. It is the store.Recompiler used by the harness and the CLI.
func Recompile(_ context.Context, c store.Compilation) (string, error) {
	d, err := c.DecodeInput()
	if err != nil {
		return "", err
	}
	out, err := (&options.Compiler{MaxDepth: c.MaxDepth}).Process(d)
	if err != nil {
		return "", err
	}
	data, err := canonical.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
