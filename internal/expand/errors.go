package expand

import (
	"errors"
	"fmt"
)

// TreeErrorCode categorizes expansion tree errors.
type TreeErrorCode string

const (
	// ErrCodeTooDeepOrCyclic indicates the tree exceeds the depth bound or
	// refers back to one of its own ancestors.
	ErrCodeTooDeepOrCyclic TreeErrorCode = "TOO_DEEP_OR_CYCLIC"

	// ErrCodeInvalidNode indicates generic input that does not describe a node.
	ErrCodeInvalidNode TreeErrorCode = "INVALID_NODE"
)

// TreeError reports a structural problem in an expansion tree.
type TreeError struct {
	Code TreeErrorCode

	// Path is the dot path of the offending node ("author.posts_via_author").
	Path string

	// Depth is the expansion level of the offending node (top level = 1).
	Depth int

	Message string
}

// Error implements the error interface.
func (e *TreeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (path=%s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsTreeError returns true if err is or wraps a *TreeError.
func IsTreeError(err error) bool {
	var te *TreeError
	return errors.As(err, &te)
}

// IsTooDeepOrCyclic returns true if err is a depth or cycle violation.
func IsTooDeepOrCyclic(err error) bool {
	var te *TreeError
	if errors.As(err, &te) {
		return te.Code == ErrCodeTooDeepOrCyclic
	}
	return false
}

func newTooDeepError(path string, depth, maxDepth int) *TreeError {
	return &TreeError{
		Code:    ErrCodeTooDeepOrCyclic,
		Path:    path,
		Depth:   depth,
		Message: fmt.Sprintf("expansion tree too deep (%d > %d)", depth, maxDepth),
	}
}

func newCycleError(path string, depth int) *TreeError {
	return &TreeError{
		Code:    ErrCodeTooDeepOrCyclic,
		Path:    path,
		Depth:   depth,
		Message: "expansion tree refers back to an ancestor",
	}
}

func newInvalidNodeError(path string, depth int, format string, args ...any) *TreeError {
	return &TreeError{
		Code:    ErrCodeInvalidNode,
		Path:    path,
		Depth:   depth,
		Message: fmt.Sprintf(format, args...),
	}
}
