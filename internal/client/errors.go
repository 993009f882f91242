package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ResponseError is a non-2xx answer from the record API.
type ResponseError struct {
	Status  int            `json:"status"`
	Path    string         `json:"-"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

func (e *ResponseError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Path, e.Status)
}

// IsNotFound returns true if err is or wraps a 404 *ResponseError.
func IsNotFound(err error) bool {
	var re *ResponseError
	return errors.As(err, &re) && re.Status == http.StatusNotFound
}

func newResponseError(path string, resp Response) *ResponseError {
	e := &ResponseError{Status: resp.Status, Path: path}
	if len(resp.Body) > 0 {
		// The body is informational; an unparseable body still yields the
		// status.
		_ = json.Unmarshal(resp.Body, e)
	}
	return e
}
