package client

import (
	"context"
	"encoding/json"

	"github.com/roach88/recopt/internal/options"
)

// HTTP methods used by the record API.
const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPatch  = "PATCH"
	MethodDelete = "DELETE"
)

// Request is one record API call. Query holds compiled options only: every
// fields, expand, filter and sort entry is a string.
type Request struct {
	Method string
	Path   string
	Query  options.Descriptor
	Body   any
}

// Response is the transport's answer. Body is the raw JSON payload.
type Response struct {
	Status int
	Body   json.RawMessage
}

// Event is a realtime change notification.
type Event struct {
	Action string `json:"action"`
	Record Record `json:"record"`
}

// UnsubscribeFunc cancels a subscription.
type UnsubscribeFunc func(ctx context.Context) error

// Transport carries requests to a record API.
type Transport interface {
	Do(ctx context.Context, req Request) (Response, error)
	Subscribe(ctx context.Context, topic string, query options.Descriptor, fn func(Event)) (UnsubscribeFunc, error)
}
