package client

import (
	"log/slog"
	"sync"

	"github.com/roach88/recopt/internal/options"
)

// Client hands out one RecordService per collection.
type Client struct {
	transport Transport
	compiler  *options.Compiler
	logger    *slog.Logger

	mu       sync.Mutex
	services map[string]*RecordService
}

// Option configures a Client.
type Option func(*Client)

// WithCompiler sets the options compiler (and with it the depth bound).
func WithCompiler(c *options.Compiler) Option {
	return func(cl *Client) { cl.compiler = c }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

// New creates a Client over t.
func New(t Transport, opts ...Option) *Client {
	c := &Client{
		transport: t,
		compiler:  options.NewCompiler(),
		logger:    slog.Default(),
		services:  make(map[string]*RecordService),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collection returns the service for the named collection. Repeated calls
// return the same service.
func (c *Client) Collection(name string) *RecordService {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.services[name]; ok {
		return s
	}
	s := &RecordService{client: c, collection: name, FullListBatch: DefaultBatch}
	c.services[name] = s
	return s
}
