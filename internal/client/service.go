package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/roach88/recopt/internal/options"
)

// List defaults.
const (
	DefaultPage    = 1
	DefaultPerPage = 30
	DefaultBatch   = 500
)

// ListResult is one page of records.
type ListResult struct {
	Page       int      `json:"page"`
	PerPage    int      `json:"perPage"`
	TotalItems int      `json:"totalItems"`
	TotalPages int      `json:"totalPages"`
	Items      []Record `json:"items"`
}

// RecordService issues record API calls for one collection.
type RecordService struct {
	client     *Client
	collection string

	// FullListBatch is the page size GetFullList requests.
	FullListBatch int
}

// Collection returns the collection name.
func (s *RecordService) Collection() string {
	return s.collection
}

func (s *RecordService) basePath() string {
	return "/api/collections/" + url.PathEscape(s.collection) + "/records"
}

func (s *RecordService) recordPath(id string) string {
	return s.basePath() + "/" + url.PathEscape(id)
}

// GetFullList fetches every record matching opts, one batch at a time.
func (s *RecordService) GetFullList(ctx context.Context, opts options.Descriptor) ([]Record, error) {
	batch := s.FullListBatch
	if batch <= 0 {
		batch = DefaultBatch
	}

	query, err := s.process(opts)
	if err != nil {
		return nil, err
	}
	query = query.Clone()
	if query == nil {
		query = options.Descriptor{}
	}
	query[options.KeySkipTotal] = true

	records := []Record{}
	for page := 1; ; page++ {
		res, err := s.list(ctx, page, batch, query)
		if err != nil {
			return nil, err
		}
		records = append(records, res.Items...)
		if len(res.Items) < batch {
			return records, nil
		}
	}
}

// GetList fetches one page. page and perPage below 1 select DefaultPage and
// DefaultPerPage.
func (s *RecordService) GetList(ctx context.Context, page, perPage int, opts options.Descriptor) (ListResult, error) {
	if page < 1 {
		page = DefaultPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	query, err := s.process(opts)
	if err != nil {
		return ListResult{}, err
	}
	return s.list(ctx, page, perPage, query)
}

// GetFirstListItem returns the first record matching filter, which may be a
// string or a filter builder. It fails with a 404 *ResponseError when
// nothing matches.
func (s *RecordService) GetFirstListItem(ctx context.Context, filter any, opts options.Descriptor) (Record, error) {
	f, err := options.ProcessFilter(filter)
	if err != nil {
		return nil, err
	}
	query, err := s.process(opts)
	if err != nil {
		return nil, err
	}
	query = query.Clone()
	if query == nil {
		query = options.Descriptor{}
	}
	query[options.KeyFilter] = f
	query[options.KeySkipTotal] = true

	res, err := s.list(ctx, 1, 1, query)
	if err != nil {
		return nil, err
	}
	if len(res.Items) == 0 {
		return nil, &ResponseError{
			Status:  http.StatusNotFound,
			Path:    s.basePath(),
			Message: "The requested resource wasn't found.",
		}
	}
	return res.Items[0], nil
}

// GetOne fetches a record by id.
func (s *RecordService) GetOne(ctx context.Context, id string, opts options.Descriptor) (Record, error) {
	if id == "" {
		return nil, &ResponseError{Status: http.StatusNotFound, Path: s.recordPath(id), Message: "Missing required record id."}
	}
	query, err := s.process(opts)
	if err != nil {
		return nil, err
	}
	var rec Record
	err = s.send(ctx, Request{Method: MethodGet, Path: s.recordPath(id), Query: query}, &rec)
	return rec, err
}

// Create inserts a record and returns it as stored.
func (s *RecordService) Create(ctx context.Context, body Body, opts options.Descriptor) (Record, error) {
	query, err := s.process(opts)
	if err != nil {
		return nil, err
	}
	var rec Record
	err = s.send(ctx, Request{Method: MethodPost, Path: s.basePath(), Query: query, Body: body}, &rec)
	return rec, err
}

// Update patches a record and returns it as stored.
func (s *RecordService) Update(ctx context.Context, id string, body Body, opts options.Descriptor) (Record, error) {
	query, err := s.process(opts)
	if err != nil {
		return nil, err
	}
	var rec Record
	err = s.send(ctx, Request{Method: MethodPatch, Path: s.recordPath(id), Query: query, Body: body}, &rec)
	return rec, err
}

// Delete removes a record.
func (s *RecordService) Delete(ctx context.Context, id string, opts options.Descriptor) error {
	query, err := s.process(opts)
	if err != nil {
		return err
	}
	return s.send(ctx, Request{Method: MethodDelete, Path: s.recordPath(id), Query: query}, nil)
}

// Subscribe listens for changes to topic ("*" or a record id) of this
// collection.
func (s *RecordService) Subscribe(ctx context.Context, topic string, fn func(Event), opts options.Descriptor) (UnsubscribeFunc, error) {
	if topic == "" {
		return nil, fmt.Errorf("subscribe %s: empty topic", s.collection)
	}
	if fn == nil {
		return nil, fmt.Errorf("subscribe %s: nil callback", s.collection)
	}
	query, err := s.process(opts)
	if err != nil {
		return nil, err
	}
	unsub, err := s.client.transport.Subscribe(ctx, s.collection+"/"+topic, query, fn)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s/%s: %w", s.collection, topic, err)
	}
	return unsub, nil
}

func (s *RecordService) list(ctx context.Context, page, perPage int, query options.Descriptor) (ListResult, error) {
	q := query.Clone()
	if q == nil {
		q = options.Descriptor{}
	}
	q[options.KeyPage] = page
	q[options.KeyPerPage] = perPage

	var res ListResult
	if err := s.send(ctx, Request{Method: MethodGet, Path: s.basePath(), Query: q}, &res); err != nil {
		return ListResult{}, err
	}
	if res.Items == nil {
		res.Items = []Record{}
	}
	return res, nil
}

func (s *RecordService) process(opts options.Descriptor) (options.Descriptor, error) {
	query, err := s.client.compiler.Process(opts)
	if err != nil {
		return nil, fmt.Errorf("%s options: %w", s.collection, err)
	}
	return query, nil
}

func (s *RecordService) send(ctx context.Context, req Request, out any) error {
	s.client.logger.Debug("record request",
		"method", req.Method,
		"path", req.Path,
		"fields", req.Query.String(options.KeyFields),
		"expand", req.Query.String(options.KeyExpand),
	)

	resp, err := s.client.transport.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	if resp.Status < 200 || resp.Status > 299 {
		return newResponseError(req.Path, resp)
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", req.Method, req.Path, err)
	}
	return nil
}
