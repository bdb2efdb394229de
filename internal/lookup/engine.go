// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lookup resolves and lists Pure research outputs through the Pure
// search endpoint, the only query mechanism Pure exposes. Get-by-identifier
// is a bounded search followed by exact matching over synthesized
// identifiers (see package identifier); every returned record is normalized
// by package record.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/pure-connector/internal/httputil"
	"github.com/pdiddy/pure-connector/internal/identifier"
	"github.com/pdiddy/pure-connector/internal/record"
	"github.com/pdiddy/pure-connector/pkg/types"
)

const (
	publicationsPath = "research-outputs"
	searchPath       = publicationsPath + "/search"
	apiKeyHeader     = "api-key"
)

// Transport performs requests against the Pure API. *httputil.Connection
// implements it; failures are reported as *httputil.ConnectionError.
type Transport interface {
	Get(ctx context.Context, path string, query url.Values, opts httputil.RequestOptions) (*httputil.Response, error)
	PostJSON(ctx context.Context, path string, body any, opts httputil.RequestOptions) (*httputil.Response, error)
}

// Result pairs a canonical publication with the raw record it was built
// from, for consumers that need attributes the canonical schema drops.
type Result struct {
	Publication types.Publication
	Record      *record.RawRecord
}

// Engine answers publication lookups. It keeps no state between calls and
// issues at most one search per call.
type Engine struct {
	transport    Transport
	apiKey       string
	maxPageSize  int
	searchWindow int
	fields       []string
	logger       *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine logger. The default discards everything.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an Engine that sends requests through transport.
// Zero values in cfg select DefaultMaxPageSize, DefaultSearchWindow and
// DefaultFields.
func NewEngine(transport Transport, cfg types.PureConfig, opts ...EngineOption) *Engine {
	e := &Engine{
		transport:    transport,
		apiKey:       cfg.APIKey,
		maxPageSize:  cfg.MaxPageSize,
		searchWindow: cfg.SearchWindow,
		fields:       cfg.Fields,
		logger:       zap.NewNop(),
	}
	if e.maxPageSize == 0 {
		e.maxPageSize = types.DefaultMaxPageSize
	}
	if e.searchWindow <= 0 {
		e.searchWindow = types.DefaultSearchWindow
	}
	if len(e.fields) == 0 {
		e.fields = DefaultFields
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GetByID returns the publication identified by id, or nil when the search
// window holds no matching record. Not found is not an error.
func (e *Engine) GetByID(ctx context.Context, id string) (*types.Publication, error) {
	res, err := e.GetByIDWithProvenance(ctx, id)
	if err != nil || res == nil {
		return nil, err
	}
	return &res.Publication, nil
}

// GetByIDWithProvenance is GetByID that also returns the matched raw record.
//
// The value part of id is used as the search term and only the first
// search window is scanned; a match ranked beyond it is not found.
func (e *Engine) GetByIDWithProvenance(ctx context.Context, id string) (*Result, error) {
	if strings.TrimSpace(id) == "" {
		return nil, nil
	}
	want := identifier.Parse(id)

	req := SearchRequest{SearchString: want.Value, Size: e.searchWindow, Offset: 0}
	records, err := e.search(ctx, req)
	if err != nil {
		return nil, err
	}

	for i, rec := range records {
		if !identifier.Matches(rec, want) {
			continue
		}
		canonical, ok := identifier.Synthesize(rec)
		if !ok {
			canonical = id
		}
		e.logger.Debug("resolved publication",
			zap.String("identifier", id),
			zap.String("canonical", canonical),
			zap.Int("position", i))
		return &Result{Publication: record.Normalize(rec, canonical), Record: rec}, nil
	}

	e.logger.Debug("publication not found in search window",
		zap.String("identifier", id),
		zap.Int("window", e.searchWindow),
		zap.Int("results", len(records)))
	return nil, nil
}

// ListPage returns one page of publications matching term. Records without
// a synthesizable identifier are dropped; pages are independent searches
// and are not deduplicated against each other.
func (e *Engine) ListPage(ctx context.Context, term string, page, pageSize int) ([]types.Publication, error) {
	results, err := e.ListPageWithProvenance(ctx, term, page, pageSize)
	if err != nil {
		return nil, err
	}
	pubs := make([]types.Publication, len(results))
	for i, r := range results {
		pubs[i] = r.Publication
	}
	return pubs, nil
}

// ListPageWithProvenance is ListPage that also returns each raw record.
func (e *Engine) ListPageWithProvenance(ctx context.Context, term string, page, pageSize int) ([]Result, error) {
	req, err := e.PageRequest(term, page, pageSize)
	if err != nil {
		return nil, err
	}
	records, err := e.search(ctx, req)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(records))
	for _, rec := range records {
		canonical, ok := identifier.Synthesize(rec)
		if !ok {
			e.logger.Debug("skipping record without identifier", zap.Int("offset", req.Offset))
			continue
		}
		results = append(results, Result{Publication: record.Normalize(rec, canonical), Record: rec})
	}
	return results, nil
}

// PageRequest returns the search window ListPage uses for a page, capped at
// the engine's maximum page size.
func (e *Engine) PageRequest(term string, page, pageSize int) (SearchRequest, error) {
	return BuildSearchRequest(term, page, pageSize, e.maxPageSize)
}

// CheckConnection verifies that the Pure API accepts the configured key.
// A 404 on the collection path still proves the API is reachable.
func (e *Engine) CheckConnection(ctx context.Context) error {
	_, err := e.transport.Get(ctx, publicationsPath, url.Values{"size": {"1"}}, e.requestOptions())
	var cerr *httputil.ConnectionError
	if errors.As(err, &cerr) && cerr.StatusCode == http.StatusNotFound {
		return nil
	}
	if err != nil {
		return upstreamError("checking Pure connection", err)
	}
	return nil
}

// search sends one search request and decodes its items.
func (e *Engine) search(ctx context.Context, req SearchRequest) ([]*record.RawRecord, error) {
	req.Fields = e.fields
	e.logger.Debug("searching Pure research outputs",
		zap.String("term", req.SearchString),
		zap.Int("size", req.Size),
		zap.Int("offset", req.Offset))

	resp, err := e.transport.PostJSON(ctx, searchPath, req, e.requestOptions())
	if err != nil {
		return nil, upstreamError("searching Pure publications", err)
	}
	return e.decodeItems(resp.Body)
}

// decodeItems parses a search response. A missing items attribute is an
// empty result; items that are not objects are skipped.
func (e *Engine) decodeItems(body []byte) ([]*record.RawRecord, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if envelope == nil {
		return nil, fmt.Errorf("%w: response is not a JSON object", ErrMalformedResponse)
	}

	rawItems, ok := envelope["items"]
	if !ok || string(rawItems) == "null" {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(rawItems, &items); err != nil {
		return nil, fmt.Errorf("%w: items is not an array", ErrMalformedResponse)
	}

	records := make([]*record.RawRecord, 0, len(items))
	for i, item := range items {
		rec, err := record.Decode(item)
		if err != nil {
			e.logger.Warn("skipping search item", zap.Int("index", i), zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (e *Engine) requestOptions() httputil.RequestOptions {
	return httputil.RequestOptions{Headers: map[string]string{apiKeyHeader: e.apiKey}}
}

// upstreamError converts a transport failure into an UpstreamError.
func upstreamError(op string, err error) error {
	ue := &UpstreamError{Op: op, Message: err.Error(), Err: err}
	var cerr *httputil.ConnectionError
	if errors.As(err, &cerr) {
		ue.StatusCode = cerr.StatusCode
		ue.Message = cerr.Message
	}
	return ue
}
