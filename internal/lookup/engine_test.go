// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pure-connector/internal/httputil"
	"github.com/pdiddy/pure-connector/pkg/types"
)

// fakeTransport answers searches with respond and records what was sent.
type fakeTransport struct {
	respond  func(req SearchRequest) (string, error)
	getErr   error
	searches []SearchRequest
	paths    []string
	headers  []map[string]string
}

func (f *fakeTransport) PostJSON(_ context.Context, path string, body any, opts httputil.RequestOptions) (*httputil.Response, error) {
	req := body.(SearchRequest)
	f.searches = append(f.searches, req)
	f.paths = append(f.paths, path)
	f.headers = append(f.headers, opts.Headers)
	out, err := f.respond(req)
	if err != nil {
		return nil, err
	}
	return &httputil.Response{StatusCode: http.StatusOK, Body: []byte(out)}, nil
}

func (f *fakeTransport) Get(_ context.Context, path string, _ url.Values, opts httputil.RequestOptions) (*httputil.Response, error) {
	f.paths = append(f.paths, path)
	f.headers = append(f.headers, opts.Headers)
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &httputil.Response{StatusCode: http.StatusOK, Body: []byte(`{"items":[]}`)}, nil
}

func respondWith(body string) func(SearchRequest) (string, error) {
	return func(SearchRequest) (string, error) { return body, nil }
}

func items(records ...string) string {
	return fmt.Sprintf(`{"count":%d,"items":[%s]}`, len(records), strings.Join(records, ","))
}

func newTestEngine(ft *fakeTransport) *Engine {
	return NewEngine(ft, types.PureConfig{APIURL: "https://pure.example.org/ws/api", APIKey: "secret"})
}

const scenarioRecord = `{
	"uuid": "u1",
	"identifiers": [{"idSource": "TUGo@tugraz.at", "value": "123"}],
	"title": {"de_DE": "Titel", "en_GB": "Title"},
	"contributors": [{
		"role": {"uri": "/dk/atira/pure/researchoutput/roles/researchoutput/author", "term": {"en_GB": "Author"}},
		"person": {},
		"name": {"firstName": "A", "lastName": "B"}
	}]
}`

func TestGetByIDEndToEnd(t *testing.T) {
	ft := &fakeTransport{respond: respondWith(items(scenarioRecord))}
	e := newTestEngine(ft)

	pub, err := e.GetByID(context.Background(), "123")
	require.NoError(t, err)
	require.NotNil(t, pub)

	assert.Equal(t, "123", pub.Identifier)
	assert.Equal(t, "u1", pub.UUID)
	assert.Equal(t, "Titel", pub.Title)
	assert.Equal(t, "Titel", pub.Name)
	assert.Equal(t, []types.Author{
		{FirstName: "A", LastName: "B", Role: "Author", Provenance: types.ProvenanceInternal},
	}, pub.Authors)
	assert.Equal(t, []string{}, pub.Keywords)
}

func TestGetByIDSearchRequest(t *testing.T) {
	ft := &fakeTransport{respond: respondWith(`{"items":[]}`)}
	e := newTestEngine(ft)

	_, err := e.GetByID(context.Background(), "scopus_85012345")
	require.NoError(t, err)

	require.Len(t, ft.searches, 1)
	assert.Equal(t, "research-outputs/search", ft.paths[0])
	assert.Equal(t, "secret", ft.headers[0]["api-key"])
	assert.Equal(t, SearchRequest{
		SearchString: "85012345",
		Size:         types.DefaultSearchWindow,
		Offset:       0,
		Fields:       DefaultFields,
	}, ft.searches[0])
}

func TestGetByIDNotFound(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty items", `{"items":[]}`},
		{"missing items", `{"count":0}`},
		{"null items", `{"items":null}`},
		{"no record matches", items(`{"uuid":"other","identifiers":[{"idSource":"TUGo@tugraz.at","value":"999"}]}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTransport{respond: respondWith(tt.body)}
			pub, err := newTestEngine(ft).GetByID(context.Background(), "nonexistent_value")
			require.NoError(t, err)
			assert.Nil(t, pub)
		})
	}
}

func TestGetByIDBlankIdentifierSendsNoRequest(t *testing.T) {
	ft := &fakeTransport{respond: respondWith(items(scenarioRecord))}
	for _, id := range []string{"", "   "} {
		pub, err := newTestEngine(ft).GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Nil(t, pub)
	}
	assert.Empty(t, ft.searches)
}

func TestGetByIDMatchRules(t *testing.T) {
	multiScheme := `{
		"uuid": "7b1c",
		"title": "Graphene",
		"identifiers": [
			{"idSource": "scopus", "value": "555"},
			{"idSource": "TUGo@tugraz.at", "value": "9"}
		]
	}`
	other := `{"uuid": "aaaa", "title": "Other", "identifiers": [{"idSource": "scopus", "value": "556"}]}`

	tests := []struct {
		name          string
		id            string
		wantCanonical string
		wantTitle     string
	}{
		{"canonical identifier", "9", "9", "Graphene"},
		{"uuid shortcut", "7b1c", "9", "Graphene"},
		{"uuid shortcut ignores source", "anything_7b1c", "9", "Graphene"},
		{"source and value pair", "scopus_555", "9", "Graphene"},
		{"later record", "scopus_556", "scopus_556", "Other"},
		{"synthesized uuid form", "uuid_aaaa", "scopus_556", "Other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTransport{respond: respondWith(items(other, multiScheme))}
			if tt.wantTitle == "Graphene" {
				ft.respond = respondWith(items(multiScheme, other))
			}
			pub, err := newTestEngine(ft).GetByID(context.Background(), tt.id)
			require.NoError(t, err)
			require.NotNil(t, pub)
			assert.Equal(t, tt.wantCanonical, pub.Identifier)
			assert.Equal(t, tt.wantTitle, pub.Title)
		})
	}
}

func TestGetByIDFirstMatchWins(t *testing.T) {
	first := `{"uuid": "u1", "title": "First", "identifiers": [{"idSource": "doi", "value": "10.1/x"}]}`
	second := `{"uuid": "u2", "title": "Second", "identifiers": [{"idSource": "doi", "value": "10.1/x"}]}`
	ft := &fakeTransport{respond: respondWith(items(first, second))}

	pub, err := newTestEngine(ft).GetByID(context.Background(), "doi_10.1/x")
	require.NoError(t, err)
	require.NotNil(t, pub)
	assert.Equal(t, "First", pub.Title)
}

func TestGetByIDWithProvenance(t *testing.T) {
	ft := &fakeTransport{respond: respondWith(items(scenarioRecord))}
	res, err := newTestEngine(ft).GetByIDWithProvenance(context.Background(), "123")
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, "123", res.Publication.Identifier)
	require.NotNil(t, res.Record)
	assert.Equal(t, "u1", res.Record.UUID)
	assert.True(t, res.Record.Has("contributors"))
}

func TestGetByIDRoundTripThroughListing(t *testing.T) {
	records := []string{
		scenarioRecord,
		`{"uuid": "u2", "identifiers": [{"idSource": "scopus", "value": "a_b"}]}`,
		`{"uuid": "u3", "identifiers": [{"type": {"uri": "x"}}]}`,
	}
	ft := &fakeTransport{respond: respondWith(items(records...))}
	e := newTestEngine(ft)

	pubs, err := e.ListPage(context.Background(), "", 1, 10)
	require.NoError(t, err)
	require.Len(t, pubs, 3)

	for _, listed := range pubs {
		got, err := e.GetByID(context.Background(), listed.Identifier)
		require.NoError(t, err)
		require.NotNil(t, got, "identifier %q did not resolve", listed.Identifier)
		assert.Equal(t, listed.UUID, got.UUID)
	}
}

func TestListPage(t *testing.T) {
	records := []string{
		`{"uuid": "u1", "title": "One", "identifiers": [{"idSource": "TUGo@tugraz.at", "value": "1"}]}`,
		`{"title": "Unresolvable", "identifiers": [{"idSource": "", "value": "x"}]}`,
		`{"uuid": "u3", "title": "Three"}`,
		`{"uuid": "u4", "title": "Four", "identifiers": [{"idSource": "scopus", "value": "4"}]}`,
	}
	ft := &fakeTransport{respond: respondWith(items(records...))}

	pubs, err := newTestEngine(ft).ListPage(context.Background(), "graphene", 3, 20)
	require.NoError(t, err)

	require.Len(t, ft.searches, 1)
	assert.Equal(t, "graphene", ft.searches[0].SearchString)
	assert.Equal(t, 20, ft.searches[0].Size)
	assert.Equal(t, 40, ft.searches[0].Offset)

	ids := make([]string, len(pubs))
	for i, p := range pubs {
		ids[i] = p.Identifier
	}
	assert.Equal(t, []string{"1", "uuid_u3", "scopus_4"}, ids)
}

func TestListPageKeepsDuplicates(t *testing.T) {
	rec := `{"uuid": "u1", "title": "One"}`
	ft := &fakeTransport{respond: respondWith(items(rec, rec))}

	pubs, err := newTestEngine(ft).ListPage(context.Background(), "", 1, 10)
	require.NoError(t, err)
	assert.Len(t, pubs, 2)
}

func TestListPageCapsPageSize(t *testing.T) {
	ft := &fakeTransport{respond: respondWith(`{"items":[]}`)}
	e := NewEngine(ft, types.PureConfig{APIKey: "k", MaxPageSize: 50})

	pubs, err := e.ListPage(context.Background(), "x", 0, 1000)
	require.NoError(t, err)
	assert.Empty(t, pubs)
	assert.Equal(t, 50, ft.searches[0].Size)
	assert.Equal(t, 0, ft.searches[0].Offset)
}

func TestListPageInvalidArgumentSendsNoRequest(t *testing.T) {
	ft := &fakeTransport{respond: respondWith(`{"items":[]}`)}
	e := NewEngine(ft, types.PureConfig{APIKey: "k", MaxPageSize: -1})

	_, err := e.ListPage(context.Background(), "x", 1, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
	assert.Empty(t, ft.searches)
}

func TestListPageWithProvenance(t *testing.T) {
	records := []string{
		`{"uuid": "u1", "title": "One", "managingOrganisationalUnit": {"uuid": "org-1"}}`,
		`{"title": "Unresolvable"}`,
	}
	ft := &fakeTransport{respond: respondWith(items(records...))}

	results, err := newTestEngine(ft).ListPageWithProvenance(context.Background(), "", 1, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "uuid_u1", results[0].Publication.Identifier)
	require.NotNil(t, results[0].Record)
	assert.JSONEq(t, `{"uuid": "org-1"}`, string(results[0].Record.Fields["managingOrganisationalUnit"]))
}

func TestSearchSkipsNonObjectItems(t *testing.T) {
	ft := &fakeTransport{respond: respondWith(`{"items":[1, "x", null, [], {"uuid": "u1"}]}`)}

	pubs, err := newTestEngine(ft).ListPage(context.Background(), "", 1, 10)
	require.NoError(t, err)
	require.Len(t, pubs, 1)
	assert.Equal(t, "uuid_u1", pubs[0].Identifier)
}

func TestSearchMalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not JSON", `<html>gateway timeout</html>`},
		{"array body", `[{"uuid": "u1"}]`},
		{"null body", `null`},
		{"string body", `"items"`},
		{"items not an array", `{"items": {"uuid": "u1"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTransport{respond: respondWith(tt.body)}
			e := newTestEngine(ft)

			_, err := e.ListPage(context.Background(), "", 1, 10)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedResponse))
			assert.False(t, errors.Is(err, ErrUpstream))
			assert.Equal(t, http.StatusInternalServerError, HTTPStatus(err))

			_, err = e.GetByID(context.Background(), "123")
			assert.True(t, errors.Is(err, ErrMalformedResponse))
		})
	}
}

func TestSearchUpstreamFailure(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"http error", &httputil.ConnectionError{Method: "POST", URL: "u", StatusCode: 503, Message: "maintenance"}, 503},
		{"network error", &httputil.ConnectionError{Method: "POST", URL: "u", Message: "dial tcp: refused", Err: errors.New("refused")}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTransport{respond: func(SearchRequest) (string, error) { return "", tt.err }}

			pub, err := newTestEngine(ft).GetByID(context.Background(), "123")
			require.Error(t, err)
			assert.Nil(t, pub)
			assert.True(t, errors.Is(err, ErrUpstream))
			assert.Equal(t, http.StatusBadGateway, HTTPStatus(err))

			var ue *UpstreamError
			require.True(t, errors.As(err, &ue))
			assert.Equal(t, tt.wantStatus, ue.StatusCode)
			assert.Equal(t, ErrorIDRequestFailed, ue.ErrorID())

			var cerr *httputil.ConnectionError
			assert.True(t, errors.As(err, &cerr))
		})
	}
}

func TestCheckConnection(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{"reachable", nil, false},
		{"not found counts as reachable", &httputil.ConnectionError{StatusCode: http.StatusNotFound, Message: "Not Found"}, false},
		{"unauthorized", &httputil.ConnectionError{StatusCode: http.StatusUnauthorized, Message: "bad key"}, true},
		{"network", &httputil.ConnectionError{Message: "refused"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTransport{getErr: tt.err}
			err := newTestEngine(ft).CheckConnection(context.Background())
			assert.Equal(t, "research-outputs", ft.paths[0])
			assert.Equal(t, "secret", ft.headers[0]["api-key"])
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUpstream))
		})
	}
}

func TestNewEngineDefaults(t *testing.T) {
	e := NewEngine(&fakeTransport{}, types.PureConfig{})
	assert.Equal(t, types.DefaultMaxPageSize, e.maxPageSize)
	assert.Equal(t, types.DefaultSearchWindow, e.searchWindow)
	assert.Equal(t, DefaultFields, e.fields)
	assert.NotNil(t, e.logger)

	e = NewEngine(&fakeTransport{}, types.PureConfig{MaxPageSize: 25, SearchWindow: 40, Fields: []string{"uuid"}}, WithLogger(nil))
	assert.Equal(t, 25, e.maxPageSize)
	assert.Equal(t, 40, e.searchWindow)
	assert.Equal(t, []string{"uuid"}, e.fields)
	assert.NotNil(t, e.logger)
}

func TestEngineOverHTTP(t *testing.T) {
	var got SearchRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws/api/research-outputs/search" || r.Header.Get("api-key") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		fmt.Fprint(w, items(scenarioRecord))
	}))
	defer ts.Close()

	conn := httputil.NewConnection(ts.URL+"/ws/api", httputil.WithHTTPClient(ts.Client()))
	e := NewEngine(conn, types.PureConfig{APIKey: "secret"})

	pub, err := e.GetByID(context.Background(), "123")
	require.NoError(t, err)
	require.NotNil(t, pub)
	assert.Equal(t, "123", pub.Identifier)
	assert.Equal(t, "123", got.SearchString)
	assert.Equal(t, DefaultFields, got.Fields)

	bad := NewEngine(conn, types.PureConfig{APIKey: "wrong"})
	_, err = bad.GetByID(context.Background(), "123")
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(err))
}

func TestPageRequest(t *testing.T) {
	e := NewEngine(&fakeTransport{}, types.PureConfig{MaxPageSize: 50})
	req, err := e.PageRequest("x", 3, 100)
	require.NoError(t, err)
	assert.Equal(t, SearchRequest{SearchString: "x", Size: 50, Offset: 100}, req)
}
