package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/codecity/pkg/cache"
	"github.com/matzehuels/codecity/pkg/errors"
	"github.com/matzehuels/codecity/pkg/layout"
	"github.com/matzehuels/codecity/pkg/pipeline"
	"github.com/matzehuels/codecity/pkg/store"
)

const entitiesJSON = `{
  "entities": [
    {"name": "com/acme/Server", "width": 4, "depth": 3, "height": 12},
    {"name": "com/acme/Client", "width": 2, "depth": 2, "height": 3},
    {"name": "com/util/Strings", "width": 1, "depth": 1, "height": 1}
  ]
}`

func newTestServer(t *testing.T, opts Options) (*httptest.Server, *store.MemoryStore) {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(fc, nil, logger)
	st := store.NewMemoryStore()
	srv := httptest.NewServer(New(runner, st, opts).Handler())
	t.Cleanup(srv.Close)
	return srv, st
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) errorBody {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func create(t *testing.T, srv *httptest.Server, query string) createResponse {
	t.Helper()
	resp := do(t, http.MethodPost, srv.URL+"/v1/layouts"+query, entitiesJSON)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /v1/layouts status = %d, want 201", resp.StatusCode)
	}
	var out createResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if loc := resp.Header.Get("Location"); loc != "/v1/layouts/"+out.ID {
		t.Errorf("Location = %q", loc)
	}
	return out
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	resp := do(t, http.MethodGet, srv.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
}

func TestCreateGetDelete(t *testing.T) {
	srv, st := newTestServer(t, Options{})

	created := create(t, srv, "?root=demo")
	if !store.ValidID(created.ID) {
		t.Fatalf("id %q is not a uuid", created.ID)
	}
	if created.Layout.Width != 14 || created.Layout.Depth != 12 {
		t.Errorf("layout = %dx%d, want 14x12", created.Layout.Width, created.Layout.Depth)
	}
	if created.Layout.Name != "demo" {
		t.Errorf("layout name = %q, want demo", created.Layout.Name)
	}
	if st.Len() != 1 {
		t.Errorf("store holds %d records, want 1", st.Len())
	}

	resp := do(t, http.MethodGet, srv.URL+"/v1/layouts/"+created.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET status = %d, want 200", resp.StatusCode)
	}
	var rec store.Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		t.Fatal(err)
	}
	if rec.ID != created.ID || rec.InputHash == "" {
		t.Errorf("record = %+v", rec)
	}
	if err := rec.Layout.Validate(); err != nil {
		t.Errorf("stored layout is invalid: %v", err)
	}

	resp = do(t, http.MethodDelete, srv.URL+"/v1/layouts/"+created.ID, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want 204", resp.StatusCode)
	}
	resp = do(t, http.MethodGet, srv.URL+"/v1/layouts/"+created.ID, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET after DELETE status = %d, want 404", resp.StatusCode)
	}
	if body := decodeError(t, resp); body.Code != errors.ErrCodeNotFound {
		t.Errorf("code = %q, want NOT_FOUND", body.Code)
	}
}

func TestCreateCached(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	first := create(t, srv, "")
	second := create(t, srv, "")
	if first.Cached || !second.Cached {
		t.Errorf("cached = %t then %t, want false then true", first.Cached, second.Cached)
	}
	if first.ID == second.ID {
		t.Error("each POST should store a new record")
	}
}

func TestCreateErrors(t *testing.T) {
	srv, _ := newTestServer(t, Options{MaxBodyBytes: 256})

	tests := []struct {
		name   string
		query  string
		body   string
		status int
		code   errors.Code
	}{
		{"malformed json", "", `{"entities": [`, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"empty name", "", `{"entities": [{"name": "/"}]}`, http.StatusBadRequest, errors.ErrCodeInvalidPath},
		{"overflow", "", `{"entities": [{"name": "a", "width": 40000, "depth": 40000}, {"name": "b", "width": 40000, "depth": 40000}]}`,
			http.StatusUnprocessableEntity, errors.ErrCodeLayoutOverflow},
		{"bad bool", "?parallel=maybe", entitiesJSON, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"too large", "", `{"entities": [` + strings.Repeat(`{"name": "a/b", "width": 1},`, 20) + `{"name": "x"}]}`,
			http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, srv.URL+"/v1/layouts"+tt.query, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if body := decodeError(t, resp); body.Code != tt.code {
				t.Errorf("code = %q, want %q (%s)", body.Code, tt.code, body.Message)
			}
		})
	}
}

func TestRender(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	created := create(t, srv, "")
	base := srv.URL + "/v1/layouts/" + created.ID + "/render/"

	tests := []struct {
		format      string
		contentType string
		prefix      string
	}{
		{"svg", "image/svg+xml", "<svg"},
		{"png", "image/png", "\x89PNG"},
		{"pdf", "application/pdf", "%PDF"},
		{"dot", "text/vnd.graphviz; charset=utf-8", "digraph"},
		{"json", "application/json", "{"},
		{"voxel", "application/json", "{"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp := do(t, http.MethodGet, base+tt.format+"?scale=2", "")
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
			data, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.HasPrefix(data, []byte(tt.prefix)) {
				t.Errorf("body starts with %q, want %q", data[:min(len(data), 8)], tt.prefix)
			}
			if resp.Header.Get("X-Cache") != "miss" {
				t.Errorf("X-Cache = %q on first render", resp.Header.Get("X-Cache"))
			}
		})
	}

	resp := do(t, http.MethodGet, base+"svg?scale=2", "")
	if resp.Header.Get("X-Cache") != "hit" {
		t.Errorf("second render X-Cache = %q, want hit", resp.Header.Get("X-Cache"))
	}
}

func TestRenderJSONMatchesLayout(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	created := create(t, srv, "")

	resp := do(t, http.MethodGet, srv.URL+"/v1/layouts/"+created.ID+"/render/json", "")
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	l, err := layout.Unmarshal(data)
	if err != nil {
		t.Fatalf("render/json is not a layout: %v", err)
	}
	if l.Leaves != created.Layout.Leaves || l.Height != created.Layout.Height {
		t.Errorf("render/json = %+v, want %+v", l, created.Layout)
	}
}

func TestRenderErrors(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	created := create(t, srv, "")

	tests := []struct {
		name   string
		path   string
		status int
		code   errors.Code
	}{
		{"unknown format", "/v1/layouts/" + created.ID + "/render/gif", http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"bad scale", "/v1/layouts/" + created.ID + "/render/svg?scale=big", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"scale too large", "/v1/layouts/" + created.ID + "/render/svg?scale=1000", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"malformed id", "/v1/layouts/not-a-uuid/render/svg", http.StatusNotFound, errors.ErrCodeNotFound},
		{"unknown id", "/v1/layouts/" + store.NewID() + "/render/svg", http.StatusNotFound, errors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodGet, srv.URL+tt.path, "")
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if body := decodeError(t, resp); body.Code != tt.code {
				t.Errorf("code = %q, want %q", body.Code, tt.code)
			}
		})
	}
}

func TestRenderVoxelTooLarge(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	body := `{"entities": [{"name": "Tower", "width": 60000, "depth": 60000, "height": 60000}]}`
	resp := do(t, http.MethodPost, srv.URL+"/v1/layouts", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d, want 201", resp.StatusCode)
	}
	var created createResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}

	resp = do(t, http.MethodGet, srv.URL+"/v1/layouts/"+created.ID+"/render/voxel", "")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
	if got := decodeError(t, resp); got.Code != errors.ErrCodeLayoutOverflow {
		t.Errorf("code = %q, want %q", got.Code, errors.ErrCodeLayoutOverflow)
	}
}

func TestUnknownRoute(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	resp := do(t, http.MethodGet, srv.URL+"/v2/nothing", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}

	resp = do(t, http.MethodPut, srv.URL+"/v1/layouts/", "")
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("PUT status = %d, want 405", resp.StatusCode)
	}
}

func TestDeleteUnknown(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	resp := do(t, http.MethodDelete, srv.URL+"/v1/layouts/"+store.NewID(), "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
