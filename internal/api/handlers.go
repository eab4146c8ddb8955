package api

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/codecity/pkg/buildinfo"
	"github.com/matzehuels/codecity/pkg/errors"
	cityio "github.com/matzehuels/codecity/pkg/io"
	"github.com/matzehuels/codecity/pkg/layout"
	"github.com/matzehuels/codecity/pkg/pipeline"
	"github.com/matzehuels/codecity/pkg/store"
)

// createResponse is returned by POST /v1/layouts.
type createResponse struct {
	ID     string        `json:"id"`
	Cached bool          `json:"cached"`
	Layout layout.Layout `json:"layout"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	in, err := cityio.ReadJSON(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{
				Code:    errors.ErrCodeInvalidInput,
				Message: "request body exceeds " + strconv.FormatInt(tooLarge.Limit, 10) + " bytes",
			})
			return
		}
		writeError(w, s.logger, err)
		return
	}

	l, hash, hit, err := s.runner.PackWithCacheInfo(r.Context(), in, opts)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	rec := &store.Record{Layout: l, InputHash: hash}
	if err := s.store.Put(r.Context(), rec); err != nil {
		writeError(w, s.logger, err)
		return
	}

	w.Header().Set("Location", "/v1/layouts/"+rec.ID)
	writeJSON(w, http.StatusCreated, createResponse{ID: rec.ID, Cached: hit, Layout: l})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.lookup(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeError(w, s.logger, storeError(id, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if !pipeline.ValidFormats[format] {
		writeError(w, s.logger, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format))
		return
	}
	opts, err := s.options(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	opts.Formats = []string{format}

	rec, err := s.lookup(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	artifacts, hit, err := s.runner.RenderWithCacheInfo(r.Context(), rec.Layout, opts)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	cacheStatus := "miss"
	if hit {
		cacheStatus = "hit"
	}
	data := artifacts[format]
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// lookup loads the record named by the {id} URL parameter.
func (s *Server) lookup(r *http.Request) (*store.Record, error) {
	id := chi.URLParam(r, "id")
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		return nil, storeError(id, err)
	}
	return rec, nil
}

func storeError(id string, err error) error {
	if stderrors.Is(err, store.ErrNotFound) {
		return errNotFound("layout %q not found", id)
	}
	return err
}

// options merges query parameters into the server defaults.
//
// Supported parameters: root, parallel, refresh, scale, labels, detailed.
// The separator travels in the request body.
func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	opts := s.defaults
	opts.Formats = nil
	opts.Logger = s.logger
	q := r.URL.Query()

	if v := q.Get("root"); v != "" {
		if err := errors.ValidateEntityName(v, ""); err != nil {
			return opts, err
		}
		opts.Root = v
	}
	for name, dst := range map[string]*bool{
		"parallel": &opts.Parallel,
		"refresh":  &opts.Refresh,
		"labels":   &opts.Labels,
		"detailed": &opts.Detailed,
	} {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s: not a boolean: %q", name, v)
			}
			*dst = b
		}
	}
	if v := q.Get("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "scale: not a number: %q", v)
		}
		opts.Scale = f
	}
	err := opts.Validate()
	return opts, err
}
