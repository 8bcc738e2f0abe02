package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/matzehuels/ntgraph/pkg/errors"
	"github.com/matzehuels/ntgraph/pkg/graph"
	"github.com/matzehuels/ntgraph/pkg/layout"
)

// layoutResponse is the body of a successful layout request.
type layoutResponse struct {
	Graph      json.RawMessage   `json:"graph"`
	Mode       layout.Mode       `json:"mode"`
	FellBack   bool              `json:"fell_back"`
	Mismatches []layout.Mismatch `json:"mismatches"`
	Missing    []string          `json:"missing"`
	CacheHit   bool              `json:"cache_hit"`
	GraphHash  string            `json:"graph_hash"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := s.logger.With("request_id", requestIDFrom(ctx))

	opts := s.defaults
	opts.Logger = logger
	var err error
	if opts.Force, err = boolParam(r, "force"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.Fallback, err = boolParam(r, "fallback"); err != nil {
		s.writeError(w, r, err)
		return
	}

	limit := s.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	g, err := graph.Read(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(ctx, g, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := graph.Marshal(res.Graph)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "serialize layout"))
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{
		Graph:      data,
		Mode:       res.Mode,
		FellBack:   res.FellBack,
		Mismatches: nonNil(res.Mismatches),
		Missing:    nonNil(res.Missing),
		CacheHit:   res.CacheHit,
		GraphHash:  res.GraphHash,
	})
}

func boolParam(r *http.Request, name string) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "query parameter %s: %q is not a boolean", name, v)
	}
	return b, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
