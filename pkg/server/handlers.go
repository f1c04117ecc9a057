package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperr "github.com/matzehuels/graphview/pkg/errors"
	"github.com/matzehuels/graphview/pkg/graph"
	"github.com/matzehuels/graphview/pkg/render/dot"
)

func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	p, err := s.readPayload(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.runner.Normalizer.Normalize(p))
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	p, err := s.readPayload(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.runner.Start(r.Context(), p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+res.SessionID)
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.runner.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if vertex := r.URL.Query().Get("vertex"); vertex != "" {
		if s.source == nil {
			s.writeError(w, apperr.New(apperr.ErrCodeInvalidInput, "no graph source configured; post a payload instead"))
			return
		}
		limit, err := queryInt(r, "limit")
		if err != nil {
			s.writeError(w, err)
			return
		}
		res, err := s.runner.ExpandFrom(r.Context(), id, s.source, vertex, limit)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
		return
	}

	p, err := s.readPayload(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.runner.Expand(r.Context(), id, p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	snap, err := s.runner.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	q := r.URL.Query()
	format := dot.Format(q.Get("format"))
	src := dot.ToDOT(snap, dot.Options{Detailed: q.Get("detailed") == "1" || q.Get("detailed") == "true"})
	out, err := dot.Render(r.Context(), src, format, dot.Engine(q.Get("engine")))
	if err != nil {
		s.writeError(w, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "render preview"))
		return
	}

	switch format {
	case dot.FormatSVG:
		w.Header().Set("Content-Type", "image/svg+xml")
	case dot.FormatPNG:
		w.Header().Set("Content-Type", "image/png")
	default:
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (s *Server) handleDiscard(w http.ResponseWriter, r *http.Request) {
	if err := s.runner.Discard(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) readPayload(w http.ResponseWriter, r *http.Request) (graph.Payload, error) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	p, err := graph.ReadPayload(body)
	if err != nil {
		return graph.Payload{}, apperr.Wrap(apperr.ErrCodeInvalidPayload, err, "read payload")
	}
	return p, nil
}

func queryInt(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "%s must be an integer", key)
	}
	return n, nil
}

type errorBody struct {
	Error struct {
		Code    apperr.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

// statusFor maps an error code to an HTTP status.
func statusFor(code apperr.Code) int {
	switch code {
	case apperr.ErrCodeInvalidInput, apperr.ErrCodeInvalidPayload, apperr.ErrCodeInvalidFormat, apperr.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case apperr.ErrCodeNotFound, apperr.ErrCodeSessionNotFound, apperr.ErrCodeVertexNotFound:
		return http.StatusNotFound
	case apperr.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case apperr.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := apperr.GetCode(err)
	if code == "" {
		code = apperr.ErrCodeInternal
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			code = apperr.ErrCodeInvalidPayload
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			code = apperr.ErrCodeTimeout
		}
	}
	status := statusFor(code)
	if status >= 500 {
		s.logger.Error("request failed", "code", code, "err", err)
	}

	var body errorBody
	body.Error.Code = code
	body.Error.Message = apperr.UserMessage(err)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
