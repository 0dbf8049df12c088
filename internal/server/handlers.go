package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/nestmap/pkg/errors"
	"github.com/matzehuels/nestmap/pkg/layout"
	"github.com/matzehuels/nestmap/pkg/pipeline"
	"github.com/matzehuels/nestmap/pkg/render"
	"github.com/matzehuels/nestmap/pkg/store"
	"github.com/matzehuels/nestmap/pkg/tree"
)

// createLayoutRequest is the body of POST /api/layouts.
type createLayoutRequest struct {
	Name   string     `json:"name"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Tree   *tree.Node `json:"tree"`
}

// renderRequest is the body of POST /api/render.
type renderRequest struct {
	Width   float64        `json:"width"`
	Height  float64        `json:"height"`
	Formats []string       `json:"formats"`
	Layout  *layout.Config `json:"layout"`
	Tree    *tree.Node     `json:"tree"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRender runs the one-shot layout+render pipeline on a posted tree.
// The artifact for the first requested format is returned directly.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if req.Tree == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "tree is required"))
		return
	}

	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Tree:    req.Tree,
		Width:   req.Width,
		Height:  req.Height,
		Layout:  req.Layout,
		Formats: req.Formats,
		Logger:  s.logger,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := pipeline.FormatSVG
	if len(req.Formats) > 0 {
		format = req.Formats[0]
	}
	writeArtifact(w, format, result.Artifacts[format])
}

func (s *Server) handleCreateLayout(w http.ResponseWriter, r *http.Request) {
	var req createLayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if req.Tree == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "tree is required"))
		return
	}
	if err := req.Tree.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Width <= 0 {
		req.Width = pipeline.DefaultWidth
	}
	if req.Height <= 0 {
		req.Height = pipeline.DefaultHeight
	}

	laid, err := layout.Build(req.Tree, req.Width, req.Height, nil)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec := &store.Record{
		Name:   req.Name,
		Width:  req.Width,
		Height: req.Height,
		Tree:   req.Tree,
		Layout: laid,
	}
	if err := s.store.Put(r.Context(), rec); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRenderLayout re-renders a stored layout, optionally at a new
// viewport (?w=&h=), in the requested format (?format=svg).
func (s *Server) handleRenderLayout(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	width, height, resized, err := viewportParams(r, rec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	laid := rec.Layout
	if laid == nil || resized {
		laid, err = layout.Build(rec.Tree, width, height, nil)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	var data []byte
	switch format {
	case pipeline.FormatSVG:
		data = render.RenderSVG(laid)
	case pipeline.FormatJSON:
		data, err = render.MarshalJSON(laid)
	case pipeline.FormatDOT:
		data = []byte(render.ToDOT(laid))
	case pipeline.FormatPNG:
		data, err = render.RenderDOTPNG(r.Context(), render.ToDOT(laid))
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, format, data)
}

// viewportParams resolves the effective viewport for a render request,
// reporting whether it differs from the stored one.
func viewportParams(r *http.Request, rec *store.Record) (width, height float64, resized bool, err error) {
	width, height = rec.Width, rec.Height
	if v := r.URL.Query().Get("w"); v != "" {
		width, err = strconv.ParseFloat(v, 64)
		if err != nil || width <= 0 {
			return 0, 0, false, errors.New(errors.ErrCodeInvalidInput, "invalid width %q", v)
		}
		resized = resized || width != rec.Width
	}
	if v := r.URL.Query().Get("h"); v != "" {
		height, err = strconv.ParseFloat(v, 64)
		if err != nil || height <= 0 {
			return 0, 0, false, errors.New(errors.ErrCodeInvalidInput, "invalid height %q", v)
		}
		resized = resized || height != rec.Height
	}
	return width, height, resized, nil
}

// =============================================================================
// Response helpers
// =============================================================================

var formatContentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatPNG:  "image/png",
}

func writeArtifact(w http.ResponseWriter, format string, data []byte) {
	ct := formatContentTypes[format]
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the JSON error payload.
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusForCode(code)
	if status >= 500 {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}

	var resp errorResponse
	resp.Error.Code = string(code)
	resp.Error.Message = errors.UserMessage(err)
	writeJSON(w, status, resp)
}

func statusForCode(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidConfig,
		errors.ErrCodeInvalidTree, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound,
		errors.ErrCodeLayoutNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
