package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/seqdraw/pkg/buildinfo"
	"github.com/matzehuels/seqdraw/pkg/errors"
	seqio "github.com/matzehuels/seqdraw/pkg/io"
	"github.com/matzehuels/seqdraw/pkg/pipeline"
	"github.com/matzehuels/seqdraw/pkg/store"
)

// maxBodyBytes leaves room for a JSON envelope around the largest source.
const maxBodyBytes = errors.MaxSourceBytes + 64<<10

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatDSL:  "text/plain; charset=utf-8",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
}

type errorResponse struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Error: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// sourceRequest is the JSON form of a request body. Plain-text bodies are
// taken as DSL source.
type sourceRequest struct {
	Source string `json:"source"`
	Input  string `json:"input,omitempty"`
}

func readSource(r *http.Request) (sourceRequest, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return sourceRequest{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")
	}
	if len(data) > maxBodyBytes {
		return sourceRequest{}, errors.New(errors.ErrCodeInvalidInput, "request body too large")
	}

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt != "application/json" {
		return sourceRequest{Source: string(data), Input: pipeline.InputDSL}, nil
	}
	var req sourceRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return sourceRequest{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON body")
	}
	return req, nil
}

// renderOptions layers query parameters over the server configuration.
// Dotted keys (style.line_coloring, metrics.row_height, ...) go through
// the same path as `seqdraw config set`.
func (s *Server) renderOptions(r *http.Request) (pipeline.Options, error) {
	cfg := s.Config
	q := r.URL.Query()

	dotted := map[string]string{}
	for key := range q {
		if strings.Contains(key, ".") {
			dotted[key] = q.Get(key)
		}
	}
	if err := cfg.SetAll(dotted); err != nil {
		return pipeline.Options{}, err
	}

	opts := cfg.PipelineOptions()
	if v := q.Get("viz"); v != "" {
		opts.VizType = v
	}
	if v := q.Get("format"); v != "" {
		opts.Formats = []string{v}
	} else {
		opts.Formats = []string{pipeline.FormatSVG}
	}

	var err error
	parseInt := func(name string, dst *int) {
		if v := q.Get(name); v != "" && err == nil {
			*dst, err = strconv.Atoi(v)
			if err != nil {
				err = errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", name, v)
			}
		}
	}
	parseFloat := func(name string, dst *float64) {
		if v := q.Get(name); v != "" && err == nil {
			*dst, err = strconv.ParseFloat(v, 64)
			if err != nil {
				err = errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", name, v)
			}
		}
	}
	parseBool := func(name string, dst *bool) {
		if v := q.Get(name); v != "" && err == nil {
			*dst, err = strconv.ParseBool(v)
			if err != nil {
				err = errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", name, v)
			}
		}
	}
	parseInt("highlight", &opts.Highlight)
	parseFloat("scale", &opts.Scale)
	parseBool("interactive", &opts.Interactive)
	parseBool("transparent", &opts.Transparent)
	parseBool("detailed", &opts.Detailed)
	parseBool("collapse", &opts.Collapse)
	parseBool("refresh", &opts.Refresh)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts.Logger = s.Logger
	return opts, nil
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, src sourceRequest) {
	opts, err := s.renderOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts.Source = src.Source
	opts.Input = src.Input

	res, err := s.Runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	format := opts.Formats[0]
	cacheState := "miss"
	if res.CacheInfo.RenderHit {
		cacheState = "hit"
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Seqdraw-Cache", cacheState)
	w.Header().Set("ETag", strconv.Quote(res.DiagramHash[:16]))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	src, err := readSource(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.render(w, r, src)
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	src, err := readSource(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	d, err := s.Runner.Parse(r.Context(), pipeline.Options{Source: src.Source, Input: src.Input, Logger: s.Logger})
	if err != nil {
		s.writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := seqio.WriteJSON(d, &buf); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleCreateDiagram(w http.ResponseWriter, r *http.Request) {
	src, err := readSource(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if src.Input == pipeline.InputJSON {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "shared diagrams are stored as DSL source"))
		return
	}
	if err := errors.ValidateSourceSize(src.Source); err != nil {
		s.writeError(w, err)
		return
	}
	doc := store.NewDocument(src.Source)
	if err := s.Store.Put(r.Context(), doc); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Location", "/diagrams/"+doc.ID)
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleListDiagrams(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid limit: %q", v))
			return
		}
		limit = n
	}
	docs, err := s.Store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"diagrams": docs})
}

func (s *Server) document(w http.ResponseWriter, r *http.Request) (store.Document, bool) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateDiagramID(id); err != nil {
		s.writeError(w, err)
		return store.Document{}, false
	}
	doc, err := s.Store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return store.Document{}, false
	}
	return doc, true
}

func (s *Server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	if doc, ok := s.document(w, r); ok {
		writeJSON(w, http.StatusOK, doc)
	}
}

func (s *Server) handleDeleteDiagram(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateDiagramID(id); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.Store.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenderDiagram(w http.ResponseWriter, r *http.Request) {
	if doc, ok := s.document(w, r); ok {
		s.render(w, r, sourceRequest{Source: doc.Source, Input: pipeline.InputDSL})
	}
}
