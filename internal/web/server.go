// Package web exposes the compiler over HTTP.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/metalagman/uamc/internal/archive"
	"github.com/metalagman/uamc/internal/compiler"
	"github.com/metalagman/uamc/internal/uam"
	"github.com/metalagman/uamc/internal/validate"
	"github.com/rs/zerolog/log"
)

// Options configures the server.
type Options struct {
	// ArchiveName is the download filename for multi-file results.
	ArchiveName string
	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64
}

// Server provides the HTTP handlers.
type Server struct {
	compiler *compiler.Compiler
	opts     Options
}

// NewServer creates a new web server.
func NewServer(c *compiler.Compiler, opts Options) (*Server, error) {
	if c == nil {
		return nil, errors.New("web: compiler is required")
	}
	if opts.ArchiveName == "" {
		opts.ArchiveName = "agent-config.zip"
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 512 << 10
	}
	return &Server{compiler: c, opts: opts}, nil
}

// Routes returns the router.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /adapters", s.handleAdapters)
	mux.HandleFunc("POST /validate", s.handleValidate)
	mux.HandleFunc("POST /scan", s.handleScan)
	mux.HandleFunc("POST /compile/{id}", s.handleCompile)
	return withRequestLog(mux)
}

type adapterInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *Server) handleAdapters(w http.ResponseWriter, _ *http.Request) {
	all := s.compiler.Registry().All()
	out := make([]adapterInfo, 0, len(all))
	for _, a := range all {
		out = append(out, adapterInfo{ID: a.ID(), Name: a.Name()})
	}
	writeJSON(w, http.StatusOK, out)
}

type validateResponse struct {
	Success bool             `json:"success"`
	Data    *uam.Document    `json:"data,omitempty"`
	Issues  []validate.Issue `json:"issues,omitempty"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	raw, ok := s.readPayload(w, r)
	if !ok {
		return
	}
	res := validate.Validate(raw)
	status := http.StatusOK
	if !res.Success() {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, validateResponse{Success: res.Success(), Data: res.Document, Issues: res.Issues})
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	raw, ok := s.readPayload(w, r)
	if !ok {
		return
	}
	res, err := s.compiler.Scan(raw)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	raw, ok := s.readPayload(w, r)
	if !ok {
		return
	}
	out, err := s.compiler.Compile(raw, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	for _, warning := range out.Warnings {
		w.Header().Add("X-Uamc-Warning", warning)
	}

	if len(out.Files) == 1 && r.URL.Query().Get("format") != "zip" {
		f := out.Files[0]
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": path.Base(f.Path)}))
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, f.Content)
		return
	}

	blob, err := out.Archive()
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", archive.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": s.opts.ArchiveName}))
	w.Header().Set("Content-Length", fmt.Sprint(len(blob)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(blob)
}

func (s *Server) readPayload(w http.ResponseWriter, r *http.Request) (any, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "request body too large"})
			return nil, false
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "read request body"})
		return nil, false
	}
	format := uam.FormatJSON
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil {
		switch mt {
		case "application/yaml", "application/x-yaml", "text/yaml":
			format = uam.FormatYAML
		}
	}
	raw, err := uam.Decode(data, format)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return nil, false
	}
	return raw, true
}

type errorBody struct {
	Error  string           `json:"error"`
	Issues []validate.Issue `json:"issues,omitempty"`
	Scan   any              `json:"scan,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	var verr *compiler.ValidationError
	var serr *compiler.SecretsError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "document is invalid", Issues: verr.Issues})
	case errors.As(err, &serr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: serr.Error(), Scan: serr.Scan})
	case errors.Is(err, compiler.ErrUnknownAdapter):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	default:
		log.Error().Err(err).Msg("compile failed")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("write response")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		log.Info().
			Str("request_id", id).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	})
}
