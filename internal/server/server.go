// Package server exposes office-to-PDF conversion over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tsawler/officeconv"
	"github.com/tsawler/officeconv/internal/config"
	"github.com/tsawler/officeconv/internal/logging"
	"github.com/tsawler/officeconv/typst"
)

// Server handles conversion requests. Each request is converted on its
// own goroutine; nothing is shared between requests.
type Server struct {
	cfg     *config.Config
	logger  *slog.Logger
	backend officeconv.Backend
	router  *chi.Mux
}

// New creates a Server. A nil backend runs the typst binary named in cfg.
func New(cfg *config.Config, logger *slog.Logger, backend officeconv.Backend) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if backend == nil {
		backend = officeconv.TypstCLI{Binary: cfg.TypstBinary, WorkDir: cfg.WorkDir}
	}
	s := &Server{cfg: cfg, logger: logger, backend: backend}

	r := chi.NewRouter()
	r.Use(logging.RequestIDMiddleware)
	r.Use(logging.Middleware(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/convert", s.handleConvert)
	r.Post("/markup", s.handleMarkup)
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on cfg.Listen until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server_startup", "addr", s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleConvert converts the request body and returns the PDF.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readBody(w, r)
	if !ok {
		return
	}
	opts, err := s.options(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := officeconv.Convert(r.Context(), data, r.URL.Query().Get("format"), opts, s.backend)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("X-Conversion-Warnings", strconv.Itoa(len(res.Warnings)))
	w.Header().Set("X-Page-Count", strconv.Itoa(res.PageCount))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.PDF)
}

type markupAsset struct {
	Path string `json:"path"`
	Data []byte `json:"data"`
}

type markupResponse struct {
	Format   string        `json:"format"`
	Markup   string        `json:"markup"`
	Assets   []markupAsset `json:"assets"`
	Warnings []string      `json:"warnings"`
}

// handleMarkup returns the generated markup and its image assets as JSON.
func (s *Server) handleMarkup(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readBody(w, r)
	if !ok {
		return
	}
	opts, err := s.options(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	c := officeconv.FromBytes(data, r.URL.Query().Get("format")).WithOptions(opts)
	markup, images, warnings, err := c.Markup()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := markupResponse{
		Format:   c.Format().String(),
		Markup:   markup,
		Assets:   make([]markupAsset, len(images)),
		Warnings: make([]string, len(warnings)),
	}
	for i, img := range images {
		resp.Assets[i] = markupAsset{Path: img.Path, Data: img.Data}
	}
	for i, wr := range warnings {
		resp.Warnings[i] = wr.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes()))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d MB", s.cfg.MaxUploadMB))
			return nil, false
		}
		writeError(w, http.StatusBadRequest, fmt.Errorf("reading body: %w", err))
		return nil, false
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("empty body"))
		return nil, false
	}
	return data, true
}

// options starts from the configured defaults and applies query overrides:
// paper, landscape, sheet (repeatable), slides and pdfa.
func (s *Server) options(r *http.Request) (officeconv.ConvertOptions, error) {
	q := r.URL.Query()
	opts := officeconv.ConvertOptions{
		PaperSize: s.cfg.Paper(),
		Landscape: s.cfg.Landscape,
		FontPaths: s.cfg.FontPaths,
		Logger:    logging.FromContext(r.Context(), s.logger),
	}
	if s.cfg.PDFStandard != "" {
		std := officeconv.PDFStandard(s.cfg.PDFStandard)
		opts.PDFStandard = &std
	}

	if v := q.Get("paper"); v != "" {
		p, ok := typst.ParsePaperSize(v)
		if !ok {
			return opts, fmt.Errorf("unsupported paper %q", v)
		}
		opts.PaperSize = &p
	}
	if v := q.Get("landscape"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid landscape %q", v)
		}
		opts.Landscape = &b
	}
	opts.SheetNames = q["sheet"]
	if v := q.Get("slides"); v != "" {
		sr, err := officeconv.ParseSlideRange(v)
		if err != nil {
			return opts, err
		}
		opts.SlideRange = &sr
	}
	if v := q.Get("pdfa"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid pdfa %q", v)
		}
		if b {
			std := officeconv.PDFA2B
			opts.PDFStandard = &std
		}
	}
	return opts, nil
}

// fail maps conversion errors to HTTP status codes.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, officeconv.ErrUnsupported):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, officeconv.ErrParse):
		status = http.StatusUnprocessableEntity
	}
	logging.FromContext(r.Context(), s.logger).Error("conversion failed", "status", status, "error", err)
	writeError(w, status, err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
