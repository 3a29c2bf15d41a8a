// Package server is the local HTTP preview: the UI bundle, the dataset
// API and server-rendered chart snapshots.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ukaji3/quarterchart-go/pkg/quarterchart"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/export"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/models"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/prefs"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/render"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/site"
	"github.com/ukaji3/quarterchart-go/pkg/quarterchart/view"
)

// Options configures the preview server.
type Options struct {
	// DefaultPath is loaded when a request names no workbook.
	DefaultPath string
	DistDir     string
	// PublishedDefaults is the published-defaults.json served to the UI.
	PublishedDefaults string
	// Load aggregates a workbook. Defaults to quarterchart.Load.
	Load   func(path string) (*models.Dataset, error)
	Prefs  *prefs.Store
	Locale string
	Logger *zap.Logger
}

// Server handles preview requests.
type Server struct {
	opts   Options
	log    *zap.Logger
	format view.Formatter
}

// New returns a server for opts.
func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.DefaultPath == "" {
		opts.DefaultPath = quarterchart.DefaultExcelPath
	}
	if opts.Load == nil {
		opts.Load = func(p string) (*models.Dataset, error) {
			return quarterchart.Load(p, quarterchart.Options{Locale: opts.Locale, Logger: log})
		}
	}
	if opts.Prefs == nil {
		opts.Prefs = prefs.NewStore(prefs.NewMemoryStorage(), log)
	}
	return &Server{opts: opts, log: log, format: view.NewFormatter(opts.Locale)}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("GET /api/quarter_data", s.handleQuarterData)
	mux.HandleFunc("GET /data.json", s.handleQuarterData)
	mux.HandleFunc("GET /published-defaults.json", s.handlePublished)
	mux.HandleFunc("GET /chart.svg", s.handleChart(""))
	mux.HandleFunc("GET /chart.png", s.handleChart(export.PNG))
	return s.logRequests(mux)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet || (r.URL.Path != "/" && r.URL.Path != "/"+site.IndexFile) {
		send(w, http.StatusNotFound, []byte("Not Found"), "text/plain; charset=utf-8")
		return
	}
	send(w, http.StatusOK, site.IndexOrPlaceholder(s.opts.DistDir), "text/html; charset=utf-8")
}

func (s *Server) handleQuarterData(w http.ResponseWriter, r *http.Request) {
	ds, err := s.load(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

func (s *Server) handlePublished(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(s.opts.PublishedDefaults)
	if errors.Is(err, os.ErrNotExist) || s.opts.PublishedDefaults == "" {
		send(w, http.StatusNotFound, []byte("Not Found"), "text/plain; charset=utf-8")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defaults, err := prefs.ParsePublished(data)
	if err != nil {
		s.log.Debug("Serving empty published defaults", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, defaults)
}

// handleChart renders the window at ?start= with ?scale=, sized by
// ?width= and ?height=. An empty format means SVG from the layout itself.
func (s *Server) handleChart(format export.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		start, err := intParam(q.Get("start"), 0)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		width, err := intParam(q.Get("width"), 960)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		height, err := intParam(q.Get("height"), 540)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		scale, err := view.ParseScaleMode(q.Get("scale"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		ds, err := s.load(r)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}

		scene := export.Scene(ds, s.opts.Prefs, s.format, export.Snapshot{
			Start:  start,
			Width:  width,
			Height: height,
			Scale:  scale,
		})

		var buf bytes.Buffer
		contentType := "image/svg+xml"
		if format == "" {
			err = render.WriteSVG(&buf, export.Still(scene))
		} else {
			contentType = "image/png"
			err = export.Write(&buf, format, scene)
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		send(w, http.StatusOK, buf.Bytes(), contentType)
	}
}

func (s *Server) load(r *http.Request) (*models.Dataset, error) {
	path := r.URL.Query().Get("excelPath")
	if path == "" {
		path = s.opts.DefaultPath
	}
	return s.opts.Load(path)
}

func intParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid number: %q", raw)
	}
	return v, nil
}

func send(w http.ResponseWriter, status int, body []byte, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

// Listen binds host:port, moving to the next port while the address is
// in use, at most tries times.
func Listen(ctx context.Context, host string, port, tries int) (net.Listener, error) {
	var lc net.ListenConfig
	var lastErr error
	for i := 0; i <= tries; i++ {
		addr := net.JoinHostPort(host, strconv.Itoa(port+i))
		ln, err := lc.Listen(ctx, "tcp", addr)
		if err == nil {
			return ln, nil
		}
		if !errors.Is(err, syscall.EADDRINUSE) {
			return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
		}
		lastErr = err
	}
	return nil, fmt.Errorf("no free port in %d..%d: %w", port, port+tries, lastErr)
}

// Serve runs the handler on ln until ctx is done, then shuts down.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	s.log.Info("Web preview running", zap.String("url", "http://"+ln.Addr().String()+"/"))
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		<-errCh
		return nil
	}
}
