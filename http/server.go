package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/policycheck"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ShutdownTimeout is the time given for outstanding requests to finish before shutdown.
const ShutdownTimeout = 5 * time.Second

// maxRequestBodySize caps the JSON body of a check request.
const maxRequestBodySize = 1 << 20

// Server exposes compliance checks over HTTP.
type Server struct {
	ln     net.Listener
	server *http.Server
	router chi.Router

	// Bind address to open.
	Addr string

	// Services used by the HTTP routes.
	Checker policycheck.Checker

	// Metrics, if set, is served at /metrics.
	Metrics http.Handler

	Logger *slog.Logger
}

// NewServer returns a new instance of Server.
func NewServer() *Server {
	s := &Server{
		server: &http.Server{ReadHeaderTimeout: 10 * time.Second},
		router: chi.NewRouter(),
		Logger: slog.New(slog.DiscardHandler),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(s.recoverPanic)
	s.router.Use(s.logRequest)

	s.router.Get("/health", s.handleHealth)
	s.router.Post("/check-compliance", s.handleCheckCompliance)
	s.router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		if s.Metrics == nil {
			http.NotFound(w, r)
			return
		}
		s.Metrics.ServeHTTP(w, r)
	})

	s.server.Handler = s.router

	return s
}

// Open validates the server options and begins listening on the bind address.
func (s *Server) Open() (err error) {
	if s.Checker == nil {
		return errors.New("checker required")
	}
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}

	go func() { _ = s.server.Serve(s.ln) }()

	return nil
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Port returns the TCP port for the running server.
// This is useful in tests where we allocate a random port by using ":0".
func (s *Server) Port() int {
	if s.ln == nil {
		return 0
	}
	return s.ln.Addr().(*net.TCPAddr).Port
}

// ServeHTTP routes requests. It lets the server be mounted in tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCheckCompliance(w http.ResponseWriter, r *http.Request) {
	var req policycheck.CheckRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, r, policycheck.Errorf(policycheck.EINVALID, "Invalid JSON body"))
		return
	}

	resp, err := s.Checker.Check(r.Context(), &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps err to a status code and writes it as JSON.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, message := policycheck.ErrorCode(err), policycheck.ErrorMessage(err)

	status := ErrorStatusCode(code)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"code", code,
			"err", err,
		)
	}

	writeJSON(w, status, &errorResponse{Error: message})
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if code == policycheck.EINVALID {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// recoverPanic turns a panicking handler into a JSON 500 response.
func (s *Server) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.Logger.Error("panic",
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", middleware.GetReqID(r.Context()),
					"panic", rec,
				)
				writeJSON(w, http.StatusInternalServerError, &errorResponse{Error: "Unknown error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// logRequest logs each request with its status and duration.
func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func(begin time.Time) {
			s.Logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(begin),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}(time.Now())
		next.ServeHTTP(ww, r)
	})
}
