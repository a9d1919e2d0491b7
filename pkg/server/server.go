// Package server serves the spreadsheet over HTTP: a static page, a
// WebSocket endpoint for live edits and patches, and Prometheus metrics.
// It is the I/O shell around the reactive graph: every session owns a
// render effect, and a patch is pushed only when that effect is dirty.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/fluorine-dev/fluorine/pkg/rx"
	"github.com/fluorine-dev/fluorine/pkg/sheet"
)

// tracerName identifies this package's spans with the global provider.
const tracerName = "fluorine/server"

// Server owns one shared sheet and the sessions editing it.
type Server struct {
	config  *ServerConfig
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *metrics

	// mu confines the reactive graph to one goroutine at a time; the
	// runtime itself is single-threaded by contract. It also serializes
	// WebSocket writes, which gorilla allows from one writer only.
	mu            sync.Mutex
	sheet         *sheet.Sheet
	sessions      map[uint64]*session
	nextSessionID uint64

	upgrader   websocket.Upgrader
	httpServer *http.Server
}

// New creates a Server, filling unset config fields with defaults.
func New(config *ServerConfig) *Server {
	if config == nil {
		config = DefaultServerConfig()
	} else {
		config.fillDefaults()
	}

	return &Server{
		config:   config,
		logger:   slog.Default().With("component", "server"),
		tracer:   otel.Tracer(tracerName),
		metrics:  newMetrics(config.MetricsRegistry),
		sheet:    sheet.New(config.SheetSize),
		sessions: make(map[uint64]*session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
	}
}

// Handler returns the server's HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealthz)
	r.Get("/ws", s.handleWS)
	r.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(s.config.MetricsRegistry, promhttp.HandlerOpts{}))
	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown failed", "error", err)
		}
	}()

	s.logger.Info("listening", "address", s.config.Address, "cells", s.config.SheetSize)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexPage)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleWS upgrades the connection, pushes the initial snapshot, and
// then serves edits until the client disconnects.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sess := s.addSession(conn)
	defer s.removeSession(sess)

	sess.logger.Info("session connected")

	// Initial push: the session's effect starts dirty, so this always
	// sends the full snapshot.
	s.mu.Lock()
	err = s.pushLocked(sess, "")
	s.mu.Unlock()
	if err != nil {
		sess.logger.Error("initial push failed", "error", err)
		return
	}

	s.readLoop(r.Context(), sess)
}

func (s *Server) addSession(conn *websocket.Conn) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSessionID++
	sess := &session{
		id:     s.nextSessionID,
		conn:   conn,
		render: rx.NewEffect(),
		logger: s.logger.With("session", s.nextSessionID),
	}
	s.sessions[sess.id] = sess
	s.metrics.activeSessions.Inc()
	return sess
}

// removeSession drops the session. Its render effect becomes
// unreachable with it, so the back-edges it left on the sheet's cells
// expire and are reaped on later traversals.
func (s *Server) removeSession(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sess.id)
	s.metrics.activeSessions.Dec()
	sess.logger.Info("session disconnected")
}
