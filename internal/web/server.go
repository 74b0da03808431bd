// Package web exposes the dashboard pipeline to a rendering shell over JSON
// and a websocket feed.
package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"CryptoDashboard/internal/dashboard"
	"CryptoDashboard/internal/presenter"
)

// Server represents the HTTP server.
type Server struct {
	addr    string
	service *dashboard.Service
	hub     *Hub
	server  *http.Server
}

// NewServer creates a server and subscribes its hub to listing refreshes.
func NewServer(addr string, service *dashboard.Service) *Server {
	s := &Server{
		addr:    addr,
		service: service,
		hub:     NewHub(),
	}
	service.OnRefresh(func(table *presenter.TableView) {
		s.hub.Broadcast("table", table)
	})
	return s
}

// Handler returns the route multiplexer.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tokens", s.handleTokens)
	mux.HandleFunc("/api/view", s.handleView)
	mux.HandleFunc("/api/table", s.handleTable)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ws/table", s.handleTableFeed)
	return logRequests(mux)
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("[INFO] HTTP server listening on %s", s.addr)
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[INFO] %s %s %v", r.Method, r.URL.RequestURI(), time.Since(start).Round(time.Millisecond))
	})
}
