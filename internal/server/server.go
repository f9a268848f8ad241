// Package server exposes the thin HTTP API over the agent loop and the
// integration registry. Handlers only map requests and responses; all control
// flow lives in the components they call.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/studypilot/studypilot/internal/agent"
	"github.com/studypilot/studypilot/internal/dispatch"
	"github.com/studypilot/studypilot/internal/integrations"
)

// Server wires the HTTP routes to the agent loop and the registry.
type Server struct {
	loop       *agent.Loop
	dispatcher *dispatch.Dispatcher
	registry   *integrations.Registry
	httpSrv    *http.Server
}

func New(addr string, loop *agent.Loop, dispatcher *dispatch.Dispatcher, registry *integrations.Registry) *Server {
	s := &Server{loop: loop, dispatcher: dispatcher, registry: registry}

	router := mux.NewRouter()
	router.HandleFunc("/health", s.handleHealth).Methods("GET")
	router.HandleFunc("/api/chat", s.handleChat).Methods("POST")
	router.HandleFunc("/api/tools", s.handleTools).Methods("GET")
	router.HandleFunc("/api/integrations", s.handleListIntegrations).Methods("GET")
	router.HandleFunc("/api/integrations", s.handleAddIntegration).Methods("POST")
	router.HandleFunc("/api/integrations/stats", s.handleStats).Methods("GET")
	router.HandleFunc("/api/integrations/{id}", s.handleGetIntegration).Methods("GET")
	router.HandleFunc("/api/integrations/{id}", s.handleUpdateIntegration).Methods("PATCH")
	router.HandleFunc("/api/integrations/{id}", s.handleDeleteIntegration).Methods("DELETE")
	router.HandleFunc("/api/integrations/{id}/test", s.handleTestIntegration).Methods("POST")

	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the configured router, used by tests.
func (s *Server) Handler() http.Handler { return s.httpSrv.Handler }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", s.httpSrv.Addr)
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
