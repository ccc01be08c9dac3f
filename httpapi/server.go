// Package httpapi exposes a simulation run over HTTP: health, status, QoS
// and Prometheus metrics endpoints behind a CORS-enabled gorilla/mux
// router, adapted from the node's own original single-process HTTP surface.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"fogsim/sim"
)

// Server serves introspection endpoints for a running Simulation.
type Server struct {
	sim *sim.Simulation
	log *zap.Logger
	http *http.Server
}

// NewServer builds a Server bound to addr (":8080"-style) that reports on s.
func NewServer(addr string, s *sim.Simulation, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	srv := &Server{sim: s, log: log}

	r := mux.NewRouter()
	r.Use(corsMiddleware)
	r.HandleFunc("/healthz", srv.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/status", srv.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/qos", srv.handleQoS).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	srv.http = &http.Server{Addr: addr, Handler: r}
	return srv
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

// handleStatus and handleQoS read only through Simulation.Snapshot — a
// mutex-guarded copy published at the end of each tick — because Step runs
// concurrently on its own goroutine while this server runs on another;
// reading Simulation's other fields directly here would race against it.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.sim.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"tick":                snap.Tick,
		"fogs":                snap.FogCount,
		"vehicles":            snap.VehicleCount,
		"expected_remaining":  snap.ExpectedRemaining,
	})
}

func (s *Server) handleQoS(w http.ResponseWriter, r *http.Request) {
	snap := s.sim.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"qos":   snap.LastQoS,
		"terms": snap.LastTerms,
	})
}

// Run starts serving and blocks until ctx is cancelled or a SIGINT/SIGTERM
// is received, then shuts the server down with a 10s grace period.
func (s *Server) Run(ctx context.Context) error {
	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case <-sigint:
	case err := <-errCh:
		return err
	}

	s.log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
