// Package health serves liveness, progress and Prometheus metrics for a
// running conversion.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Progress counts finished files; it is safe for concurrent use.
type Progress struct {
	total atomic.Int64
	done  atomic.Int64
}

func (p *Progress) SetTotal(n int) { p.total.Store(int64(n)) }
func (p *Progress) FileDone()      { p.done.Add(1) }

type status struct {
	Status     string `json:"status"`
	FilesDone  int64  `json:"files_done"`
	FilesTotal int64  `json:"files_total"`
}

type Server struct {
	httpServer *http.Server
	progress   *Progress
}

func New(addr string, progress *Progress) *Server {
	mux := http.NewServeMux()
	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		progress: progress,
	}
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	return s
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := status{Status: "ok"}
	if s.progress != nil {
		st.FilesDone = s.progress.done.Load()
		st.FilesTotal = s.progress.total.Load()
		if st.FilesTotal > 0 && st.FilesDone < st.FilesTotal {
			st.Status = "converting"
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(st)
}

func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("health server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
