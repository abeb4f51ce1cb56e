// Package webui serves the browser chat: a small JSON API over the chat
// service plus an embedded single-page front end.
package webui

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"bookbot/internal/chat"
	"bookbot/internal/respond"
	"bookbot/internal/schedule"
)

//go:embed static
var staticFiles embed.FS

type Server struct {
	service *chat.Service
	rules   schedule.Rules
	port    string
	log     *zap.Logger

	// The chat service keeps one transcript; serialize turns.
	mu sync.Mutex
}

func NewServer(service *chat.Service, rules schedule.Rules, port string, log *zap.Logger) *Server {
	if port == "" {
		port = "8080"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{service: service, rules: rules, port: port, log: log}
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/status", s.handleStatus)

	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return fmt.Errorf("loading static files: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(staticFS)))

	srv := &http.Server{
		Addr:    ":" + s.port,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		s.log.Info("shutting down web ui")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("web ui listening", zap.String("addr", "http://localhost:"+s.port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("web ui server: %w", err)
	}
	return nil
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply   string          `json:"reply"`
	Summary respond.Summary `json:"summary"`
	Error   string          `json:"error,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	turnCtx, cancel := context.WithTimeout(r.Context(), time.Minute)
	defer cancel()

	reply, err := s.service.Send(turnCtx, req.Message)
	resp := chatResponse{Reply: reply.Text, Summary: reply.Summary}
	if err != nil {
		s.log.Warn("chat turn failed", zap.Error(err))
		resp.Error = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

type statusResponse struct {
	Hours    string `json:"hours"`
	Workdays string `json:"workdays"`
	Slot     string `json:"slot"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var days []string
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.rules.Workday(d) {
			days = append(days, d.String())
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(statusResponse{
		Hours:    s.rules.HoursDisplay(),
		Workdays: strings.Join(days, ", "),
		Slot:     s.rules.SlotDuration.String(),
	})
}
