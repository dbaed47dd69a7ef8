package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"i4.energy/across/atcmd/engine"
)

// Server exposes the state of a running command engine over HTTP
type Server struct {
	Logger *slog.Logger
	Engine *engine.Engine
}

// ServeHTTP implements the http.Handler interface for the Server struct
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("GET /commands", s.handleCommands)
	mux.ServeHTTP(w, r)
}

func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	if message == "" {
		w.WriteHeader(statusCode)
		return
	}

	type ErrorResponse struct {
		Message string `json:"message"`
	}
	s.sendJSON(w, ErrorResponse{Message: message}, statusCode)
}

func (s *Server) sendJSON(w http.ResponseWriter, v any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("Failed to encode response", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.Engine == nil {
		s.sendError(w, "engine not running", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// handleStats reports the engine's command cycle counters
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.Engine == nil {
		s.sendError(w, "engine not running", http.StatusServiceUnavailable)
		return
	}
	s.sendJSON(w, s.Engine.Stats(), http.StatusOK)
}

// handleCommands lists the registered commands and the forms they accept
func (s *Server) handleCommands(w http.ResponseWriter, r *http.Request) {
	if s.Engine == nil {
		s.sendError(w, "engine not running", http.StatusServiceUnavailable)
		return
	}

	type CommandInfo struct {
		Name  string   `json:"name"`
		Forms []string `json:"forms"`
	}

	commands := s.Engine.Commands()
	resp := make([]CommandInfo, 0, len(commands))
	for _, c := range commands {
		resp = append(resp, CommandInfo{Name: c.Name, Forms: Forms(c)})
	}
	s.sendJSON(w, resp, http.StatusOK)
}
