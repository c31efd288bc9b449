package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"triage-chatbot/internal/core"
	"triage-chatbot/pkg"
)

// safeFailureMessage is the only text the boundary layer returns for an
// unrecovered pipeline failure. Internal errors stay in the logs.
const safeFailureMessage = "We could not process your request right now. Please try again in a few minutes."

// Server bundles the dependencies required by the HTTP handlers. It
// implements http.Handler so it can be passed to http.ListenAndServe.
type Server struct {
	Triage *core.Triage
	Ping   func() error
	Logger *zap.Logger
}

// NewServer constructs a Server. ping is the liveness probe used by
// /healthz, typically the database ping.
func NewServer(triage *core.Triage, ping func() error, logger *zap.Logger) *Server {
	return &Server{Triage: triage, Ping: ping, Logger: logger}
}

// ServeHTTP dispatches incoming requests based on the URL path. Minimal
// routing logic is implemented here to keep dependencies light.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/chat" && r.Method == http.MethodPost:
		s.handleChat(w, r)
	case r.URL.Path == "/healthz" && r.Method == http.MethodGet:
		s.handleHealthz(w, r)
	default:
		http.NotFound(w, r)
	}
}

// handleChat runs one triage turn. It rejects empty identifiers and
// messages before the pipeline ever runs.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req pkg.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	req.PatientID = strings.TrimSpace(req.PatientID)
	req.Message = strings.TrimSpace(req.Message)
	if req.PatientID == "" || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing patient_id or message"})
		return
	}

	s.Logger.Info("chat request",
		zap.String("patient_id", req.PatientID),
		zap.Int("message_len", len(req.Message)))

	reply, err := s.Triage.Handle(r.Context(), req.PatientID, req.Message)
	if err != nil {
		s.Logger.Error("triage pipeline failed",
			zap.String("patient_id", req.PatientID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": safeFailureMessage})
		return
	}
	writeJSON(w, http.StatusOK, pkg.ChatResponse{Response: reply})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	if s.Ping != nil {
		if err := s.Ping(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
