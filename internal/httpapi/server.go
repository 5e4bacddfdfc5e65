// Package httpapi exposes the assistant over a JSON HTTP API and mounts
// the messaging-channel webhook.
package httpapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bloomagain/bloombot/internal/classify"
	"github.com/bloomagain/bloombot/internal/config"
	"github.com/bloomagain/bloombot/internal/orchestrator"
)

type chatRequest struct {
	Query  string `json:"query"`
	UserID string `json:"user_id"`
}

type chatResponse struct {
	UserID   string `json:"user_id,omitempty"`
	Query    string `json:"query"`
	Response string `json:"response"`
	Category string `json:"category,omitempty"`
	Status   string `json:"status"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

// Server holds the API handlers.
type Server struct {
	orch    *orchestrator.Orchestrator
	webhook http.Handler
	logger  *slog.Logger
}

// NewServer builds the HTTP server with all routes and middleware
// attached. webhook may be nil to run the JSON API alone.
func NewServer(cfg config.ServerConfig, orch *orchestrator.Orchestrator, webhook http.Handler, logger *slog.Logger) *http.Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Server{
		orch:    orch,
		webhook: webhook,
		logger:  logger.With("component", "httpapi"),
	}

	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// Routes returns the fully assembled handler, exported for tests.
func Routes(orch *orchestrator.Orchestrator, webhook http.Handler, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{orch: orch, webhook: webhook, logger: logger.With("component", "httpapi")}
	return s.routes()
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("Bloom Menopause Assistant API"))
	})

	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("POST /basicquery", s.handleBasicQuery)
	mux.HandleFunc("POST /consultation", s.directHandler(classify.Consultation))
	mux.HandleFunc("POST /diet", s.directHandler(classify.Diet))
	mux.HandleFunc("POST /exercise", s.directHandler(classify.Exercise))

	if s.webhook != nil {
		mux.Handle("POST /whatsapp", s.webhook)
	}

	return s.withRequestLogging(mux)
}

// handleChat routes a query through classification.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeChatRequest(w, r, true)
	if !ok {
		return
	}

	out, err := s.orch.Route(r.Context(), req.Query, req.UserID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, chatResponse{
		UserID:   req.UserID,
		Query:    req.Query,
		Response: out,
		Status:   "success",
	})
}

// handleBasicQuery bypasses classification and always uses the GENERAL
// responder.
func (s *Server) handleBasicQuery(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeChatRequest(w, r, true)
	if !ok {
		return
	}

	out, err := s.orch.RouteGeneral(r.Context(), req.Query, req.UserID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, chatResponse{
		UserID:   req.UserID,
		Query:    req.Query,
		Response: out,
		Category: classify.General.String(),
		Status:   "success",
	})
}

// directHandler invokes one named responder without any session
// interaction.
func (s *Server) directHandler(category classify.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := s.decodeChatRequest(w, r, false)
		if !ok {
			return
		}

		out, err := s.orch.RouteDirect(r.Context(), category, req.Query)
		if err != nil {
			s.internalError(w, r, err)
			return
		}

		s.writeJSON(w, http.StatusOK, chatResponse{
			Query:    req.Query,
			Response: out,
			Category: category.String(),
			Status:   "success",
		})
	}
}

// decodeChatRequest parses and validates the JSON body. Validation
// failures are written as 400 responses and never touch any state.
func (s *Server) decodeChatRequest(w http.ResponseWriter, r *http.Request, requireUserID bool) (chatRequest, bool) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  `Request must include "query"` + userIDClause(requireUserID),
			Status: "error",
		})
		return chatRequest{}, false
	}

	req.Query = strings.TrimSpace(req.Query)
	req.UserID = strings.TrimSpace(req.UserID)

	if req.Query == "" || (requireUserID && req.UserID == "") {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  `Empty or missing "query"` + userIDClause(requireUserID),
			Status: "error",
		})
		return chatRequest{}, false
	}

	return req, true
}

func userIDClause(requireUserID bool) string {
	if requireUserID {
		return ` or "user_id"`
	}
	return ""
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	s.writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error:  "An internal server error occurred.",
		Status: "error",
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
