// Package whatsapp implements the messaging-channel webhook: inbound
// form-encoded messages in, a TwiML document with one reply out. It owns
// the multi-turn "ask for symptoms, then resume" flow on top of the
// session state machine.
package whatsapp

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bloomagain/bloombot/internal/classify"
	"github.com/bloomagain/bloombot/internal/orchestrator"
	"github.com/bloomagain/bloombot/internal/session"
	"github.com/bloomagain/bloombot/internal/text"
)

// Handler serves the inbound webhook.
type Handler struct {
	orch      *orchestrator.Orchestrator
	sessions  *session.Store
	maxLength int
	logger    *slog.Logger
}

// NewHandler creates the webhook handler. maxLength caps outbound
// message bodies; values <= 0 fall back to 1500.
func NewHandler(orch *orchestrator.Orchestrator, sessions *session.Store, maxLength int, logger *slog.Logger) *Handler {
	if maxLength <= 0 {
		maxLength = 1500
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{
		orch:      orch,
		sessions:  sessions,
		maxLength: maxLength,
		logger:    logger.With("component", "whatsapp"),
	}
}

// ServeHTTP processes one inbound message and writes the TwiML reply.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.logger.Warn("failed to parse webhook form", "error", err)
		h.reply(w, generalErrorMessage)
		return
	}

	from := r.PostFormValue("From")
	body := strings.TrimSpace(r.PostFormValue("Body"))

	h.logger.Info("inbound message", "from", session.Normalize(from), "length", len(body))

	message := h.respondTo(r.Context(), from, body)
	h.reply(w, message)
}

// respondTo runs the conversation flow for one inbound message and
// returns the reply body.
func (h *Handler) respondTo(ctx context.Context, from, body string) string {
	if body == "" {
		return helpText
	}

	lower := strings.ToLower(body)
	if greetingKeywords[lower] {
		return welcomeMessage
	}

	userID := session.Normalize(from)
	snap := h.sessions.GetOrCreate(from)

	// The user was asked for symptom details: this message is them.
	if snap.State == session.StateAwaitingSymptoms {
		return h.resumePendingQuery(ctx, from, userID, body)
	}

	// Generic educational content needs no personal context.
	if classify.IsGeneralQuery(body) {
		out, err := h.orch.RouteAnonymousGeneral(ctx, body)
		if err != nil {
			h.logger.ErrorContext(ctx, "general query failed", "error", err)
			return processingErrorMessage
		}
		return text.Truncate(out, h.maxLength)
	}

	// Symptoms already on file: answer immediately with them.
	if snap.HasProvidedSymptoms && snap.Symptoms != "" {
		if updateSymptomsPhrases[lower] {
			return h.resetSymptoms(from)
		}
		out, err := h.orch.RouteWithSymptoms(ctx, body, snap.Symptoms, userID)
		if err != nil {
			h.logger.ErrorContext(ctx, "query with cached symptoms failed", "error", err)
			return processingErrorMessage
		}
		return text.Truncate(out, h.maxLength)
	}

	if updateSymptomsPhrases[lower] {
		return h.resetSymptoms(from)
	}

	// Anything else needs personal context first: park the query and ask.
	if _, err := h.sessions.Transition(from, session.EventAskSymptoms, body); err != nil {
		h.logger.ErrorContext(ctx, "failed to enter symptom capture", "error", err)
		return generalErrorMessage
	}
	return symptomRequest
}

// resumePendingQuery consumes the symptom message, answers the parked
// query with it, and returns the session to the free state. Symptoms are
// retained for future queries.
func (h *Handler) resumePendingQuery(ctx context.Context, from, userID, symptoms string) string {
	snap, err := h.sessions.Transition(from, session.EventSymptomsProvided, symptoms)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to record symptoms", "error", err)
		return generalErrorMessage
	}

	out, routeErr := h.orch.RouteWithSymptoms(ctx, snap.PendingQuery, symptoms, userID)

	if _, err := h.sessions.Transition(from, session.EventProcessingDone, ""); err != nil {
		h.logger.ErrorContext(ctx, "failed to leave processing state", "error", err)
	}

	if routeErr != nil {
		h.logger.ErrorContext(ctx, "pending query failed", "error", routeErr)
		return processingErrorMessage
	}
	return text.Truncate(out, h.maxLength)
}

func (h *Handler) resetSymptoms(from string) string {
	if _, err := h.sessions.Transition(from, session.EventResetSymptoms, updateSymptomsMarker); err != nil {
		h.logger.Error("failed to reset symptoms", "error", err)
		return generalErrorMessage
	}
	return symptomRequest
}

func (h *Handler) reply(w http.ResponseWriter, message string) {
	doc, err := renderTwiML(message)
	if err != nil {
		h.logger.Error("failed to render reply", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/xml")
	if _, err := w.Write(doc); err != nil {
		h.logger.Error("failed to write reply", "error", err)
	}
}
