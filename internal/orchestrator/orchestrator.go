// Package orchestrator routes an incoming query end-to-end: classify,
// assemble user context, invoke the selected responder, clean the
// result, and persist the exchange.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/bloomagain/bloombot/internal/classify"
	"github.com/bloomagain/bloombot/internal/responder"
	"github.com/bloomagain/bloombot/internal/session"
	"github.com/bloomagain/bloombot/internal/text"
	"github.com/bloomagain/bloombot/internal/userdata"
)

// Orchestrator composes the session store, the user data store, the
// classifier, and the four responders. Each Route* call is one logical
// transaction: on any failure before the final append, the conversation
// log is left exactly as it was.
type Orchestrator struct {
	sessions         *session.Store
	users            *userdata.Store
	classifier       *classify.Classifier
	responders       map[classify.Category]responder.Responder
	contextExchanges int
	logger           *slog.Logger
}

// New creates an Orchestrator. users may be nil when the profile/log
// store is unavailable; context assembly then degrades to "no data" for
// every user. contextExchanges <= 0 falls back to the default.
func New(
	sessions *session.Store,
	users *userdata.Store,
	classifier *classify.Classifier,
	responders map[classify.Category]responder.Responder,
	contextExchanges int,
	logger *slog.Logger,
) *Orchestrator {
	if contextExchanges <= 0 {
		contextExchanges = session.DefaultContextExchanges
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Orchestrator{
		sessions:         sessions,
		users:            users,
		classifier:       classifier,
		responders:       responders,
		contextExchanges: contextExchanges,
		logger:           logger.With("component", "orchestrator"),
	}
}

// assembled is the enriched, read-only input a responder needs.
type assembled struct {
	profile *userdata.Profile
	logs    *userdata.Logs
	context string
	isFirst bool
}

// assemble gathers the profile, logs, recent conversation context, and
// first-interaction flag for userID. Store lookup failures degrade to
// nil views; they never fail the request.
func (o *Orchestrator) assemble(ctx context.Context, userID string) assembled {
	a := assembled{
		context: o.sessions.RecentContext(userID, o.contextExchanges),
		isFirst: o.sessions.IsFirst(userID),
	}

	var err error
	a.profile, err = o.users.GetProfile(ctx, userID)
	if err != nil {
		o.logger.WarnContext(ctx, "profile lookup failed, continuing without profile", "user_id", userID, "error", err)
		a.profile = nil
	}
	a.logs, err = o.users.GetLogs(ctx, userID)
	if err != nil {
		o.logger.WarnContext(ctx, "log lookup failed, continuing without logs", "user_id", userID, "error", err)
		a.logs = nil
	}
	return a
}

// Route classifies query, dispatches it to the matching responder with
// assembled context, cleans the output, and records the exchange.
func (o *Orchestrator) Route(ctx context.Context, query, userID string) (string, error) {
	category := o.classifier.Classify(ctx, query)
	a := o.assemble(ctx, userID)

	out, err := o.respond(ctx, category, responder.Request{
		Query:               query,
		Profile:             a.profile,
		Logs:                a.logs,
		ConversationContext: a.context,
		IsFirstQuery:        a.isFirst,
	})
	if err != nil {
		return "", err
	}

	o.sessions.Append(userID, query, out)
	o.logger.InfoContext(ctx, "query routed",
		"user_id", session.Normalize(userID),
		"category", category.String(),
		"first_interaction", a.isFirst)
	return out, nil
}

// RouteGeneral bypasses classification and always uses the GENERAL
// responder, for callers that already know the intent.
func (o *Orchestrator) RouteGeneral(ctx context.Context, query, userID string) (string, error) {
	a := o.assemble(ctx, userID)

	out, err := o.respond(ctx, classify.General, responder.Request{
		Query:               query,
		Profile:             a.profile,
		Logs:                a.logs,
		ConversationContext: a.context,
		IsFirstQuery:        a.isFirst,
	})
	if err != nil {
		return "", err
	}

	o.sessions.Append(userID, query, out)
	return out, nil
}

// RouteAnonymousGeneral answers a generic educational question without
// any user identity: no profile, no logs, no history, nothing persisted.
func (o *Orchestrator) RouteAnonymousGeneral(ctx context.Context, query string) (string, error) {
	return o.respond(ctx, classify.General, responder.Request{
		Query:               query,
		ConversationContext: session.NoHistory,
		IsFirstQuery:        true,
	})
}

// RouteWithSymptoms handles the messaging-channel path where structured
// logs don't exist: the free-text symptoms are synthesized into a log
// view and the query is classified and routed as usual. The saved
// exchange records the symptoms alongside the query.
func (o *Orchestrator) RouteWithSymptoms(ctx context.Context, query, symptoms, userID string) (string, error) {
	category := o.classifier.Classify(ctx, query)

	out, err := o.respond(ctx, category, responder.Request{
		Query:               query,
		Logs:                userdata.LogsFromSymptoms(symptoms),
		ConversationContext: o.sessions.RecentContext(userID, o.contextExchanges),
		IsFirstQuery:        o.sessions.IsFirst(userID),
	})
	if err != nil {
		return "", err
	}

	o.sessions.Append(userID, fmt.Sprintf("%s (with symptoms: %s)", query, symptoms), out)
	o.logger.InfoContext(ctx, "symptom query routed",
		"user_id", session.Normalize(userID),
		"category", category.String())
	return out, nil
}

// RouteDirect invokes one named responder with the bare query, without
// any Session Store interaction. Used by the category-specific HTTP
// endpoints.
func (o *Orchestrator) RouteDirect(ctx context.Context, category classify.Category, query string) (string, error) {
	r, ok := o.responders[category]
	if !ok {
		return "", fmt.Errorf("no responder registered for category %s", category)
	}
	result := r.Respond(ctx, responder.Request{Query: query})
	return result.Output, nil
}

// respond invokes the responder for category and cleans its output. The
// responder contract guarantees a usable string even on generation
// failure, so any error here is an internal wiring fault.
func (o *Orchestrator) respond(ctx context.Context, category classify.Category, req responder.Request) (string, error) {
	r, ok := o.responders[category]
	if !ok {
		return "", fmt.Errorf("no responder registered for category %s", category)
	}

	result := r.Respond(ctx, req)
	if result.Failed {
		o.logger.WarnContext(ctx, "responder returned degraded fallback", "category", category.String())
	}

	return text.Clean(result.Output), nil
}
