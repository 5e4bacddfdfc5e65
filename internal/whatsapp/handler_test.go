package whatsapp

import (
	"context"
	"encoding/xml"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomagain/bloombot/internal/ai"
	"github.com/bloomagain/bloombot/internal/classify"
	"github.com/bloomagain/bloombot/internal/orchestrator"
	"github.com/bloomagain/bloombot/internal/responder"
	"github.com/bloomagain/bloombot/internal/session"
)

// scriptedClient returns queued replies in order and fails when the
// queue runs dry.
type scriptedClient struct {
	replies []string
	calls   int
}

func (c *scriptedClient) Complete(_ context.Context, _ string, _ ...ai.Option) (string, error) {
	c.calls++
	if len(c.replies) == 0 {
		return "", errors.New("no scripted reply left")
	}
	reply := c.replies[0]
	c.replies = c.replies[1:]
	return reply, nil
}

func newTestHandler(t *testing.T, client ai.Client, maxLength int) (*Handler, *session.Store) {
	t.Helper()

	sessions := session.NewStore(0, nil)
	orch := orchestrator.New(
		sessions,
		nil,
		classify.New(client, nil),
		responder.All(client, nil),
		0,
		nil,
	)
	return NewHandler(orch, sessions, maxLength, nil), sessions
}

func postMessage(t *testing.T, h *Handler, from, body string) string {
	t.Helper()

	form := url.Values{}
	form.Set("From", from)
	form.Set("Body", body)

	req := httptest.NewRequest(http.MethodPost, "/whatsapp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/xml", rec.Header().Get("Content-Type"))

	var doc struct {
		XMLName  xml.Name `xml:"Response"`
		Messages []string `xml:"Message"`
	}
	require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &doc))
	require.Len(t, doc.Messages, 1)
	return doc.Messages[0]
}

func TestEmptyBodyReturnsHelp(t *testing.T) {
	t.Parallel()

	client := &scriptedClient{}
	h, _ := newTestHandler(t, client, 0)

	reply := postMessage(t, h, "whatsapp:+15551230001", "   ")
	assert.Equal(t, helpText, reply)
	assert.Zero(t, client.calls)
}

func TestGreetingReturnsWelcome(t *testing.T) {
	t.Parallel()

	client := &scriptedClient{}
	h, _ := newTestHandler(t, client, 0)

	for _, greeting := range []string{"hi", "Hello", "START", "help"} {
		reply := postMessage(t, h, "whatsapp:+15551230002", greeting)
		assert.Equal(t, welcomeMessage, reply, "greeting %q", greeting)
	}
	assert.Zero(t, client.calls)
}

func TestNewQueryAsksForSymptoms(t *testing.T) {
	t.Parallel()

	client := &scriptedClient{}
	h, sessions := newTestHandler(t, client, 0)
	from := "whatsapp:+15551230003"

	reply := postMessage(t, h, from, "I have joint pain")

	assert.Equal(t, symptomRequest, reply)
	assert.Zero(t, client.calls, "no generation before symptoms arrive")

	snap := sessions.Snapshot(from)
	assert.Equal(t, session.StateAwaitingSymptoms, snap.State)
	assert.Equal(t, "I have joint pain", snap.PendingQuery)
	assert.Zero(t, snap.Exchanges)
}

func TestSymptomReplyResumesPendingQuery(t *testing.T) {
	t.Parallel()

	client := &scriptedClient{replies: []string{
		"CONSULTATION",
		"Joint pain during menopause is common. Gentle stretching can help.",
	}}
	h, sessions := newTestHandler(t, client, 0)
	from := "whatsapp:+15551230004"

	postMessage(t, h, from, "I have joint pain")
	reply := postMessage(t, h, from, "hot flashes and poor sleep")

	assert.Contains(t, reply, "Joint pain during menopause is common.")
	assert.Equal(t, 2, client.calls, "one classification, one generation")

	snap := sessions.Snapshot(from)
	assert.Equal(t, session.StateFree, snap.State)
	assert.True(t, snap.HasProvidedSymptoms)
	assert.Equal(t, "hot flashes and poor sleep", snap.Symptoms)
	assert.Equal(t, 1, snap.Exchanges)
	assert.Contains(t,
		sessions.RecentContext(from, 2),
		"User previously asked: I have joint pain (with symptoms: hot flashes and poor sleep)")
}

func TestCachedSymptomsSkipThePrompt(t *testing.T) {
	t.Parallel()

	client := &scriptedClient{replies: []string{
		"CONSULTATION", "First answer.",
		"DIET", "Calcium-rich foods are a good start.",
	}}
	h, sessions := newTestHandler(t, client, 0)
	from := "whatsapp:+15551230005"

	postMessage(t, h, from, "I have joint pain")
	postMessage(t, h, from, "hot flashes")

	// Second question reuses the cached symptoms with no extra prompt.
	reply := postMessage(t, h, from, "what should I eat")

	assert.Contains(t, reply, "Calcium-rich foods")
	assert.Equal(t, 4, client.calls)

	snap := sessions.Snapshot(from)
	assert.Equal(t, session.StateFree, snap.State)
	assert.Equal(t, 2, snap.Exchanges)
}

func TestUpdateSymptomsResetsCache(t *testing.T) {
	t.Parallel()

	client := &scriptedClient{replies: []string{"CONSULTATION", "First answer."}}
	h, sessions := newTestHandler(t, client, 0)
	from := "whatsapp:+15551230006"

	postMessage(t, h, from, "I have joint pain")
	postMessage(t, h, from, "hot flashes")

	reply := postMessage(t, h, from, "update symptoms")

	assert.Equal(t, symptomRequest, reply)

	snap := sessions.Snapshot(from)
	assert.Equal(t, session.StateAwaitingSymptoms, snap.State)
	assert.Equal(t, updateSymptomsMarker, snap.PendingQuery)
	assert.False(t, snap.HasProvidedSymptoms)
	assert.Empty(t, snap.Symptoms)
}

func TestGeneralQueryAnsweredWithoutSymptoms(t *testing.T) {
	t.Parallel()

	client := &scriptedClient{replies: []string{"Menopause marks the end of menstrual cycles."}}
	h, sessions := newTestHandler(t, client, 0)
	from := "whatsapp:+15551230007"

	reply := postMessage(t, h, from, "what is menopause")

	assert.Contains(t, reply, "Menopause marks the end of menstrual cycles.")
	assert.Equal(t, 1, client.calls, "no classification for generic educational content")

	snap := sessions.Snapshot(from)
	assert.Equal(t, session.StateFree, snap.State)
	assert.Zero(t, snap.Exchanges, "anonymous answers are not persisted")
}

func TestLongReplyTruncated(t *testing.T) {
	t.Parallel()

	client := &scriptedClient{replies: []string{strings.Repeat("a", 400)}}
	h, _ := newTestHandler(t, client, 120)

	reply := postMessage(t, h, "whatsapp:+15551230008", "what is menopause")

	assert.Contains(t, reply, "[Message truncated")
	assert.Less(t, len(reply), 400)
}

func TestGenerationFailureReturnsFallback(t *testing.T) {
	t.Parallel()

	// Empty queue: classification errors (defaulting to GENERAL) and
	// generation errors (triggering the responder fallback).
	client := &scriptedClient{}
	h, sessions := newTestHandler(t, client, 0)
	from := "whatsapp:+15551230009"

	postMessage(t, h, from, "I have joint pain")
	reply := postMessage(t, h, from, "night sweats")

	assert.NotEqual(t, processingErrorMessage, reply, "degraded generation still yields a responder fallback")
	assert.NotEmpty(t, reply)

	snap := sessions.Snapshot(from)
	assert.Equal(t, session.StateFree, snap.State)
}

func TestRenderTwiMLEscapesMarkup(t *testing.T) {
	t.Parallel()

	doc, err := renderTwiML(`advice with <tags> & "quotes"`)
	require.NoError(t, err)

	out := string(doc)
	assert.True(t, strings.HasPrefix(out, xml.Header))
	assert.Contains(t, out, "&lt;tags&gt;")
	assert.NotContains(t, out, "<tags>")
}
