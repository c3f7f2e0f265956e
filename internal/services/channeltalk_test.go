package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sleepRecorder struct {
	mu   sync.Mutex
	naps []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.naps = append(s.naps, d)
	return nil
}

func (s *sleepRecorder) total() time.Duration {
	var sum time.Duration
	for _, d := range s.naps {
		sum += d
	}
	return sum
}

type scriptedServer struct {
	t        *testing.T
	mu       sync.Mutex
	statuses []int
	calls    int
	requests []*http.Request
	bodies   [][]byte
	respBody string
}

func (s *scriptedServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, _ := io.ReadAll(r.Body)
	s.requests = append(s.requests, r)
	s.bodies = append(s.bodies, body)

	status := s.statuses[len(s.statuses)-1]
	if s.calls < len(s.statuses) {
		status = s.statuses[s.calls]
	}
	s.calls++
	w.WriteHeader(status)
	_, _ = io.WriteString(w, s.respBody)
}

func newScriptedClient(t *testing.T, respBody string, statuses ...int) (*ChannelTalkClient, *scriptedServer, *sleepRecorder) {
	t.Helper()
	script := &scriptedServer{t: t, statuses: statuses, respBody: respBody}
	srv := httptest.NewServer(script)
	t.Cleanup(srv.Close)

	rec := &sleepRecorder{}
	client := NewChannelTalkClient("key", "secret",
		WithAPIBase(srv.URL+"/open/v5/"),
		WithSleeper(rec.sleep),
	)
	return client, script, rec
}

func TestDeliver_RetriesThenSucceeds(t *testing.T) {
	client, script, rec := newScriptedClient(t, `{"message":{"id":"m1"}}`, 503, 503, 200)

	res, err := client.Deliver(context.Background(), "chat-1", "안녕하세요")
	require.NoError(t, err)
	assert.Equal(t, OutcomeDelivered, res.Outcome)
	assert.Equal(t, 3, res.Attempts)
	assert.JSONEq(t, `{"message":{"id":"m1"}}`, string(res.Response))
	assert.Equal(t, []time.Duration{500 * time.Millisecond, time.Second}, rec.naps)
	assert.Equal(t, 1500*time.Millisecond, rec.total())
	assert.Equal(t, 3, script.calls)
}

func TestDeliver_TerminalStatusDoesNotRetry(t *testing.T) {
	client, script, rec := newScriptedClient(t, `not found`, 404)

	res, err := client.Deliver(context.Background(), "chat-1", "hi")
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, res.Outcome)
	assert.Equal(t, 404, res.StatusCode)
	assert.Equal(t, "not found", res.Error)
	assert.Empty(t, rec.naps)
	assert.Equal(t, 1, script.calls)
}

func TestDeliver_ExhaustsRetries(t *testing.T) {
	client, script, rec := newScriptedClient(t, `oops`, 500)

	res, err := client.Deliver(context.Background(), "chat-1", "hi")
	require.NoError(t, err)
	assert.Equal(t, OutcomeRetryExceeded, res.Outcome)
	assert.Equal(t, http.StatusBadGateway, res.StatusCode)
	assert.Equal(t, "retry_exceeded", res.Error)
	assert.Equal(t, 5, script.calls)
	assert.Equal(t, []time.Duration{
		500 * time.Millisecond, time.Second, 2 * time.Second, 4 * time.Second,
	}, rec.naps)
	assert.Equal(t, 7500*time.Millisecond, rec.total())
}

func TestDeliver_NonJSONSuccessBody(t *testing.T) {
	client, _, _ := newScriptedClient(t, ``, 201)

	res, err := client.Deliver(context.Background(), "chat-1", "hi")
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.JSONEq(t, `{"ok":true}`, string(res.Response))
}

func TestDeliver_RequestShape(t *testing.T) {
	client, script, _ := newScriptedClient(t, `{}`, 200)

	_, err := client.SendMessage(context.Background(), "chat/1", "본문", SendOptions{BotName: "Helper", Blocks: true})
	require.NoError(t, err)
	require.Len(t, script.requests, 1)

	req := script.requests[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/open/v5/user-chats/chat%2F1/messages", req.URL.EscapedPath())
	assert.Equal(t, "Helper", req.URL.Query().Get("botName"))
	assert.Equal(t, "key", req.Header.Get("x-access-key"))
	assert.Equal(t, "secret", req.Header.Get("x-access-secret"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(script.bodies[0], &body))
	assert.Equal(t, map[string]interface{}{
		"blocks": []interface{}{map[string]interface{}{"type": "text", "value": "본문"}},
	}, body)

	_, err = client.Deliver(context.Background(), "c2", "plain")
	require.NoError(t, err)
	assert.JSONEq(t, `{"plainText":"plain"}`, string(script.bodies[1]))
	assert.Equal(t, DefaultBotName, script.requests[1].URL.Query().Get("botName"))
}

func TestDeliver_NoTargetSkipsEverything(t *testing.T) {
	client := NewChannelTalkClient("", "")
	res, err := client.Deliver(context.Background(), "", "hi")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoTarget, res.Outcome)
}

func TestDeliver_MissingCredentials(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	t.Cleanup(srv.Close)

	client := NewChannelTalkClient("key", "", WithAPIBase(srv.URL))
	_, err := client.Deliver(context.Background(), "chat-1", "hi")
	require.ErrorIs(t, err, ErrMissingCredentials)
	assert.Equal(t, ErrorConfig, CodeOf(err))
	assert.Zero(t, calls)

	_, _, err = client.CheckAuth(context.Background())
	require.ErrorIs(t, err, ErrMissingCredentials)
}

func TestDeliver_TransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	rec := &sleepRecorder{}
	client := NewChannelTalkClient("key", "secret", WithAPIBase(base), WithSleeper(rec.sleep))
	res, err := client.Deliver(context.Background(), "chat-1", "hi")
	require.NoError(t, err)
	assert.Equal(t, OutcomeRetryExceeded, res.Outcome)
	assert.Len(t, rec.naps, 4)

	rec = &sleepRecorder{}
	client = NewChannelTalkClient("key", "secret", WithAPIBase(base), WithSleeper(rec.sleep), WithRetryOnTransportError(false))
	res, err = client.Deliver(context.Background(), "chat-1", "hi")
	require.NoError(t, err)
	assert.Equal(t, OutcomeTransportError, res.Outcome)
	assert.Equal(t, 1, res.Attempts)
	assert.NotEmpty(t, res.Error)
	assert.Empty(t, rec.naps)
}

func TestDeliver_CancelledWhileWaiting(t *testing.T) {
	client, script, _ := newScriptedClient(t, ``, 503)
	ctx, cancel := context.WithCancel(context.Background())
	client.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := client.Deliver(ctx, "chat-1", "hi")
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, script.calls)
}

func TestCheckAuth(t *testing.T) {
	client, script, _ := newScriptedClient(t, `{"userChats":[]}`, 200)

	status, body, err := client.CheckAuth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 200, status)
	assert.JSONEq(t, `{"userChats":[]}`, string(body))

	q := script.requests[0].URL.Query()
	assert.Equal(t, "/open/v5/user-chats", script.requests[0].URL.Path)
	assert.Equal(t, "opened", q.Get("state"))
	assert.Equal(t, "desc", q.Get("sortOrder"))
	assert.Equal(t, "1", q.Get("limit"))
}
