package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/eventlive/eventlive-backend/internal/metrics"
)

const (
	DefaultAPIBase = "https://api.channel.io/open/v5"
	DefaultBotName = "EventOK"

	maxDeliveryAttempts   = 5
	initialBackoff        = 500 * time.Millisecond
	defaultRequestTimeout = 10 * time.Second
)

// DeliveryOutcome is the terminal state of one Deliver call.
type DeliveryOutcome string

const (
	OutcomeDelivered      DeliveryOutcome = "delivered"
	OutcomeNoTarget       DeliveryOutcome = "no_target"
	OutcomeRejected       DeliveryOutcome = "rejected"
	OutcomeRetryExceeded  DeliveryOutcome = "retry_exceeded"
	OutcomeTransportError DeliveryOutcome = "transport_error"
)

// DeliveryResult describes how a delivery ended. Response holds the
// platform's JSON body on success, or {"ok":true} when it was not JSON.
type DeliveryResult struct {
	Outcome    DeliveryOutcome
	StatusCode int
	Attempts   int
	Response   json.RawMessage
	Error      string
}

func (r DeliveryResult) OK() bool {
	return r.Outcome == OutcomeDelivered
}

// Sleeper waits between retries. It must return early with ctx.Err() when
// ctx is cancelled.
type Sleeper func(ctx context.Context, d time.Duration) error

func contextSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ChannelTalkClient sends bot messages to ChannelTalk user chats through the
// Open API.
type ChannelTalkClient struct {
	baseURL               string
	accessKey             string
	accessSecret          string
	botName               string
	httpClient            *http.Client
	limiter               *rate.Limiter
	sleep                 Sleeper
	retryOnTransportError bool
	metrics               *metrics.Metrics
	log                   *zap.Logger
}

type ChannelTalkOption func(*ChannelTalkClient)

func WithAPIBase(base string) ChannelTalkOption {
	return func(c *ChannelTalkClient) {
		c.baseURL = strings.TrimRight(strings.TrimSpace(base), "/")
	}
}

func WithBotName(name string) ChannelTalkOption {
	return func(c *ChannelTalkClient) {
		c.botName = name
	}
}

func WithHTTPClient(httpClient *http.Client) ChannelTalkOption {
	return func(c *ChannelTalkClient) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the per-attempt request timeout.
func WithTimeout(d time.Duration) ChannelTalkOption {
	return func(c *ChannelTalkClient) {
		c.httpClient = &http.Client{Timeout: d}
	}
}

// WithRateLimiter makes every attempt wait on l first.
func WithRateLimiter(l *rate.Limiter) ChannelTalkOption {
	return func(c *ChannelTalkClient) {
		c.limiter = l
	}
}

func WithSleeper(s Sleeper) ChannelTalkOption {
	return func(c *ChannelTalkClient) {
		c.sleep = s
	}
}

// WithRetryOnTransportError controls whether connection failures and
// timeouts are retried like a 503 or end the delivery at once.
func WithRetryOnTransportError(retry bool) ChannelTalkOption {
	return func(c *ChannelTalkClient) {
		c.retryOnTransportError = retry
	}
}

func WithMetrics(m *metrics.Metrics) ChannelTalkOption {
	return func(c *ChannelTalkClient) {
		c.metrics = m
	}
}

func WithLogger(log *zap.Logger) ChannelTalkOption {
	return func(c *ChannelTalkClient) {
		c.log = log
	}
}

// NewChannelTalkClient builds a client. Missing credentials are accepted
// here and reported on first use.
func NewChannelTalkClient(accessKey, accessSecret string, opts ...ChannelTalkOption) *ChannelTalkClient {
	c := &ChannelTalkClient{
		baseURL:               DefaultAPIBase,
		accessKey:             accessKey,
		accessSecret:          accessSecret,
		botName:               DefaultBotName,
		httpClient:            &http.Client{Timeout: defaultRequestTimeout},
		sleep:                 contextSleep,
		retryOnTransportError: true,
		log:                   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendOptions tweaks a single send.
type SendOptions struct {
	// BotName overrides the client's default bot name.
	BotName string
	// Blocks sends the text as a single text block instead of plainText.
	Blocks bool
}

type textBlock struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type messageBody struct {
	PlainText string      `json:"plainText,omitempty"`
	Blocks    []textBlock `json:"blocks,omitempty"`
}

// Deliver sends text as plain text under the default bot name.
func (c *ChannelTalkClient) Deliver(ctx context.Context, chatID, text string) (DeliveryResult, error) {
	return c.SendMessage(ctx, chatID, text, SendOptions{})
}

// SendMessage posts text to a user chat, retrying 429 and 5xx gateway
// statuses up to five attempts with a doubling backoff from 500ms. The
// returned error is non-nil only for missing credentials or a cancelled
// context; every platform-side failure is described by the result.
func (c *ChannelTalkClient) SendMessage(ctx context.Context, chatID, text string, opts SendOptions) (result DeliveryResult, err error) {
	if chatID == "" {
		return DeliveryResult{Outcome: OutcomeNoTarget}, nil
	}
	if c.accessKey == "" || c.accessSecret == "" {
		return DeliveryResult{}, newError(ErrorConfig, "send message", ErrMissingCredentials)
	}

	botName := opts.BotName
	if botName == "" {
		botName = c.botName
	}
	body := messageBody{PlainText: text}
	if opts.Blocks {
		body = messageBody{Blocks: []textBlock{{Type: "text", Value: text}}}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return DeliveryResult{}, fmt.Errorf("channeltalk: marshal message: %w", err)
	}

	endpoint := c.baseURL + "/user-chats/" + url.PathEscape(chatID) + "/messages?" +
		url.Values{"botName": {botName}}.Encode()

	started := time.Now()
	defer func() {
		c.metrics.DeliveryResult(string(result.Outcome), time.Since(started))
	}()

	backoff := initialBackoff
	for attempt := 1; attempt <= maxDeliveryAttempts; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return DeliveryResult{Outcome: OutcomeTransportError, Attempts: attempt - 1, Error: err.Error()}, err
			}
		}

		status, respBody, reqErr := c.do(ctx, http.MethodPost, endpoint, payload)
		switch {
		case reqErr != nil:
			c.metrics.DeliveryAttempt("transport_error")
			if ctx.Err() != nil {
				return DeliveryResult{Outcome: OutcomeTransportError, Attempts: attempt, Error: reqErr.Error()}, ctx.Err()
			}
			if !c.retryOnTransportError {
				return DeliveryResult{Outcome: OutcomeTransportError, Attempts: attempt, Error: reqErr.Error()}, nil
			}
			c.log.Warn("channeltalk request failed", zap.Int("attempt", attempt), zap.Error(reqErr))

		case status < http.StatusBadRequest:
			c.metrics.DeliveryAttempt(strconv.Itoa(status))
			resp := json.RawMessage(respBody)
			if !json.Valid(respBody) {
				resp = json.RawMessage(`{"ok":true}`)
			}
			return DeliveryResult{Outcome: OutcomeDelivered, StatusCode: status, Attempts: attempt, Response: resp}, nil

		case isRetryableStatus(status):
			c.metrics.DeliveryAttempt(strconv.Itoa(status))
			c.log.Warn("channeltalk retryable status", zap.Int("attempt", attempt), zap.Int("status", status))

		default:
			c.metrics.DeliveryAttempt(strconv.Itoa(status))
			return DeliveryResult{Outcome: OutcomeRejected, StatusCode: status, Attempts: attempt, Error: string(respBody)}, nil
		}

		if attempt == maxDeliveryAttempts {
			break
		}
		if err := c.sleep(ctx, backoff); err != nil {
			return DeliveryResult{Outcome: OutcomeTransportError, Attempts: attempt, Error: err.Error()}, err
		}
		backoff *= 2
	}

	return DeliveryResult{
		Outcome:    OutcomeRetryExceeded,
		StatusCode: http.StatusBadGateway,
		Attempts:   maxDeliveryAttempts,
		Error:      string(OutcomeRetryExceeded),
	}, nil
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// CheckAuth lists at most one opened user chat to confirm the credentials.
// It returns the raw status and body without interpreting them.
func (c *ChannelTalkClient) CheckAuth(ctx context.Context) (int, []byte, error) {
	if c.accessKey == "" || c.accessSecret == "" {
		return 0, nil, newError(ErrorConfig, "check auth", ErrMissingCredentials)
	}
	q := url.Values{"state": {"opened"}, "sortOrder": {"desc"}, "limit": {"1"}}
	return c.do(ctx, http.MethodGet, c.baseURL+"/user-chats?"+q.Encode(), nil)
}

func (c *ChannelTalkClient) do(ctx context.Context, method, endpoint string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("channeltalk: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-access-key", c.accessKey)
	req.Header.Set("x-access-secret", c.accessSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("channeltalk: %s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("channeltalk: read response: %w", err)
	}
	return resp.StatusCode, raw, nil
}
