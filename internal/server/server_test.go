package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa911/contactrelay/internal/config"
	"github.com/osa911/contactrelay/internal/logging"
	"github.com/osa911/contactrelay/internal/mailer"
	"github.com/osa911/contactrelay/internal/mailer/mailertest"
	"github.com/osa911/contactrelay/internal/ratelimit"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:     "test",
		Port:            "0",
		SiteName:        "Intarvas",
		MaxBodyBytes:    1 << 16,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		TrustedProxies:  []string{"127.0.0.1"},
		FrontendURL:     "http://localhost:3000",
		FromEmail:       "onboarding@resend.dev",
		ToEmail:         "owner@example.com",
		EmailTimeout:    time.Second,
		RateLimitWindow: 15 * time.Minute,
		RateLimitMax:    5,
		GlobalRPS:       1000,
		GlobalBurst:     1000,
		ServiceName:     "contactrelay-test",
	}
}

type testServer struct {
	handler http.Handler
	sender  *mailertest.Sender
	clock   *fakeClock
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}

	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	sender := &mailertest.Sender{}
	srv, err := NewServer(cfg, logging.NewNop(), Dependencies{
		Sender:  sender,
		Limiter: ratelimit.NewWindowStore(cfg.RateLimitMax, cfg.RateLimitWindow, ratelimit.WithClock(clock.Now)),
	})
	require.NoError(t, err)

	return &testServer{handler: srv.Handler(), sender: sender, clock: clock}
}

func (ts *testServer) post(t *testing.T, body string, ip string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/send-email", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if ip != "" {
		req.RemoteAddr = ip + ":40000"
	}
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func submissionJSON(t *testing.T, name, email, message string) string {
	t.Helper()
	b, err := json.Marshal(map[string]string{"name": name, "email": email, "message": message})
	require.NoError(t, err)
	return string(b)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSendEmailSuccess(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.post(t, submissionJSON(t, "Ada", "ada@example.com", "Hello there"), "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Email sent successfully!", body["message"])
	assert.Equal(t, "email-1", body["emailId"])

	sent := ts.sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "ada@example.com", sent[0].ReplyTo)
	assert.Equal(t, "owner@example.com", sent[0].To)
	assert.Equal(t, "onboarding@resend.dev", sent[0].From)
	assert.Equal(t, "New Contact Form Submission from Ada", sent[0].Subject)
	assert.Contains(t, sent[0].HTML, "Hello there")
	assert.Equal(t, "5", w.Header().Get("RateLimit-Limit"))
	assert.Equal(t, "4", w.Header().Get("RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestSendEmailValidation(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		reason string
	}{
		{"missing name", `{"email":"ada@example.com","message":"hi"}`, "Missing required fields: name, email, and message are required."},
		{"empty message", `{"name":"Ada","email":"ada@example.com","message":""}`, "Missing required fields: name, email, and message are required."},
		{"empty object", `{}`, "Missing required fields: name, email, and message are required."},
		{"empty body", ``, "Missing required fields: name, email, and message are required."},
		{"invalid email", `{"name":"Ada","email":"not-an-email","message":"hi"}`, "Invalid email format."},
		{"email with space", `{"name":"Ada","email":"a b@example.com","message":"hi"}`, "Invalid email format."},
		{"message too long", `{"name":"Ada","email":"ada@example.com","message":"` + strings.Repeat("x", 5001) + `"}`, "Message is too long. Maximum 5000 characters."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, nil)

			w := ts.post(t, tt.body, "")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decode(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.reason, body["error"])
			assert.Zero(t, ts.sender.Calls())
		})
	}
}

func TestSendEmailMessageAtLimit(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.post(t, submissionJSON(t, "Ada", "ada@example.com", strings.Repeat("é", 5000)), "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, ts.sender.Calls())
}

func TestSendEmailMalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"name":`},
		{"non-string field", `{"name":42,"email":"ada@example.com","message":"hi"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, nil)

			w := ts.post(t, tt.body, "")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Invalid request body.", decode(t, w)["error"])
			assert.Zero(t, ts.sender.Calls())
		})
	}
}

func TestSendEmailBodyTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.MaxBodyBytes = 128
	ts := newTestServer(t, cfg)

	w := ts.post(t, submissionJSON(t, "Ada", "ada@example.com", strings.Repeat("x", 512)), "")

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Zero(t, ts.sender.Calls())
}

func TestSendEmailProviderFailure(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.sender.SendFunc = func(ctx context.Context, msg *mailer.Message) (string, error) {
		return "", errors.New("resend: invalid api key re_secret")
	}

	w := ts.post(t, submissionJSON(t, "Ada", "ada@example.com", "Hello"), "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Failed to send email. Please try again later.", body["error"])
	assert.NotContains(t, w.Body.String(), "re_secret")
	assert.Equal(t, 1, ts.sender.Calls())
}

func TestSendEmailProviderTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.EmailTimeout = 20 * time.Millisecond
	ts := newTestServer(t, cfg)
	ts.sender.SendFunc = func(ctx context.Context, msg *mailer.Message) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}

	w := ts.post(t, submissionJSON(t, "Ada", "ada@example.com", "Hello"), "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to send email. Please try again later.", decode(t, w)["error"])
}

func TestSendEmailRateLimit(t *testing.T) {
	ts := newTestServer(t, nil)
	body := submissionJSON(t, "Ada", "ada@example.com", "Hello")

	for i := 0; i < 5; i++ {
		w := ts.post(t, body, "203.0.113.7")
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}

	w := ts.post(t, body, "203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "Too many requests from this IP, please try again later.", decode(t, w)["error"])
	assert.Equal(t, "0", w.Header().Get("RateLimit-Remaining"))
	// The window started with the first request on the store's clock
	assert.Equal(t, "900", w.Header().Get("Retry-After"))
	assert.Equal(t, "900", w.Header().Get("RateLimit-Reset"))
	assert.Equal(t, 5, ts.sender.Calls())

	// Other sources keep their own budget
	w = ts.post(t, body, "198.51.100.1")
	assert.Equal(t, http.StatusOK, w.Code)

	ts.clock.Advance(15*time.Minute + time.Second)

	w = ts.post(t, body, "203.0.113.7")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, ts.sender.Calls())
}

func TestSendEmailRateLimitCountsRejectedRequests(t *testing.T) {
	ts := newTestServer(t, nil)

	for i := 0; i < 5; i++ {
		w := ts.post(t, `{}`, "203.0.113.8")
		require.Equal(t, http.StatusBadRequest, w.Code)
	}

	w := ts.post(t, submissionJSON(t, "Ada", "ada@example.com", "Hello"), "203.0.113.8")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Zero(t, ts.sender.Calls())
}

func TestSendEmailRateLimitIgnoresUntrustedForwardedFor(t *testing.T) {
	ts := newTestServer(t, nil)
	body := submissionJSON(t, "Ada", "ada@example.com", "Hello")

	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodPost, "/send-email", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", "10.0.0."+strconv.Itoa(i+1))
		req.RemoteAddr = "203.0.113.9:5000"
		w := httptest.NewRecorder()
		ts.handler.ServeHTTP(w, req)

		if i < 5 {
			assert.Equal(t, http.StatusOK, w.Code)
		} else {
			assert.Equal(t, http.StatusTooManyRequests, w.Code)
		}
	}
}

func TestSendEmailDuplicatesAreSentTwice(t *testing.T) {
	ts := newTestServer(t, nil)
	body := submissionJSON(t, "Ada", "ada@example.com", "Same message")

	first := ts.post(t, body, "")
	second := ts.post(t, body, "")

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, 2, ts.sender.Calls())
	assert.NotEqual(t, decode(t, first)["emailId"], decode(t, second)["emailId"])
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Intarvas Contact API is running", decode(t, w)["status"])
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t, nil)

	for _, target := range []string{"/nope", "/send-email/extra"} {
		w := httptest.NewRecorder()
		ts.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Route not found", decode(t, w)["error"])
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/send-email", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Zero(t, ts.sender.Calls())
}

func TestNewServerRequiresSender(t *testing.T) {
	_, err := NewServer(testConfig(), logging.NewNop(), Dependencies{})
	assert.Error(t, err)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	srv, err := NewServer(testConfig(), logging.NewNop(), Dependencies{Sender: &mailertest.Sender{}})
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Post("http://"+ln.Addr().String()+"/send-email", "application/json",
		bytes.NewBufferString(`{"name":"Ada","email":"ada@example.com","message":"hi"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestNewSender(t *testing.T) {
	cfg := testConfig()

	sender, err := NewSender(cfg, logging.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &mailer.LogSender{}, sender)

	cfg.Environment = "production"
	_, err = NewSender(cfg, logging.NewNop())
	assert.ErrorIs(t, err, mailer.ErrNotConfigured)

	cfg.ResendAPIKey = "re_test"
	sender, err = NewSender(cfg, logging.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &mailer.ResendSender{}, sender)
}
