package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func newTestRouter() *route.Engine {
	opt := config.NewOptions([]config.Option{})
	return route.NewEngine(opt)
}

func ok(ctx context.Context, c *app.RequestContext) {
	c.String(consts.StatusOK, "success")
}

func TestRequestID_Generated(t *testing.T) {
	router := newTestRouter()
	router.Use(RequestID())
	router.GET("/", ok)

	w := ut.PerformRequest(router, "GET", "/", nil)

	id := w.Result().Header.Get(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("%s = %q, want a UUID: %v", RequestIDHeader, id, err)
	}
}

func TestRequestID_Echoed(t *testing.T) {
	router := newTestRouter()
	router.Use(RequestID())
	router.GET("/", ok)

	w := ut.PerformRequest(router, "GET", "/", nil,
		ut.Header{Key: RequestIDHeader, Value: "abc-123"})

	if got := w.Result().Header.Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("%s = %q, want %q", RequestIDHeader, got, "abc-123")
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer

	router := newTestRouter()
	router.Use(RequestID())
	router.Use(Logger(zerolog.New(&buf)))
	router.GET("/status", ok)

	ut.PerformRequest(router, "GET", "/status", nil,
		ut.Header{Key: RequestIDHeader, Value: "req-1"})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid log line %q: %v", buf.String(), err)
	}

	want := map[string]interface{}{
		"method":     "GET",
		"path":       "/status",
		"status":     float64(consts.StatusOK),
		"request_id": "req-1",
		"message":    "request",
	}
	for key, value := range want {
		if entry[key] != value {
			t.Errorf("log %s = %v, want %v", key, entry[key], value)
		}
	}
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer

	router := newTestRouter()
	router.Use(Recovery(zerolog.New(&buf)))
	router.GET("/boom", func(ctx context.Context, c *app.RequestContext) {
		panic("boom")
	})

	w := ut.PerformRequest(router, "GET", "/boom", nil)

	resp := w.Result()
	if resp.StatusCode() != consts.StatusInternalServerError {
		t.Errorf("Status = %d, want %d", resp.StatusCode(), consts.StatusInternalServerError)
	}
	if !strings.Contains(string(resp.Body()), "boom") {
		t.Errorf("Body = %q, want panic message", resp.Body())
	}
	if !strings.Contains(buf.String(), "Panic recovered") {
		t.Errorf("log output = %q, want panic line", buf.String())
	}
}
