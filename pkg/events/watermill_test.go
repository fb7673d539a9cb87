package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/livebid/pkg/logger"
)

func setupTracer() *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp
}

func TestRetryWithBackoff(t *testing.T) {
	tests := []struct {
		name      string
		failFirst int
		wantCalls int
		wantErr   bool
	}{
		{"success first attempt", 0, 1, false},
		{"success after retries", 2, 3, false},
		{"exhausts attempts", 99, maxRetries, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			handler := func(context.Context, *message.Message) error {
				calls++
				if calls <= tt.failFirst {
					return errors.New("transient")
				}
				return nil
			}
			err := retryWithBackoff(context.Background(), message.NewMessage("id", nil),
				handler, maxRetries, time.Millisecond, logger.Discard())
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	handler := func(context.Context, *message.Message) error {
		calls++
		return errors.New("error")
	}
	err := retryWithBackoff(ctx, message.NewMessage("id", nil), handler, maxRetries, time.Second, logger.Discard())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call before cancel, got %d", calls)
	}
}

func TestNewJSONMessage(t *testing.T) {
	type payload struct {
		ItemID string  `json:"item_id"`
		Amount float64 `json:"amount"`
	}

	msg, err := NewJSONMessage("evt-1", 2, payload{ItemID: "item-1", Amount: 120})
	if err != nil {
		t.Fatalf("NewJSONMessage: %v", err)
	}
	if msg.UUID != "evt-1" {
		t.Errorf("UUID = %q, want evt-1", msg.UUID)
	}
	if got := msg.Metadata.Get(MetadataVersion); got != "2" {
		t.Errorf("version metadata = %q, want 2", got)
	}

	var got payload
	if err := DecodeJSON(msg, &got); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if got.ItemID != "item-1" || got.Amount != 120 {
		t.Errorf("decoded %+v", got)
	}
}

func TestDecodeJSON_Malformed(t *testing.T) {
	err := DecodeJSON(message.NewMessage("evt-9", []byte("{")), &struct{}{})
	if err == nil || !strings.Contains(err.Error(), "evt-9") {
		t.Fatalf("expected error naming the message, got %v", err)
	}
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Errorf("expected wrapped *json.SyntaxError, got %T", errors.Unwrap(err))
	}
}

func TestTracePropagation(t *testing.T) {
	tp := setupTracer()
	defer tp.Shutdown(context.Background()) //nolint:errcheck

	ctx, span := otel.Tracer("test").Start(context.Background(), "publish-span")
	defer span.End()

	msg := message.NewMessage("id", nil)
	injectTrace(ctx, msg)
	got := trace.SpanFromContext(extractTrace(context.Background(), msg)).SpanContext()

	if !got.IsValid() {
		t.Fatal("extracted span context is not valid")
	}
	if got.TraceID() != span.SpanContext().TraceID() {
		t.Errorf("trace ID mismatch: want %s, got %s", span.SpanContext().TraceID(), got.TraceID())
	}
}

func TestWatermillLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	wl := &watermillLogger{log: logger.NewWithWriter(&buf, "debug")}

	wl.With(watermill.LogFields{"topic": "bid.accepted"}).Error("publish failed", errors.New("boom"), nil)

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("parse log: %v", err)
	}
	if entry["topic"] != "bid.accepted" || entry["error"] != "boom" {
		t.Errorf("unexpected entry %v", entry)
	}
}
