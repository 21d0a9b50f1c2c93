package amqp

import (
	"context"
	"testing"

	"github.com/chanuu/kds-poc/internal/adapter/logger"
)

func TestHandleChangeSkipsMalformedMessages(t *testing.T) {
	h := NewChangeHandler(logger.Noop())

	if err := h.HandleChange(context.Background(), []byte(`not json`)); err != nil {
		t.Fatalf("HandleChange() err = %v, want nil for a malformed message", err)
	}

	body := []byte(`{"order_id":"o1","change_type":"patched","occurred_at":"2025-06-01T12:00:00Z"}`)
	if err := h.HandleChange(context.Background(), body); err != nil {
		t.Fatalf("HandleChange() err = %v", err)
	}
}
