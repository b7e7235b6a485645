package appctx

import (
	"context"
	"testing"
)

func TestSetAndGetString(t *testing.T) {
	ctx := Set(context.Background(), ContextKeyCorrelationId, "cid-1")
	v, ok := GetString(ctx, ContextKeyCorrelationId)
	if !ok || v != "cid-1" {
		t.Fatalf("expected cid-1, got %q (ok=%v)", v, ok)
	}
	if _, ok := GetString(ctx, ContextKeyUsername); ok {
		t.Fatalf("username should not be set")
	}
}
