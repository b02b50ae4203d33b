package net

import (
	"context"
	"testing"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if got := RequestID(ctx); got != "" {
		t.Fatalf("empty ctx: got %q", got)
	}
	if WithRequest(ctx, "") != ctx {
		t.Fatalf("empty id should not wrap ctx")
	}
	if got := RequestID(WithRequest(ctx, "req-48028")); got != "req-48028" {
		t.Fatalf("got %q", got)
	}
}
