package scraper

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRateLimiterSpacesTurns(t *testing.T) {
	rl := NewRateLimiter(20) // 50ms interval

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := rl.WaitTurn(context.Background()); err != nil {
			t.Fatalf("turn %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Fatalf("three turns in %v, limiter not pacing", elapsed)
	}
}

func TestRateLimiterWaitCancelled(t *testing.T) {
	rl := NewRateLimiter(1)
	if err := rl.WaitTurn(context.Background()); err != nil {
		t.Fatalf("first turn: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := rl.WaitTurn(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v", err)
	}
	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Fatalf("cancelled wait still slept %v", elapsed)
	}
}
