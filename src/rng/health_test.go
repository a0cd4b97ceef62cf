package rng_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/lost-woods/dice/src/rng"
)

func TestHealthCheckRNG_AllSameFails(t *testing.T) {
	h := rng.NewHealth()
	r := bytes.NewReader(make([]byte, 256))
	if err := rng.HealthCheckRNG(r, h); err == nil {
		t.Fatalf("expected error for all-identical sample")
	}
}

func TestHealthCheckRNG_OKOnVariedBytes(t *testing.T) {
	h := rng.NewHealth()
	buf := make([]byte, 256)
	for i := 0; i < len(buf); i++ {
		buf[i] = byte(i)
	}
	if err := rng.HealthCheckRNG(bytes.NewReader(buf), h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHealthCheckRNG_ShortRead(t *testing.T) {
	if err := rng.HealthCheckRNG(bytes.NewReader([]byte{1, 2, 3}), rng.NewHealth()); err == nil {
		t.Fatalf("expected error for short sample")
	}
}

func TestPeriodicHealthCheck_StopsOnCancel(t *testing.T) {
	h := rng.NewHealth()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		rng.PeriodicHealthCheck(ctx, rng.NewLockedReader(&byteCycleReader{}), h, time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if ok, _, _ := h.Snapshot(); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("health never turned ok")
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("health monitor did not stop after cancel")
	}
}

func TestPeriodicHealthCheck_DetectsStuckSource(t *testing.T) {
	h := rng.NewHealth()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go rng.PeriodicHealthCheck(ctx, &stuckReader{}, h, time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for {
		ok, msg, at := h.Snapshot()
		if !ok && msg != "" && !at.IsZero() {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("stuck source not detected")
		}
		time.Sleep(time.Millisecond)
	}
}

type stuckReader struct{}

func (stuckReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0x42
	}
	return len(p), nil
}
