package clients

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestHTTPExecutorRetriesServerErrors(t *testing.T) {
	cfg := DefaultHTTPExecutorConfig()
	cfg.BaseDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	executor := NewHTTPExecutor(cfg)

	attempts := 0
	resp, err := ExecuteHTTP(context.Background(), executor, func() (*http.Response, error) {
		attempts++
		if attempts < 3 {
			return &http.Response{StatusCode: http.StatusServiceUnavailable}, nil
		}
		return &http.Response{StatusCode: http.StatusOK}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestHTTPExecutorStopsAfterMaxRetries(t *testing.T) {
	cfg := DefaultHTTPExecutorConfig()
	cfg.MaxRetries = 2
	cfg.BaseDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	executor := NewHTTPExecutor(cfg)

	attempts := 0
	_, err := ExecuteHTTP(context.Background(), executor, func() (*http.Response, error) {
		attempts++
		return nil, errors.New("connection refused")
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts (1 + 2 retries), got %d", attempts)
	}
}

func TestDefaultShouldRetry(t *testing.T) {
	tests := []struct {
		name string
		resp *http.Response
		err  error
		want bool
	}{
		{"network error", nil, errors.New("dial timeout"), true},
		{"nil response", nil, nil, true},
		{"server error", &http.Response{StatusCode: 500}, nil, true},
		{"rate limited", &http.Response{StatusCode: 429}, nil, true},
		{"success", &http.Response{StatusCode: 200}, nil, false},
		{"client error", &http.Response{StatusCode: 400}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultShouldRetry(tt.resp, tt.err); got != tt.want {
				t.Fatalf("DefaultShouldRetry() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCircuitBreakerOpensAfterFailures(t *testing.T) {
	cfg := DefaultCircuitBreakerConfig()
	cfg.Name = "extractor"
	cfg.MinRequests = 2
	cfg.FailureRatio = 0.5
	cb := NewCircuitBreaker(cfg)

	if cb.State() != StateClosed {
		t.Fatalf("expected closed, got %s", cb.State())
	}

	boom := errors.New("boom")
	for i := 0; i < 2; i++ {
		_ = cb.Call(func() error { return boom })
	}

	if !cb.IsOpen() {
		t.Fatalf("expected circuit to be open, state is %s", cb.State())
	}
}
