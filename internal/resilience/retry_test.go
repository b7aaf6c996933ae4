package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errTransient = &fakeUpstreamError{status: 500, body: "CouchbaseError"}

func TestDoVal_SuccessOnFirstAttempt(t *testing.T) {
	var calls int
	val, err := DoVal(context.Background(), RetryOnce(time.Millisecond, nil), func(_ context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != "ok" {
		t.Errorf("expected %q, got %q", "ok", val)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDoVal_RetryOnceSucceeds(t *testing.T) {
	var calls int
	val, err := DoVal(context.Background(), RetryOnce(time.Millisecond, NewMarkerClassifier()), func(_ context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, errTransient
		}
		return 7, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != 7 {
		t.Errorf("expected 7, got %d", val)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestDoVal_RetryOnceExhausted(t *testing.T) {
	var calls int
	second := &fakeUpstreamError{status: 500, body: "CouchbaseError again"}
	_, err := DoVal(context.Background(), RetryOnce(time.Millisecond, nil), func(_ context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, errTransient
		}
		return 0, second
	})
	if calls != 2 {
		t.Errorf("expected exactly 2 calls, got %d", calls)
	}
	if err != second {
		t.Errorf("expected the second failure unmodified, got %v", err)
	}
}

func TestDoVal_PermanentError_NoRetry(t *testing.T) {
	var calls int
	permanent := &fakeUpstreamError{status: 422, body: "bad payload"}
	_, err := DoVal(context.Background(), RetryOnce(time.Millisecond, nil), func(_ context.Context) (int, error) {
		calls++
		return 0, permanent
	})
	if err != permanent {
		t.Errorf("expected error unmodified, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call (no retry for permanent), got %d", calls)
	}
}

func TestDoVal_NetworkError_NoRetry(t *testing.T) {
	var calls int
	_, err := DoVal(context.Background(), RetryOnce(time.Millisecond, nil), func(_ context.Context) (int, error) {
		calls++
		return 0, errors.New("i/o timeout")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDoVal_ContextCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := DoVal(ctx, RetryOnce(5*time.Second, nil), func(_ context.Context) (int, error) {
		calls++
		return 0, errTransient
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call after cancel, got %d", calls)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("cancellation did not interrupt the retry wait")
	}
}

func TestDoVal_OnRetryCallback(t *testing.T) {
	var attempts []int
	var faults []Fault
	cfg := RetryOnce(time.Millisecond, nil)
	cfg.OnRetry = func(attempt int, fault Fault, _ error) {
		attempts = append(attempts, attempt)
		faults = append(faults, fault)
	}

	_, _ = DoVal(context.Background(), cfg, func(_ context.Context) (int, error) {
		return 0, errTransient
	})

	if len(attempts) != 1 || attempts[0] != 1 {
		t.Errorf("expected one OnRetry call for attempt 1, got %v", attempts)
	}
	if len(faults) != 1 || faults[0] != FaultTransient {
		t.Errorf("expected transient fault, got %v", faults)
	}
}

func TestDoVal_WaitsConfiguredDelay(t *testing.T) {
	var calls int
	start := time.Now()
	_, _ = DoVal(context.Background(), RetryOnce(30*time.Millisecond, nil), func(_ context.Context) (int, error) {
		calls++
		return 0, errTransient
	})
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("expected at least 30ms between attempts, got %v", elapsed)
	}
}

func TestSleep(t *testing.T) {
	if err := Sleep(context.Background(), 0); err != nil {
		t.Errorf("zero sleep: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Sleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := applyDefaults(RetryConfig{Delay: -1})
	if cfg.MaxAttempts != 2 {
		t.Errorf("expected MaxAttempts 2, got %d", cfg.MaxAttempts)
	}
	if cfg.Delay != 0 {
		t.Errorf("expected zero delay, got %v", cfg.Delay)
	}
	if cfg.Classifier == nil {
		t.Error("expected default classifier")
	}
}
