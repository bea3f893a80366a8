package util

import (
	"context"
	"errors"
	"testing"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	result, err := Retry(3, func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "ok" || calls != 3 {
		t.Errorf("got result=%q calls=%d", result, calls)
	}
}

func TestRetryExhaustsTries(t *testing.T) {
	wantErr := errors.New("always fails")
	calls := 0
	_, err := Retry(3, func() (int, error) {
		calls++
		return 0, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected last error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetryDefaultsToOneTry(t *testing.T) {
	calls := 0
	_, _ = Retry(0, func() (int, error) {
		calls++
		return 0, errors.New("nope")
	})
	if calls != 1 {
		t.Errorf("maxTries <= 0 should mean one try, got %d", calls)
	}
}

func TestRetryErr(t *testing.T) {
	calls := 0
	err := RetryErr(2, func() error {
		calls++
		if calls == 1 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("got err=%v calls=%d", err, calls)
	}
}

func TestRetryWithContextStopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := RetryWithContext(ctx, 3, func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("should not run")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Errorf("canceled context should skip the call, got %d calls", calls)
	}
}

func TestRetryWithContextNeverRetriesContextErrors(t *testing.T) {
	calls := 0
	_, err := RetryWithContext(context.Background(), 3, func(ctx context.Context) (int, error) {
		calls++
		return 0, context.DeadlineExceeded
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("deadline errors must not be retried, got %d calls", calls)
	}
}
