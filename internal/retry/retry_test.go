package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errThrottled = errors.New("throttled")

func always(error) bool { return true }
func never(error) bool  { return false }

func fakeSleep(slept *[]time.Duration) Sleep {
	return func(_ context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
}

func TestLinearCappedGrowsThenCaps(t *testing.T) {
	t.Parallel()

	backoff := LinearCapped(5*time.Second, 12*time.Second)

	cases := []struct {
		consecutive int
		want        time.Duration
	}{
		{consecutive: 1, want: 5 * time.Second},
		{consecutive: 2, want: 10 * time.Second},
		{consecutive: 3, want: 12 * time.Second},
		{consecutive: 10, want: 12 * time.Second},
	}

	for _, tc := range cases {
		if got := backoff(tc.consecutive); got != tc.want {
			t.Fatalf("backoff(%d) = %v, expected %v", tc.consecutive, got, tc.want)
		}
	}
}

func TestDoSucceedsAndResetsCounter(t *testing.T) {
	t.Parallel()

	var slept []time.Duration
	p := Policy{MaxAttempts: 3, Backoff: LinearCapped(time.Second, time.Minute)}

	consecutive := 5
	calls := 0

	err := Do(context.Background(), p, fakeSleep(&slept), &consecutive, always, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	if consecutive != 0 {
		t.Fatalf("expected the counter to reset, got %d", consecutive)
	}
	if len(slept) != 0 {
		t.Fatalf("expected no sleeps, got %v", slept)
	}
}

func TestDoReturnsTerminalErrorImmediately(t *testing.T) {
	t.Parallel()

	var slept []time.Duration
	p := Policy{MaxAttempts: 3, Backoff: LinearCapped(time.Second, time.Minute)}

	consecutive := 0
	calls := 0
	terminal := errors.New("bad request")

	err := Do(context.Background(), p, fakeSleep(&slept), &consecutive, never, func() error {
		calls++
		return terminal
	})
	if !errors.Is(err, terminal) {
		t.Fatalf("expected the terminal error, got %v", err)
	}

	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	if consecutive != 0 {
		t.Fatalf("expected the counter untouched, got %d", consecutive)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	t.Parallel()

	var slept []time.Duration
	p := Policy{MaxAttempts: 3, Backoff: LinearCapped(time.Second, time.Minute)}

	consecutive := 0

	err := Do(context.Background(), p, fakeSleep(&slept), &consecutive, always, func() error {
		return errThrottled
	})
	if !errors.Is(err, ErrAttemptsExhausted) {
		t.Fatalf("expected ErrAttemptsExhausted, got %v", err)
	}
	if !errors.Is(err, errThrottled) {
		t.Fatalf("expected the last failure to be wrapped, got %v", err)
	}

	want := []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}
	if len(slept) != len(want) {
		t.Fatalf("expected %d sleeps, got %v", len(want), slept)
	}
	for i, d := range want {
		if slept[i] != d {
			t.Fatalf("sleep %d: expected %v, got %v", i, d, slept[i])
		}
	}
}

func TestDoCounterSurvivesAcrossCalls(t *testing.T) {
	t.Parallel()

	var slept []time.Duration
	p := Policy{MaxAttempts: 2, Backoff: LinearCapped(time.Second, time.Minute)}

	consecutive := 0

	// The first Do exhausts both attempts; the second fails once more and
	// then succeeds. Its backoff continues from where the first left off.
	err := Do(context.Background(), p, fakeSleep(&slept), &consecutive, always, func() error {
		return errThrottled
	})
	if !errors.Is(err, ErrAttemptsExhausted) {
		t.Fatalf("expected ErrAttemptsExhausted, got %v", err)
	}

	fail := true
	err = Do(context.Background(), p, fakeSleep(&slept), &consecutive, always, func() error {
		if fail {
			fail = false
			return errThrottled
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}
	if len(slept) != len(want) {
		t.Fatalf("expected %d sleeps, got %v", len(want), slept)
	}
	for i, d := range want {
		if slept[i] != d {
			t.Fatalf("sleep %d: expected %v, got %v", i, d, slept[i])
		}
	}
	if consecutive != 0 {
		t.Fatalf("expected the counter to reset after the success, got %d", consecutive)
	}
}

func TestDoPropagatesSleepError(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := Policy{MaxAttempts: 3, Backoff: LinearCapped(time.Second, time.Minute)}
	sleep := func(ctx context.Context, _ time.Duration) error {
		return ctx.Err()
	}

	consecutive := 0
	err := Do(ctx, p, sleep, &consecutive, always, func() error {
		return errThrottled
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
