package retry

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now    time.Time
	slept  []time.Duration
	cancel context.CancelFunc
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
	if c.cancel != nil {
		c.cancel()
	}
	return nil
}

func TestDoSucceedsAfterRetries(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	policy := Policy{Attempts: 3, Delay: 500 * time.Millisecond, Clock: clock}

	calls := 0
	err := policy.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
	require.Equal(t, []time.Duration{500 * time.Millisecond, 500 * time.Millisecond}, clock.slept)
}

func TestDoGivesUp(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	policy := Policy{Attempts: 2, Delay: time.Second, Clock: clock}

	boom := errors.New("boom")
	err := policy.Do(context.Background(), func(context.Context) error {
		return boom
	})
	require.Error(t, err)
	require.Equal(t, boom, errors.Cause(err))
}

func TestDoSingleAttemptByDefault(t *testing.T) {
	calls := 0
	err := Policy{}.Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("nope")
	})
	require.Error(t, err)
	require.Equal(t, 1, calls)
}

func TestDoStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	clock := &fakeClock{now: time.Unix(0, 0), cancel: cancel}
	policy := Policy{Attempts: 5, Delay: time.Second, Clock: clock}

	calls := 0
	err := policy.Do(ctx, func(context.Context) error {
		calls++
		return errors.New("nope")
	})
	require.Error(t, err)
	// first attempt runs, the sleep before the second cancels the context
	require.LessOrEqual(t, calls, 2)
}
