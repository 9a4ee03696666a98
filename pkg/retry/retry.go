package retry

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Clock abstracts time so delayed retries are testable without real timers.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func RealClock() Clock {
	return realClock{}
}

// Policy retries an operation a fixed number of times with a flat delay
// between attempts.
type Policy struct {
	Attempts int
	Delay    time.Duration
	Clock    Clock
}

func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	clock := p.Clock
	if clock == nil {
		clock = RealClock()
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if sleepErr := clock.Sleep(ctx, p.Delay); sleepErr != nil {
				return errors.Wrap(sleepErr, "retry interrupted")
			}
		}

		if err = op(ctx); err == nil {
			return nil
		}
	}
	return errors.Wrapf(err, "gave up after %d attempts", attempts)
}
