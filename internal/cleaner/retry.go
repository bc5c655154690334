package cleaner

import (
	"context"
	"time"

	"github.com/lonesomestranger/tcleaner/internal/logger"
	"github.com/lonesomestranger/tcleaner/internal/telegram"
)

const (
	retryMaxAttempts = 3
	retryDelay       = 5 * time.Second
	retryFloodMargin = 2 * time.Second
)

// Retrier reruns remote calls according to their fault class: flood
// pauses are waited out without consuming the attempt budget, transient
// faults use up to retryMaxAttempts calls, everything else stops the
// call immediately.
type Retrier struct {
	maxAttempts int
	delay       time.Duration
	floodMargin time.Duration
	log         *logger.Logger
	sleep       sleepFunc
}

// NewRetrier creates a Retrier with the default budget.
func NewRetrier(log *logger.Logger) *Retrier {
	return &Retrier{
		maxAttempts: retryMaxAttempts,
		delay:       retryDelay,
		floodMargin: retryFloodMargin,
		log:         log,
		sleep:       sleepCtx,
	}
}

// Do runs fn until it succeeds or its fault class says stop. The label
// names the operation in logs.
func (r *Retrier) Do(ctx context.Context, label string, fn func(context.Context) error) error {
	attempts := 0
	for {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return err
		}

		switch f := telegram.Classify(err); f.Kind {
		case telegram.FaultFlood:
			wait := f.Wait + r.floodMargin
			r.log.Warn().Str("op", label).Dur("wait", wait).Msg("cleaner: flood wait, sleeping")
			if serr := r.sleep(ctx, wait); serr != nil {
				return err
			}
		case telegram.FaultTransient:
			attempts++
			if attempts >= r.maxAttempts {
				r.log.Error().Err(err).Str("op", label).Int("attempts", attempts).Msg("cleaner: retries exhausted")
				return err
			}
			r.log.Warn().Err(err).Str("op", label).Int("attempt", attempts).Msg("cleaner: transient fault, retrying")
			if serr := r.sleep(ctx, r.delay); serr != nil {
				return err
			}
		default:
			r.log.Error().Err(err).Str("op", label).Str("fault", f.Kind.String()).Msg("cleaner: permanent fault")
			return err
		}
	}
}
