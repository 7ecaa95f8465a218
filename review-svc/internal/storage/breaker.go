package storage

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/ZYL1107/next-platform-starter/review-svc/internal/metrics"
)

type BreakerSettings struct {
	Name         string
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:         "content-store",
		Timeout:      30 * time.Second,
		MinRequests:  5,
		FailureRatio: 0.5,
	}
}

// BreakerStore stops calling an unreliable backend once it keeps failing and
// answers with ErrUnavailable until the breaker half-opens again. A missing
// key is not a failure.
type BreakerStore struct {
	inner   ContentStore
	breaker *gobreaker.TwoStepCircuitBreaker[struct{}]
}

func NewBreakerStore(inner ContentStore, settings BreakerSettings, logger zerolog.Logger, m *metrics.Metrics) *BreakerStore {
	cb := gobreaker.NewTwoStepCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: 1,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= settings.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("content store breaker state change")
			m.BreakerState(name, stateValue(to))
		},
	})
	m.BreakerState(settings.Name, stateValue(gobreaker.StateClosed))

	return &BreakerStore{inner: inner, breaker: cb}
}

func (s *BreakerStore) State() gobreaker.State {
	return s.breaker.State()
}

func (s *BreakerStore) Set(ctx context.Context, key string, value []byte) error {
	done, err := s.allow("set")
	if err != nil {
		return err
	}
	err = s.inner.Set(ctx, key, value)
	done(!isBackendFailure(err))
	return err
}

func (s *BreakerStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	done, err := s.allow("get")
	if err != nil {
		return nil, false, err
	}
	value, found, err := s.inner.Get(ctx, key)
	done(!isBackendFailure(err))
	return value, found, err
}

// List holds a breaker slot only until the first key, error or end of the
// scan, so callers can Get inside the loop while the breaker is half-open.
// Backend failures seen later are recorded as separate failed requests.
func (s *BreakerStore) List(ctx context.Context, prefix string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		done, err := s.allow("list")
		if err != nil {
			yield("", err)
			return
		}
		defer func() {
			if done != nil {
				done(true)
			}
		}()

		for key, err := range s.inner.List(ctx, prefix) {
			failed := isBackendFailure(err)
			if done != nil {
				done(!failed)
				done = nil
			} else if failed {
				s.recordFailure()
			}
			if !yield(key, err) {
				return
			}
		}
	}
}

func (s *BreakerStore) recordFailure() {
	if done, err := s.breaker.Allow(); err == nil {
		done(false)
	}
}

func (s *BreakerStore) allow(op string) (func(bool), error) {
	done, err := s.breaker.Allow()
	if err != nil {
		return nil, fmt.Errorf("breaker %s: %w: %w", op, ErrUnavailable, err)
	}
	return done, nil
}

func isBackendFailure(err error) bool {
	return err != nil && (errors.Is(err, ErrUnavailable) || errors.Is(err, ErrIO))
}

func stateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
