package interaction

import (
	"bdd_automation/domain/entities"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ResolveOptions overrides the session's round settings for one call. Zero values
// fall back to the session settings.
type ResolveOptions struct {
	MaxAttempts int
	Delay       time.Duration
}

// ClickResolver escalates through click strategies until one succeeds
type ClickResolver struct {
	strategies []Strategy
}

// NewClickResolver - creates a resolver over the given strategies, DefaultStrategies when none
func NewClickResolver(strategies ...Strategy) *ClickResolver {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &ClickResolver{strategies: strategies}
}

// strategiesFor - the per-session strategy list, with the coordinate fallback appended when enabled
func (r *ClickResolver) strategiesFor(s *Session) []Strategy {
	if !s.settings.CoordinateFallback {
		return r.strategies
	}
	for _, st := range r.strategies {
		if st.Name == entities.StrategyCoordinate {
			return r.strategies
		}
	}
	list := make([]Strategy, 0, len(r.strategies)+1)
	list = append(list, r.strategies...)
	return append(list, CoordinateStrategy())
}

// Resolve - clicks selector using the first strategy that works.
// Each round walks every strategy in order; rounds are separated by the delay and
// there is no wait after the last one. Strategy failures are logged and swallowed,
// only transport failures are returned as errors.
func (r *ClickResolver) Resolve(ctx context.Context, s *Session, selector string, opts ResolveOptions) (entities.AttemptResult, error) {
	if err := s.check(); err != nil {
		return entities.AttemptResult{StrategyUsed: string(entities.StrategyNone)}, err
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = s.settings.MaxAttempts
	}
	if opts.Delay <= 0 {
		opts.Delay = s.settings.RoundDelay
	}

	log := s.log.WithFields(logrus.Fields{"component": "resolver", "selector": selector})
	strategies := r.strategiesFor(s)
	var failures []string

	for round := 1; round <= opts.MaxAttempts; round++ {
		if ctx.Err() != nil {
			return failure("click on %s interrupted in round %d: %v", selector, round, ctx.Err()), nil
		}
		failures = failures[:0]

		for _, st := range strategies {
			ok, msg, err := runAttempt(ctx, s, st, selector)
			if err != nil {
				if errors.Is(err, entities.ErrTransport) {
					log.Errorf("Strategy %s hit a transport failure: %v", st.Name, err)
					return failure("click on %s aborted: %v", selector, err), err
				}
				msg = err.Error()
			}
			if ok {
				log.Infof("Clicked using %s in round %d", st.Name, round)
				return entities.AttemptResult{
					Success:      true,
					Message:      fmt.Sprintf("clicked %s using %s (round %d)", selector, st.Name, round),
					StrategyUsed: string(st.Name),
				}, nil
			}
			log.Debugf("Strategy %s failed in round %d: %s", st.Name, round, msg)
			failures = append(failures, fmt.Sprintf("%s: %s", st.Name, msg))
		}

		if round < opts.MaxAttempts {
			log.Warnf("All strategies failed in round %d/%d, retrying in %s", round, opts.MaxAttempts, opts.Delay)
			if err := sleep(ctx, opts.Delay); err != nil {
				return failure("click on %s interrupted after round %d: %v", selector, round, err), nil
			}
		}
	}

	return failure("all strategies failed for %s after %d round(s): %s",
		selector, opts.MaxAttempts, strings.Join(failures, "; ")), nil
}

// runAttempt - runs one strategy; a panicking strategy counts as a failed attempt
func runAttempt(ctx context.Context, s *Session, st Strategy, selector string) (ok bool, msg string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			ok, msg, err = false, fmt.Sprintf("strategy panicked: %v", rec), nil
		}
	}()
	return st.Attempt(ctx, s, selector)
}

// failure - AttemptResult for a failed core call
func failure(format string, args ...interface{}) entities.AttemptResult {
	return entities.AttemptResult{
		Success:      false,
		Message:      fmt.Sprintf(format, args...),
		StrategyUsed: string(entities.StrategyNone),
	}
}
