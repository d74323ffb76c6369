package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/CoderRahul01/OrmeeHairs/pkg/logger"
)

const defaultSessionIdleTTL = 30 * time.Minute

type SessionSweepJobParams struct {
	Logger   *logger.Logger
	Sessions idleEvicter
	IdleTTL  time.Duration
}

type idleEvicter interface {
	EvictIdle(ctx context.Context, ttl time.Duration) (int, error)
}

// NewSessionSweepJob builds the job that flushes and drops idle device sessions.
func NewSessionSweepJob(params SessionSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session registry required")
	}
	ttl := params.IdleTTL
	if ttl <= 0 {
		ttl = defaultSessionIdleTTL
	}
	return &sessionSweepJob{
		logg:     params.Logger,
		sessions: params.Sessions,
		ttl:      ttl,
	}, nil
}

type sessionSweepJob struct {
	logg     *logger.Logger
	sessions idleEvicter
	ttl      time.Duration
}

func (j *sessionSweepJob) Name() string { return "session-sweep" }

func (j *sessionSweepJob) Run(ctx context.Context) error {
	evicted, err := j.sessions.EvictIdle(ctx, j.ttl)
	if err != nil {
		return fmt.Errorf("session sweep: %w", err)
	}
	if evicted > 0 {
		logCtx := j.logg.WithFields(ctx, map[string]any{
			"idle_ttl":         j.ttl.String(),
			"sessions_evicted": evicted,
		})
		j.logg.Info(logCtx, "idle sessions evicted")
	}
	return nil
}
