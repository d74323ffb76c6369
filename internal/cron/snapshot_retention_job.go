package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/CoderRahul01/OrmeeHairs/pkg/logger"
)

const defaultSnapshotRetention = 90 * 24 * time.Hour

type SnapshotRetentionJobParams struct {
	Logger     *logger.Logger
	Repository snapshotRetentionRepo
	Retention  time.Duration
}

type snapshotRetentionRepo interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewSnapshotRetentionJob builds the job that deletes cart snapshots nobody
// has written for longer than the retention window.
func NewSnapshotRetentionJob(params SnapshotRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("snapshot repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultSnapshotRetention
	}
	return &snapshotRetentionJob{
		logg:      params.Logger,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type snapshotRetentionJob struct {
	logg      *logger.Logger
	repo      snapshotRetentionRepo
	retention time.Duration
	now       func() time.Time
}

func (j *snapshotRetentionJob) Name() string { return "snapshot-retention" }

func (j *snapshotRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	deleted, err := j.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("snapshot retention: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"retention":    j.retention.String(),
		"rows_deleted": deleted,
	})
	j.logg.Info(logCtx, "snapshot retention cleanup complete")
	return nil
}
