package cron

import (
	"context"

	"github.com/cockroachdb/errors"
)

// RefreshDatasets is the job that appends newly published episodes and
// chapters.
const RefreshDatasets = "datasets:refresh"

func init() {
	Register(RefreshDatasets, "", refreshDatasets)
}

func refreshDatasets(ctx context.Context, d *Deps, _ ...string) error {
	if d == nil || d.Updater == nil {
		return errors.New("dataset updater not configured")
	}
	d.logger().Info("refreshing datasets")
	return d.Updater.UpdateAll(ctx)
}
