package task

import (
	"context"
	"time"
)

// Refresher reloads the recipe list from the store.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshJob periodically reloads the catalog. A failed run keeps the
// previous list; the next tick tries again.
type RefreshJob struct {
	catalog Refresher
	timeout time.Duration
}

// NewRefreshJob creates a new RefreshJob instance
func NewRefreshJob(catalog Refresher, timeout time.Duration) *RefreshJob {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RefreshJob{catalog: catalog, timeout: timeout}
}

func (j *RefreshJob) Name() string {
	return "RefreshJob"
}

func (j *RefreshJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	// the catalog logs the failure itself
	_ = j.catalog.Refresh(ctx)
}
