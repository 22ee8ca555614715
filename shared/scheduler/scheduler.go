// Package scheduler runs periodic housekeeping: sweeping expired cache
// entries and pruning quota records past the retention window.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"learnpath/internal/cache"
)

// QuotaPruner deletes persisted quota rows older than a cutoff day.
type QuotaPruner interface {
	PruneQuotaBefore(ctx context.Context, cutoff string) (int64, error)
}

type Maintenance struct {
	cache         *cache.Cache
	pruner        QuotaPruner
	retentionDays int
	cron          *cron.Cron
}

func New(resultCache *cache.Cache, pruner QuotaPruner, retentionDays int) *Maintenance {
	return &Maintenance{
		cache:         resultCache,
		pruner:        pruner,
		retentionDays: retentionDays,
		// Prevent overlapping runs
		cron: cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
	}
}

// Start schedules the maintenance job and begins running it. Stops when
// the context is cancelled.
func (m *Maintenance) Start(ctx context.Context, schedule string) error {
	_, err := m.cron.AddFunc(schedule, func() {
		m.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to add maintenance job: %w", err)
	}

	log.Printf("Maintenance scheduler started with schedule: %s", schedule)
	m.cron.Start()

	go func() {
		<-ctx.Done()
		m.cron.Stop()
		log.Println("Maintenance scheduler stopped")
	}()
	return nil
}

// RunOnce performs one maintenance pass.
func (m *Maintenance) RunOnce(ctx context.Context) {
	swept := m.cache.Sweep()

	cutoff := time.Now().AddDate(0, 0, -m.retentionDays).Format("2006-01-02")
	pruned, err := m.pruner.PruneQuotaBefore(ctx, cutoff)
	if err != nil {
		log.Printf("Warning: quota prune failed: %v", err)
	}

	log.Printf("Maintenance pass: swept %d cache entries, pruned %d quota rows before %s",
		swept, pruned, cutoff)
}
