// Package quota tracks daily API unit consumption across the key pool.
// The tracker is advisory bookkeeping only: it never gates a call and
// never returns an error. Gating decisions belong to the fetcher.
package quota

import (
	"context"
	"log"
	"sync"
	"time"

	"learnpath/internal/models"
)

// Unit costs published by the video API: a search call bills a flat
// 100 units, a details call bills 1 unit per video.
const UnitsPerSearchCall = 100

// quotaTimezone anchors the quota day. The API resets quotas on the
// Pacific calendar day regardless of where the server runs.
const quotaTimezone = "America/Los_Angeles"

// Store persists updated counters. Persistence is at-least-once: a
// failed write is logged, not retried.
type Store interface {
	RecordQuotaUsage(ctx context.Context, rec models.QuotaRecord) error
}

// Usage is a point-in-time snapshot of the current quota day.
type Usage struct {
	Date        string
	TotalUnits  int
	PerKeyUnits map[int]int
	PerKeyCalls map[int]int
}

// Tracker accumulates per-key counters for the current quota day and
// pushes every update through the store. Safe for concurrent use.
type Tracker struct {
	store Store
	loc   *time.Location

	mu     sync.Mutex
	day    string
	perKey map[int]*models.QuotaRecord

	now func() time.Time
}

func NewTracker(store Store) (*Tracker, error) {
	loc, err := time.LoadLocation(quotaTimezone)
	if err != nil {
		return nil, err
	}
	return &Tracker{
		store:  store,
		loc:    loc,
		perKey: make(map[int]*models.QuotaRecord),
		now:    time.Now,
	}, nil
}

// Day returns the current quota day as YYYY-MM-DD in the quota timezone.
func (t *Tracker) Day() string {
	return t.now().In(t.loc).Format("2006-01-02")
}

// RecordSearchCall charges one search call (100 units) against a key.
// Quota-exceeded attempts are charged the same as successes.
func (t *Tracker) RecordSearchCall(ctx context.Context, keyIndex int) {
	t.mu.Lock()
	rec := t.record(keyIndex)
	rec.SearchCalls++
	rec.TotalUnits += UnitsPerSearchCall
	snapshot := *rec
	t.mu.Unlock()

	t.persist(ctx, snapshot)
}

// RecordDetailCall charges a details call (1 unit per video) against a key.
func (t *Tracker) RecordDetailCall(ctx context.Context, keyIndex, itemCount int) {
	t.mu.Lock()
	rec := t.record(keyIndex)
	rec.DetailItems += itemCount
	rec.TotalUnits += itemCount
	snapshot := *rec
	t.mu.Unlock()

	t.persist(ctx, snapshot)
}

// CurrentUsage reports accumulated counters for the current quota day.
func (t *Tracker) CurrentUsage() Usage {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rollover()
	u := Usage{
		Date:        t.day,
		PerKeyUnits: make(map[int]int),
		PerKeyCalls: make(map[int]int),
	}
	for idx, rec := range t.perKey {
		u.TotalUnits += rec.TotalUnits
		u.PerKeyUnits[idx] = rec.TotalUnits
		u.PerKeyCalls[idx] = rec.SearchCalls
	}
	return u
}

// record returns the counter for a key on the current quota day,
// resetting all counters when the day has rolled over. Caller holds
// the lock.
func (t *Tracker) record(keyIndex int) *models.QuotaRecord {
	t.rollover()
	rec, ok := t.perKey[keyIndex]
	if !ok {
		rec = &models.QuotaRecord{Date: t.day, KeyIndex: keyIndex}
		t.perKey[keyIndex] = rec
	}
	return rec
}

func (t *Tracker) rollover() {
	day := t.Day()
	if day != t.day {
		t.day = day
		t.perKey = make(map[int]*models.QuotaRecord)
	}
}

func (t *Tracker) persist(ctx context.Context, rec models.QuotaRecord) {
	if t.store == nil {
		return
	}
	if err := t.store.RecordQuotaUsage(ctx, rec); err != nil {
		log.Printf("Warning: failed to persist quota usage for key %d: %v", rec.KeyIndex, err)
	}
}
