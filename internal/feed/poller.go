// Package feed delivers new notifications to a long-lived stream by polling
// the store past a watermark.
package feed

import (
	"context"
	"time"

	"community_issues/internal/logger"
	"community_issues/internal/models"

	"gorm.io/gorm"
)

// Source is the part of the notification store the poller reads.
type Source interface {
	FindAfter(db *gorm.DB, afterID uint, limit int) ([]models.Notification, error)
}

// Poller owns the watermark loop of one stream.
//
// Ids are assigned at insert but rows become visible at commit, so a lower id
// can show up after a higher one. Rows behind a missing id are held back
// until the row right after the gap is older than gapWait; after that the
// missing id is treated as rolled back or deleted.
type Poller struct {
	source   Source
	interval time.Duration
	batch    int
	gapWait  time.Duration
}

func NewPoller(source Source, interval time.Duration, batch int) *Poller {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	if batch <= 0 {
		batch = 100
	}
	return &Poller{
		source:   source,
		interval: interval,
		batch:    batch,
		gapWait:  2 * interval,
	}
}

// WithGapWait overrides how long rows behind an id gap are held back.
func (p *Poller) WithGapWait(d time.Duration) *Poller {
	p.gapWait = d
	return p
}

// PollOnce returns rows with id > watermark, stopping at the first unsettled
// id gap, and the advanced watermark.
func (p *Poller) PollOnce(ctx context.Context, db *gorm.DB, watermark uint) ([]models.Notification, uint, error) {
	list, err := p.source.FindAfter(db.WithContext(ctx), watermark, p.batch)
	if err != nil {
		return nil, watermark, err
	}

	now := time.Now()
	for i, n := range list {
		if n.ID != watermark+1 && now.Sub(n.CreatedAt) < p.gapWait {
			return list[:i], watermark, nil
		}
		watermark = n.ID
	}
	return list, watermark, nil
}

// Run polls until ctx is done or emit fails, handing every new row to emit in
// ascending id order. Poll errors are logged and retried on the next tick.
func (p *Poller) Run(ctx context.Context, db *gorm.DB, watermark uint, emit func(models.Notification) error) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	logger.StreamLog("open", watermark, nil)
	defer func() { logger.StreamLog("close", watermark, nil) }()

	for {
		var err error
		watermark, err = p.drain(ctx, db, watermark, emit)
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// drain keeps polling while full batches come back.
func (p *Poller) drain(ctx context.Context, db *gorm.DB, watermark uint, emit func(models.Notification) error) (uint, error) {
	for ctx.Err() == nil {
		list, next, err := p.PollOnce(ctx, db, watermark)
		if err != nil {
			if ctx.Err() == nil {
				logger.StreamLog("poll_failed", watermark, err)
			}
			return watermark, nil
		}

		for _, n := range list {
			if err := emit(n); err != nil {
				return watermark, err
			}
			watermark = n.ID
		}
		watermark = next

		if len(list) < p.batch {
			break
		}
	}
	return watermark, nil
}
