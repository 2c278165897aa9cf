package kv

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ssvlabs/ssv-bridge/logging/fields"
)

const (
	quickDiscardRatio = 0.7
	fullDiscardRatio  = 0.1
)

// periodicallyCollectGarbage runs QuickGC every interval until the db context is done.
func (b *BadgerDB) periodicallyCollectGarbage(interval time.Duration) {
	defer b.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-b.ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			if err := b.QuickGC(b.ctx); err != nil {
				b.logger.Error("periodic GC cycle failed", fields.Took(time.Since(start)), zap.Error(err))
				continue
			}
			b.logger.Debug("periodic GC cycle completed", fields.Took(time.Since(start)))
		}
	}
}

// QuickGC reclaims value log files that are mostly garbage.
func (b *BadgerDB) QuickGC(ctx context.Context) error {
	return b.gc(ctx, "quick", quickDiscardRatio)
}

// FullGC rewrites value log files until none has enough garbage to be worth it.
func (b *BadgerDB) FullGC(ctx context.Context) error {
	return b.gc(ctx, "full", fullDiscardRatio)
}

func (b *BadgerDB) gc(ctx context.Context, kind string, discardRatio float64) (err error) {
	// in-memory instances have no value log
	if b.inMemory {
		return nil
	}

	b.gcMutex.Lock()
	defer b.gcMutex.Unlock()

	start := time.Now()
	defer func() {
		recordGC(ctx, kind, time.Since(start), err)
	}()

	for ctx.Err() == nil {
		err := b.db.RunValueLogGC(discardRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "failed to collect garbage")
		}
	}
	return nil
}
