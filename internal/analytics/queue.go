// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package analytics collects public page views in memory and writes them
// to the database in batches.
package analytics

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"contentstudio/internal/metrics"
	"contentstudio/internal/models"
)

const (
	defaultBuffer        = 1024
	defaultBatchSize     = 100
	defaultFlushInterval = 5 * time.Second
	flushTimeout         = 10 * time.Second
)

// ErrAlreadyRunning is returned when Run is called a second time.
var ErrAlreadyRunning = errors.New("analytics: queue already running")

// Writer persists a batch of page views. *store.PageViewStore satisfies it.
type Writer interface {
	InsertBatch(ctx context.Context, views []models.PageView) error
}

// Config sizes the queue. Zero values fall back to defaults.
type Config struct {
	Buffer        int
	BatchSize     int
	FlushInterval time.Duration
}

// Queue buffers page views and flushes them when a batch fills up or the
// flush interval elapses. Enqueue never blocks: when the buffer is full the
// view is dropped and counted. The queue's lifetime is owned by the caller
// through Run and Close.
type Queue struct {
	writer    Writer
	events    chan models.PageView
	batchSize int
	interval  time.Duration

	mu      sync.RWMutex
	closed  bool
	started atomic.Bool
	done    chan struct{}
	dropped atomic.Int64
	flushed atomic.Int64
}

// New creates a queue writing to w.
func New(w Writer, cfg Config) *Queue {
	if cfg.Buffer <= 0 {
		cfg.Buffer = defaultBuffer
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = defaultFlushInterval
	}
	return &Queue{
		writer:    w,
		events:    make(chan models.PageView, cfg.Buffer),
		batchSize: cfg.BatchSize,
		interval:  cfg.FlushInterval,
		done:      make(chan struct{}),
	}
}

// Enqueue adds a view to the buffer. Returns false if it was dropped.
func (q *Queue) Enqueue(v models.PageView) bool {
	if v.OccurredAt.IsZero() {
		v.OccurredAt = time.Now().UTC()
	}

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.drop()
		return false
	}
	select {
	case q.events <- v:
		metrics.AnalyticsEnqueued.Inc()
		return true
	default:
		q.drop()
		return false
	}
}

func (q *Queue) drop() {
	q.dropped.Add(1)
	metrics.AnalyticsDropped.Inc()
}

// Dropped returns how many views were discarded.
func (q *Queue) Dropped() int64 { return q.dropped.Load() }

// Flushed returns how many views were written successfully.
func (q *Queue) Flushed() int64 { return q.flushed.Load() }

// Run consumes the buffer until ctx is cancelled or Close is called, then
// flushes whatever is left.
func (q *Queue) Run(ctx context.Context) error {
	if !q.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(q.done)

	ticker := time.NewTicker(q.interval)
	defer ticker.Stop()

	batch := make([]models.PageView, 0, q.batchSize)
	for {
		select {
		case <-ctx.Done():
			batch = q.drain(batch)
			q.flush(context.Background(), batch)
			return nil
		case v, ok := <-q.events:
			if !ok {
				q.flush(context.Background(), batch)
				return nil
			}
			batch = append(batch, v)
			if len(batch) >= q.batchSize {
				q.flush(ctx, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				q.flush(ctx, batch)
				batch = batch[:0]
			}
		}
	}
}

// Close stops accepting views and waits for the buffer to be written. If
// Run was never started the remaining views are flushed here.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.events)
	q.mu.Unlock()

	if !q.started.Load() {
		q.flush(ctx, q.drain(nil))
		return nil
	}

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// drain empties the channel without blocking.
func (q *Queue) drain(batch []models.PageView) []models.PageView {
	for {
		select {
		case v, ok := <-q.events:
			if !ok {
				return batch
			}
			batch = append(batch, v)
		default:
			return batch
		}
	}
}

// flush writes batch in chunks of batchSize. Failed chunks are logged and
// discarded.
func (q *Queue) flush(ctx context.Context, batch []models.PageView) {
	for len(batch) > 0 {
		n := min(len(batch), q.batchSize)
		chunk := batch[:n]
		batch = batch[n:]

		fctx, cancel := context.WithTimeout(ctx, flushTimeout)
		err := q.writer.InsertBatch(fctx, chunk)
		cancel()
		if err != nil {
			slog.Warn("analytics flush failed", "views", len(chunk), "error", err)
			continue
		}
		q.flushed.Add(int64(n))
		metrics.AnalyticsFlushed.Add(float64(n))
		metrics.AnalyticsBatchSize.Observe(float64(n))
	}
}
