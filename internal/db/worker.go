package db

import (
	"context"
	"database/sql"
)

// writeQueueDepth bounds pending write jobs. Boarding produces at most a few
// writes per second, so a shallow queue is plenty; hitting the bound means
// the disk is in real trouble.
const writeQueueDepth = 64

type TxFn func(ctx context.Context, tx *sql.Tx) error

type job struct {
	ctx context.Context
	fn  TxFn
	ch  chan error
}

// Worker serializes all write transactions through a single goroutine.
// SQLite allows one writer at a time; funnelling writes here avoids
// SQLITE_BUSY churn between the engine's audit writes, the trip recorder,
// and enrollment tooling.
type Worker struct {
	db   *sql.DB
	jobs chan job
	done chan struct{}
}

func NewWorker(db *sql.DB) *Worker {
	w := &Worker{
		db:   db,
		jobs: make(chan job, writeQueueDepth),
		done: make(chan struct{}),
	}
	go w.loop()
	return w
}

// Close stops accepting jobs and waits for the queue to drain.
func (w *Worker) Close() {
	close(w.jobs)
	<-w.done
}

// Do runs fn inside a write transaction on the worker goroutine and returns
// its result. If ctx expires while the job is queued or executing, Do returns
// early; the worker still completes the transaction and the late result is
// discarded into the buffered channel.
func (w *Worker) Do(ctx context.Context, fn TxFn) error {
	ch := make(chan error, 1)

	select {
	case w.jobs <- job{ctx: ctx, fn: fn, ch: ch}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-ch:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) loop() {
	defer close(w.done)
	for j := range w.jobs {
		j.ch <- w.run(j)
	}
}

func (w *Worker) run(j job) error {
	tx, err := w.db.BeginTx(j.ctx, nil)
	if err != nil {
		return err
	}
	if err := j.fn(j.ctx, tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
