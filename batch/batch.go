// Package batch drives batched retrieval and progressive rendering of
// contribution rows.
package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/thoas/go-funk"

	"contribgrid/pkg/contrib"
	"contribgrid/render"
)

const (
	// DefaultBatchSize is the maximum number of users processed per batch.
	DefaultBatchSize = 50
	// DefaultInterBatchDelay is the pause between batches, to stay under
	// the API's rate limits.
	DefaultInterBatchDelay = 60 * time.Second
)

// Fetcher retrieves raw contribution days for one user.
type Fetcher interface {
	Fetch(ctx context.Context, user string) ([]contrib.Day, error)
}

// Orchestrator partitions the user list into fixed-size batches, fetches
// and filters each user sequentially, and prints each batch's rows before
// the next batch starts fetching.
type Orchestrator struct {
	fetcher Fetcher
	table   *render.Table
	out     io.Writer
	logger  *slog.Logger
	size    int
	delay   time.Duration
}

// New creates an orchestrator. A non-positive size or negative delay falls
// back to the defaults.
func New(fetcher Fetcher, table *render.Table, out io.Writer, size int, delay time.Duration, logger *slog.Logger) *Orchestrator {
	if size <= 0 {
		size = DefaultBatchSize
	}
	if delay < 0 {
		delay = DefaultInterBatchDelay
	}
	return &Orchestrator{
		fetcher: fetcher,
		table:   table,
		out:     out,
		logger:  logger,
		size:    size,
		delay:   delay,
	}
}

// Run processes users in input order and writes the grid progressively.
// Per-user fetch failures are contained as all-absent rows; only context
// cancellation or a write failure aborts the run. Exactly one row is
// emitted per input user.
func (o *Orchestrator) Run(ctx context.Context, users []string, now time.Time) error {
	window := contrib.Window(now)
	display := contrib.DisplayDates(window)

	if _, err := fmt.Fprintln(o.out, o.table.Header(display)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := fmt.Fprintln(o.out, o.table.Separator(len(window))); err != nil {
		return fmt.Errorf("write separator: %w", err)
	}

	if len(users) == 0 {
		return nil
	}

	chunks := funk.Chunk(users, o.size).([][]string)
	o.logger.Info("Starting batched retrieval",
		"users", len(users),
		"batches", len(chunks),
		"batch_size", o.size,
		"inter_batch_delay", o.delay.String())

	// Names repeated in the input are fetched once per run but still get
	// one row per input line.
	cache := make(map[string]contrib.DateSet)

	for i, chunk := range chunks {
		o.logger.Info("Processing batch", "batch", i+1, "batches", len(chunks), "size", len(chunk))

		rows := make([]string, 0, len(chunk))
		for _, user := range chunk {
			rows = append(rows, o.table.Row(user, o.activeDates(ctx, user, now, cache), window))
		}
		for _, row := range rows {
			if _, err := fmt.Fprintln(o.out, row); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}

		if i == len(chunks)-1 {
			break
		}
		o.logger.Info("Batch completed, pausing before next batch", "batch", i+1, "delay", o.delay.String())
		select {
		case <-time.After(o.delay):
		case <-ctx.Done():
			o.logger.Info("Context cancelled, stopping batched retrieval", "error", ctx.Err())
			return ctx.Err()
		}
	}

	o.logger.Info("Batched retrieval completed", "users", len(users), "batches", len(chunks))
	return nil
}

// activeDates fetches and filters one user, falling back to an empty set on
// any failure so the caller still renders an all-absent row.
func (o *Orchestrator) activeDates(ctx context.Context, user string, now time.Time, cache map[string]contrib.DateSet) contrib.DateSet {
	if active, ok := cache[user]; ok {
		return active
	}

	days, err := o.fetcher.Fetch(ctx, user)
	if err != nil {
		o.logger.Warn("Contribution fetch failed, rendering all-absent row", "user", user, "error", err)
		cache[user] = contrib.DateSet{}
		return cache[user]
	}

	active := contrib.ActiveDates(contrib.LastMonth(days, now))
	cache[user] = active
	return active
}
