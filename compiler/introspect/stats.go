package introspect

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"ariga.io/atlas/sql/schema"
)

// DefaultSlowThreshold is the duration above which an inspection query is
// reported as slow.
const DefaultSlowThreshold = 500 * time.Millisecond

// QueryStats holds the statistics of the queries an inspection issued.
type QueryStats struct {
	Queries  atomic.Int64
	Execs    atomic.Int64
	Duration atomic.Int64 // nanoseconds
	Slow     atomic.Int64
	Errors   atomic.Int64
}

// StatsSnapshot is a point-in-time snapshot of query statistics.
type StatsSnapshot struct {
	Queries  int64
	Execs    int64
	Duration time.Duration
	Slow     int64
	Errors   int64
}

// Snapshot returns the current statistics.
func (s *QueryStats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Queries:  s.Queries.Load(),
		Execs:    s.Execs.Load(),
		Duration: time.Duration(s.Duration.Load()),
		Slow:     s.Slow.Load(),
		Errors:   s.Errors.Load(),
	}
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf("queries=%d execs=%d duration=%s slow=%d errors=%d",
		s.Queries, s.Execs, s.Duration, s.Slow, s.Errors)
}

// statsQuerier wraps the connection handed to the Atlas inspectors and
// records every statement they run.
type statsQuerier struct {
	schema.ExecQuerier
	stats         *QueryStats
	slowThreshold time.Duration
	logger        func() *slog.Logger
}

// QueryContext implements schema.ExecQuerier.
func (q *statsQuerier) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := q.ExecQuerier.QueryContext(ctx, query, args...)
	q.record(ctx, query, start, err, true)
	return rows, err
}

// ExecContext implements schema.ExecQuerier.
func (q *statsQuerier) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := q.ExecQuerier.ExecContext(ctx, query, args...)
	q.record(ctx, query, start, err, false)
	return res, err
}

func (q *statsQuerier) record(ctx context.Context, query string, start time.Time, err error, isQuery bool) {
	d := time.Since(start)
	if isQuery {
		q.stats.Queries.Add(1)
	} else {
		q.stats.Execs.Add(1)
	}
	q.stats.Duration.Add(int64(d))
	if err != nil {
		q.stats.Errors.Add(1)
	}
	if d > q.slowThreshold {
		q.stats.Slow.Add(1)
		q.logger().WarnContext(ctx, "slow inspection query", "duration", d, "query", query)
	}
}
