package sql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/syssam/sqlkit/dialect"
)

// QueryStats holds statement execution statistics.
type QueryStats struct {
	// TotalQueries is the number of row-returning statements executed.
	TotalQueries atomic.Int64
	// TotalExecs is the number of statements executed without rows.
	TotalExecs atomic.Int64
	// TotalDuration is the time spent executing statements, in nanoseconds.
	TotalDuration atomic.Int64
	// SlowQueries is the count of statements exceeding the slow threshold.
	SlowQueries atomic.Int64
	// Errors is the count of failed statements.
	Errors atomic.Int64
	// Diagnostics is the count of rendering diagnostics seen by Sink.
	Diagnostics atomic.Int64

	mu    sync.Mutex
	verbs map[string]int64
}

// Stats returns a snapshot of the current statistics.
func (s *QueryStats) Stats() StatsSnapshot {
	s.mu.Lock()
	verbs := make(map[string]int64, len(s.verbs))
	for k, v := range s.verbs {
		verbs[k] = v
	}
	s.mu.Unlock()
	return StatsSnapshot{
		TotalQueries:  s.TotalQueries.Load(),
		TotalExecs:    s.TotalExecs.Load(),
		TotalDuration: time.Duration(s.TotalDuration.Load()),
		SlowQueries:   s.SlowQueries.Load(),
		Errors:        s.Errors.Load(),
		Diagnostics:   s.Diagnostics.Load(),
		Verbs:         verbs,
	}
}

// Reset resets all statistics to zero.
func (s *QueryStats) Reset() {
	s.TotalQueries.Store(0)
	s.TotalExecs.Store(0)
	s.TotalDuration.Store(0)
	s.SlowQueries.Store(0)
	s.Errors.Store(0)
	s.Diagnostics.Store(0)
	s.mu.Lock()
	s.verbs = nil
	s.mu.Unlock()
}

// Sink returns a diagnostic sink counting diagnostics before forwarding
// them to next. A nil next only counts.
func (s *QueryStats) Sink(next DiagnosticSink) DiagnosticSink {
	return DiagnosticFunc(func(d Diagnostic) {
		s.Diagnostics.Add(1)
		if next != nil {
			next.Report(d)
		}
	})
}

func (s *QueryStats) countVerb(query string) {
	verb := statementVerb(query)
	s.mu.Lock()
	if s.verbs == nil {
		s.verbs = make(map[string]int64)
	}
	s.verbs[verb]++
	s.mu.Unlock()
}

// statementVerb returns the upper-cased leading keyword of a statement.
func statementVerb(query string) string {
	query = strings.TrimLeft(query, " \t\r\n(")
	if i := strings.IndexAny(query, " \t\r\n("); i >= 0 {
		query = query[:i]
	}
	if query == "" {
		return "UNKNOWN"
	}
	return strings.ToUpper(query)
}

// StatsSnapshot is a point-in-time snapshot of query statistics.
type StatsSnapshot struct {
	TotalQueries  int64
	TotalExecs    int64
	TotalDuration time.Duration
	SlowQueries   int64
	Errors        int64
	Diagnostics   int64
	// Verbs counts statements by leading keyword, such as SELECT or CREATE.
	Verbs map[string]int64
}

// AvgQueryDuration returns the average statement duration.
func (s StatsSnapshot) AvgQueryDuration() time.Duration {
	total := s.TotalQueries + s.TotalExecs
	if total == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(total)
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	verbs := make([]string, 0, len(s.Verbs))
	for k, v := range s.Verbs {
		verbs = append(verbs, fmt.Sprintf("%s:%d", k, v))
	}
	sort.Strings(verbs)
	return fmt.Sprintf(
		"queries=%d execs=%d duration=%s avg=%s slow=%d errors=%d diagnostics=%d verbs=[%s]",
		s.TotalQueries, s.TotalExecs, s.TotalDuration, s.AvgQueryDuration(),
		s.SlowQueries, s.Errors, s.Diagnostics, strings.Join(verbs, " "),
	)
}

// SlowQueryHook is a function called when a slow statement is detected.
type SlowQueryHook func(ctx context.Context, query string, args []any, duration time.Duration)

// StatsDriver wraps a Driver with statement statistics collection.
type StatsDriver struct {
	*Driver
	stats         *QueryStats
	slowThreshold time.Duration
	slowHook      SlowQueryHook
	mu            sync.RWMutex
}

// StatsOption configures the StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the threshold for slow statement detection.
// Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) {
		s.slowThreshold = d
	}
}

// WithSlowQueryHook sets a callback function for slow statements.
func WithSlowQueryHook(hook SlowQueryHook) StatsOption {
	return func(s *StatsDriver) {
		s.slowHook = hook
	}
}

// WithSlowQueryLog logs slow statements to logger at warn level.
// A nil logger uses slog.Default().
func WithSlowQueryLog(logger *slog.Logger) StatsOption {
	return func(s *StatsDriver) {
		l := logger
		if l == nil {
			l = slog.Default()
		}
		name := s.Dialect()
		s.slowHook = func(ctx context.Context, query string, args []any, duration time.Duration) {
			l.WarnContext(ctx, "slow query detected", "dialect", name, "duration", duration, "query", query, "args", args)
		}
	}
}

// NewStatsDriver wraps a Driver with statistics collection.
//
// Example:
//
//	drv, _ := sql.Open("postgres", dsn)
//	statsDriver := sql.NewStatsDriver(drv,
//	    sql.WithSlowThreshold(200*time.Millisecond),
//	    sql.WithSlowQueryLog(logger),
//	)
//	db, _ := sql.NewDB(statsDriver, sql.Postgres)
//
//	// Later, check statistics:
//	fmt.Println(statsDriver.QueryStats().Stats())
func NewStatsDriver(drv *Driver, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{
		Driver:        drv,
		stats:         &QueryStats{},
		slowThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QueryStats returns the underlying QueryStats for reading statistics.
func (d *StatsDriver) QueryStats() *QueryStats {
	return d.stats
}

// SlowThreshold returns the current slow statement threshold.
func (d *StatsDriver) SlowThreshold() time.Duration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.slowThreshold
}

// SetSlowThreshold updates the slow statement threshold.
func (d *StatsDriver) SetSlowThreshold(threshold time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slowThreshold = threshold
}

// Query executes a query and records statistics.
func (d *StatsDriver) Query(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Query(ctx, query, args, v)
	d.record(ctx, query, args, start, err, true)
	return err
}

// Exec executes a statement and records statistics.
func (d *StatsDriver) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Exec(ctx, query, args, v)
	d.record(ctx, query, args, start, err, false)
	return err
}

func (d *StatsDriver) record(ctx context.Context, query string, args any, start time.Time, err error, isQuery bool) {
	duration := time.Since(start)
	if isQuery {
		d.stats.TotalQueries.Add(1)
	} else {
		d.stats.TotalExecs.Add(1)
	}
	d.stats.TotalDuration.Add(int64(duration))
	d.stats.countVerb(query)
	if err != nil {
		d.stats.Errors.Add(1)
	}

	d.mu.RLock()
	threshold := d.slowThreshold
	hook := d.slowHook
	d.mu.RUnlock()

	if duration > threshold {
		d.stats.SlowQueries.Add(1)
		if hook != nil {
			argsSlice, _ := args.([]any)
			hook(ctx, query, argsSlice, duration)
		}
	}
}

var _ dialect.Driver = (*StatsDriver)(nil)

// OpenWithStats opens a database connection with statistics collection enabled.
//
// Example:
//
//	drv, stats, err := sql.OpenWithStats("postgres", dsn,
//	    sql.WithSlowThreshold(100*time.Millisecond),
//	    sql.WithSlowQueryLog(nil),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	db, err := sql.NewDB(drv, nil, sql.WithDBDiagnostics(stats.Sink(nil)))
func OpenWithStats(driverName, source string, opts ...StatsOption) (*StatsDriver, *QueryStats, error) {
	db, err := sql.Open(driverName, source)
	if err != nil {
		return nil, nil, err
	}
	statsDriver := NewStatsDriver(OpenDB(driverName, db), opts...)
	return statsDriver, statsDriver.QueryStats(), nil
}
