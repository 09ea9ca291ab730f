package sqlrow

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"
)

// ErrCacheClosed is returned by StmtCache.Prepare after Close.
var ErrCacheClosed = errors.New("sqlrow: statement cache closed")

// CacheMetrics are the instruments of a StmtCache. Register them with
// prometheus.MustRegister(m.Collectors()...).
type CacheMetrics struct {
	Hits          prometheus.Counter
	Misses        prometheus.Counter
	PrepareErrors prometheus.Counter
	Statements    prometheus.Gauge
}

// NewCacheMetrics builds unregistered instruments under namespace.
func NewCacheMetrics(namespace string) *CacheMetrics {
	return &CacheMetrics{
		Hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stmt_cache_hits_total",
			Help:      "Prepared statements served from the cache.",
		}),
		Misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stmt_cache_misses_total",
			Help:      "Statements prepared because they were not cached.",
		}),
		PrepareErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stmt_cache_prepare_errors_total",
			Help:      "Statement preparations that failed.",
		}),
		Statements: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stmt_cache_statements",
			Help:      "Prepared statements currently held.",
		}),
	}
}

// Collectors returns the instruments for registration.
func (m *CacheMetrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.Hits, m.Misses, m.PrepareErrors, m.Statements}
}

// StmtCache prepares each distinct statement text once on a Preparer and hands
// out the same *sql.Stmt afterwards. Concurrent requests for a statement that
// is not cached yet share one prepare call.
type StmtCache struct {
	db      Preparer
	metrics *CacheMetrics
	sfg     singleflight.Group
	m       sync.Map // query -> *sql.Stmt
	closed  atomic.Bool

	// mu orders stores against Close, so Close sees every stored statement.
	mu sync.Mutex
}

// NewStmtCache returns a cache over db. metrics may be nil.
func NewStmtCache(db Preparer, metrics *CacheMetrics) *StmtCache {
	return &StmtCache{db: db, metrics: metrics}
}

// Prepare returns the cached statement for query, preparing it on first use.
// The statement belongs to the cache; callers must not close it.
func (c *StmtCache) Prepare(ctx context.Context, query string) (*sql.Stmt, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	if v, ok := c.m.Load(query); ok {
		c.count(func(m *CacheMetrics) { m.Hits.Inc() })
		return v.(*sql.Stmt), nil
	}

	v, err, _ := c.sfg.Do(query, func() (any, error) {
		// Double-check after the singleflight barrier.
		if v, ok := c.m.Load(query); ok {
			c.count(func(m *CacheMetrics) { m.Hits.Inc() })
			return v, nil
		}

		stmt, err := c.db.PrepareContext(ctx, query)
		if err != nil {
			c.count(func(m *CacheMetrics) { m.PrepareErrors.Inc() })
			return nil, err
		}

		c.mu.Lock()
		defer c.mu.Unlock()

		if c.closed.Load() {
			_ = stmt.Close()
			return nil, ErrCacheClosed
		}

		c.m.Store(query, stmt)
		c.count(func(m *CacheMetrics) {
			m.Misses.Inc()
			m.Statements.Inc()
		})

		return stmt, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*sql.Stmt), nil
}

// Len returns the number of cached statements.
func (c *StmtCache) Len() int {
	n := 0
	c.m.Range(func(_, _ any) bool {
		n++
		return true
	})

	return n
}

// Close closes every cached statement and makes further Prepare calls fail.
// It returns the first close error.
func (c *StmtCache) Close() error {
	c.mu.Lock()
	c.closed.Store(true)
	c.mu.Unlock()

	var first error
	c.m.Range(func(k, v any) bool {
		c.m.Delete(k)
		if err := v.(*sql.Stmt).Close(); err != nil && first == nil {
			first = err
		}
		c.count(func(m *CacheMetrics) { m.Statements.Dec() })
		return true
	})

	return first
}

func (c *StmtCache) count(fn func(*CacheMetrics)) {
	if c.metrics != nil {
		fn(c.metrics)
	}
}
