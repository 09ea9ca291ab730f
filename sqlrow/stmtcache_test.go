package sqlrow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStmtCachePreparesOnce(t *testing.T) {
	db, mock := newMock(t)
	ctx := context.Background()

	metrics := NewCacheMetrics("test")
	reg := prometheus.NewRegistry()
	reg.MustRegister(metrics.Collectors()...)

	prep := mock.ExpectPrepare(tagTable.StatementText())
	prep.ExpectExec().WithArgs("a").WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs("b").WillReturnResult(sqlmock.NewResult(2, 1))

	cache := NewStmtCache(db, metrics)

	_, err := tagTable.InsertCached(ctx, cache, &tag{Label: "a"})
	require.NoError(t, err)
	_, err = tagTable.InsertCached(ctx, cache, &tag{Label: "b"})
	require.NoError(t, err)

	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Misses))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Hits))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.Statements))
	require.NoError(t, mock.ExpectationsWereMet())

	require.NoError(t, cache.Close())
	assert.Equal(t, 0, cache.Len())
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.Statements))

	_, err = cache.Prepare(ctx, tagTable.StatementText())
	assert.ErrorIs(t, err, ErrCacheClosed)
}

func TestStmtCachePrepareError(t *testing.T) {
	db, mock := newMock(t)
	errPrepare := errors.New("no such table: tags")
	metrics := NewCacheMetrics("")

	mock.ExpectPrepare(tagTable.StatementText()).WillReturnError(errPrepare)

	cache := NewStmtCache(db, metrics)
	_, err := tagTable.InsertCached(context.Background(), cache, &tag{Label: "a"})
	assert.ErrorIs(t, err, errPrepare)
	assert.Equal(t, 0, cache.Len())
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.PrepareErrors))
}

func TestStmtCacheConcurrent(t *testing.T) {
	db := openSQLite(t, `CREATE TABLE tags (label TEXT PRIMARY KEY);`)
	cache := NewStmtCache(db, nil)
	t.Cleanup(func() { _ = cache.Close() })

	ctx := context.Background()
	var wg sync.WaitGroup
	stmts := make([]any, 8)

	for i := range stmts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stmt, err := cache.Prepare(ctx, tagTable.StatementText())
			assert.NoError(t, err)
			stmts[i] = stmt
		}()
	}
	wg.Wait()

	for _, s := range stmts[1:] {
		assert.Same(t, stmts[0], s)
	}
	assert.Equal(t, 1, cache.Len())
}

// closingPreparer closes cache while a statement is being prepared.
type closingPreparer struct {
	Preparer
	cache *StmtCache
}

func (p *closingPreparer) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	stmt, err := p.Preparer.PrepareContext(ctx, query)
	if err == nil {
		err = p.cache.Close()
	}
	return stmt, err
}

func TestStmtCacheCloseDuringPrepare(t *testing.T) {
	db := openSQLite(t, `CREATE TABLE tags (label TEXT PRIMARY KEY);`)
	metrics := NewCacheMetrics("")

	p := &closingPreparer{Preparer: db}
	cache := NewStmtCache(p, metrics)
	p.cache = cache

	_, err := cache.Prepare(context.Background(), tagTable.StatementText())
	assert.ErrorIs(t, err, ErrCacheClosed)
	assert.Equal(t, 0, cache.Len())
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.Statements))
}

func TestStmtCacheCloseRacesPrepare(t *testing.T) {
	db := openSQLite(t, `CREATE TABLE tags (label TEXT PRIMARY KEY);`)
	metrics := NewCacheMetrics("")
	cache := NewStmtCache(db, metrics)

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Prepare(ctx, fmt.Sprintf("SELECT label FROM tags WHERE rowid = %d", i))
			if err != nil {
				assert.ErrorIs(t, err, ErrCacheClosed)
			}
		}()
	}

	require.NoError(t, cache.Close())
	wg.Wait()

	assert.Equal(t, 0, cache.Len())
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.Statements))
}
