// Package store persists verdicts, user reports and per-category trend
// counters in SQLite.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/ppiankov/truthlens/internal/model"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = eris.New("store: not found")

const (
	defaultSearchLimit = 20
	defaultTrendLimit  = 20
	defaultRecentLimit = 10
	maxListLimit       = 500
)

// Store is the persistence interface used by the pipeline and the HTTP API
type Store interface {
	// Claims
	SaveClaim(ctx context.Context, rec *model.ClaimRecord) error
	GetClaim(ctx context.Context, id int64) (*model.ClaimRecord, error)
	RecentClaims(ctx context.Context, limit int) ([]model.ClaimRecord, error)
	SearchClaims(ctx context.Context, q model.ClaimSearch) ([]model.ClaimRecord, error)
	Stats(ctx context.Context) (model.Stats, error)

	// Reports
	SaveReport(ctx context.Context, rep *model.ContentReport) error

	// Trends
	RecordTrend(ctx context.Context, category model.Category, status model.Status, at time.Time) error
	ListTrends(ctx context.Context, limit int) ([]model.TrendPoint, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open opens and migrates the SQLite store at path
func Open(ctx context.Context, path string) (*SQLiteStore, error) {
	st, err := NewSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
