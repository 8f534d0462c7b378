package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/ppiankov/truthlens/internal/model"
)

// MemoryDSN opens a private in-memory database
const MemoryDSN = ":memory:"

const trendDateLayout = "2006-01-02"

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}

	pragmas := []string{"PRAGMA busy_timeout=5000", "PRAGMA synchronous=NORMAL"}
	if dsn == MemoryDSN {
		// each connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	} else {
		pragmas = append([]string{"PRAGMA journal_mode=WAL"}, pragmas...)
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS claims (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	claim_text        TEXT NOT NULL,
	credibility_score REAL NOT NULL DEFAULT 0,
	status            TEXT NOT NULL DEFAULT 'pending',
	category          TEXT NOT NULL DEFAULT 'general',
	risk_level        TEXT NOT NULL DEFAULT '',
	sources           TEXT NOT NULL DEFAULT '[]',
	reasoning         TEXT NOT NULL DEFAULT '',
	created_at        DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS reports (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	content_text TEXT NOT NULL,
	url          TEXT NOT NULL DEFAULT '',
	email        TEXT NOT NULL DEFAULT '',
	category     TEXT NOT NULL DEFAULT '',
	priority     TEXT NOT NULL DEFAULT 'medium',
	status       TEXT NOT NULL DEFAULT 'pending',
	created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS trends (
	category          TEXT NOT NULL,
	date_recorded     TEXT NOT NULL,
	claim_count       INTEGER NOT NULL DEFAULT 0,
	false_claim_count INTEGER NOT NULL DEFAULT 0,
	updated_at        DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (category, date_recorded)
);

CREATE INDEX IF NOT EXISTS idx_claims_status ON claims(status);
CREATE INDEX IF NOT EXISTS idx_claims_category ON claims(category);
CREATE INDEX IF NOT EXISTS idx_claims_created_at ON claims(created_at);
CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status);
`

// Migrate creates the schema if it does not exist
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveClaim inserts rec and sets its ID and timestamps
func (s *SQLiteStore) SaveClaim(ctx context.Context, rec *model.ClaimRecord) error {
	now := time.Now().UTC()
	sources := rec.Sources
	if sources == "" {
		sources = "[]"
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO claims (claim_text, credibility_score, status, category, risk_level, sources, reasoning, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ClaimText, rec.CredibilityScore, string(rec.Status), string(rec.Category),
		string(rec.RiskLevel), sources, rec.Reasoning, now, now,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert claim")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return eris.Wrap(err, "sqlite: claim id")
	}
	rec.ID = id
	rec.Sources = sources
	rec.CreatedAt = now
	rec.UpdatedAt = now
	return nil
}

const claimColumns = `id, claim_text, credibility_score, status, category, risk_level, sources, reasoning, created_at, updated_at`

// GetClaim returns the claim with id, or ErrNotFound
func (s *SQLiteStore) GetClaim(ctx context.Context, id int64) (*model.ClaimRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+claimColumns+` FROM claims WHERE id = ?`, id)
	rec, err := scanClaim(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "claim %d", id)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// RecentClaims returns the newest claims first
func (s *SQLiteStore) RecentClaims(ctx context.Context, limit int) ([]model.ClaimRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+claimColumns+` FROM claims ORDER BY id DESC LIMIT ?`,
		clampLimit(limit, defaultRecentLimit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: recent claims")
	}
	return collectClaims(rows)
}

// SearchClaims matches q.Query against claim text and reasoning. Results are
// ordered by credibility score, highest first.
func (s *SQLiteStore) SearchClaims(ctx context.Context, q model.ClaimSearch) ([]model.ClaimRecord, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE 1=1`
	var args []any

	if term := strings.TrimSpace(q.Query); term != "" {
		query += ` AND (claim_text LIKE ? OR reasoning LIKE ?)`
		like := "%" + term + "%"
		args = append(args, like, like)
	}
	if q.Category != "" {
		query += ` AND category = ?`
		args = append(args, q.Category)
	}
	switch q.Credibility {
	case model.BandHigh:
		query += ` AND credibility_score >= 8.0`
	case model.BandMedium:
		query += ` AND credibility_score >= 4.0 AND credibility_score < 8.0`
	case model.BandLow:
		query += ` AND credibility_score < 4.0`
	}

	query += ` ORDER BY credibility_score DESC, id ASC LIMIT ?`
	args = append(args, clampLimit(q.Limit, defaultSearchLimit))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: search claims")
	}
	return collectClaims(rows)
}

// Stats counts stored verdicts by status
func (s *SQLiteStore) Stats(ctx context.Context) (model.Stats, error) {
	var st model.Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
		 FROM claims`,
		string(model.StatusTrue), string(model.StatusFalse), string(model.StatusMixed),
	).Scan(&st.TotalClaims, &st.TrueClaims, &st.FalseClaims, &st.MixedClaims)
	if err != nil {
		return model.Stats{}, eris.Wrap(err, "sqlite: stats")
	}

	st.AccuracyRate = model.AccuracyRate(st.TrueClaims, st.TotalClaims)
	return st, nil
}

// SaveReport inserts a user report, defaulting priority and status
func (s *SQLiteStore) SaveReport(ctx context.Context, rep *model.ContentReport) error {
	if rep.Priority == "" {
		rep.Priority = "medium"
	}
	if rep.Status == "" {
		rep.Status = model.ReportPending
	}
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reports (content_text, url, email, category, priority, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rep.ContentText, rep.URL, rep.Email, rep.Category, rep.Priority, string(rep.Status), now,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: insert report")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return eris.Wrap(err, "sqlite: report id")
	}
	rep.ID = id
	rep.CreatedAt = now
	return nil
}

// RecordTrend counts one verdict against its category for the UTC day of at
func (s *SQLiteStore) RecordTrend(ctx context.Context, category model.Category, status model.Status, at time.Time) error {
	if category == "" {
		category = model.CategoryGeneral
	}
	falseCount := 0
	if status == model.StatusFalse {
		falseCount = 1
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trends (category, date_recorded, claim_count, false_claim_count, updated_at)
		 VALUES (?, ?, 1, ?, ?)
		 ON CONFLICT(category, date_recorded) DO UPDATE SET
		   claim_count = claim_count + 1,
		   false_claim_count = false_claim_count + excluded.false_claim_count,
		   updated_at = excluded.updated_at`,
		string(category), at.UTC().Format(trendDateLayout), falseCount, time.Now().UTC(),
	)
	return eris.Wrap(err, "sqlite: record trend")
}

// ListTrends returns trend points, most recent day first
func (s *SQLiteStore) ListTrends(ctx context.Context, limit int) ([]model.TrendPoint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, date_recorded, claim_count, false_claim_count, updated_at
		 FROM trends ORDER BY date_recorded DESC, category ASC LIMIT ?`,
		clampLimit(limit, defaultTrendLimit),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list trends")
	}
	defer rows.Close() //nolint:errcheck

	points := []model.TrendPoint{}
	for rows.Next() {
		var p model.TrendPoint
		var category string
		if err := rows.Scan(&category, &p.Date, &p.ClaimCount, &p.FalseClaimCount, &p.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan trend")
		}
		p.Category = model.Category(category)
		points = append(points, p)
	}
	return points, eris.Wrap(rows.Err(), "sqlite: list trends iterate")
}

type scannable interface {
	Scan(dest ...any) error
}

func scanClaim(row scannable) (*model.ClaimRecord, error) {
	var (
		rec                       model.ClaimRecord
		status, category, riskLvl string
	)
	err := row.Scan(&rec.ID, &rec.ClaimText, &rec.CredibilityScore, &status, &category,
		&riskLvl, &rec.Sources, &rec.Reasoning, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan claim")
	}
	rec.Status = model.Status(status)
	rec.Category = model.Category(category)
	rec.RiskLevel = model.RiskLevel(riskLvl)
	return &rec, nil
}

func collectClaims(rows *sql.Rows) ([]model.ClaimRecord, error) {
	defer rows.Close() //nolint:errcheck

	claims := []model.ClaimRecord{}
	for rows.Next() {
		rec, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		claims = append(claims, *rec)
	}
	return claims, eris.Wrap(rows.Err(), "sqlite: iterate claims")
}
