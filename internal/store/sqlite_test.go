package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/truthlens/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	return st
}

func saveClaim(t *testing.T, st *SQLiteStore, text string, score float64, status model.Status, category model.Category) *model.ClaimRecord {
	t.Helper()
	rec := model.NewClaimRecord(text, model.ScoreResult{
		CredibilityScore: score,
		Status:           status,
		Category:         category,
		RiskLevel:        "medium",
		Sources:          []string{"Reuters", "AP News"},
		Reasoning:        "Reasoning for " + text,
	})
	require.NoError(t, st.SaveClaim(context.Background(), &rec))
	return &rec
}

func TestSQLite_SaveAndGetClaim(t *testing.T) {
	st := newTestSQLiteStore(t)

	saved := saveClaim(t, st, "Vaccines are safe", 8.6, model.StatusTrue, model.CategoryHealth)
	require.NotZero(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	got, err := st.GetClaim(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Vaccines are safe", got.ClaimText)
	assert.InDelta(t, 8.6, got.CredibilityScore, 1e-9)
	assert.Equal(t, model.StatusTrue, got.Status)
	assert.Equal(t, model.CategoryHealth, got.Category)
	assert.Equal(t, model.RiskLevel("medium"), got.RiskLevel)
	assert.Equal(t, []string{"Reuters", "AP News"}, got.SourceList())
}

func TestSQLite_GetClaim_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetClaim(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSQLite_SaveClaim_EmptySourcesStoredAsArray(t *testing.T) {
	st := newTestSQLiteStore(t)

	rec := &model.ClaimRecord{ClaimText: "x", Status: model.StatusMixed, Category: model.CategoryGeneral}
	require.NoError(t, st.SaveClaim(context.Background(), rec))

	got, err := st.GetClaim(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "[]", got.Sources)
	assert.Equal(t, []string{}, got.SourceList())
}

func TestSQLite_RecentClaims(t *testing.T) {
	st := newTestSQLiteStore(t)
	for _, text := range []string{"first", "second", "third"} {
		saveClaim(t, st, text, 5, model.StatusMixed, model.CategoryGeneral)
	}

	recent, err := st.RecentClaims(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "third", recent[0].ClaimText)
	assert.Equal(t, "second", recent[1].ClaimText)
}

func TestSQLite_SearchClaims(t *testing.T) {
	st := newTestSQLiteStore(t)
	saveClaim(t, st, "Vaccines are safe", 8.6, model.StatusTrue, model.CategoryHealth)
	saveClaim(t, st, "Vaccines cause autism", 1.8, model.StatusFalse, model.CategoryHealth)
	saveClaim(t, st, "Election was stolen", 2.3, model.StatusFalse, model.CategoryPolitics)
	saveClaim(t, st, "Water prevents disease", 5.0, model.StatusMixed, model.CategoryHealth)

	tests := []struct {
		name string
		q    model.ClaimSearch
		want []string
	}{
		{"text match ordered by score", model.ClaimSearch{Query: "vaccines"}, []string{"Vaccines are safe", "Vaccines cause autism"}},
		{"matches reasoning", model.ClaimSearch{Query: "Reasoning for Election"}, []string{"Election was stolen"}},
		{"category filter", model.ClaimSearch{Category: "politics"}, []string{"Election was stolen"}},
		{"high band", model.ClaimSearch{Credibility: model.BandHigh}, []string{"Vaccines are safe"}},
		{"medium band", model.ClaimSearch{Credibility: model.BandMedium}, []string{"Water prevents disease"}},
		{"low band", model.ClaimSearch{Credibility: model.BandLow}, []string{"Election was stolen", "Vaccines cause autism"}},
		{"limit", model.ClaimSearch{Limit: 1}, []string{"Vaccines are safe"}},
		{"no match", model.ClaimSearch{Query: "unicorns"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := st.SearchClaims(context.Background(), tt.q)
			require.NoError(t, err)

			texts := []string{}
			for _, c := range got {
				texts = append(texts, c.ClaimText)
			}
			assert.Equal(t, tt.want, texts)
		})
	}
}

func TestSQLite_Stats(t *testing.T) {
	st := newTestSQLiteStore(t)

	empty, err := st.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.Stats{}, empty)

	saveClaim(t, st, "a", 8.6, model.StatusTrue, model.CategoryHealth)
	saveClaim(t, st, "b", 1.8, model.StatusFalse, model.CategoryHealth)
	saveClaim(t, st, "c", 5.0, model.StatusMixed, model.CategoryGeneral)

	stats, err := st.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalClaims)
	assert.Equal(t, 1, stats.TrueClaims)
	assert.Equal(t, 1, stats.FalseClaims)
	assert.Equal(t, 1, stats.MixedClaims)
	assert.InDelta(t, 33.33, stats.AccuracyRate, 1e-9)
}

func TestSQLite_SaveReport_Defaults(t *testing.T) {
	st := newTestSQLiteStore(t)

	rep := &model.ContentReport{ContentText: "Suspicious post", URL: "https://example.com/post"}
	require.NoError(t, st.SaveReport(context.Background(), rep))

	assert.NotZero(t, rep.ID)
	assert.Equal(t, "medium", rep.Priority)
	assert.Equal(t, model.ReportPending, rep.Status)

	second := &model.ContentReport{ContentText: "Another"}
	require.NoError(t, st.SaveReport(context.Background(), second))
	assert.Greater(t, second.ID, rep.ID)
}

func TestSQLite_RecordTrend_AccumulatesPerDay(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	day1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	require.NoError(t, st.RecordTrend(ctx, model.CategoryHealth, model.StatusFalse, day1))
	require.NoError(t, st.RecordTrend(ctx, model.CategoryHealth, model.StatusTrue, day1.Add(time.Hour)))
	require.NoError(t, st.RecordTrend(ctx, model.CategoryHealth, model.StatusFalse, day1.Add(2*time.Hour)))
	require.NoError(t, st.RecordTrend(ctx, model.CategoryPolitics, model.StatusMixed, day2))
	require.NoError(t, st.RecordTrend(ctx, "", model.StatusFalse, day2))

	trends, err := st.ListTrends(ctx, 0)
	require.NoError(t, err)
	require.Len(t, trends, 3)

	assert.Equal(t, model.CategoryGeneral, trends[0].Category)
	assert.Equal(t, "2026-03-02", trends[0].Date)
	assert.Equal(t, model.CategoryPolitics, trends[1].Category)
	assert.Equal(t, 0, trends[1].FalseClaimCount)

	health := trends[2]
	assert.Equal(t, "2026-03-01", health.Date)
	assert.Equal(t, 3, health.ClaimCount)
	assert.Equal(t, 2, health.FalseClaimCount)
	assert.InDelta(t, 66.67, health.FalseRate(), 1e-9)
}

func TestSQLite_ListTrends_Limit(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, st.RecordTrend(ctx, model.CategoryHealth, model.StatusTrue, start.AddDate(0, 0, i)))
	}

	trends, err := st.ListTrends(ctx, 2)
	require.NoError(t, err)
	require.Len(t, trends, 2)
	assert.Equal(t, "2026-01-05", trends[0].Date)
}

func TestSQLite_MemoryDSN(t *testing.T) {
	st, err := Open(context.Background(), MemoryDSN)
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck

	saveClaim(t, st, "in memory", 5, model.StatusMixed, model.CategoryGeneral)
	recent, err := st.RecentClaims(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 20, clampLimit(0, 20))
	assert.Equal(t, 20, clampLimit(-3, 20))
	assert.Equal(t, 7, clampLimit(7, 20))
	assert.Equal(t, maxListLimit, clampLimit(maxListLimit+1, 20))
}
