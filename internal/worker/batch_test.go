package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/truthlens/internal/model"
)

// statusChecker reports "false" for inputs containing "flat" and fails on "fail"
func statusChecker(calls *int32) CheckFunc {
	return func(_ context.Context, input string) (*model.CheckReport, error) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		if strings.Contains(input, "fail") {
			return nil, errors.New("check failed")
		}
		status := model.StatusMixed
		outcome := model.OutcomeOK
		if strings.Contains(input, "flat") {
			status = model.StatusFalse
		}
		if strings.Contains(input, "offline") {
			outcome = model.OutcomeDegraded
		}
		return &model.CheckReport{
			Claim:  input,
			Result: model.ScoreResult{Status: status, Outcome: outcome},
		}, nil
	}
}

func writeLines(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "claims.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBatchProcessor_Process_PreservesOrder(t *testing.T) {
	var calls int32
	inputs := []string{"The earth is flat", "Water is wet", "please fail", "offline claim", "Another flat claim"}

	run := NewBatchProcessor(statusChecker(&calls), 3).Process(context.Background(), inputs)

	require.Len(t, run.Results, len(inputs))
	for i, r := range run.Results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, inputs[i], r.Input)
	}
	assert.Equal(t, int32(len(inputs)), atomic.LoadInt32(&calls))

	assert.Error(t, run.Results[2].Error)
	assert.NotEmpty(t, run.Results[2].Reason)
	assert.Nil(t, run.Results[2].Report)

	_, err := uuid.Parse(run.ID)
	assert.NoError(t, err)
	assert.False(t, run.FinishedAt.Before(run.StartedAt))
}

func TestBatchProcessor_Process_Summary(t *testing.T) {
	inputs := []string{"The earth is flat", "Water is wet", "please fail", "offline claim"}

	run := NewBatchProcessor(statusChecker(nil), 2).Process(context.Background(), inputs)

	assert.Equal(t, BatchSummary{
		Total:    4,
		Failed:   1,
		Degraded: 1,
		ByStatus: map[model.Status]int{model.StatusFalse: 1, model.StatusMixed: 2},
	}, run.Summary)
}

func TestBatchProcessor_Process_Empty(t *testing.T) {
	run := NewBatchProcessor(statusChecker(nil), 2).Process(context.Background(), nil)

	assert.NotNil(t, run.Results)
	assert.Empty(t, run.Results)
	assert.Equal(t, 0, run.Summary.Total)
}

func TestBatchProcessor_Process_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int32
	run := NewBatchProcessor(statusChecker(&calls), 2).Process(ctx, []string{"a", "b", "c"})

	assert.Len(t, run.Results, 3)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	assert.Equal(t, 3, run.Summary.Failed)
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := writeLines(t, "The earth is flat\n# comment\n\nWater is wet\nThe earth is flat\n")

	run, err := NewBatchProcessor(statusChecker(nil), 2).ProcessFile(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, run.Results, 2)
	assert.Equal(t, "The earth is flat", run.Results[0].Input)
	assert.Equal(t, "Water is wet", run.Results[1].Input)
}

func TestBatchProcessor_ProcessFile_Missing(t *testing.T) {
	_, err := NewBatchProcessor(statusChecker(nil), 2).ProcessFile(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestReadLines(t *testing.T) {
	path := writeLines(t, "first claim\n# comment\n   \n  second claim  \nfirst claim")

	lines, err := ReadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"first claim", "second claim"}, lines)
}

func TestCheckResult_GetError(t *testing.T) {
	assert.NoError(t, (&CheckResult{}).GetError())

	want := errors.New("boom")
	assert.Equal(t, want, (&CheckResult{Error: want}).GetError())
}
