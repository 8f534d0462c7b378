package worker

import (
	"bufio"
	"context"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/ppiankov/truthlens/internal/model"
)

// Checker produces a report for one batch input (a claim or a URL)
type Checker interface {
	Check(ctx context.Context, input string) (*model.CheckReport, error)
}

// CheckFunc adapts a function to the Checker interface
type CheckFunc func(ctx context.Context, input string) (*model.CheckReport, error)

// Check calls f
func (f CheckFunc) Check(ctx context.Context, input string) (*model.CheckReport, error) {
	return f(ctx, input)
}

// CheckJob checks a single input
type CheckJob struct {
	Index   int
	Input   string
	Checker Checker
}

// Execute runs the check
func (j *CheckJob) Execute(ctx context.Context) Result {
	report, err := j.Checker.Check(ctx, j.Input)
	if err != nil {
		return newFailure(j.Index, j.Input, err)
	}
	return &CheckResult{Index: j.Index, Input: j.Input, Report: report}
}

// CheckResult is the outcome of one batch input
type CheckResult struct {
	Index  int                `json:"index"`
	Input  string             `json:"input"`
	Report *model.CheckReport `json:"report,omitempty"`
	Error  error              `json:"-"`
	Reason string             `json:"error,omitempty"`
}

func newFailure(index int, input string, err error) *CheckResult {
	r := &CheckResult{Index: index, Input: input, Error: err}
	if err != nil {
		r.Reason = err.Error()
	}
	return r
}

// GetError returns the check error, if any
func (r *CheckResult) GetError() error {
	return r.Error
}

// BatchRun groups the results of one batch invocation
type BatchRun struct {
	ID         string         `json:"id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Results    []*CheckResult `json:"results"`
	Summary    BatchSummary   `json:"summary"`
}

// BatchSummary counts batch outcomes by verdict status
type BatchSummary struct {
	Total    int                  `json:"total"`
	Failed   int                  `json:"failed"`
	Degraded int                  `json:"degraded"`
	ByStatus map[model.Status]int `json:"by_status"`
}

// BatchProcessor checks many inputs concurrently
type BatchProcessor struct {
	checker     Checker
	concurrency int
}

// NewBatchProcessor creates a batch processor with the given worker count
func NewBatchProcessor(checker Checker, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		checker:     checker,
		concurrency: concurrency,
	}
}

// Process checks inputs concurrently and returns the run in input order
func (b *BatchProcessor) Process(ctx context.Context, inputs []string) *BatchRun {
	run := &BatchRun{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Results:   []*CheckResult{},
	}

	if len(inputs) > 0 {
		pool := NewPoolWithContext(ctx, b.concurrency)
		pool.Start()

		var skipped []*CheckResult
		for i, input := range inputs {
			if !pool.Submit(&CheckJob{Index: i, Input: input, Checker: b.checker}) {
				skipped = append(skipped, newFailure(i, input, eris.Wrap(ctx.Err(), "batch cancelled")))
			}
		}
		run.Results = append(run.Results, skipped...)

		for _, r := range pool.Wait() {
			cr, ok := r.(*CheckResult)
			if !ok {
				// a job that panicked has no index; report it at the end
				cr = newFailure(len(inputs), "", r.GetError())
			}
			run.Results = append(run.Results, cr)
		}
		sort.SliceStable(run.Results, func(i, j int) bool {
			return run.Results[i].Index < run.Results[j].Index
		})
	}

	run.FinishedAt = time.Now().UTC()
	run.Summary = Summarize(run.Results)
	return run
}

// ProcessFile reads inputs from filePath and processes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) (*BatchRun, error) {
	inputs, err := ReadLines(filePath)
	if err != nil {
		return nil, eris.Wrap(err, "read batch inputs")
	}
	return b.Process(ctx, inputs), nil
}

// Summarize counts results by status
func Summarize(results []*CheckResult) BatchSummary {
	s := BatchSummary{Total: len(results), ByStatus: map[model.Status]int{}}
	for _, r := range results {
		if r.Error != nil || r.Report == nil {
			s.Failed++
			continue
		}
		s.ByStatus[r.Report.Result.Status]++
		if r.Report.Result.Outcome == model.OutcomeDegraded {
			s.Degraded++
		}
	}
	return s
}

// ReadLines reads one input per line, skipping blanks, # comments and duplicates
func ReadLines(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", filePath)
	}
	defer func() { _ = file.Close() }()

	var lines []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, eris.Wrapf(err, "scan %s", filePath)
	}

	return lines, nil
}
