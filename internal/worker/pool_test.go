package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockResult struct {
	err error
}

func (r *mockResult) GetError() error {
	return r.err
}

type mockJob struct {
	duration  time.Duration
	shouldErr bool
	panics    bool
	executed  *int32
}

func (j *mockJob) Execute(ctx context.Context) Result {
	if j.executed != nil {
		atomic.AddInt32(j.executed, 1)
	}
	if j.panics {
		panic("boom")
	}
	if j.duration > 0 {
		select {
		case <-time.After(j.duration):
		case <-ctx.Done():
			return &mockResult{err: ctx.Err()}
		}
	}
	if j.shouldErr {
		return &mockResult{err: errors.New("job error")}
	}
	return &mockResult{}
}

func TestNewPool_MinimumOneWorker(t *testing.T) {
	assert.Equal(t, 5, NewPool(5).workers)
	assert.Equal(t, 1, NewPool(0).workers)
	assert.Equal(t, 1, NewPool(-1).workers)
}

func TestPool_ManyMoreJobsThanBuffer(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	var executed int32
	const count = 100
	for i := 0; i < count; i++ {
		require.True(t, pool.Submit(&mockJob{executed: &executed}))
	}

	results := pool.Wait()

	assert.Len(t, results, count)
	assert.Equal(t, int32(count), atomic.LoadInt32(&executed))
}

func TestPool_BoundedConcurrency(t *testing.T) {
	const workers = 4
	pool := NewPool(workers)
	pool.Start()

	var current, peak int32
	for i := 0; i < 40; i++ {
		pool.Submit(jobFunc(func() {
			n := atomic.AddInt32(&current, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&current, -1)
		}))
	}
	pool.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(workers))
}

type jobFunc func()

func (f jobFunc) Execute(_ context.Context) Result {
	f()
	return &mockResult{}
}

func TestPool_Errors(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	pool.Submit(&mockJob{shouldErr: true})
	pool.Submit(&mockJob{})

	failed := 0
	for _, r := range pool.Wait() {
		if r.GetError() != nil {
			failed++
		}
	}
	assert.Equal(t, 1, failed)
}

func TestPool_PanicBecomesErrorResult(t *testing.T) {
	pool := NewPool(1)
	pool.Start()

	pool.Submit(&mockJob{panics: true})
	pool.Submit(&mockJob{})

	results := pool.Wait()
	require.Len(t, results, 2)

	failed := 0
	for _, r := range results {
		if err := r.GetError(); err != nil {
			failed++
			assert.Contains(t, err.Error(), "boom")
		}
	}
	assert.Equal(t, 1, failed)
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	pool := NewPool(2)
	pool.Start()
	pool.Shutdown()

	done := make(chan bool)
	go func() { done <- pool.Submit(&mockJob{}) }()

	select {
	case accepted := <-done:
		assert.False(t, accepted)
	case <-time.After(time.Second):
		t.Fatal("Submit after shutdown blocked")
	}
}

func TestPool_ShutdownCancelsRunningJob(t *testing.T) {
	pool := NewPool(1)
	pool.Start()

	started := make(chan struct{})
	pool.Submit(jobFunc(func() { close(started) }))
	<-started
	pool.Submit(&mockJob{duration: 5 * time.Second})

	done := make(chan struct{})
	go func() {
		pool.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown timed out")
	}
}

func TestPool_ParentContextCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPoolWithContext(ctx, 1)
	pool.Start()
	cancel()

	assert.False(t, pool.Submit(&mockJob{}))
	pool.Wait()
}
