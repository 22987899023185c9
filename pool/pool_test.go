// ABOUTME: Tests for worker pool scheduling and termination detection
// ABOUTME: Covers exactly-once execution, FIFO order, recursive submission and purge

package pool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// joinWithTimeout fails the test if the pool does not self-terminate.
func joinWithTimeout(t *testing.T, p *Pool) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		p.Join()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("pool did not terminate within 5s")
	}
}

// submitBatch feeds tasks through a gate task that keeps one worker busy
// until the whole batch is queued. The pool only terminates once every
// worker is idle at the same instant, so holding a worker inside the gate
// keeps the pool alive across the submission loop.
func submitBatch(p *Pool, n int, action func(arg any), cleanup func(any)) {
	gate := make(chan struct{})
	p.Submit(func(any) { <-gate }, nil, nil)

	for i := 0; i < n; i++ {
		p.Submit(action, i, cleanup)
	}

	close(gate)
}

func TestExecutesEveryTaskExactlyOnce(t *testing.T) {
	const tasks = 1000

	p := New(4)

	executions := make([]int32, tasks)
	submitBatch(p, tasks, func(arg any) {
		atomic.AddInt32(&executions[arg.(int)], 1)
	}, nil)

	joinWithTimeout(t, p)
	p.Destroy()

	for i, n := range executions {
		if n != 1 {
			t.Errorf("task %d executed %d times, want 1", i, n)
		}
	}
}

func TestRecursiveSubmission(t *testing.T) {
	// Each task spawns two children until depth 0; a full binary tree of
	// depth 10 means 2^11-1 executions.
	const depth = 10

	p := New(4)

	var count int64

	var spawn func(arg any)
	spawn = func(arg any) {
		atomic.AddInt64(&count, 1)

		d := arg.(int)
		if d == 0 {
			return
		}

		p.Submit(spawn, d-1, nil)
		p.Submit(spawn, d-1, nil)
	}

	p.Submit(spawn, depth, nil)
	joinWithTimeout(t, p)
	p.Destroy()

	want := int64(1)<<(depth+1) - 1
	if count != want {
		t.Errorf("executed %d tasks, want %d", count, want)
	}
}

func TestFIFOOrderSingleWorker(t *testing.T) {
	// With one worker, execution order equals queue order. The seed task
	// submits T0..T4 in order; they must run in that order.
	p := New(1)

	var order []int

	p.Submit(func(any) {
		for i := 0; i < 5; i++ {
			p.Submit(func(arg any) {
				order = append(order, arg.(int))
			}, i, nil)
		}
	}, nil, nil)

	joinWithTimeout(t, p)
	p.Destroy()

	if len(order) != 5 {
		t.Fatalf("executed %d tasks, want 5", len(order))
	}

	for i, got := range order {
		if got != i {
			t.Errorf("position %d executed task %d, want %d", i, got, i)
		}
	}
}

func TestSingleWorkerMatchesMultiWorker(t *testing.T) {
	run := func(workers int) int64 {
		p := New(workers)

		var sum int64
		submitBatch(p, 100, func(arg any) {
			atomic.AddInt64(&sum, int64(arg.(int))+1)
		}, nil)

		joinWithTimeout(t, p)
		p.Destroy()

		return sum
	}

	serial := run(1)
	parallel := run(8)

	if serial != parallel {
		t.Errorf("1-worker sum %d != 8-worker sum %d", serial, parallel)
	}
	if serial != 5050 {
		t.Errorf("sum = %d, want 5050", serial)
	}
}

func TestTerminationLiveness(t *testing.T) {
	// A finite, non-self-replenishing workload must drain and stop without
	// any external close signal.
	p := New(4)

	submitBatch(p, 50, func(any) {
		time.Sleep(time.Millisecond)
	}, nil)

	joinWithTimeout(t, p)
	p.Destroy()
}

func TestWorkersParkUntilFirstSubmit(t *testing.T) {
	// Workers spawned on an empty pool must not conclude the pool is done
	// before the seed arrives, even when given time to race.
	p := New(4)

	time.Sleep(50 * time.Millisecond)

	var ran int32
	p.Submit(func(any) {
		atomic.AddInt32(&ran, 1)
	}, nil, nil)

	joinWithTimeout(t, p)
	p.Destroy()

	if ran != 1 {
		t.Errorf("seed task executed %d times, want 1", ran)
	}
}

func TestCleanupRunsAfterExecution(t *testing.T) {
	p := New(2)

	var mu sync.Mutex
	var executed, cleaned []int

	submitBatch(p, 10, func(arg any) {
		mu.Lock()
		executed = append(executed, arg.(int))
		mu.Unlock()
	}, func(arg any) {
		mu.Lock()
		cleaned = append(cleaned, arg.(int))
		mu.Unlock()
	})

	joinWithTimeout(t, p)
	p.Destroy()

	if len(executed) != 10 || len(cleaned) != 10 {
		t.Errorf("executed %d, cleaned %d, want 10 and 10", len(executed), len(cleaned))
	}
}

func TestDestroyPurgesQueuedTasks(t *testing.T) {
	// Build a pool without workers so tasks stay queued, then check Destroy
	// runs every cleanup exactly once.
	p := &Pool{workers: 1, active: true}
	p.cond = sync.NewCond(&p.mu)

	var cleaned int
	for i := 0; i < 3; i++ {
		p.queue = append(p.queue, NewTask(func(any) {
			t.Error("purged task must not execute")
		}, i, func(any) {
			cleaned++
		}))
	}

	p.Destroy()

	if cleaned != 3 {
		t.Errorf("cleaned %d tasks, want 3", cleaned)
	}
	if len(p.queue) != 0 {
		t.Errorf("queue holds %d tasks after Destroy, want 0", len(p.queue))
	}
}

func TestSubmitAfterStopPanics(t *testing.T) {
	p := New(2)
	p.Submit(func(any) {}, nil, nil)
	joinWithTimeout(t, p)

	defer func() {
		if recover() == nil {
			t.Error("expected panic from Submit on a stopped pool")
		}
	}()

	p.Submit(func(any) {}, nil, nil)
}

func TestActiveFlipsExactlyOnce(t *testing.T) {
	p := New(4)

	submitBatch(p, 20, func(any) {}, nil)

	joinWithTimeout(t, p)

	p.mu.Lock()
	active := p.active
	waiting := p.waiting
	p.mu.Unlock()

	if active {
		t.Error("pool still active after all workers joined")
	}
	if waiting < 0 || waiting > p.workers {
		t.Errorf("waiting = %d, want within [0, %d]", waiting, p.workers)
	}

	p.Destroy()
}
