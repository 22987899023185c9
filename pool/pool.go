// ABOUTME: Fixed-size worker pool with a shared FIFO task queue
// ABOUTME: Workers self-terminate once every worker is simultaneously idle

// Package pool implements a fixed-size worker pool for workloads where tasks
// spawn further tasks while running. The pool decides on its own when all
// work has drained: an empty queue alone proves nothing (a running task may
// still enqueue a successor), so workers track how many of them are idle and
// stop only when every worker is idle at the same time with nothing queued.
package pool

import "sync"

// Task is a unit of deferred work: an action, the argument it owns, and an
// optional cleanup for that argument. A task is destroyed exactly once,
// right after its action runs or when Destroy purges it.
type Task struct {
	action  func(any)
	arg     any
	cleanup func(any)
}

// NewTask packages an action with its argument. Ownership of arg transfers
// to the task. cleanup may be nil; when set it runs on arg at destruction.
func NewTask(action func(any), arg any, cleanup func(any)) *Task {
	return &Task{action: action, arg: arg, cleanup: cleanup}
}

// destroy releases the task's argument. Called exactly once per task.
func (t *Task) destroy() {
	if t.cleanup != nil {
		t.cleanup(t.arg)
	}
}

// Pool runs tasks on a fixed set of workers draining one shared FIFO queue.
// Submit is safe from any goroutine, including from inside a running task's
// action, which is how graph-style workloads fan out. Join returns once the
// pool has detected that no worker can ever produce or consume more work.
type Pool struct {
	mu   sync.Mutex
	cond *sync.Cond

	queue   []*Task
	workers int
	waiting int  // workers currently idle: blocked or about to block
	active  bool // flips to false exactly once, never back
	started bool // set by the first Submit ever

	wg sync.WaitGroup
}

// New creates a pool and starts its workers immediately. They park on the
// condition variable until the first Submit.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	p := &Pool{
		workers: workers,
		active:  true,
	}
	p.cond = sync.NewCond(&p.mu)

	for i := 0; i < workers; i++ {
		p.wg.Add(1)

		go func() {
			defer p.wg.Done()
			p.worker()
		}()
	}

	return p
}

// Submit appends a task to the queue and wakes an idle worker. It panics if
// the pool has already stopped: no worker would ever run the task.
func (p *Pool) Submit(action func(any), arg any, cleanup func(any)) {
	t := NewTask(action, arg, cleanup)

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.active {
		panic("pool: Submit on a stopped pool")
	}

	p.started = true
	p.queue = append(p.queue, t)
	p.cond.Signal()
}

// dequeue tries to fetch the head task. The waiting counter is raised before
// inspecting the queue and lowered again only on success, so a nil return
// leaves this worker counted as idle. The termination check in worker reads
// that counter, which is why both live under the same mutex.
func (p *Pool) dequeue() *Task {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.waiting++

	if len(p.queue) > 0 && p.active {
		t := p.queue[0]
		p.queue = p.queue[1:]
		p.waiting--

		return t
	}

	return nil
}

// worker is the loop each pool goroutine runs: fetch, execute, repeat. After
// a failed fetch it re-takes the lock and decides between three outcomes:
// the pool already stopped, this worker is the last one standing and stops
// the pool itself, or it parks until an enqueue or the stop broadcast wakes
// it. Before the first Submit workers only ever park; a freshly created idle
// pool must not conclude that it is finished.
func (p *Pool) worker() {
	for {
		t := p.dequeue()
		if t != nil {
			t.action(t.arg)
			t.destroy()

			continue
		}

		p.mu.Lock()

		if !p.active {
			p.mu.Unlock()

			return
		}

		if p.started && p.waiting == p.workers {
			// Every worker is idle with an empty queue, so no task is
			// mid-execution and nothing can ever be enqueued again.
			p.active = false
			p.cond.Broadcast()
			p.mu.Unlock()

			return
		}

		if len(p.queue) == 0 {
			p.cond.Wait()
		}

		// Leaving the idle state: hand back the speculative count from
		// dequeue before retrying, the next dequeue raises it again.
		p.waiting--
		p.mu.Unlock()
	}
}

// Join blocks until every worker has exited. Call it once, after the seed
// task has been submitted. Joining a pool that never receives a single task
// blocks forever, since the workers stay parked waiting for work to start.
func (p *Pool) Join() {
	p.wg.Wait()
}

// Destroy purges any tasks still sitting in the queue, running their
// cleanups. Only call it after Join; on the normal path the queue is already
// empty and this is a no-op.
func (p *Pool) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.active = false

	for _, t := range p.queue {
		t.destroy()
	}

	p.queue = nil
}
