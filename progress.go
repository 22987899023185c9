// ABOUTME: Progress tracking and update management for the traversal
// ABOUTME: Handles visit-rate calculation and update channel communication

package main

import (
	"sync"
	"time"
)

// VisitUpdate carries a snapshot of traversal progress
type VisitUpdate struct {
	Visited     int
	Total       int
	Sum         int
	NodesPerSec float64
}

// progressTracker tracks progress update state. Node tasks on every worker
// report through it, so the rate bookkeeping has its own lock.
type progressTracker struct {
	updateChan chan<- VisitUpdate
	total      int

	mu        sync.Mutex
	lastTime  time.Time
	lastCount int
	closeOnce sync.Once
}

// newProgressTracker wires a tracker to an update channel. updateChan may be
// nil, which turns every sendUpdate into a no-op.
func newProgressTracker(updateChan chan<- VisitUpdate, total int) *progressTracker {
	return &progressTracker{
		updateChan: updateChan,
		total:      total,
		lastTime:   time.Now(),
	}
}

// sendUpdate sends a progress update to the channel if appropriate
func (pt *progressTracker) sendUpdate(visited, sum int) {
	if pt.updateChan == nil {
		return
	}

	pt.mu.Lock()

	// Calculate visit speed
	now := time.Now()
	elapsed := now.Sub(pt.lastTime).Seconds()
	nodesPerSec := 0.0
	if elapsed > 0 {
		nodesPerSec = float64(visited-pt.lastCount) / elapsed
	}

	pt.lastTime = now
	pt.lastCount = visited
	pt.mu.Unlock()

	select {
	case pt.updateChan <- VisitUpdate{
		Visited:     visited,
		Total:       pt.total,
		Sum:         sum,
		NodesPerSec: nodesPerSec,
	}:
	default:
		// Don't block a worker if the channel is full
	}
}

// close ensures the update channel is closed exactly once
func (pt *progressTracker) close() {
	if pt.updateChan != nil {
		pt.closeOnce.Do(func() { close(pt.updateChan) })
	}
}
