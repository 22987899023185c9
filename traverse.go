// ABOUTME: Parallel connected-component sum over a graph
// ABOUTME: Node tasks mark visits, accumulate the sum, and expand unvisited neighbours

package main

import (
	"sync"

	"graphsum/graph"
	"graphsum/pool"
)

// Traversal computes component sums for a graph through a worker pool. The
// pool guarantees scheduling and termination only; visited markers and the
// running sum are client state, each behind its own narrow lock so unrelated
// node tasks never serialize on the pool's mutex.
type Traversal struct {
	g *graph.Graph

	visitMu   sync.Mutex
	visited   []bool
	component []int // component id per node, -1 until visited
	current   int   // component id of the traversal in flight
	count     int   // total visited nodes across all components

	sumMu sync.Mutex
	sum   int

	tracker *progressTracker

	p *pool.Pool // pool of the component traversal in flight
}

// NewTraversal prepares a traversal over g. tracker may be nil when no
// progress reporting is wanted.
func NewTraversal(g *graph.Graph, tracker *progressTracker) *Traversal {
	component := make([]int, g.Len())
	for i := range component {
		component[i] = -1
	}

	return &Traversal{
		g:         g,
		visited:   make([]bool, g.Len()),
		component: component,
		current:   -1,
		tracker:   tracker,
	}
}

// SumComponent traverses the component containing seed on a fresh pool of
// the given worker count. Does nothing if an earlier call already visited
// the seed. Not safe for concurrent use; run components one after another.
func (tr *Traversal) SumComponent(seed, workers int) {
	tr.visitMu.Lock()
	already := tr.visited[seed]
	if !already {
		tr.current++
	}
	tr.visitMu.Unlock()

	if already {
		return
	}

	tr.p = pool.New(workers)
	tr.p.Submit(tr.processNode, seed, nil)
	tr.p.Join()
	tr.p.Destroy()
	tr.p = nil
}

// SumAll visits every component by seeding each still-unvisited node in turn.
func (tr *Traversal) SumAll(workers int) {
	for id := range tr.g.Values {
		tr.SumComponent(id, workers)
	}
}

// processNode is the task action: claim the node, add its value to the sum,
// and submit tasks for unvisited neighbours. Duplicate tasks for the same
// node are expected when workers race to expand it; the visited check makes
// the later ones no-ops.
func (tr *Traversal) processNode(arg any) {
	id := arg.(int)

	tr.visitMu.Lock()
	if tr.visited[id] {
		tr.visitMu.Unlock()

		return
	}

	tr.visited[id] = true
	tr.component[id] = tr.current
	tr.count++
	visited := tr.count
	tr.visitMu.Unlock()

	tr.sumMu.Lock()
	tr.sum += tr.g.Values[id]
	sum := tr.sum
	tr.sumMu.Unlock()

	if tr.tracker != nil {
		tr.tracker.sendUpdate(visited, sum)
	}

	// Expansion holds the visit lock so a neighbour cannot flip to visited
	// between the check and the submit. A stale submit would still be
	// harmless, this just cuts down duplicate tasks.
	tr.visitMu.Lock()
	for _, n := range tr.g.Neighbors[id] {
		if !tr.visited[n] {
			tr.p.Submit(tr.processNode, n, nil)
		}
	}
	tr.visitMu.Unlock()
}

// Sum returns the running total over all visited nodes.
func (tr *Traversal) Sum() int {
	tr.sumMu.Lock()
	defer tr.sumMu.Unlock()

	return tr.sum
}

// Result is a snapshot of a finished traversal
type Result struct {
	Values    []int
	Component []int // component id per node, -1 when never visited
	Sums      []int // value sum per component
	Total     int
	Visited   int
}

// Result snapshots the traversal. Call after the component runs have
// finished; it is not synchronized against in-flight tasks.
func (tr *Traversal) Result() *Result {
	res := &Result{
		Values:    tr.g.Values,
		Component: make([]int, len(tr.component)),
		Sums:      make([]int, tr.current+1),
		Total:     tr.sum,
		Visited:   tr.count,
	}
	copy(res.Component, tr.component)

	for id, c := range tr.component {
		if c >= 0 {
			res.Sums[c] += tr.g.Values[id]
		}
	}

	return res
}
