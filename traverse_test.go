// ABOUTME: Tests for parallel component-sum traversal behavior
// ABOUTME: Validates chain, disconnected, single-worker and racing-expansion scenarios

package main

import (
	"strings"
	"testing"

	"graphsum/graph"
)

// mustParse builds a graph from the text format or fails the test.
func mustParse(t *testing.T, input string) *graph.Graph {
	t.Helper()

	g, err := graph.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	return g
}

func TestChainComponentSum(t *testing.T) {
	// Nodes 0-1-2-3 in a chain with values 10,20,30,40: seeding node 0
	// must visit each node exactly once and sum to 100.
	g := mustParse(t, "4 3\n10 20 30 40\n0 1\n1 2\n2 3\n")

	tr := NewTraversal(g, nil)
	tr.SumComponent(0, 4)

	if got := tr.Sum(); got != 100 {
		t.Errorf("Sum() = %d, want 100", got)
	}

	res := tr.Result()
	if res.Visited != 4 {
		t.Errorf("visited %d nodes, want 4", res.Visited)
	}

	for id, c := range res.Component {
		if c != 0 {
			t.Errorf("node %d in component %d, want 0", id, c)
		}
	}
}

func TestDisconnectedNodeUntouched(t *testing.T) {
	// Node 3 has no edges to 0-2; seeding node 0 yields 60 and leaves
	// node 3 unvisited.
	g := mustParse(t, "4 2\n10 20 30 40\n0 1\n1 2\n")

	tr := NewTraversal(g, nil)
	tr.SumComponent(0, 4)

	if got := tr.Sum(); got != 60 {
		t.Errorf("Sum() = %d, want 60", got)
	}

	res := tr.Result()
	if res.Component[3] != -1 {
		t.Errorf("node 3 in component %d, want -1 (unvisited)", res.Component[3])
	}
	if res.Visited != 3 {
		t.Errorf("visited %d nodes, want 3", res.Visited)
	}
}

func TestSingleWorkerMatchesMultiWorker(t *testing.T) {
	input := "4 3\n10 20 30 40\n0 1\n1 2\n2 3\n"

	for _, workers := range []int{1, 4, 16} {
		tr := NewTraversal(mustParse(t, input), nil)
		tr.SumComponent(0, workers)

		if got := tr.Sum(); got != 100 {
			t.Errorf("workers=%d: Sum() = %d, want 100", workers, got)
		}
	}
}

func TestSumAllComponents(t *testing.T) {
	// Two components: 0-1-2 chain and isolated node 3.
	g := mustParse(t, "4 2\n10 20 30 40\n0 1\n1 2\n")

	tr := NewTraversal(g, nil)
	tr.SumAll(4)

	res := tr.Result()

	if res.Total != 100 {
		t.Errorf("Total = %d, want 100", res.Total)
	}
	if len(res.Sums) != 2 {
		t.Fatalf("found %d components, want 2", len(res.Sums))
	}
	if res.Sums[0] != 60 || res.Sums[1] != 40 {
		t.Errorf("component sums = %v, want [60 40]", res.Sums)
	}
}

func TestDenseGraphVisitsEachNodeOnce(t *testing.T) {
	// A hub node linked to every other node, plus a ring over all nodes,
	// gives many workers the chance to race on the same neighbours. Each
	// node must still count exactly once.
	const n = 200

	g := &graph.Graph{
		Values:    make([]int, n),
		Neighbors: make([][]int, n),
	}
	for i := 0; i < n; i++ {
		g.Values[i] = i + 1
	}
	for i := 1; i < n; i++ {
		g.AddEdge(0, i)
	}
	for i := 0; i < n; i++ {
		g.AddEdge(i, (i+1)%n)
	}

	tr := NewTraversal(g, nil)
	tr.SumComponent(0, 8)

	want := n * (n + 1) / 2
	if got := tr.Sum(); got != want {
		t.Errorf("Sum() = %d, want %d", got, want)
	}

	if res := tr.Result(); res.Visited != n {
		t.Errorf("visited %d nodes, want %d", res.Visited, n)
	}
}

func TestReseedingVisitedComponentIsNoOp(t *testing.T) {
	g := mustParse(t, "2 1\n5 7\n0 1\n")

	tr := NewTraversal(g, nil)
	tr.SumComponent(0, 2)
	tr.SumComponent(1, 2) // same component, already visited

	if got := tr.Sum(); got != 12 {
		t.Errorf("Sum() = %d, want 12", got)
	}

	res := tr.Result()
	if len(res.Sums) != 1 {
		t.Errorf("found %d components, want 1", len(res.Sums))
	}
}

func TestProgressUpdatesReachChannel(t *testing.T) {
	g := mustParse(t, "3 2\n1 2 3\n0 1\n1 2\n")

	updates := make(chan VisitUpdate, 16)
	tracker := newProgressTracker(updates, g.Len())

	tr := NewTraversal(g, tracker)
	tr.SumComponent(0, 2)
	tracker.close()

	var last VisitUpdate
	got := 0
	for u := range updates {
		last = u
		got++
	}

	if got == 0 {
		t.Fatal("no progress updates received")
	}
	if last.Total != 3 {
		t.Errorf("update Total = %d, want 3", last.Total)
	}
}
