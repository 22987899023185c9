// ABOUTME: Handles reading graph files into an adjacency-list representation
// ABOUTME: Parses node values and undirected edges from a plain text format

// Package graph reads undirected graphs with integer node values from plain
// text files. The format is line based: blank lines and lines starting with
// '#' are ignored; the first data line holds "numNodes numEdges", the second
// holds numNodes space-separated node values, and each following data line
// holds one undirected edge "u v".
package graph

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Graph is an undirected graph: one integer value per node plus an
// adjacency list. Node ids are 0-based indices into Values.
type Graph struct {
	Values    []int
	Neighbors [][]int
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.Values)
}

// AddEdge links u and v in both directions. Self-loops are recorded once.
func (g *Graph) AddEdge(u, v int) {
	g.Neighbors[u] = append(g.Neighbors[u], v)
	if u != v {
		g.Neighbors[v] = append(g.Neighbors[v], u)
	}
}

// Read loads a graph from a file on disk.
func Read(path string) (*Graph, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph: %w", err)
	}

	defer func() {
		_ = file.Close() // Explicitly ignore error for read-only file
	}()

	g, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return g, nil
}

// Parse reads the text format from r. It validates that every edge endpoint
// is a known node and that the declared counts match the data.
func Parse(r io.Reader) (*Graph, error) {
	scanner := bufio.NewScanner(r)

	header, err := nextDataLine(scanner)
	if err != nil {
		return nil, fmt.Errorf("missing header line: %w", err)
	}

	numNodes, numEdges, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	g := &Graph{
		Values:    make([]int, numNodes),
		Neighbors: make([][]int, numNodes),
	}

	// A zero-node graph has no values line
	if numNodes > 0 {
		values, err := nextDataLine(scanner)
		if err != nil {
			return nil, fmt.Errorf("missing node values line: %w", err)
		}

		fields := strings.Fields(values)
		if len(fields) != numNodes {
			return nil, fmt.Errorf("expected %d node values, got %d", numNodes, len(fields))
		}

		for i, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("node %d has invalid value %q", i, f)
			}

			g.Values[i] = v
		}
	}

	for i := 0; i < numEdges; i++ {
		line, err := nextDataLine(scanner)
		if err != nil {
			return nil, fmt.Errorf("expected %d edges, got %d: %w", numEdges, i, err)
		}

		u, v, err := parseEdge(line, numNodes)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}

		g.AddEdge(u, v)
	}

	return g, nil
}

// nextDataLine advances the scanner past blanks and comments to the next
// line carrying data.
func nextDataLine(scanner *bufio.Scanner) (string, error) {
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		return line, nil
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("error reading graph: %w", err)
	}

	return "", fmt.Errorf("unexpected end of input")
}

// parseHeader reads the "numNodes numEdges" line.
func parseHeader(line string) (int, int, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("header must be \"numNodes numEdges\", got %q", line)
	}

	numNodes, err := strconv.Atoi(fields[0])
	if err != nil || numNodes < 0 {
		return 0, 0, fmt.Errorf("invalid node count %q", fields[0])
	}

	numEdges, err := strconv.Atoi(fields[1])
	if err != nil || numEdges < 0 {
		return 0, 0, fmt.Errorf("invalid edge count %q", fields[1])
	}

	return numNodes, numEdges, nil
}

// parseEdge reads a "u v" line and range-checks both endpoints.
func parseEdge(line string, numNodes int) (int, int, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("edge must be \"u v\", got %q", line)
	}

	u, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid endpoint %q", fields[0])
	}

	v, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid endpoint %q", fields[1])
	}

	if u < 0 || u >= numNodes || v < 0 || v >= numNodes {
		return 0, 0, fmt.Errorf("endpoints %d %d out of range [0, %d)", u, v, numNodes)
	}

	return u, v, nil
}
