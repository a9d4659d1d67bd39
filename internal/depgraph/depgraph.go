// Package depgraph builds a directed file import graph from resolved imports.
package depgraph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dominikbraun/graph"
)

// Traversal limits
const (
	DefaultDepth = 1
	MaxDepth     = 10
)

// Graph is an immutable file -> imported file graph.
type Graph struct {
	g            graph.Graph[string, string]
	dependencies map[string]map[string]graph.Edge[string]
	dependents   map[string]map[string]graph.Edge[string]
	selfLoops    map[string]bool
}

// Build creates a graph from a map of file to the files it imports. Targets that
// are not keys of edges are added as vertices too.
func Build(edges map[string][]string) (*Graph, error) {
	g := graph.New(graph.StringHash, graph.Directed())
	selfLoops := make(map[string]bool)

	addVertex := func(v string) error {
		if err := g.AddVertex(v); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return fmt.Errorf("failed to add file %s: %w", v, err)
		}
		return nil
	}

	for _, from := range sortedKeys(edges) {
		if err := addVertex(from); err != nil {
			return nil, err
		}
		for _, to := range edges[from] {
			if err := addVertex(to); err != nil {
				return nil, err
			}
			if from == to {
				selfLoops[from] = true
				continue
			}
			if err := g.AddEdge(from, to); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return nil, fmt.Errorf("failed to add import %s -> %s: %w", from, to, err)
			}
		}
	}

	adjacency, err := g.AdjacencyMap()
	if err != nil {
		return nil, err
	}
	predecessors, err := g.PredecessorMap()
	if err != nil {
		return nil, err
	}

	return &Graph{
		g:            g,
		dependencies: adjacency,
		dependents:   predecessors,
		selfLoops:    selfLoops,
	}, nil
}

// Files returns every file in the graph, sorted.
func (g *Graph) Files() []string {
	files := make([]string, 0, len(g.dependencies))
	for f := range g.dependencies {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// EdgeCount returns the number of import edges, self-imports included.
func (g *Graph) EdgeCount() int {
	n := len(g.selfLoops)
	for _, targets := range g.dependencies {
		n += len(targets)
	}
	return n
}

// Dependencies returns the files reachable from file within depth hops, sorted.
// depth <= 0 means DefaultDepth; depth is capped at MaxDepth.
func (g *Graph) Dependencies(file string, depth int) []string {
	return g.walk(file, depth, g.dependencies)
}

// Dependents returns the files that reach file within depth hops, sorted.
func (g *Graph) Dependents(file string, depth int) []string {
	return g.walk(file, depth, g.dependents)
}

func (g *Graph) walk(start string, depth int, next map[string]map[string]graph.Edge[string]) []string {
	result := []string{}
	if _, ok := next[start]; !ok {
		return result
	}

	if depth <= 0 {
		depth = DefaultDepth
	}
	if depth > MaxDepth {
		depth = MaxDepth
	}

	visited := map[string]bool{start: true}
	frontier := []string{start}
	if g.selfLoops[start] {
		result = append(result, start)
	}

	for level := 0; level < depth && len(frontier) > 0; level++ {
		var following []string
		for _, node := range frontier {
			for neighbour := range next[node] {
				if visited[neighbour] {
					continue
				}
				visited[neighbour] = true
				result = append(result, neighbour)
				following = append(following, neighbour)
			}
		}
		frontier = following
	}

	sort.Strings(result)
	return result
}

// Cycles returns every import cycle: strongly connected components with more than
// one file, plus files that import themselves. Members are sorted within a cycle and
// cycles are sorted by their first member, then by size.
func (g *Graph) Cycles() ([][]string, error) {
	components, err := graph.StronglyConnectedComponents(g.g)
	if err != nil {
		return nil, fmt.Errorf("failed to compute cycles: %w", err)
	}

	cycles := [][]string{}
	for _, component := range components {
		if len(component) < 2 {
			continue
		}
		members := append([]string{}, component...)
		sort.Strings(members)
		cycles = append(cycles, members)
	}
	for file := range g.selfLoops {
		cycles = append(cycles, []string{file})
	}

	sort.Slice(cycles, func(i, j int) bool {
		if cycles[i][0] != cycles[j][0] {
			return cycles[i][0] < cycles[j][0]
		}
		return len(cycles[i]) < len(cycles[j])
	})
	return cycles, nil
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
