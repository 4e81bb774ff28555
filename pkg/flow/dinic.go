// Package flow computes maximum flows with Dinic's algorithm.
package flow

import (
	"math"

	"github.com/lintang-b-s/ridematch/pkg/util"
)

const invalidLevel = -1

type edge struct {
	to       int
	capacity int
	flow     int
	// rev is the index of the reverse edge in adj[to]
	rev int
}

// Graph is a residual network on vertices 0..n-1.
type Graph struct {
	adj   [][]edge
	level []int
	next  []int
}

func NewGraph(n int) *Graph {
	return &Graph{
		adj:   make([][]edge, n),
		level: make([]int, n),
		next:  make([]int, n),
	}
}

func (g *Graph) NumberOfVertices() int {
	return len(g.adj)
}

// AddEdge adds u -> v with the given capacity and returns its position in the edges of u.
func (g *Graph) AddEdge(u, v, capacity int) int {
	g.adj[u] = append(g.adj[u], edge{to: v, capacity: capacity, rev: len(g.adj[v])})
	g.adj[v] = append(g.adj[v], edge{to: u, capacity: 0, rev: len(g.adj[u]) - 1})
	return len(g.adj[u]) - 1
}

// Flow is the flow on the i-th edge of u.
func (g *Graph) Flow(u, i int) int {
	return g.adj[u][i].flow
}

type Dinic struct {
	graph *Graph
}

func NewDinic(graph *Graph) *Dinic {
	return &Dinic{graph: graph}
}

func (d *Dinic) bfsLevelGraph(source, target int) bool {
	g := d.graph
	for v := range g.level {
		g.level[v] = invalidLevel
	}

	queue := make([]int, 0, len(g.adj))
	queue = append(queue, source)
	g.level[source] = 0

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		if u == target {
			break
		}
		for _, e := range g.adj[u] {
			if e.capacity-e.flow > 0 && g.level[e.to] == invalidLevel {
				g.level[e.to] = g.level[u] + 1
				queue = append(queue, e.to)
			}
		}
	}
	return g.level[target] != invalidLevel
}

func (d *Dinic) dfsAugmentPath(u, t, f int) int {
	if u == t || f == 0 {
		return f
	}

	g := d.graph
	for ; g.next[u] < len(g.adj[u]); g.next[u]++ {
		e := &g.adj[u][g.next[u]]
		if g.level[e.to] != g.level[u]+1 {
			continue
		}
		if pushed := d.dfsAugmentPath(e.to, t, util.MinInt(e.capacity-e.flow, f)); pushed > 0 {
			e.flow += pushed
			g.adj[e.to][e.rev].flow -= pushed
			return pushed
		}
	}
	return 0
}

/*
MaxFlow pushes flow from s to t until no augmenting path is left.

time complexity: O(V^2 * E), O(E * sqrt(V)) on unit capacity bipartite networks.
*/
func (d *Dinic) MaxFlow(s, t int) int {
	maxFlow := 0
	for d.bfsLevelGraph(s, t) {
		for i := range d.graph.next {
			d.graph.next[i] = 0
		}
		for {
			pushed := d.dfsAugmentPath(s, t, math.MaxInt)
			if pushed == 0 {
				break
			}
			maxFlow += pushed
		}
	}
	return maxFlow
}
