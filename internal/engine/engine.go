// Package engine answers reachability queries over a topology. The engine is
// stateless between calls: every query recomputes from the topology's
// current graph view and never mutates it.
package engine

import (
	"fmt"

	"netsim/internal/domain"
)

// Engine runs connectivity simulations against a single topology.
type Engine struct {
	topo *domain.Topology
	opts Options
}

// New creates an engine with default simulation options.
func New(topo *domain.Topology) *Engine {
	return NewWithOptions(topo, DefaultOptions())
}

// NewWithOptions creates an engine with explicit simulation options.
func NewWithOptions(topo *domain.Topology, opts Options) *Engine {
	if opts.TTL <= 0 {
		opts.TTL = DefaultOptions().TTL
	}
	return &Engine{topo: topo, opts: opts}
}

// PingResult reports the outcome of a reachability query. An unreachable
// destination is a normal result, not an error: Reachable is false and Path
// is empty.
type PingResult struct {
	Source      string   `json:"source"`
	Destination string   `json:"destination"`
	Reachable   bool     `json:"reachable"`
	Path        []string `json:"path"`
	Hops        int      `json:"hops"`
}

// Ping reports whether destination is reachable from source and returns the
// shortest path between them, source and destination inclusive. It fails
// with ErrNotFound if either device is unknown.
//
// Among equal-length paths the lexicographically smallest device-name
// sequence wins. The tie-break is applied on the canonical orientation
// (smaller endpoint first) and the result reversed as needed, so
// Ping(a, b).Path is always the exact reverse of Ping(b, a).Path.
func (e *Engine) Ping(source, destination string) (*PingResult, error) {
	if !e.topo.Contains(source) {
		return nil, fmt.Errorf("%w: device %q", domain.ErrNotFound, source)
	}
	if !e.topo.Contains(destination) {
		return nil, fmt.Errorf("%w: device %q", domain.ErrNotFound, destination)
	}

	res := &PingResult{Source: source, Destination: destination, Path: []string{}}

	from, to := source, destination
	flipped := false
	if from > to {
		from, to = to, from
		flipped = true
	}

	adj := e.topo.Adjacency()
	path := shortestPath(adj, from, to)
	if path == nil {
		return res, nil
	}
	if flipped {
		reverse(path)
	}
	res.Reachable = true
	res.Path = path
	res.Hops = len(path) - 1
	return res, nil
}

// RouteMatrix holds pairwise reachability for every device in the topology.
type RouteMatrix struct {
	Devices   []string
	Reachable map[string]map[string]bool
}

// Routes computes the full reachability matrix. Only the boolean is needed
// here, so each source uses a single BFS flood instead of per-pair pings.
func (e *Engine) Routes() *RouteMatrix {
	devices := e.topo.DeviceNames()
	adj := e.topo.Adjacency()

	matrix := &RouteMatrix{
		Devices:   devices,
		Reachable: make(map[string]map[string]bool, len(devices)),
	}
	for _, src := range devices {
		visited := flood(adj, src)
		row := make(map[string]bool, len(devices))
		for _, dst := range devices {
			row[dst] = visited[dst]
		}
		matrix.Reachable[src] = row
	}
	return matrix
}

// shortestPath returns the lexicographically smallest shortest path from src
// to dst, or nil when dst is unreachable. Distances are computed from dst by
// BFS, then the path is walked greedily from src taking the smallest-named
// neighbor that stays on a shortest path.
func shortestPath(adj map[string][]string, src, dst string) []string {
	if src == dst {
		return []string{src}
	}

	dist := map[string]int{dst: 0}
	queue := []string{dst}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range adj[cur] {
			if _, seen := dist[n]; !seen {
				dist[n] = dist[cur] + 1
				queue = append(queue, n)
			}
		}
	}

	if _, ok := dist[src]; !ok {
		return nil
	}

	path := []string{src}
	for cur := src; cur != dst; {
		for _, n := range adj[cur] {
			// Neighbors are sorted, so the first one on a shortest path is
			// the lexicographically smallest choice.
			if d, ok := dist[n]; ok && d == dist[cur]-1 {
				cur = n
				path = append(path, n)
				break
			}
		}
	}
	return path
}

func flood(adj map[string][]string, src string) map[string]bool {
	visited := map[string]bool{src: true}
	queue := []string{src}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range adj[cur] {
			if !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
	return visited
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
