package hex

import "container/heap"

// AStar computes a shortest path using the A* algorithm.
// - neighbors: returns adjacent coordinates to explore
// - cost: edge cost between two adjacent coordinates (values < 1 count as 1)
// The heuristic is hex distance to goal. Returns the path including start and
// goal, or nil if no path exists.
func AStar(start, goal Coord, neighbors func(c Coord) []Coord, cost func(a, b Coord) int) []Coord {
	if start == goal {
		return []Coord{start}
	}
	open := &nodePQ{}
	heap.Init(open)
	heap.Push(open, &pqNode{c: start, f: start.Distance(goal)})

	g := map[Coord]int{start: 0}
	came := map[Coord]Coord{}
	closed := map[Coord]bool{}

	for open.Len() > 0 {
		cur := heap.Pop(open).(*pqNode).c
		if closed[cur] {
			continue
		}
		closed[cur] = true
		if cur == goal {
			path := []Coord{goal}
			for k := goal; k != start; {
				k = came[k]
				path = append(path, k)
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path
		}
		for _, nb := range neighbors(cur) {
			if closed[nb] {
				continue
			}
			step := 1
			if cost != nil {
				if s := cost(cur, nb); s > 1 {
					step = s
				}
			}
			tentative := g[cur] + step
			if old, ok := g[nb]; !ok || tentative < old {
				g[nb] = tentative
				came[nb] = cur
				heap.Push(open, &pqNode{c: nb, f: tentative + nb.Distance(goal)})
			}
		}
	}
	return nil
}

// NeighborsIn returns a neighbor function limited to cells for which
// passable returns true.
func NeighborsIn(passable func(c Coord) bool) func(c Coord) []Coord {
	return func(c Coord) []Coord {
		out := make([]Coord, 0, 6)
		for _, nb := range c.Neighbors() {
			if passable(nb) {
				out = append(out, nb)
			}
		}
		return out
	}
}

type pqNode struct {
	c Coord
	f int
}

type nodePQ []*pqNode

func (p nodePQ) Len() int           { return len(p) }
func (p nodePQ) Less(i, j int) bool { return p[i].f < p[j].f }
func (p nodePQ) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }
func (p *nodePQ) Push(x any)        { *p = append(*p, x.(*pqNode)) }
func (p *nodePQ) Pop() any {
	old := *p
	n := len(old)
	x := old[n-1]
	*p = old[:n-1]
	return x
}
