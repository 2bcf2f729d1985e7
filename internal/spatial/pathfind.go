package spatial

import "container/heap"

// FindPath runs A* from 'from' to 'to' with a Chebyshev heuristic, ties
// broken by lexicographic (y,x) order, honoring the diagonal-cut rule in
// neighbors8 (§4.C). Returns the ordered list of tiles from 'from' to 'to'
// inclusive, or (nil, false) if no path exists.
func FindPath(from, to Coord, obstacles ObstacleSet) ([]Coord, bool) {
	if obstacles[to] {
		return nil, false
	}
	if from == to {
		return []Coord{from}, true
	}

	// The grid is unbounded, so the search is confined to the bounding box
	// of both endpoints and every obstacle, grown by one tile. That rim is
	// always free, so a path leaving the box has one no longer inside it,
	// and the search ends with (nil, false) when 'to' is walled in.
	minX, maxX := min(from.X, to.X)-1, max(from.X, to.X)+1
	minY, maxY := min(from.Y, to.Y)-1, max(from.Y, to.Y)+1
	for c := range obstacles {
		minX, maxX = min(minX, c.X-1), max(maxX, c.X+1)
		minY, maxY = min(minY, c.Y-1), max(maxY, c.Y+1)
	}

	open := &nodeHeap{}
	heap.Init(open)
	heap.Push(open, &pathNode{coord: from, g: 0, f: Chebyshev(from, to)})

	cameFrom := make(map[Coord]Coord)
	gScore := map[Coord]int{from: 0}
	closed := make(map[Coord]bool)

	for open.Len() > 0 {
		cur := heap.Pop(open).(*pathNode)
		if closed[cur.coord] {
			continue
		}
		if cur.coord == to {
			return reconstructPath(cameFrom, cur.coord), true
		}
		closed[cur.coord] = true

		for _, n := range neighbors8(cur.coord, obstacles) {
			if obstacles[n] || closed[n] {
				continue
			}
			if n.X < minX || n.X > maxX || n.Y < minY || n.Y > maxY {
				continue
			}
			tentativeG := gScore[cur.coord] + 1
			if existing, ok := gScore[n]; ok && tentativeG >= existing {
				continue
			}
			cameFrom[n] = cur.coord
			gScore[n] = tentativeG
			heap.Push(open, &pathNode{coord: n, g: tentativeG, f: tentativeG + Chebyshev(n, to)})
		}
	}
	return nil, false
}

func reconstructPath(cameFrom map[Coord]Coord, end Coord) []Coord {
	path := []Coord{end}
	cur := end
	for {
		prev, ok := cameFrom[cur]
		if !ok {
			break
		}
		path = append(path, prev)
		cur = prev
	}
	// path was built end-to-start; reverse it.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

type pathNode struct {
	coord Coord
	g, f  int
}

// nodeHeap is a container/heap priority queue ordered by f-score, with ties
// broken lexicographically by (y,x) per spec.md §4.C.
type nodeHeap []*pathNode

func (h nodeHeap) Len() int { return len(h) }

func (h nodeHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	if h[i].coord.Y != h[j].coord.Y {
		return h[i].coord.Y < h[j].coord.Y
	}
	return h[i].coord.X < h[j].coord.X
}

func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x any) {
	*h = append(*h, x.(*pathNode))
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
