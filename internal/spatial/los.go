package spatial

// LineOfSight traces a Bresenham line from 'from' to 'to' and reports
// whether it is unobstructed: blocked by any obstacle tile other than the
// two endpoints themselves (§4.C).
func LineOfSight(from, to Coord, obstacles ObstacleSet) bool {
	for _, c := range bresenhamLine(from, to) {
		if c == from || c == to {
			continue
		}
		if obstacles[c] {
			return false
		}
	}
	return true
}

// bresenhamLine returns every grid cell the line from a to b passes
// through, inclusive of both endpoints.
func bresenhamLine(a, b Coord) []Coord {
	x0, y0 := a.X, a.Y
	x1, y1 := b.X, b.Y

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 >= x1 {
		sx = -1
	}
	sy := 1
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy

	var out []Coord
	x, y := x0, y0
	for {
		out = append(out, Coord{X: x, Y: y})
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
	return out
}
