package worldgen

import "sort"

// GenerateRivers traces steepest-descent flow from every land cell to its
// downhill neighbor, accumulates flux, and keeps cells above fluxThreshold
// as river segments (§4.B.5). Grounded on the teacher's placeRivers/
// traceRiver (internal/world/generation.go), generalized from per-source
// random tracing to an every-cell steepest-descent accumulation so flux is
// exactly conserved and the result is guaranteed loop-free (§8 invariant 2):
// each cell flows to exactly one strictly-lower neighbor, so the segment
// set forms a forest of in-trees rooted at local minima/ocean — a DAG.
func GenerateRivers(w *World, elevation [][]int, fluxThreshold int) []*RiverSegment {
	height := len(elevation)
	if height == 0 {
		return nil
	}
	width := len(elevation[0])

	downhill := make(map[Coord]Coord)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if elevation[y][x] < SeaLevel {
				continue // ocean cells do not flow
			}
			best := Coord{X: x, Y: y}
			bestElev := elevation[y][x]
			for _, n := range Neighbors4(Coord{X: x, Y: y}) {
				if n.X < 0 || n.X >= width || n.Y < 0 || n.Y >= height {
					continue
				}
				if elevation[n.Y][n.X] < bestElev {
					bestElev = elevation[n.Y][n.X]
					best = n
				}
			}
			if best != (Coord{X: x, Y: y}) {
				downhill[Coord{X: x, Y: y}] = best
			}
		}
	}

	// Accumulate flux by processing cells from highest to lowest elevation,
	// so a cell's upstream contributions are folded in before it pushes
	// flux onward — this is what keeps total flux conserved end to end.
	order := make([]Coord, 0, len(downhill)+width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if elevation[y][x] >= SeaLevel {
				order = append(order, Coord{X: x, Y: y})
			}
		}
	}
	sort.Slice(order, func(i, j int) bool {
		ei := elevation[order[i].Y][order[i].X]
		ej := elevation[order[j].Y][order[j].X]
		if ei != ej {
			return ei > ej
		}
		if order[i].Y != order[j].Y {
			return order[i].Y < order[j].Y
		}
		return order[i].X < order[j].X
	})

	flux := make(map[Coord]int, len(order))
	for _, c := range order {
		flux[c]++ // every land cell contributes its own rainfall unit
	}
	for _, c := range order {
		if next, ok := downhill[c]; ok {
			flux[next] += flux[c]
		}
	}

	var segments []*RiverSegment
	for _, c := range order {
		next, ok := downhill[c]
		if !ok {
			continue
		}
		if flux[c] < fluxThreshold {
			continue
		}
		segments = append(segments, &RiverSegment{
			WorldID: w.ID,
			FromX:   c.X, FromY: c.Y,
			ToX: next.X, ToY: next.Y,
			Flux: flux[c],
		})
	}
	return segments
}
