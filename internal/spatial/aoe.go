package spatial

import (
	"math"
	"sort"
)

// Vec2 is a normalized-or-not 2D direction vector for cone/line AoE shapes.
type Vec2 struct {
	X, Y float64
}

// Normalize returns v scaled to unit length; the zero vector is returned
// unchanged.
func (v Vec2) Normalize() Vec2 {
	mag := math.Hypot(v.X, v.Y)
	if mag == 0 {
		return v
	}
	return Vec2{X: v.X / mag, Y: v.Y / mag}
}

// coneHalfAngle is the 60-degree total cone (30 degrees, or pi/6 radians,
// either side of the centerline) spec.md §4.C fixes.
const coneHalfAngle = math.Pi / 6

// Sphere returns the IDs of participants within radiusFeet of center by
// Euclidean distance (§4.C: "Euclidean distance <= radius/5" in tiles).
// excludeSelf, if non-empty, omits that participant ID from the result.
func Sphere(positions map[string]Coord, center Coord, radiusFeet int, excludeSelf string) []string {
	radiusTiles := float64(radiusFeet) / FeetPerTile
	var hits []string
	for id, c := range positions {
		if id == excludeSelf {
			continue
		}
		dx := float64(c.X - center.X)
		dy := float64(c.Y - center.Y)
		if math.Hypot(dx, dy) <= radiusTiles {
			hits = append(hits, id)
		}
	}
	sort.Strings(hits)
	return hits
}

// Cube returns the IDs of participants within an axis-aligned cube of side
// sizeFeet centered on origin (§4.C).
func Cube(positions map[string]Coord, origin Coord, sizeFeet int, excludeSelf string) []string {
	halfTiles := float64(sizeFeet) / FeetPerTile / 2
	var hits []string
	for id, c := range positions {
		if id == excludeSelf {
			continue
		}
		dx := math.Abs(float64(c.X - origin.X))
		dy := math.Abs(float64(c.Y - origin.Y))
		if dx <= halfTiles && dy <= halfTiles {
			hits = append(hits, id)
		}
	}
	sort.Strings(hits)
	return hits
}

// Cone returns the IDs of participants within a cone from origin along dir,
// with half-angle pi/6 (60 degrees total) and the given length (§4.C).
func Cone(positions map[string]Coord, origin Coord, dir Vec2, lengthFeet int, excludeSelf string) []string {
	lengthTiles := float64(lengthFeet) / FeetPerTile
	d := dir.Normalize()
	var hits []string
	for id, c := range positions {
		if id == excludeSelf || c == origin {
			continue
		}
		vx := float64(c.X - origin.X)
		vy := float64(c.Y - origin.Y)
		dist := math.Hypot(vx, vy)
		if dist > lengthTiles {
			continue
		}
		// Angle between the participant vector and the cone's centerline.
		dot := vx*d.X + vy*d.Y
		cosAngle := dot / dist
		cosAngle = math.Max(-1, math.Min(1, cosAngle))
		angle := math.Acos(cosAngle)
		if angle <= coneHalfAngle {
			hits = append(hits, id)
		}
	}
	sort.Strings(hits)
	return hits
}

// Line returns the IDs of participants within a rectangular line effect
// from origin along dir: projection onto dir within [0,length], and
// perpendicular distance <= width/2 (§4.C, default widthFeet=5).
func Line(positions map[string]Coord, origin Coord, dir Vec2, lengthFeet, widthFeet int, excludeSelf string) []string {
	if widthFeet == 0 {
		widthFeet = 5
	}
	lengthTiles := float64(lengthFeet) / FeetPerTile
	halfWidthTiles := float64(widthFeet) / FeetPerTile / 2
	d := dir.Normalize()

	var hits []string
	for id, c := range positions {
		if id == excludeSelf {
			continue
		}
		vx := float64(c.X - origin.X)
		vy := float64(c.Y - origin.Y)
		projection := vx*d.X + vy*d.Y
		if projection < 0 || projection > lengthTiles {
			continue
		}
		// Perpendicular distance is the rejection of v from d.
		perpX := vx - projection*d.X
		perpY := vy - projection*d.Y
		if math.Hypot(perpX, perpY) <= halfWidthTiles {
			hits = append(hits, id)
		}
	}
	sort.Strings(hits)
	return hits
}
