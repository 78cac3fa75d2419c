package detection

import "math"

// DefaultIsoLevel is the contour level traced on a 0/1 mask.
const DefaultIsoLevel = 0.5

// Vertex is a contour point in pixel coordinates. X is the column, Y the row;
// both are fractional because crossings are interpolated between sample centres.
type Vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Contour is an iso-line separating dark from light samples. Closed contours
// end where they started; open ones run into the image border.
type Contour struct {
	Vertices []Vertex `json:"vertices"`
	Closed   bool     `json:"closed"`
}

// edgeKey identifies the grid edge a contour crosses. A horizontal edge joins
// samples (row, col) and (row, col+1); a vertical one joins (row, col) and
// (row+1, col).
type edgeKey struct {
	row, col int
	vertical bool
}

type cellSegment struct {
	a, b edgeKey
}

// TraceContours runs marching squares over the mask at the given level, where
// dark samples have value 1 and light samples 0.
//
// # Algorithm
//
//  1. Every 2x2 block of samples is a cell. Its corners are classified against
//     level and the 16-case table yields zero, one or two line segments whose
//     endpoints sit on the cell edges.
//  2. Saddle cells (two diagonal dark corners) connect the dark corners, so dark
//     areas touching only at a corner form one contour.
//  3. Segments sharing an edge are linked into polylines. Each grid edge is used
//     by at most two segments, so linking never branches.
//
// Contours are returned in discovery order: row-major by the cell holding their
// first segment.
func TraceContours(m *Mask, level float64) []Contour {
	if m == nil || m.Width < 2 || m.Height < 2 {
		return nil
	}

	value := func(row, col int) float64 {
		if m.Dark[row*m.Width+col] {
			return 1
		}
		return 0
	}

	segments := make([]cellSegment, 0)
	for row := 0; row < m.Height-1; row++ {
		for col := 0; col < m.Width-1; col++ {
			idx := 0
			if value(row, col) > level {
				idx |= 1
			}
			if value(row, col+1) > level {
				idx |= 2
			}
			if value(row+1, col+1) > level {
				idx |= 4
			}
			if value(row+1, col) > level {
				idx |= 8
			}
			if idx == 0 || idx == 15 {
				continue
			}

			top := edgeKey{row: row, col: col}
			bottom := edgeKey{row: row + 1, col: col}
			left := edgeKey{row: row, col: col, vertical: true}
			right := edgeKey{row: row, col: col + 1, vertical: true}

			switch idx {
			case 1, 14:
				segments = append(segments, cellSegment{top, left})
			case 2, 13:
				segments = append(segments, cellSegment{top, right})
			case 3, 12:
				segments = append(segments, cellSegment{left, right})
			case 4, 11:
				segments = append(segments, cellSegment{right, bottom})
			case 6, 9:
				segments = append(segments, cellSegment{top, bottom})
			case 7, 8:
				segments = append(segments, cellSegment{left, bottom})
			case 5:
				// upper-left and lower-right dark: cut off the light corners
				segments = append(segments, cellSegment{top, right}, cellSegment{left, bottom})
			case 10:
				// upper-right and lower-left dark
				segments = append(segments, cellSegment{top, left}, cellSegment{right, bottom})
			}
		}
	}

	chains := linkSegments(segments)

	contours := make([]Contour, 0, len(chains))
	for _, chain := range chains {
		c := Contour{
			Vertices: make([]Vertex, 0, len(chain.keys)),
			Closed:   chain.closed,
		}
		for _, k := range chain.keys {
			c.Vertices = append(c.Vertices, interpolate(k, level, value))
		}
		contours = append(contours, c)
	}
	return contours
}

type chain struct {
	keys   []edgeKey
	closed bool
}

// linkSegments joins segments that share an edge into polylines.
func linkSegments(segments []cellSegment) []chain {
	byEdge := make(map[edgeKey][]int, len(segments)*2)
	for i, s := range segments {
		byEdge[s.a] = append(byEdge[s.a], i)
		byEdge[s.b] = append(byEdge[s.b], i)
	}

	used := make([]bool, len(segments))

	// next returns the unused segment touching key and the endpoint opposite key.
	next := func(key edgeKey) (int, edgeKey, bool) {
		for _, i := range byEdge[key] {
			if used[i] {
				continue
			}
			s := segments[i]
			if s.a == key {
				return i, s.b, true
			}
			return i, s.a, true
		}
		return 0, edgeKey{}, false
	}

	chains := make([]chain, 0)
	for i, s := range segments {
		if used[i] {
			continue
		}
		used[i] = true

		keys := []edgeKey{s.a, s.b}
		closed := false

		// forward from the tail
		for {
			j, other, ok := next(keys[len(keys)-1])
			if !ok {
				break
			}
			used[j] = true
			if other == keys[0] {
				keys = append(keys, other)
				closed = true
				break
			}
			keys = append(keys, other)
		}

		if !closed {
			// backward from the head
			var head []edgeKey
			cur := keys[0]
			for {
				j, other, ok := next(cur)
				if !ok {
					break
				}
				used[j] = true
				head = append(head, other)
				cur = other
			}
			if len(head) > 0 {
				reversed := make([]edgeKey, 0, len(head)+len(keys))
				for k := len(head) - 1; k >= 0; k-- {
					reversed = append(reversed, head[k])
				}
				keys = append(reversed, keys...)
			}
		}

		chains = append(chains, chain{keys: keys, closed: closed})
	}
	return chains
}

// interpolate places the level crossing on the edge between its two samples.
func interpolate(k edgeKey, level float64, value func(row, col int) float64) Vertex {
	r0, c0 := k.row, k.col
	r1, c1 := r0, c0+1
	if k.vertical {
		r1, c1 = r0+1, c0
	}

	v0 := value(r0, c0)
	v1 := value(r1, c1)

	t := 0.5
	if d := v1 - v0; math.Abs(d) > 1e-12 {
		t = (level - v0) / d
	}

	return Vertex{
		X: float64(c0) + t*float64(c1-c0),
		Y: float64(r0) + t*float64(r1-r0),
	}
}
