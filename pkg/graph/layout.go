package graph

import (
	"math"
	"math/rand"
)

// Layout parameters. The fixed seed makes placement reproducible for a given
// graph shape.
const (
	layoutSeed       = 42
	layoutIterations = 80
	layoutKFactor    = 2.5
)

type layoutCacheKey struct {
	nodes  int
	edges  int
	width  float64
	height float64
}

// ComputeLayout places every node with a seeded spring (force-directed)
// simulation, scaled and padded into the requested canvas. Coordinates are
// rounded to one decimal. The result is memoized by (node count, edge count,
// width, height); recomputation happens only when one of those changes.
func (s *Store) ComputeLayout(width, height, padding float64) map[string][2]float64 {
	if len(s.nodes) == 0 {
		return map[string][2]float64{}
	}

	key := layoutCacheKey{nodes: len(s.nodes), edges: s.edgeCount, width: width, height: height}
	if s.layout != nil && s.layoutKey == key {
		return s.layout
	}

	pos := s.springLayout()

	xMin, xMax := math.Inf(1), math.Inf(-1)
	yMin, yMax := math.Inf(1), math.Inf(-1)
	for _, p := range pos {
		xMin = math.Min(xMin, p[0])
		xMax = math.Max(xMax, p[0])
		yMin = math.Min(yMin, p[1])
		yMax = math.Max(yMax, p[1])
	}
	xRange := xMax - xMin
	if xRange == 0 {
		xRange = 1
	}
	yRange := yMax - yMin
	if yRange == 0 {
		yRange = 1
	}

	scaled := make(map[string][2]float64, len(pos))
	for _, id := range s.nodeOrder {
		p := pos[id]
		sx := padding + ((p[0]-xMin)/xRange)*(width-2*padding)
		sy := padding + ((p[1]-yMin)/yRange)*(height-2*padding)
		scaled[id] = [2]float64{round1(sx), round1(sy)}
	}

	s.layout = scaled
	s.layoutKey = key
	return scaled
}

// springLayout runs a Fruchterman-Reingold simulation in the unit square.
// Node order and the PRNG seed are both fixed, so the same graph shape
// always yields the same positions.
func (s *Store) springLayout() map[string][2]float64 {
	n := len(s.nodeOrder)
	rng := rand.New(rand.NewSource(layoutSeed))

	xs := make([]float64, n)
	ys := make([]float64, n)
	index := make(map[string]int, n)
	for i, id := range s.nodeOrder {
		index[id] = i
		xs[i] = rng.Float64()
		ys[i] = rng.Float64()
	}

	k := layoutKFactor / math.Sqrt(float64(n))

	// Cooling schedule: start at a tenth of the domain, decay linearly.
	temp := 0.1
	dt := temp / float64(layoutIterations+1)

	dispX := make([]float64, n)
	dispY := make([]float64, n)

	for iter := 0; iter < layoutIterations; iter++ {
		for i := range dispX {
			dispX[i] = 0
			dispY[i] = 0
		}

		// Repulsion between every pair.
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx := xs[i] - xs[j]
				dy := ys[i] - ys[j]
				dist := math.Hypot(dx, dy)
				if dist < 0.01 {
					dist = 0.01
				}
				force := k * k / dist
				fx := (dx / dist) * force
				fy := (dy / dist) * force
				dispX[i] += fx
				dispY[i] += fy
				dispX[j] -= fx
				dispY[j] -= fy
			}
		}

		// Attraction along edges, weighted by edge strength.
		for _, key := range s.edgeOrder {
			i := index[key.from]
			j := index[key.to]
			if i == j {
				continue
			}
			dx := xs[i] - xs[j]
			dy := ys[i] - ys[j]
			dist := math.Hypot(dx, dy)
			if dist < 0.01 {
				dist = 0.01
			}
			weight := s.out[key.from][key.to].Weight
			force := dist * dist / k * weight
			fx := (dx / dist) * force
			fy := (dy / dist) * force
			dispX[i] -= fx
			dispY[i] -= fy
			dispX[j] += fx
			dispY[j] += fy
		}

		// Apply displacements capped by the current temperature.
		for i := 0; i < n; i++ {
			disp := math.Hypot(dispX[i], dispY[i])
			if disp < 0.01 {
				disp = 0.01
			}
			step := math.Min(disp, temp)
			xs[i] += (dispX[i] / disp) * step
			ys[i] += (dispY[i] / disp) * step
		}
		temp -= dt
	}

	pos := make(map[string][2]float64, n)
	for i, id := range s.nodeOrder {
		pos[id] = [2]float64{xs[i], ys[i]}
	}
	return pos
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
