package rank

import (
	"math"

	"github.com/oncograph/backend/pkg/graph"
)

// Boost parameters. The entropy coefficient is an empirically chosen
// constant; see Params for the same treatment of the propagation constants.
const (
	DefaultBoostFloor         = 0.05
	DefaultEntropyCoefficient = 0.2
)

// Boost rewards nodes whose immediate neighborhood spans multiple
// categories. Every node scoring above the floor is multiplied by
// 1 + coefficient·H, where H is the Shannon entropy of its neighbors'
// category distribution. Category-homogeneous neighborhoods have entropy 0
// and are unaffected.
func Boost(g *graph.Store, scores map[string]float64) map[string]float64 {
	boosted := make(map[string]float64, len(scores))
	for id, score := range scores {
		if score <= DefaultBoostFloor {
			boosted[id] = score
			continue
		}
		entropy := neighborCategoryEntropy(g, id)
		boosted[id] = score * (1 + DefaultEntropyCoefficient*entropy)
	}
	return boosted
}

func neighborCategoryEntropy(g *graph.Store, id string) float64 {
	counts := make(map[string]int)
	total := 0
	for _, neighbor := range g.Successors(id) {
		if node := g.Node(neighbor.ID); node != nil {
			counts[string(node.Category)]++
			total++
		}
	}
	for _, neighbor := range g.Predecessors(id) {
		if node := g.Node(neighbor.ID); node != nil {
			counts[string(node.Category)]++
			total++
		}
	}
	if total == 0 {
		return 0
	}

	entropy := 0.0
	for _, count := range counts {
		p := float64(count) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}
