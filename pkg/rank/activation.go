// Package rank implements query-adaptive relevance scoring over a knowledge
// graph: spreading activation seeded from lexical overlap, robust
// aggregation across query variations, cross-domain boosting and a bounded
// reflective refinement loop.
package rank

import (
	"sort"
	"strings"

	"github.com/oncograph/backend/pkg/graph"
)

// Empirically chosen propagation constants. The reverse factor and the
// entropy coefficient in boost.go have no derivation beyond tuning; they are
// kept as named defaults so callers can override them.
const (
	DefaultLearningRate  = 0.1
	DefaultDecay         = 0.85
	DefaultRounds        = 5
	DefaultReverseFactor = 0.5

	// NoveltyThreshold is the minimum score for a node to count as a novel
	// connection.
	NoveltyThreshold = 0.1
)

// Params tunes the spreading-activation propagation. The float fields are
// pointers so zero is a real setting (ReverseFactor 0 disables backward
// propagation entirely); nil means the default.
type Params struct {
	LearningRate  *float64
	Decay         *float64
	Rounds        int
	ReverseFactor *float64
}

// Float wraps a value for the optional Params fields.
func Float(v float64) *float64 {
	return &v
}

type propagation struct {
	learningRate  float64
	decay         float64
	rounds        int
	reverseFactor float64
}

func (p Params) resolve() propagation {
	r := propagation{
		learningRate:  DefaultLearningRate,
		decay:         DefaultDecay,
		rounds:        DefaultRounds,
		reverseFactor: DefaultReverseFactor,
	}
	if p.LearningRate != nil {
		r.learningRate = *p.LearningRate
	}
	if p.Decay != nil {
		r.decay = *p.Decay
	}
	if p.Rounds > 0 {
		r.rounds = p.Rounds
	}
	if p.ReverseFactor != nil {
		r.reverseFactor = *p.ReverseFactor
	}
	return r
}

// Rank scores every node for relevance to the query. Scores are seeded from
// lexical overlap between query terms and node labels, propagated along
// edges for a fixed number of rounds (forward at full strength, backward
// attenuated by the reverse factor, everything decayed each round), then
// normalized so the maximum score is 1. A pure function of (graph, query).
func Rank(g *graph.Store, query string, params Params) map[string]float64 {
	p := params.resolve()
	terms := queryTerms(query)

	scores := make(map[string]float64, g.NodeCount())
	for _, node := range g.Nodes() {
		scores[node.ID] = seedScore(node.Label, terms)
	}

	for round := 0; round < p.rounds; round++ {
		prev := scores
		scores = make(map[string]float64, len(prev))
		for id, score := range prev {
			scores[id] = score * p.decay
		}
		for id, score := range prev {
			if score <= 0 {
				continue
			}
			for _, succ := range g.Successors(id) {
				scores[succ.ID] += score * succ.Weight * p.learningRate
			}
			for _, pred := range g.Predecessors(id) {
				scores[pred.ID] += score * pred.Weight * p.learningRate * p.reverseFactor
			}
		}
	}

	normalize(scores)
	return scores
}

// NodeScore pairs a node id with its relevance score.
type NodeScore struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// TopK returns the k highest-scoring nodes, ties broken by id for
// deterministic output.
func TopK(scores map[string]float64, k int) []NodeScore {
	ranked := make([]NodeScore, 0, len(scores))
	for id, score := range scores {
		ranked = append(ranked, NodeScore{ID: id, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ID < ranked[j].ID
	})
	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked
}

// NovelConnections returns nodes whose relevance was discovered purely
// through propagation: score above the novelty threshold, but no query term
// appears in the label.
func NovelConnections(g *graph.Store, query string, scores map[string]float64) []NodeScore {
	terms := queryTerms(query)
	var novel []NodeScore
	for _, node := range g.Nodes() {
		score := scores[node.ID]
		if score <= NoveltyThreshold {
			continue
		}
		if seedScore(node.Label, terms) > 0 {
			continue
		}
		novel = append(novel, NodeScore{ID: node.ID, Score: score})
	}
	sort.Slice(novel, func(i, j int) bool {
		if novel[i].Score != novel[j].Score {
			return novel[i].Score > novel[j].Score
		}
		return novel[i].ID < novel[j].ID
	})
	return novel
}

func queryTerms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

func seedScore(label string, terms []string) float64 {
	lower := strings.ToLower(label)
	score := 0.0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			score++
		}
	}
	return score
}

func normalize(scores map[string]float64) {
	max := 0.0
	for _, score := range scores {
		if score > max {
			max = score
		}
	}
	if max == 0 {
		return
	}
	for id, score := range scores {
		scores[id] = score / max
	}
}
