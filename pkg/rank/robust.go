package rank

import (
	"context"
	"math"

	"github.com/oncograph/backend/pkg/graph"
	"github.com/oncograph/backend/pkg/logger"
)

// DefaultVariancePenalty is the λ in mean − λ·stddev aggregation across
// query variations.
const DefaultVariancePenalty = 0.5

// RankRobust ranks the graph once per semantic variation of the query
// (always including the original) and aggregates per node as
// mean − λ·stddev, treating a missing score as 0 and dropping nodes whose
// aggregate is not positive. Nodes that stay relevant across phrasings keep
// their score; nodes relevant to only one wording are penalized away.
//
// When the advisor is nil or fails, the variation set degrades to just the
// original query and the result equals a plain Rank call.
func RankRobust(ctx context.Context, g *graph.Store, query string, advisor Advisor, params Params) map[string]float64 {
	queries := []string{query}
	if advisor != nil {
		variations, err := advisor.ProposeVariations(ctx, query)
		if err != nil {
			logger.Warn("[Rank] variation generation failed, ranking original query only", "error", err)
		} else {
			// A repeated phrasing must not double-weight the aggregation.
			seen := map[string]struct{}{query: {}}
			for _, v := range variations {
				if _, ok := seen[v]; ok {
					continue
				}
				seen[v] = struct{}{}
				queries = append(queries, v)
			}
		}
	}

	runs := make([]map[string]float64, 0, len(queries))
	for _, q := range queries {
		runs = append(runs, Rank(g, q, params))
	}
	if len(runs) == 1 {
		return runs[0]
	}

	seen := make(map[string]struct{})
	for _, run := range runs {
		for id := range run {
			seen[id] = struct{}{}
		}
	}

	aggregated := make(map[string]float64, len(seen))
	n := float64(len(runs))
	for id := range seen {
		sum := 0.0
		for _, run := range runs {
			sum += run[id]
		}
		mean := sum / n

		variance := 0.0
		for _, run := range runs {
			d := run[id] - mean
			variance += d * d
		}
		stddev := math.Sqrt(variance / n)

		score := mean - DefaultVariancePenalty*stddev
		if score > 0 {
			aggregated[id] = score
		}
	}
	return aggregated
}
