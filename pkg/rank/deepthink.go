package rank

import (
	"context"
	"fmt"
	"time"

	"github.com/oncograph/backend/pkg/graph"
	"github.com/oncograph/backend/pkg/logger"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Loop bounds.
const (
	DefaultMaxSteps = 3
	evidenceLimit   = 5
)

// TraceRecord documents one refinement round.
type TraceRecord struct {
	Step                 int      `json:"step"`
	Query                string   `json:"query"`
	Passed               bool     `json:"passed"`
	Critique             string   `json:"critique"`
	DetectedFailureModes []string `json:"detected_failure_modes"`
}

// DeepThinkResult is the accumulated outcome of the reflective loop.
type DeepThinkResult struct {
	ID          string             `json:"id"`
	Query       string             `json:"query"`
	Activations map[string]float64 `json:"activations"`
	Trace       []TraceRecord      `json:"trace"`
}

// Event is one progress notification from the streaming variant. Type is
// "status", "step_start" or "result"; ElapsedMs increases monotonically
// across the sequence.
type Event struct {
	Type      string           `json:"type"`
	Step      int              `json:"step,omitempty"`
	Message   string           `json:"message,omitempty"`
	ElapsedMs int64            `json:"elapsed_ms"`
	Result    *DeepThinkResult `json:"result,omitempty"`
}

// EmitFunc receives streaming events. Returning an error aborts the loop.
type EmitFunc func(Event) error

// DeepThinkParams configures one reflective loop run.
type DeepThinkParams struct {
	Query    string
	Advisor  Advisor
	MaxSteps int
	Rank     Params
}

// DeepThink runs up to MaxSteps rounds of robust ranking, boosting and
// automated critique over the graph. Each failed critique reformulates the
// query for the next round; a passed critique or an exhausted budget
// terminates. Activations accumulate across rounds by taking the maximum
// seen per node.
func DeepThink(ctx context.Context, g *graph.Store, params DeepThinkParams) (DeepThinkResult, error) {
	return deepThink(ctx, g, params, func(Event) error { return nil })
}

// DeepThinkStream is the streaming variant of DeepThink: identical rounds
// and final result, with one event emitted per sub-step.
func DeepThinkStream(ctx context.Context, g *graph.Store, params DeepThinkParams, emit EmitFunc) (DeepThinkResult, error) {
	return deepThink(ctx, g, params, emit)
}

func deepThink(ctx context.Context, g *graph.Store, params DeepThinkParams, emit EmitFunc) (DeepThinkResult, error) {
	if params.MaxSteps <= 0 {
		params.MaxSteps = DefaultMaxSteps
	}

	started := time.Now()
	elapsed := func() int64 { return time.Since(started).Milliseconds() }

	result := DeepThinkResult{
		ID:          gonanoid.Must(),
		Query:       params.Query,
		Activations: make(map[string]float64),
	}

	if err := emit(Event{Type: "status", Message: "starting deep think", ElapsedMs: elapsed()}); err != nil {
		return result, err
	}

	currentQuery := params.Query
	for step := 1; step <= params.MaxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := emit(Event{Type: "step_start", Step: step, Message: currentQuery, ElapsedMs: elapsed()}); err != nil {
			return result, err
		}

		scores := RankRobust(ctx, g, currentQuery, params.Advisor, params.Rank)
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := emit(Event{Type: "status", Step: step, Message: "ranking complete", ElapsedMs: elapsed()}); err != nil {
			return result, err
		}

		scores = Boost(g, scores)
		if err := emit(Event{Type: "status", Step: step, Message: "boosting complete", ElapsedMs: elapsed()}); err != nil {
			return result, err
		}

		evidence := evidenceLabels(g, scores)
		critique := reviewEvidence(ctx, params.Advisor, currentQuery, evidence)
		// A round canceled mid-flight contributes nothing: the merge and the
		// trace record happen only once the round survived to this point.
		if err := ctx.Err(); err != nil {
			return result, err
		}

		for id, score := range scores {
			if score > result.Activations[id] {
				result.Activations[id] = score
			}
		}

		if err := emit(Event{Type: "status", Step: step, Message: "review complete", ElapsedMs: elapsed()}); err != nil {
			return result, err
		}

		result.Trace = append(result.Trace, TraceRecord{
			Step:                 step,
			Query:                currentQuery,
			Passed:               critique.Passed,
			Critique:             critique.Critique,
			DetectedFailureModes: critique.DetectedFailureModes,
		})

		if critique.Passed || step == params.MaxSteps {
			break
		}
		currentQuery = fmt.Sprintf("verify %s considering %s", currentQuery, critique.Critique)
	}

	logger.Info("[Rank] deep think finished",
		"id", result.ID,
		"steps", len(result.Trace),
		"nodes", len(result.Activations),
	)

	if err := emit(Event{Type: "result", ElapsedMs: elapsed(), Result: &result}); err != nil {
		return result, err
	}
	return result, nil
}

func evidenceLabels(g *graph.Store, scores map[string]float64) []string {
	top := TopK(scores, evidenceLimit)
	labels := make([]string, 0, len(top))
	for _, ns := range top {
		if node := g.Node(ns.ID); node != nil {
			labels = append(labels, node.Label)
		}
	}
	return labels
}

func reviewEvidence(ctx context.Context, advisor Advisor, query string, evidence []string) Critique {
	if advisor == nil {
		return skipReview()
	}
	critique, err := advisor.Critique(ctx, query, evidence)
	if err != nil {
		logger.Warn("[Rank] critique failed, auto-passing", "error", err)
		return skipReview()
	}
	return critique
}
