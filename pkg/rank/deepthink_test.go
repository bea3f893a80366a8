package rank

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestDeepThinkPassesFirstRound(t *testing.T) {
	g := buildDriverGraph()
	advisor := &stubAdvisor{critiques: []Critique{{Passed: true, Critique: "looks good"}}}

	result, err := DeepThink(context.Background(), g, DeepThinkParams{
		Query:   "KRAS driver",
		Advisor: advisor,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Trace) != 1 {
		t.Fatalf("passing critique should stop after one round, got %d", len(result.Trace))
	}
	if !result.Trace[0].Passed {
		t.Error("trace should record the pass")
	}
	if result.Trace[0].Query != "KRAS driver" {
		t.Errorf("trace should record the round's query, got %q", result.Trace[0].Query)
	}
	if result.Activations["KRAS"] <= 0 {
		t.Error("activations should carry the ranking result")
	}
	if result.ID == "" {
		t.Error("result should carry an id")
	}
}

func TestDeepThinkTerminatesWithinBudget(t *testing.T) {
	g := buildDriverGraph()
	advisor := &stubAdvisor{critiques: []Critique{
		{Passed: false, Critique: "too generic", DetectedFailureModes: []string{"too_generic"}},
		{Passed: false, Critique: "still too generic", DetectedFailureModes: []string{"too_generic"}},
		{Passed: false, Critique: "hopeless", DetectedFailureModes: []string{"off_topic"}},
		{Passed: false, Critique: "never consulted"},
	}}

	result, err := DeepThink(context.Background(), g, DeepThinkParams{
		Query:    "KRAS driver",
		Advisor:  advisor,
		MaxSteps: 3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Trace) != 3 {
		t.Fatalf("trace length must not exceed max steps, got %d", len(result.Trace))
	}
	// Failed critiques reformulate the next round's query.
	if !strings.Contains(result.Trace[1].Query, "too generic") {
		t.Errorf("round 2 query should incorporate the critique, got %q", result.Trace[1].Query)
	}
	if !strings.HasPrefix(result.Trace[1].Query, "verify ") {
		t.Errorf("reformulated query should be a verification prompt, got %q", result.Trace[1].Query)
	}
}

func TestDeepThinkAutoPassesWithoutAdvisor(t *testing.T) {
	g := buildDriverGraph()

	result, err := DeepThink(context.Background(), g, DeepThinkParams{Query: "KRAS driver"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Trace) != 1 || !result.Trace[0].Passed {
		t.Errorf("missing advisor should auto-pass round 1, trace: %+v", result.Trace)
	}
}

func TestDeepThinkAutoPassesOnCritiqueError(t *testing.T) {
	g := buildDriverGraph()
	advisor := &stubAdvisor{critiqueErr: errors.New("model timeout")}

	result, err := DeepThink(context.Background(), g, DeepThinkParams{
		Query:   "KRAS driver",
		Advisor: advisor,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Trace) != 1 || !result.Trace[0].Passed {
		t.Errorf("critique failure should degrade to auto-pass, trace: %+v", result.Trace)
	}
}

func TestDeepThinkCumulativeMaxMerge(t *testing.T) {
	g := buildDriverGraph()
	advisor := &stubAdvisor{critiques: []Critique{
		{Passed: false, Critique: "rephrase"},
		{Passed: true},
	}}

	result, err := DeepThink(context.Background(), g, DeepThinkParams{
		Query:   "KRAS driver",
		Advisor: advisor,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	single := Boost(g, RankRobust(context.Background(), g, "KRAS driver", nil, Params{}))
	for id, score := range single {
		if result.Activations[id] < score {
			t.Errorf("cumulative activation for %s dropped below round 1: %v < %v", id, result.Activations[id], score)
		}
	}
}

func TestDeepThinkStreamEventSequence(t *testing.T) {
	g := buildDriverGraph()
	advisor := &stubAdvisor{critiques: []Critique{{Passed: true}}}

	var events []Event
	result, err := DeepThinkStream(context.Background(), g, DeepThinkParams{
		Query:   "KRAS driver",
		Advisor: advisor,
	}, func(e Event) error {
		events = append(events, e)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(events) < 3 {
		t.Fatalf("expected at least start, step and result events, got %d", len(events))
	}
	if events[0].Type != "status" {
		t.Errorf("first event should be a status, got %s", events[0].Type)
	}

	sawStepStart := false
	var lastElapsed int64 = -1
	for _, e := range events {
		if e.Type == "step_start" {
			sawStepStart = true
		}
		if e.ElapsedMs < lastElapsed {
			t.Errorf("elapsed time must be monotonic: %d after %d", e.ElapsedMs, lastElapsed)
		}
		lastElapsed = e.ElapsedMs
	}
	if !sawStepStart {
		t.Error("missing step_start event")
	}

	final := events[len(events)-1]
	if final.Type != "result" || final.Result == nil {
		t.Fatalf("last event should carry the result, got %+v", final)
	}
	if len(final.Result.Activations) != len(result.Activations) {
		t.Error("streamed result should match the returned result")
	}
}

// cancelingAdvisor cancels the loop's context from inside one of its own
// calls, simulating a client disconnect while a language-model call is
// in flight.
type cancelingAdvisor struct {
	cancel     context.CancelFunc
	inCritique bool
}

func (a *cancelingAdvisor) ProposeVariations(ctx context.Context, query string) ([]string, error) {
	if !a.inCritique {
		a.cancel()
		return nil, context.Canceled
	}
	return nil, nil
}

func (a *cancelingAdvisor) Critique(ctx context.Context, query string, evidence []string) (Critique, error) {
	if a.inCritique {
		a.cancel()
		return Critique{}, context.Canceled
	}
	return Critique{Passed: true}, nil
}

func TestDeepThinkCanceledRoundContributesNothing(t *testing.T) {
	tests := []struct {
		name       string
		inCritique bool
	}{
		{"canceled during variation generation", false},
		{"canceled during critique", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildDriverGraph()
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			result, err := DeepThink(ctx, g, DeepThinkParams{
				Query:   "KRAS driver",
				Advisor: &cancelingAdvisor{cancel: cancel, inCritique: tt.inCritique},
			})
			if !errors.Is(err, context.Canceled) {
				t.Fatalf("expected context.Canceled, got %v", err)
			}
			if len(result.Activations) != 0 {
				t.Errorf("canceled round must not merge activations, got %v", result.Activations)
			}
			if len(result.Trace) != 0 {
				t.Errorf("canceled round must not be traced, got %+v", result.Trace)
			}
		})
	}
}

func TestDeepThinkStreamEmitErrorAborts(t *testing.T) {
	g := buildDriverGraph()

	wantErr := errors.New("client went away")
	_, err := DeepThinkStream(context.Background(), g, DeepThinkParams{Query: "KRAS driver"}, func(e Event) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("emit error should abort the loop, got %v", err)
	}
}
