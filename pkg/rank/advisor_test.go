package rank

import (
	"context"
	"errors"
	"testing"

	"github.com/oncograph/backend/pkg/ai"
	"github.com/oncograph/backend/pkg/cache"
)

// fakeAIClient returns a canned JSON payload for every structured call.
type fakeAIClient struct {
	payload string
	err     error
	calls   int
}

func (f *fakeAIClient) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	f.calls++
	return f.payload, f.err
}

func (f *fakeAIClient) GenerateCompletionWithFormat(ctx context.Context, name, description, prompt string, out any, opts ...ai.GenerateOption) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return ai.UnmarshalFlexible(f.payload, out)
}

func (f *fakeAIClient) ResetMetrics()               {}
func (f *fakeAIClient) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

func TestAIAdvisorProposeVariations(t *testing.T) {
	client := &fakeAIClient{payload: `{"variations": ["a", "b", "", "c"]}`}
	advisor := NewAIAdvisor(NewAIAdvisorParams{Client: client})

	variations, err := advisor.ProposeVariations(context.Background(), "KRAS driver")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(variations) != 3 {
		t.Errorf("blank variations should be dropped, got %v", variations)
	}
}

func TestAIAdvisorCachesVariations(t *testing.T) {
	client := &fakeAIClient{payload: `{"variations": ["a"]}`}
	advisor := NewAIAdvisor(NewAIAdvisorParams{
		Client: client,
		Cache:  cache.NewCache(cache.NewCacheParams{}),
	})

	if _, err := advisor.ProposeVariations(context.Background(), "KRAS G12C inhibitors"); err != nil {
		t.Fatal(err)
	}
	if _, err := advisor.ProposeVariations(context.Background(), "KRAS G12C inhibitors"); err != nil {
		t.Fatal(err)
	}
	if client.calls != 1 {
		t.Errorf("second call should hit the cache, got %d client calls", client.calls)
	}
}

func TestAIAdvisorCritique(t *testing.T) {
	client := &fakeAIClient{payload: `{"passed": false, "critique": "too generic", "detected_failure_modes": ["too_generic"]}`}
	advisor := NewAIAdvisor(NewAIAdvisorParams{Client: client})

	critique, err := advisor.Critique(context.Background(), "KRAS driver", []string{"KRAS", "Lung Adenocarcinoma"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if critique.Passed {
		t.Error("expected failed critique")
	}
	if len(critique.DetectedFailureModes) != 1 || critique.DetectedFailureModes[0] != "too_generic" {
		t.Errorf("failure modes decoded wrong: %v", critique.DetectedFailureModes)
	}
}

func TestAIAdvisorPropagatesClientErrors(t *testing.T) {
	client := &fakeAIClient{err: errors.New("unreachable")}
	advisor := NewAIAdvisor(NewAIAdvisorParams{Client: client})

	if _, err := advisor.ProposeVariations(context.Background(), "q"); err == nil {
		t.Error("expected variation error to propagate for the caller's fallback")
	}
	if _, err := advisor.Critique(context.Background(), "q", nil); err == nil {
		t.Error("expected critique error to propagate for the caller's fallback")
	}
}
