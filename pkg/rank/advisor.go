package rank

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oncograph/backend/internal/util"
	"github.com/oncograph/backend/pkg/ai"
	"github.com/oncograph/backend/pkg/cache"
	"github.com/oncograph/backend/pkg/logger"
)

// Language-model call limits. A timeout degrades the call to its fallback
// instead of failing the request.
const (
	DefaultAdvisorTimeout = 30 * time.Second
	advisorMaxTries       = 2
)

// Critique is the structured verdict of an automated evidence review.
type Critique struct {
	Passed               bool     `json:"passed"`
	Critique             string   `json:"critique"`
	DetectedFailureModes []string `json:"detected_failure_modes"`
}

// Advisor is the language-model-backed capability the ranking loop depends
// on. It is an interface so the loop can be tested with a deterministic
// stub.
type Advisor interface {
	// ProposeVariations returns semantic variations of a query (a
	// paraphrase, a generalization, a specialization).
	ProposeVariations(ctx context.Context, query string) ([]string, error)
	// Critique reviews ranked evidence for a query.
	Critique(ctx context.Context, query string, evidence []string) (Critique, error)
}

// AIAdvisor implements Advisor on a GraphAIClient, caching results so
// repeated or near-identical queries skip the network round trip.
type AIAdvisor struct {
	client  ai.GraphAIClient
	cache   *cache.Cache
	timeout time.Duration
}

// NewAIAdvisorParams configures an AIAdvisor. Cache may be nil to disable
// caching; a zero Timeout falls back to DefaultAdvisorTimeout.
type NewAIAdvisorParams struct {
	Client  ai.GraphAIClient
	Cache   *cache.Cache
	Timeout time.Duration
}

// NewAIAdvisor creates an advisor backed by a language-model client.
func NewAIAdvisor(params NewAIAdvisorParams) *AIAdvisor {
	if params.Timeout <= 0 {
		params.Timeout = DefaultAdvisorTimeout
	}
	return &AIAdvisor{
		client:  params.Client,
		cache:   params.Cache,
		timeout: params.Timeout,
	}
}

type variationResponse struct {
	Variations []string `json:"variations" jsonschema_description:"Semantic variations of the query"`
}

// ProposeVariations asks the model for a paraphrase, a generalization and a
// specialization of the query.
func (a *AIAdvisor) ProposeVariations(ctx context.Context, query string) ([]string, error) {
	cacheKey := "variations: " + query
	if a.cache != nil {
		if cached, ok := a.cache.GetFuzzy(cacheKey); ok {
			if variations, ok := cached.([]string); ok {
				return variations, nil
			}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	response, err := util.RetryWithContext(ctx, advisorMaxTries, func(ctx context.Context) (variationResponse, error) {
		var response variationResponse
		err := a.client.GenerateCompletionWithFormat(
			ctx,
			"query_variations",
			"Semantic variations of a biomedical query",
			fmt.Sprintf(ai.VariationPrompt, query),
			&response,
		)
		return response, err
	})
	if err != nil {
		return nil, err
	}

	variations := make([]string, 0, len(response.Variations))
	for _, v := range response.Variations {
		if strings.TrimSpace(v) != "" {
			variations = append(variations, v)
		}
	}
	if a.cache != nil {
		a.cache.Set(cacheKey, variations)
	}
	return variations, nil
}

// Critique submits the query and its top-ranked evidence for review.
func (a *AIAdvisor) Critique(ctx context.Context, query string, evidence []string) (Critique, error) {
	cacheKey := "critique: " + query + " | " + strings.Join(evidence, ", ")
	if a.cache != nil {
		if cached, ok := a.cache.Get(cacheKey); ok {
			if critique, ok := cached.(Critique); ok {
				return critique, nil
			}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	critique, err := util.RetryWithContext(ctx, advisorMaxTries, func(ctx context.Context) (Critique, error) {
		var critique Critique
		err := a.client.GenerateCompletionWithFormat(
			ctx,
			"evidence_critique",
			"Automated review of ranked evidence",
			fmt.Sprintf(ai.CritiquePrompt, query, "- "+strings.Join(evidence, "\n- ")),
			&critique,
		)
		return critique, err
	})
	if err != nil {
		return Critique{}, err
	}

	if a.cache != nil {
		a.cache.Set(cacheKey, critique)
	}
	return critique, nil
}

// skipReview is the critique used when the language service is unavailable.
func skipReview() Critique {
	logger.Debug("[Rank] review unavailable, auto-passing")
	return Critique{
		Passed:   true,
		Critique: "Review unavailable",
	}
}
