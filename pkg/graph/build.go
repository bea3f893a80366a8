package graph

import (
	"context"
	"sync"

	"github.com/oncograph/backend/pkg/common"
	"github.com/oncograph/backend/pkg/curated"
	"github.com/oncograph/backend/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// ExtractionResult is the typed output of a free-text extraction
// collaborator: entities grouped by category and relations grouped by
// relation type.
type ExtractionResult struct {
	Entities  map[string][]EntityItem   `json:"entities"`
	Relations map[string][]RelationItem `json:"relations"`
}

// AssociationSet is one external association lookup resolved around a seed
// entity.
type AssociationSet struct {
	Seed     string          `json:"seed"`
	Category common.Category `json:"category"`
	Records  []Association   `json:"records"`
}

// ExtractionFetcher and AssociationFetcher wrap collaborator calls. A
// fetcher failure is never fatal to the build; the failed contribution is
// skipped and the rest proceed.
type (
	ExtractionFetcher  func(ctx context.Context) (ExtractionResult, error)
	AssociationFetcher func(ctx context.Context) (AssociationSet, error)
)

// BuildParams collects everything one graph build consumes.
type BuildParams struct {
	Extractions  []ExtractionFetcher
	Associations []AssociationFetcher
	SeedGenes    []string
	Tables       *curated.Tables
}

// Build runs all collaborator fetchers concurrently, then ingests their
// results into a fresh Store in the fixed phase order: extraction entities,
// extraction relations, external associations, curated enrichment.
func Build(ctx context.Context, params BuildParams) *Store {
	var (
		mu           sync.Mutex
		extractions  []ExtractionResult
		associations []AssociationSet
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, fetch := range params.Extractions {
		g.Go(func() error {
			result, err := fetch(gctx)
			if err != nil {
				logger.Warn("[Graph] extraction fetch failed, skipping", "error", err)
				return nil
			}
			mu.Lock()
			extractions = append(extractions, result)
			mu.Unlock()
			return nil
		})
	}
	for _, fetch := range params.Associations {
		g.Go(func() error {
			result, err := fetch(gctx)
			if err != nil {
				logger.Warn("[Graph] association fetch failed, skipping", "error", err)
				return nil
			}
			mu.Lock()
			associations = append(associations, result)
			mu.Unlock()
			return nil
		})
	}
	// Fetchers swallow their own errors, so Wait only reflects ctx.
	_ = g.Wait()

	store := NewStore()
	for _, extraction := range extractions {
		store.AddEntities(extraction.Entities)
	}
	for _, extraction := range extractions {
		store.AddRelations(extraction.Relations)
	}
	for _, set := range associations {
		store.AddAssociations(set.Seed, set.Category, set.Records)
	}
	for _, seed := range params.SeedGenes {
		store.AddPathwayEnrichment(seed, params.Tables)
	}

	logger.Info("[Graph] build complete", "nodes", store.NodeCount(), "edges", store.EdgeCount())
	return store
}
