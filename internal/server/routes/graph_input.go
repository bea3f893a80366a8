package routes

import (
	"github.com/oncograph/backend/internal/server/middleware"
	"github.com/oncograph/backend/pkg/graph"

	"github.com/labstack/echo/v4"
)

// graphInput is the build payload shared by all graph routes: one extraction
// result, any number of external association sets, and the seed genes to
// enrich from the curated tables.
type graphInput struct {
	Extraction   graph.ExtractionResult `json:"extraction"`
	Associations []graph.AssociationSet `json:"associations"`
	SeedGenes    []string               `json:"seed_genes"`
}

// buildStore ingests the request inputs into a fresh graph in the fixed
// phase order: entities, relations, associations, curated enrichment.
func buildStore(c echo.Context, input graphInput) *graph.Store {
	tables := c.(*middleware.AppContext).App.Tables

	store := graph.NewStore()
	store.AddEntities(input.Extraction.Entities)
	store.AddRelations(input.Extraction.Relations)
	for _, set := range input.Associations {
		store.AddAssociations(set.Seed, set.Category, set.Records)
	}
	for _, seed := range input.SeedGenes {
		store.AddPathwayEnrichment(seed, tables)
	}
	return store
}
