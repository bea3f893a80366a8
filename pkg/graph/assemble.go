package graph

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/oncograph/backend/pkg/common"
	"github.com/oncograph/backend/pkg/curated"
	"github.com/oncograph/backend/pkg/logger"
)

const defaultEntityConfidence = 0.7

// EntityItem is one extracted entity mention. Extraction collaborators send
// either a bare string or an object with an explicit confidence, so the
// decoder accepts both.
type EntityItem struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

func (e *EntityItem) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		e.Text = text
		e.Confidence = defaultEntityConfidence
		return nil
	}

	// Confidence decodes through a pointer so an explicit 0 survives and
	// only an absent field takes the default.
	var obj struct {
		Text       string   `json:"text"`
		Confidence *float64 `json:"confidence"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	e.Text = obj.Text
	e.Confidence = defaultEntityConfidence
	if obj.Confidence != nil {
		e.Confidence = *obj.Confidence
	}
	return nil
}

// RelationEnd is one endpoint of an extracted relation, again either a bare
// string or an object carrying its own confidence.
type RelationEnd struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

func (r *RelationEnd) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		r.Text = text
		r.Confidence = defaultEntityConfidence
		return nil
	}

	var obj struct {
		Text       string   `json:"text"`
		Confidence *float64 `json:"confidence"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	r.Text = obj.Text
	r.Confidence = defaultEntityConfidence
	if obj.Confidence != nil {
		r.Confidence = *obj.Confidence
	}
	return nil
}

// RelationItem is one extracted (head, tail) relation. Collaborators send
// either a two-element array or a {head, tail} object.
type RelationItem struct {
	Head RelationEnd `json:"head"`
	Tail RelationEnd `json:"tail"`
}

func (r *RelationItem) UnmarshalJSON(data []byte) error {
	var pair []RelationEnd
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) != 2 {
			return errors.New("relation item must be a [head, tail] pair")
		}
		r.Head = pair[0]
		r.Tail = pair[1]
		return nil
	}

	type alias RelationItem
	var obj alias
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	r.Head = obj.Head
	r.Tail = obj.Tail
	return nil
}

// Association is one external association database record.
type Association struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	Score    float64 `json:"score"`
	Relation string  `json:"relation,omitempty"`
}

// AddEntities ingests extraction entities grouped by category. Returns the
// number of newly created nodes.
func (s *Store) AddEntities(byCategory map[string][]EntityItem) int {
	created := 0
	for rawCategory, items := range byCategory {
		category := common.NormalizeCategory(rawCategory)
		for _, item := range items {
			if strings.TrimSpace(item.Text) == "" {
				continue
			}
			if s.UpsertNode(item.Text, category, item.Confidence, common.ProvenanceExtraction) {
				created++
			}
		}
	}
	logger.Debug("[Graph] ingested extraction entities", "created", created)
	return created
}

// AddRelations ingests extraction relations grouped by relation type. Edge
// weight is the mean of the endpoint confidences. Items with a missing
// endpoint are skipped. Returns the number of newly created edges.
func (s *Store) AddRelations(byRelation map[string][]RelationItem) int {
	created := 0
	for relation, items := range byRelation {
		for _, item := range items {
			if strings.TrimSpace(item.Head.Text) == "" || strings.TrimSpace(item.Tail.Text) == "" {
				continue
			}
			weight := (item.Head.Confidence + item.Tail.Confidence) / 2
			if s.UpsertEdge(common.Edge{
				From:       item.Head.Text,
				To:         item.Tail.Text,
				Relation:   relation,
				Weight:     weight,
				Provenance: common.ProvenanceExtraction,
			}) {
				created++
			}
		}
	}
	logger.Debug("[Graph] ingested extraction relations", "created", created)
	return created
}

// AddAssociations ingests external association records around a resolved
// seed entity. The seed is ground truth (confidence 1.0). Association edges
// never overwrite an edge established by another source.
func (s *Store) AddAssociations(seedLabel string, seedCategory common.Category, neighbors []Association) int {
	if strings.TrimSpace(seedLabel) == "" {
		return 0
	}
	s.UpsertNode(seedLabel, seedCategory, 1.0, common.ProvenanceAssociation)

	created := 0
	for _, neighbor := range neighbors {
		if strings.TrimSpace(neighbor.ID) == "" {
			continue
		}
		s.UpsertNode(neighbor.ID, common.NormalizeCategory(neighbor.Category), neighbor.Score, common.ProvenanceAssociation)
		if s.HasEdge(seedLabel, neighbor.ID) {
			continue
		}
		relation := neighbor.Relation
		if relation == "" {
			relation = "associated_with"
		}
		if s.UpsertEdge(common.Edge{
			From:       seedLabel,
			To:         neighbor.ID,
			Relation:   relation,
			Weight:     neighbor.Score,
			Provenance: common.ProvenanceAssociation,
		}) {
			created++
		}
	}
	logger.Debug("[Graph] ingested external associations", "seed", seedLabel, "created", created)
	return created
}

// Fixed weights for the curated enrichment tables.
const (
	pathwayEdgeWeight   = 0.85
	cellTypeEdgeWeight  = 0.75
	signalingEdgeWeight = 0.8
)

// AddPathwayEnrichment enriches the graph around a seed gene from the
// curated tables: pathway membership, cell-type expression and directional
// signaling partners. Genes absent from every table are a no-op.
func (s *Store) AddPathwayEnrichment(seed string, tables *curated.Tables) int {
	if tables == nil {
		return 0
	}

	created := 0
	for _, pathway := range tables.Pathways(seed) {
		if s.UpsertNode(pathway, common.CategoryPathway, pathwayEdgeWeight, common.ProvenanceCurated) {
			created++
		}
		if !s.HasEdge(seed, pathway) {
			s.UpsertEdge(common.Edge{
				From:       seed,
				To:         pathway,
				Relation:   "participates_in",
				Weight:     pathwayEdgeWeight,
				Provenance: common.ProvenanceCurated,
			})
		}
	}

	for _, cellType := range tables.CellTypes(seed) {
		if s.UpsertNode(cellType, common.CategoryCellType, cellTypeEdgeWeight, common.ProvenanceCurated) {
			created++
		}
		if !s.HasEdge(seed, cellType) {
			s.UpsertEdge(common.Edge{
				From:       seed,
				To:         cellType,
				Relation:   "expressed_in",
				Weight:     cellTypeEdgeWeight,
				Provenance: common.ProvenanceCurated,
			})
		}
	}

	cascade, ok := tables.Signaling(seed)
	if ok {
		for _, partner := range cascade.Upstream {
			if s.UpsertNode(partner.Name, InferCategory(partner.Name), signalingEdgeWeight, common.ProvenanceCurated) {
				created++
			}
			s.SetSignalRole(partner.Name, common.SignalUpstream)
			if !s.HasEdge(partner.Name, seed) {
				s.UpsertEdge(common.Edge{
					From:            partner.Name,
					To:              seed,
					Relation:        partner.Label,
					Label:           partner.Label,
					Weight:          signalingEdgeWeight,
					Color:           signalingColor(partner.Label),
					Provenance:      common.ProvenanceCurated,
					SignalDirection: common.SignalUpstream,
				})
			}
		}

		for _, partner := range cascade.Downstream {
			if s.UpsertNode(partner.Name, InferCategory(partner.Name), signalingEdgeWeight, common.ProvenanceCurated) {
				created++
			}
			s.SetSignalRole(partner.Name, common.SignalDownstream)
			if !s.HasEdge(seed, partner.Name) {
				s.UpsertEdge(common.Edge{
					From:            seed,
					To:              partner.Name,
					Relation:        partner.Label,
					Label:           partner.Label,
					Weight:          signalingEdgeWeight,
					Color:           signalingColor(partner.Label),
					Provenance:      common.ProvenanceCurated,
					SignalDirection: common.SignalDownstream,
				})
			}
		}
	}

	s.SetSignalRole(seed, common.SignalTarget)

	logger.Debug("[Graph] curated enrichment applied", "seed", seed, "created", created)
	return created
}

func signalingColor(label string) string {
	lower := strings.ToLower(label)
	if strings.Contains(lower, "inhibit") || strings.Contains(lower, "repress") {
		return inhibitionEdgeColor
	}
	return activationEdgeColor
}
