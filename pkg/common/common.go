package common

import "strings"

// Category classifies a node in the knowledge graph. The taxonomy is fixed;
// anything that cannot be classified falls back to CategoryUnknown.
type Category string

const (
	CategoryGene           Category = "gene"
	CategoryDisease        Category = "disease"
	CategoryDrug           Category = "drug"
	CategoryPathway        Category = "pathway"
	CategoryMutation       Category = "mutation"
	CategoryCellType       Category = "cell_type"
	CategoryBiomarker      Category = "biomarker"
	CategoryMechanism      Category = "mechanism"
	CategoryAnatomicalSite Category = "anatomical_site"
	CategoryOutcome        Category = "clinical_outcome"
	CategoryUnknown        Category = "unknown"
)

// Provenance records which ingestion phase created or last strengthened
// a node or edge.
type Provenance string

const (
	ProvenanceExtraction  Provenance = "extraction"
	ProvenanceAssociation Provenance = "external_association"
	ProvenanceCurated     Provenance = "curated"
	ProvenanceInferred    Provenance = "inferred"
)

// SignalRole marks a node's position in a directional signaling chain
// around a seed gene. It is only set by curated signaling ingestion.
type SignalRole string

const (
	SignalUpstream   SignalRole = "upstream"
	SignalDownstream SignalRole = "downstream"
	SignalTarget     SignalRole = "target"
)

// Node is a node in the knowledge graph. The ID is the exact entity text;
// two mentions of the same string are the same node regardless of source.
//
// Color and BorderColor are derived from Category at creation time and are
// not independent state.
type Node struct {
	ID          string     `json:"id"`
	Category    Category   `json:"category"`
	Label       string     `json:"label"`
	Confidence  float64    `json:"confidence"`
	Provenance  Provenance `json:"provenance"`
	SignalRole  SignalRole `json:"signal_role,omitempty"`
	Color       string     `json:"color"`
	BorderColor string     `json:"border_color"`
}

// Edge is a directed edge between two nodes. At most one edge exists per
// ordered (From, To) pair; competing relations collapse to the strongest.
type Edge struct {
	From            string     `json:"source"`
	To              string     `json:"target"`
	Relation        string     `json:"relation"`
	Weight          float64    `json:"weight"`
	Label           string     `json:"label"`
	Color           string     `json:"color"`
	Provenance      Provenance `json:"provenance"`
	SignalDirection SignalRole `json:"signal_direction,omitempty"`
}

var categoryAliases = map[string]Category{
	"gene":             CategoryGene,
	"disease":          CategoryDisease,
	"drug":             CategoryDrug,
	"pathway":          CategoryPathway,
	"mutation":         CategoryMutation,
	"cell_type":        CategoryCellType,
	"celltype":         CategoryCellType,
	"biomarker":        CategoryBiomarker,
	"mechanism":        CategoryMechanism,
	"anatomical_site":  CategoryAnatomicalSite,
	"clinical_outcome": CategoryOutcome,
}

// NormalizeCategory maps external category spellings ("Gene", "CellType",
// "Cell Type") to the canonical lowercase taxonomy. Unrecognized values
// normalize to CategoryUnknown.
func NormalizeCategory(raw string) Category {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	if c, ok := categoryAliases[key]; ok {
		return c
	}
	// External sources sometimes send CamelCase without separators.
	if c, ok := categoryAliases[strings.ReplaceAll(key, "_", "")]; ok {
		return c
	}
	return CategoryUnknown
}

// Categories lists the full taxonomy in display order.
func Categories() []Category {
	return []Category{
		CategoryGene,
		CategoryDisease,
		CategoryDrug,
		CategoryPathway,
		CategoryMutation,
		CategoryCellType,
		CategoryBiomarker,
		CategoryMechanism,
		CategoryAnatomicalSite,
		CategoryOutcome,
	}
}
