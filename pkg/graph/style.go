package graph

import "github.com/oncograph/backend/pkg/common"

// Node radius scaling for the serialized layout.
const (
	BaseRadius = 22.0
	MaxRadius  = 38.0
)

// Fallback colors for categories and relations outside the palettes.
const (
	defaultNodeColor   = "#9ca3af"
	defaultBorderColor = "#6b7280"
	defaultEdgeColor   = "#94a3b8"
)

// Colors for curated signaling edges, chosen by whether the relation label
// implies inhibition.
const (
	inhibitionEdgeColor = "#ef4444"
	activationEdgeColor = "#22c55e"
)

var nodeColors = map[common.Category]string{
	common.CategoryGene:           "#3b82f6",
	common.CategoryDisease:        "#ef4444",
	common.CategoryDrug:           "#10b981",
	common.CategoryPathway:        "#8b5cf6",
	common.CategoryMutation:       "#f59e0b",
	common.CategoryCellType:       "#06b6d4",
	common.CategoryBiomarker:      "#ec4899",
	common.CategoryMechanism:      "#6366f1",
	common.CategoryAnatomicalSite: "#84cc16",
	common.CategoryOutcome:        "#14b8a6",
}

var nodeBorderColors = map[common.Category]string{
	common.CategoryGene:           "#2563eb",
	common.CategoryDisease:        "#dc2626",
	common.CategoryDrug:           "#059669",
	common.CategoryPathway:        "#7c3aed",
	common.CategoryMutation:       "#d97706",
	common.CategoryCellType:       "#0891b2",
	common.CategoryBiomarker:      "#db2777",
	common.CategoryMechanism:      "#4f46e5",
	common.CategoryAnatomicalSite: "#65a30d",
	common.CategoryOutcome:        "#0d9488",
}

var edgeColors = map[string]string{
	"targets":         "#10b981",
	"associated_with": "#6366f1",
	"mutated_in":      "#f59e0b",
	"participates_in": "#8b5cf6",
	"expressed_in":    "#06b6d4",
	"resistant_to":    "#ef4444",
	"biomarker_for":   "#ec4899",
	"drives":          "#f97316",
	"inhibits":        "#64748b",
	"synergizes_with": "#22c55e",
	"driver":          "#f97316",
}

var edgeLabels = map[string]string{
	"targets":         "targets",
	"associated_with": "assoc.",
	"mutated_in":      "mutated in",
	"participates_in": "in pathway",
	"expressed_in":    "expressed in",
	"resistant_to":    "resistant to",
	"biomarker_for":   "biomarker for",
	"drives":          "drives",
	"inhibits":        "inhibits",
	"synergizes_with": "synergy",
	"driver":          "driver",
}

var categoryDisplayNames = map[common.Category]string{
	common.CategoryGene:           "Gene / Target",
	common.CategoryDisease:        "Disease",
	common.CategoryDrug:           "Drug / Compound",
	common.CategoryPathway:        "Signaling Pathway",
	common.CategoryMutation:       "Mutation",
	common.CategoryCellType:       "Cell Type",
	common.CategoryBiomarker:      "Biomarker",
	common.CategoryMechanism:      "Mechanism",
	common.CategoryAnatomicalSite: "Anatomical Site",
	common.CategoryOutcome:        "Clinical Outcome",
}

// NodeColor returns the fill color for a category.
func NodeColor(c common.Category) string {
	if color, ok := nodeColors[c]; ok {
		return color
	}
	return defaultNodeColor
}

// NodeBorderColor returns the border color for a category.
func NodeBorderColor(c common.Category) string {
	if color, ok := nodeBorderColors[c]; ok {
		return color
	}
	return defaultBorderColor
}

// EdgeColor returns the color for a relation type.
func EdgeColor(relation string) string {
	if color, ok := edgeColors[relation]; ok {
		return color
	}
	return defaultEdgeColor
}

// EdgeLabel returns the human-readable label for a relation type.
func EdgeLabel(relation string) string {
	if label, ok := edgeLabels[relation]; ok {
		return label
	}
	return humanizeRelation(relation)
}

// CategoryDisplayName returns the legend label for a category.
func CategoryDisplayName(c common.Category) string {
	if name, ok := categoryDisplayNames[c]; ok {
		return name
	}
	return string(c)
}
