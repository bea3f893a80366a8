// Package curated loads the static pathway, cell-type and signaling lookup
// tables used to enrich a knowledge graph around a seed gene. The tables are
// read once at process start and treated as immutable afterwards.
package curated

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/oncograph/backend/pkg/logger"
)

// Partner is one signaling partner of a gene together with the relation
// label connecting them ("activates", "inhibits", "phosphorylates", ...).
// The on-disk format is a two-element array per partner.
type Partner struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

func (p *Partner) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) != 2 {
			return fmt.Errorf("signaling partner must be a [name, label] pair, got %d elements", len(pair))
		}
		p.Name = pair[0]
		p.Label = pair[1]
		return nil
	}

	type alias Partner
	var obj alias
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	p.Name = obj.Name
	p.Label = obj.Label
	return nil
}

// Cascade holds the directional signaling context of one gene.
type Cascade struct {
	Upstream   []Partner `json:"upstream"`
	Downstream []Partner `json:"downstream"`
}

// Tables is the full curated lookup set, keyed by gene symbol.
type Tables struct {
	GenePathways      map[string][]string `json:"gene_pathways"`
	GeneCellTypes     map[string][]string `json:"gene_cell_types"`
	SignalingCascades map[string]Cascade  `json:"signaling_cascades"`
}

// Empty returns a table set with no entries. Enrichment against it is a
// no-op.
func Empty() *Tables {
	return &Tables{
		GenePathways:      map[string][]string{},
		GeneCellTypes:     map[string][]string{},
		SignalingCascades: map[string]Cascade{},
	}
}

// Default returns a small built-in table set covering common oncology seed
// genes, used when no tables file is configured.
func Default() *Tables {
	return &Tables{
		GenePathways: map[string][]string{
			"KRAS":   {"MAPK Signaling", "PI3K-AKT Signaling"},
			"EGFR":   {"MAPK Signaling", "JAK-STAT Signaling"},
			"BRAF":   {"MAPK Signaling"},
			"TP53":   {"Cell Cycle Checkpoint", "Apoptosis"},
			"PIK3CA": {"PI3K-AKT Signaling"},
			"MYC":    {"Cell Cycle Checkpoint", "WNT Signaling"},
		},
		GeneCellTypes: map[string][]string{
			"KRAS": {"Pancreatic Ductal Cells", "Colonic Epithelium", "Alveolar Type II Cells"},
			"EGFR": {"Alveolar Type II Cells", "Keratinocytes"},
			"TP53": {"Ubiquitous Expression"},
		},
		SignalingCascades: map[string]Cascade{
			"KRAS": {
				Upstream: []Partner{
					{Name: "EGFR", Label: "activates"},
					{Name: "SOS1", Label: "activates"},
					{Name: "NF1", Label: "inhibits"},
				},
				Downstream: []Partner{
					{Name: "RAF1", Label: "activates"},
					{Name: "PIK3CA", Label: "activates"},
					{Name: "RALGDS", Label: "activates"},
				},
			},
			"EGFR": {
				Upstream: []Partner{
					{Name: "EGF", Label: "activates"},
					{Name: "TGFA", Label: "activates"},
				},
				Downstream: []Partner{
					{Name: "KRAS", Label: "activates"},
					{Name: "STAT3", Label: "activates"},
				},
			},
			"TP53": {
				Upstream: []Partner{
					{Name: "ATM", Label: "activates"},
					{Name: "MDM2", Label: "inhibits"},
				},
				Downstream: []Partner{
					{Name: "CDKN1A", Label: "activates"},
					{Name: "BAX", Label: "activates"},
				},
			},
		},
	}
}

// Load reads the curated tables from a JSON file. A missing file is not an
// error; it yields empty tables and the enrichment phase degrades to a
// no-op.
func Load(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("[Curated] tables file not found, enrichment disabled", "path", path)
			return Empty(), nil
		}
		return nil, fmt.Errorf("failed to read curated tables: %w", err)
	}

	tables := Empty()
	if err := json.Unmarshal(data, tables); err != nil {
		return nil, fmt.Errorf("failed to parse curated tables: %w", err)
	}

	logger.Info("[Curated] tables loaded",
		"path", path,
		"pathwayGenes", len(tables.GenePathways),
		"cellTypeGenes", len(tables.GeneCellTypes),
		"signalingGenes", len(tables.SignalingCascades),
	)
	return tables, nil
}

// Pathways returns the curated pathway names for a gene.
func (t *Tables) Pathways(gene string) []string {
	return t.GenePathways[gene]
}

// CellTypes returns the curated cell-type names for a gene.
func (t *Tables) CellTypes(gene string) []string {
	return t.GeneCellTypes[gene]
}

// Signaling returns the curated signaling cascade for a gene, if any.
func (t *Tables) Signaling(gene string) (Cascade, bool) {
	cascade, ok := t.SignalingCascades[gene]
	return cascade, ok
}
