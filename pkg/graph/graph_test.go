package graph

import (
	"encoding/json"
	"testing"

	"github.com/oncograph/backend/pkg/common"
	"github.com/oncograph/backend/pkg/curated"
)

func TestUpsertNodeIdempotent(t *testing.T) {
	s := NewStore()

	created := s.UpsertNode("KRAS", common.CategoryGene, 0.6, common.ProvenanceExtraction)
	if !created {
		t.Fatal("first insertion should create the node")
	}
	created = s.UpsertNode("KRAS", common.CategoryDisease, 0.9, common.ProvenanceCurated)
	if created {
		t.Fatal("re-insertion should not create a second node")
	}

	if s.NodeCount() != 1 {
		t.Fatalf("expected 1 node, got %d", s.NodeCount())
	}
	node := s.Node("KRAS")
	if node.Confidence != 0.9 {
		t.Errorf("confidence should be max-merged to 0.9, got %v", node.Confidence)
	}
	if node.Category != common.CategoryGene {
		t.Errorf("category of first insertion should be retained, got %s", node.Category)
	}
	if node.Provenance != common.ProvenanceExtraction {
		t.Errorf("provenance of first insertion should be retained, got %s", node.Provenance)
	}

	// Lower confidence never decreases the stored value.
	s.UpsertNode("KRAS", common.CategoryGene, 0.2, common.ProvenanceExtraction)
	if s.Node("KRAS").Confidence != 0.9 {
		t.Errorf("confidence must be monotonically non-decreasing, got %v", s.Node("KRAS").Confidence)
	}
}

func TestUpsertEdgeStrengthensNotDuplicates(t *testing.T) {
	s := NewStore()
	s.UpsertNode("A", common.CategoryGene, 0.8, common.ProvenanceExtraction)
	s.UpsertNode("B", common.CategoryDisease, 0.8, common.ProvenanceExtraction)

	s.UpsertEdge(common.Edge{From: "A", To: "B", Relation: "associated_with", Weight: 0.4, Provenance: common.ProvenanceExtraction})
	s.UpsertEdge(common.Edge{From: "A", To: "B", Relation: "drives", Weight: 0.9, Provenance: common.ProvenanceCurated})

	if s.EdgeCount() != 1 {
		t.Fatalf("expected 1 edge, got %d", s.EdgeCount())
	}
	edge := s.Edge("A", "B")
	if edge.Weight != 0.9 {
		t.Errorf("weight should be max of insertions, got %v", edge.Weight)
	}
	if edge.Relation != "drives" {
		t.Errorf("relation should follow the higher-weight insertion, got %s", edge.Relation)
	}

	// A weaker re-insertion changes nothing.
	s.UpsertEdge(common.Edge{From: "A", To: "B", Relation: "inhibits", Weight: 0.1, Provenance: common.ProvenanceExtraction})
	edge = s.Edge("A", "B")
	if edge.Weight != 0.9 || edge.Relation != "drives" {
		t.Errorf("weaker insertion must not overwrite, got weight=%v relation=%s", edge.Weight, edge.Relation)
	}

	// Opposite direction is a distinct edge.
	s.UpsertEdge(common.Edge{From: "B", To: "A", Relation: "feedback", Weight: 0.3, Provenance: common.ProvenanceExtraction})
	if s.EdgeCount() != 2 {
		t.Errorf("reverse direction should be its own edge, got %d edges", s.EdgeCount())
	}
}

func TestUpsertEdgeAutoCreatesEndpoints(t *testing.T) {
	s := NewStore()
	s.UpsertEdge(common.Edge{From: "EGFR", To: "erlotinib", Relation: "targeted_by", Weight: 0.7, Provenance: common.ProvenanceExtraction})

	if s.NodeCount() != 2 {
		t.Fatalf("expected 2 auto-created nodes, got %d", s.NodeCount())
	}

	gene := s.Node("EGFR")
	if gene.Category != common.CategoryGene {
		t.Errorf("EGFR should infer as gene, got %s", gene.Category)
	}
	if gene.Provenance != common.ProvenanceInferred {
		t.Errorf("auto-created node should have provenance inferred, got %s", gene.Provenance)
	}
	if gene.Confidence != 0.5 {
		t.Errorf("auto-created node should have confidence 0.5, got %v", gene.Confidence)
	}

	drug := s.Node("erlotinib")
	if drug.Category != common.CategoryDrug {
		t.Errorf("erlotinib should infer as drug, got %s", drug.Category)
	}
}

func TestInferCategory(t *testing.T) {
	tests := []struct {
		name string
		want common.Category
	}{
		{"KRAS", common.CategoryGene},
		{"TP53", common.CategoryGene},
		// Short all-caps tokens hit the gene rule even when they look like
		// mutation codes; only mixed-case variants fall through.
		{"G12C", common.CategoryGene},
		{"V600E", common.CategoryGene},
		{"p.G12C", common.CategoryMutation},
		{"exon19del", common.CategoryMutation},
		{"Pancreatic Cancer", common.CategoryDisease},
		{"Lung Adenocarcinoma", common.CategoryDisease},
		{"MAPK Signaling", common.CategoryPathway},
		{"sotorasib", common.CategoryDrug},
		{"cetuximab", common.CategoryDrug},
		{"immune evasion", common.CategoryMechanism},
	}
	for _, tt := range tests {
		if got := InferCategory(tt.name); got != tt.want {
			t.Errorf("InferCategory(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestAddEntities(t *testing.T) {
	s := NewStore()
	created := s.AddEntities(map[string][]EntityItem{
		"gene":    {{Text: "KRAS", Confidence: 0.95}, {Text: "TP53", Confidence: 0.9}},
		"disease": {{Text: "Pancreatic Cancer", Confidence: 0.8}},
		"drug":    {{Text: "", Confidence: 0.9}},
	})

	if created != 3 {
		t.Fatalf("expected 3 created nodes, got %d", created)
	}
	if s.Node("KRAS").Category != common.CategoryGene {
		t.Errorf("category not normalized, got %s", s.Node("KRAS").Category)
	}

	// Repeating the batch creates nothing new.
	created = s.AddEntities(map[string][]EntityItem{
		"gene": {{Text: "KRAS", Confidence: 0.5}},
	})
	if created != 0 {
		t.Errorf("re-insertion should create nothing, got %d", created)
	}
}

func TestAddRelationsWeightAndSkip(t *testing.T) {
	s := NewStore()
	created := s.AddRelations(map[string][]RelationItem{
		"drives": {
			{Head: RelationEnd{Text: "KRAS", Confidence: 0.5}, Tail: RelationEnd{Text: "Lung Adenocarcinoma", Confidence: 0.75}},
			{Head: RelationEnd{Text: "", Confidence: 0.9}, Tail: RelationEnd{Text: "X", Confidence: 0.9}},
		},
	})

	if created != 1 {
		t.Fatalf("expected 1 created edge (malformed item skipped), got %d", created)
	}
	edge := s.Edge("KRAS", "Lung Adenocarcinoma")
	if edge == nil {
		t.Fatal("edge missing")
	}
	if edge.Weight != 0.625 {
		t.Errorf("weight should be mean of endpoint confidences, got %v", edge.Weight)
	}
}

func TestAddAssociations(t *testing.T) {
	s := NewStore()
	// A pre-existing edge from another source must not be overwritten.
	s.UpsertEdge(common.Edge{From: "KRAS", To: "NRAS", Relation: "paralog_of", Weight: 0.95, Provenance: common.ProvenanceExtraction})

	created := s.AddAssociations("KRAS", common.CategoryGene, []Association{
		{ID: "NRAS", Category: "gene", Score: 0.6},
		{ID: "Colorectal Cancer", Category: "disease", Score: 0.82},
	})

	if created != 1 {
		t.Fatalf("expected 1 created edge, got %d", created)
	}
	if s.Node("KRAS").Confidence != 1.0 {
		t.Errorf("seed node is ground truth at confidence 1.0, got %v", s.Node("KRAS").Confidence)
	}
	if edge := s.Edge("KRAS", "NRAS"); edge.Relation != "paralog_of" {
		t.Errorf("association must not overwrite existing edge, got %s", edge.Relation)
	}
	edge := s.Edge("KRAS", "Colorectal Cancer")
	if edge.Relation != "associated_with" || edge.Weight != 0.82 {
		t.Errorf("unexpected association edge: %+v", edge)
	}
}

func TestAddPathwayEnrichment(t *testing.T) {
	tables := &curated.Tables{
		GenePathways:  map[string][]string{"KRAS": {"MAPK Signaling"}},
		GeneCellTypes: map[string][]string{"KRAS": {"Pancreatic Ductal Cells"}},
		SignalingCascades: map[string]curated.Cascade{
			"KRAS": {
				Upstream:   []curated.Partner{{Name: "NF1", Label: "inhibits"}},
				Downstream: []curated.Partner{{Name: "RAF1", Label: "activates"}},
			},
		},
	}

	s := NewStore()
	s.UpsertNode("KRAS", common.CategoryGene, 1.0, common.ProvenanceAssociation)
	s.AddPathwayEnrichment("KRAS", tables)

	pathway := s.Edge("KRAS", "MAPK Signaling")
	if pathway == nil || pathway.Weight != pathwayEdgeWeight || pathway.Relation != "participates_in" {
		t.Errorf("unexpected pathway edge: %+v", pathway)
	}
	cellType := s.Edge("KRAS", "Pancreatic Ductal Cells")
	if cellType == nil || cellType.Weight != cellTypeEdgeWeight || cellType.Relation != "expressed_in" {
		t.Errorf("unexpected cell type edge: %+v", cellType)
	}

	upstream := s.Edge("NF1", "KRAS")
	if upstream == nil || upstream.SignalDirection != common.SignalUpstream {
		t.Fatalf("unexpected upstream edge: %+v", upstream)
	}
	if upstream.Color != inhibitionEdgeColor {
		t.Errorf("inhibiting relation should be colored %s, got %s", inhibitionEdgeColor, upstream.Color)
	}
	downstream := s.Edge("KRAS", "RAF1")
	if downstream == nil || downstream.SignalDirection != common.SignalDownstream {
		t.Fatalf("unexpected downstream edge: %+v", downstream)
	}
	if downstream.Color != activationEdgeColor {
		t.Errorf("activating relation should be colored %s, got %s", activationEdgeColor, downstream.Color)
	}

	if s.Node("KRAS").SignalRole != common.SignalTarget {
		t.Errorf("seed should be marked target, got %s", s.Node("KRAS").SignalRole)
	}
	if s.Node("NF1").SignalRole != common.SignalUpstream {
		t.Errorf("NF1 should be marked upstream, got %s", s.Node("NF1").SignalRole)
	}
	if s.Node("RAF1").SignalRole != common.SignalDownstream {
		t.Errorf("RAF1 should be marked downstream, got %s", s.Node("RAF1").SignalRole)
	}

	// Unknown seeds are a no-op.
	before := s.NodeCount()
	s.AddPathwayEnrichment("BRCA2", tables)
	if s.NodeCount() != before {
		t.Errorf("enrichment of unknown seed should add nothing")
	}
}

func TestFlexibleDecoding(t *testing.T) {
	var extraction ExtractionResult
	payload := `{
		"entities": {
			"gene": ["KRAS", {"text": "TP53", "confidence": 0.9}]
		},
		"relations": {
			"drives": [
				["KRAS", "Lung Adenocarcinoma"],
				{"head": {"text": "TP53", "confidence": 0.8}, "tail": "Apoptosis"}
			]
		}
	}`
	if err := json.Unmarshal([]byte(payload), &extraction); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	genes := extraction.Entities["gene"]
	if genes[0].Text != "KRAS" || genes[0].Confidence != defaultEntityConfidence {
		t.Errorf("bare string entity should default confidence, got %+v", genes[0])
	}
	if genes[1].Confidence != 0.9 {
		t.Errorf("object entity should keep confidence, got %+v", genes[1])
	}

	drives := extraction.Relations["drives"]
	if drives[0].Head.Text != "KRAS" || drives[0].Tail.Text != "Lung Adenocarcinoma" {
		t.Errorf("pair relation decoded wrong: %+v", drives[0])
	}
	if drives[1].Head.Confidence != 0.8 || drives[1].Tail.Confidence != defaultEntityConfidence {
		t.Errorf("object relation decoded wrong: %+v", drives[1])
	}
}

func TestFlexibleDecodingExplicitZeroConfidence(t *testing.T) {
	var entity EntityItem
	if err := json.Unmarshal([]byte(`{"text": "KRAS", "confidence": 0}`), &entity); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if entity.Confidence != 0 {
		t.Errorf("explicit zero confidence must be preserved, got %v", entity.Confidence)
	}

	var end RelationEnd
	if err := json.Unmarshal([]byte(`{"text": "TP53", "confidence": 0}`), &end); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if end.Confidence != 0 {
		t.Errorf("explicit zero confidence must be preserved, got %v", end.Confidence)
	}

	// Absent confidence still takes the default.
	if err := json.Unmarshal([]byte(`{"text": "TP53"}`), &end); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if end.Confidence != defaultEntityConfidence {
		t.Errorf("missing confidence should default, got %v", end.Confidence)
	}
}
