package curated

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	tables, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing file must not be an error, got %v", err)
	}
	if len(tables.GenePathways) != 0 || len(tables.GeneCellTypes) != 0 || len(tables.SignalingCascades) != 0 {
		t.Errorf("missing file should yield empty tables: %+v", tables)
	}
}

func TestLoadParsesPairPartners(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.json")
	payload := `{
		"gene_pathways": {"KRAS": ["MAPK Signaling"]},
		"gene_cell_types": {"KRAS": ["Pancreatic Ductal Cells"]},
		"signaling_cascades": {
			"KRAS": {
				"upstream": [["EGFR", "activates"], ["NF1", "inhibits"]],
				"downstream": [{"name": "RAF1", "label": "activates"}]
			}
		}
	}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}

	tables, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if got := tables.Pathways("KRAS"); len(got) != 1 || got[0] != "MAPK Signaling" {
		t.Errorf("unexpected pathways: %v", got)
	}
	if got := tables.CellTypes("KRAS"); len(got) != 1 || got[0] != "Pancreatic Ductal Cells" {
		t.Errorf("unexpected cell types: %v", got)
	}

	cascade, ok := tables.Signaling("KRAS")
	if !ok {
		t.Fatal("expected signaling cascade for KRAS")
	}
	if len(cascade.Upstream) != 2 || cascade.Upstream[1].Name != "NF1" || cascade.Upstream[1].Label != "inhibits" {
		t.Errorf("pair partners decoded wrong: %+v", cascade.Upstream)
	}
	if len(cascade.Downstream) != 1 || cascade.Downstream[0].Name != "RAF1" {
		t.Errorf("object partners decoded wrong: %+v", cascade.Downstream)
	}

	if _, ok := tables.Signaling("BRAF"); ok {
		t.Error("unknown gene should have no cascade")
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte(`{"gene_pathways": [`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed JSON should be an error")
	}
}

func TestDefaultTablesCoverCommonSeeds(t *testing.T) {
	tables := Default()
	if len(tables.Pathways("KRAS")) == 0 {
		t.Error("default tables should cover KRAS pathways")
	}
	cascade, ok := tables.Signaling("KRAS")
	if !ok || len(cascade.Upstream) == 0 || len(cascade.Downstream) == 0 {
		t.Error("default tables should carry a KRAS cascade")
	}
}
