package graph

import (
	"math"
	"sort"

	"github.com/oncograph/backend/pkg/common"
)

// Thresholds for the presentation flags on serialized output.
const (
	glowConfidenceThreshold = 0.8
	animatedWeightThreshold = 0.8
	defaultLayoutPadding    = 60.0
	DefaultSerialiseWidth   = 800.0
	DefaultSerialiseHeight  = 600.0
)

// SerializedNode is the wire form of a node, enriched with layout and
// presentation metadata.
type SerializedNode struct {
	ID          string            `json:"id"`
	Type        common.Category   `json:"type"`
	Label       string            `json:"label"`
	Color       string            `json:"color"`
	BorderColor string            `json:"border_color"`
	Confidence  float64           `json:"confidence"`
	Radius      float64           `json:"radius"`
	X           float64           `json:"x"`
	Y           float64           `json:"y"`
	Degree      int               `json:"degree"`
	Source      common.Provenance `json:"source"`
	Glow        bool              `json:"glow"`
	SignalRole  common.SignalRole `json:"signal_role,omitempty"`
}

// SerializedLink is the wire form of an edge.
type SerializedLink struct {
	Source          string            `json:"source"`
	Target          string            `json:"target"`
	Relation        string            `json:"relation"`
	Label           string            `json:"label"`
	Weight          float64           `json:"weight"`
	Color           string            `json:"color"`
	Thickness       float64           `json:"thickness"`
	SourceData      common.Provenance `json:"source_data"`
	Animated        bool              `json:"animated"`
	SignalDirection common.SignalRole `json:"signal_direction,omitempty"`
}

// Stats aggregates counts over the serialized graph.
type Stats struct {
	TotalNodes    int            `json:"total_nodes"`
	TotalEdges    int            `json:"total_edges"`
	EntityTypes   map[string]int `json:"entity_types"`
	RelationTypes map[string]int `json:"relation_types"`
	Sources       map[string]int `json:"sources"`
}

// LegendEntry describes one category present in the graph.
type LegendEntry struct {
	Type  common.Category `json:"type"`
	Color string          `json:"color"`
	Count int             `json:"count"`
	Label string          `json:"label"`
}

// Payload is the full serialized graph sent to callers.
type Payload struct {
	Nodes  []SerializedNode `json:"nodes"`
	Links  []SerializedLink `json:"links"`
	Stats  Stats            `json:"stats"`
	Legend []LegendEntry    `json:"legend"`
}

func emptyPayload() Payload {
	return Payload{
		Nodes: []SerializedNode{},
		Links: []SerializedLink{},
		Stats: Stats{
			EntityTypes:   map[string]int{},
			RelationTypes: map[string]int{},
			Sources:       map[string]int{},
		},
		Legend: []LegendEntry{},
	}
}

// Serialise emits the graph with layout coordinates, presentation metadata,
// aggregate stats and a legend sorted by category count descending. An empty
// graph serializes to a well-formed empty payload.
func (s *Store) Serialise(width, height float64) Payload {
	if len(s.nodes) == 0 {
		return emptyPayload()
	}

	pos := s.ComputeLayout(width, height, defaultLayoutPadding)
	payload := emptyPayload()

	for _, node := range s.Nodes() {
		centrality := s.DegreeCentrality(node.ID)
		importance := 0.4*centrality + 0.6*node.Confidence
		radius := BaseRadius + (MaxRadius-BaseRadius)*importance

		p := pos[node.ID]

		payload.Stats.EntityTypes[string(node.Category)]++
		payload.Stats.Sources[string(node.Provenance)]++

		payload.Nodes = append(payload.Nodes, SerializedNode{
			ID:          node.ID,
			Type:        node.Category,
			Label:       node.Label,
			Color:       node.Color,
			BorderColor: node.BorderColor,
			Confidence:  round3(node.Confidence),
			Radius:      round1(radius),
			X:           p[0],
			Y:           p[1],
			Degree:      s.Degree(node.ID),
			Source:      node.Provenance,
			Glow:        node.Confidence > glowConfidenceThreshold,
			SignalRole:  node.SignalRole,
		})
	}

	for _, edge := range s.Edges() {
		payload.Stats.RelationTypes[edge.Relation]++

		// Thickness scales linearly from 1px at weight 0 to 5px at weight 1.
		thickness := 1.0 + edge.Weight*4.0

		payload.Links = append(payload.Links, SerializedLink{
			Source:          edge.From,
			Target:          edge.To,
			Relation:        edge.Relation,
			Label:           edge.Label,
			Weight:          round3(edge.Weight),
			Color:           edge.Color,
			Thickness:       round1(thickness),
			SourceData:      edge.Provenance,
			Animated:        edge.Weight > animatedWeightThreshold,
			SignalDirection: edge.SignalDirection,
		})
	}

	for category, count := range payload.Stats.EntityTypes {
		c := common.Category(category)
		payload.Legend = append(payload.Legend, LegendEntry{
			Type:  c,
			Color: NodeColor(c),
			Count: count,
			Label: CategoryDisplayName(c),
		})
	}
	sort.Slice(payload.Legend, func(i, j int) bool {
		if payload.Legend[i].Count != payload.Legend[j].Count {
			return payload.Legend[i].Count > payload.Legend[j].Count
		}
		return payload.Legend[i].Type < payload.Legend[j].Type
	})

	payload.Stats.TotalNodes = len(s.nodes)
	payload.Stats.TotalEdges = s.edgeCount
	return payload
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
