package graph

import (
	"math"

	"github.com/oncograph/backend/pkg/common"
)

// Store is a directed, attributed knowledge graph. It is built once per
// incoming query by the ingestion methods in assemble.go (single writer,
// fixed phase order) and is read-only for the ranking subsystem afterwards,
// so it carries no internal locking.
//
// Node identity is the exact entity string. Cycles are permitted.
type Store struct {
	nodes     map[string]*common.Node
	nodeOrder []string

	// out[from][to] holds the single edge per ordered pair.
	out       map[string]map[string]*common.Edge
	in        map[string]map[string]struct{}
	edgeOrder []edgeKey
	edgeCount int

	layout    map[string][2]float64
	layoutKey layoutCacheKey
}

type edgeKey struct {
	from string
	to   string
}

// NewStore creates an empty graph store.
func NewStore() *Store {
	return &Store{
		nodes: make(map[string]*common.Node),
		out:   make(map[string]map[string]*common.Edge),
		in:    make(map[string]map[string]struct{}),
	}
}

// NodeCount returns the number of nodes in the graph.
func (s *Store) NodeCount() int {
	return len(s.nodes)
}

// EdgeCount returns the number of edges in the graph.
func (s *Store) EdgeCount() int {
	return s.edgeCount
}

// HasNode reports whether a node with the given id exists.
func (s *Store) HasNode(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

// Node returns the node with the given id, or nil if it does not exist.
func (s *Store) Node(id string) *common.Node {
	return s.nodes[id]
}

// HasEdge reports whether an edge exists for the ordered (from, to) pair.
func (s *Store) HasEdge(from, to string) bool {
	_, ok := s.out[from][to]
	return ok
}

// Edge returns the edge for the ordered (from, to) pair, or nil.
func (s *Store) Edge(from, to string) *common.Edge {
	return s.out[from][to]
}

// Nodes returns all nodes in insertion order.
func (s *Store) Nodes() []*common.Node {
	nodes := make([]*common.Node, 0, len(s.nodeOrder))
	for _, id := range s.nodeOrder {
		nodes = append(nodes, s.nodes[id])
	}
	return nodes
}

// Edges returns all edges in insertion order.
func (s *Store) Edges() []*common.Edge {
	edges := make([]*common.Edge, 0, len(s.edgeOrder))
	for _, key := range s.edgeOrder {
		edges = append(edges, s.out[key.from][key.to])
	}
	return edges
}

// Neighbor pairs an adjacent node id with the weight of the connecting edge.
type Neighbor struct {
	ID     string
	Weight float64
}

// Successors returns the targets of all outgoing edges of id, in insertion order.
func (s *Store) Successors(id string) []Neighbor {
	targets := s.out[id]
	if len(targets) == 0 {
		return nil
	}
	neighbors := make([]Neighbor, 0, len(targets))
	for _, key := range s.edgeOrder {
		if key.from != id {
			continue
		}
		neighbors = append(neighbors, Neighbor{ID: key.to, Weight: targets[key.to].Weight})
	}
	return neighbors
}

// Predecessors returns the sources of all incoming edges of id, in insertion order.
func (s *Store) Predecessors(id string) []Neighbor {
	sources := s.in[id]
	if len(sources) == 0 {
		return nil
	}
	neighbors := make([]Neighbor, 0, len(sources))
	for _, key := range s.edgeOrder {
		if key.to != id {
			continue
		}
		neighbors = append(neighbors, Neighbor{ID: key.from, Weight: s.out[key.from][key.to].Weight})
	}
	return neighbors
}

// Degree returns the total number of edges (in + out) touching id.
func (s *Store) Degree(id string) int {
	return len(s.out[id]) + len(s.in[id])
}

// DegreeCentrality returns degree / (n - 1), the fraction of other nodes a
// node is directly connected to. Zero for graphs with fewer than two nodes.
func (s *Store) DegreeCentrality(id string) float64 {
	n := len(s.nodes)
	if n < 2 {
		return 0
	}
	return float64(s.Degree(id)) / float64(n-1)
}

// UpsertNode inserts a node or merges it into an existing one.
//
// On re-insertion confidence is max-merged; the category and provenance of
// the first insertion are retained. Returns true when a new node was created.
func (s *Store) UpsertNode(id string, category common.Category, confidence float64, provenance common.Provenance) bool {
	if existing, ok := s.nodes[id]; ok {
		if confidence > existing.Confidence {
			existing.Confidence = clamp01(confidence)
		}
		return false
	}

	s.nodes[id] = &common.Node{
		ID:          id,
		Category:    category,
		Label:       id,
		Confidence:  clamp01(confidence),
		Provenance:  provenance,
		Color:       NodeColor(category),
		BorderColor: NodeBorderColor(category),
	}
	s.nodeOrder = append(s.nodeOrder, id)
	return true
}

// EnsureNode guarantees a node with the given id exists, creating it with a
// pattern-inferred category and provenance "inferred" when it does not.
func (s *Store) EnsureNode(id string) {
	if s.HasNode(id) {
		return
	}
	s.UpsertNode(id, InferCategory(id), 0.5, common.ProvenanceInferred)
}

// SetSignalRole marks an existing node's position in a signaling chain.
// Unknown ids are ignored.
func (s *Store) SetSignalRole(id string, role common.SignalRole) {
	if node, ok := s.nodes[id]; ok {
		node.SignalRole = role
	}
}

// UpsertEdge inserts a directed edge or strengthens an existing one.
//
// At most one edge exists per ordered pair: on re-insertion the weight is
// max-merged, and relation, label and color are overwritten to match
// whichever insertion carried the higher weight. Missing endpoints are
// auto-created via EnsureNode. Returns true when a new edge was created.
func (s *Store) UpsertEdge(edge common.Edge) bool {
	s.EnsureNode(edge.From)
	s.EnsureNode(edge.To)

	edge.Weight = clamp01(edge.Weight)
	if edge.Label == "" {
		edge.Label = EdgeLabel(edge.Relation)
	}
	if edge.Color == "" {
		edge.Color = EdgeColor(edge.Relation)
	}

	if existing, ok := s.out[edge.From][edge.To]; ok {
		if edge.Weight > existing.Weight {
			existing.Weight = edge.Weight
			existing.Relation = edge.Relation
			existing.Label = edge.Label
			existing.Color = edge.Color
			existing.Provenance = edge.Provenance
			if edge.SignalDirection != "" {
				existing.SignalDirection = edge.SignalDirection
			}
		}
		return false
	}

	if s.out[edge.From] == nil {
		s.out[edge.From] = make(map[string]*common.Edge)
	}
	if s.in[edge.To] == nil {
		s.in[edge.To] = make(map[string]struct{})
	}
	stored := edge
	s.out[edge.From][edge.To] = &stored
	s.in[edge.To][edge.From] = struct{}{}
	s.edgeOrder = append(s.edgeOrder, edgeKey{from: edge.From, to: edge.To})
	s.edgeCount++
	return true
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
