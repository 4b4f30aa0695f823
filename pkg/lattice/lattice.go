// Package lattice implements the segmentation lattice: a directed acyclic
// graph of candidate spans over an input of known code-point length, scored
// and searched for the maximum-score path from start to end.
package lattice

import "math"

// NodeID identifies a node within a Lattice's nodes slice.
type NodeID uint32

const (
	// NodeIDNone marks "no previous node has been found yet" during path search.
	NodeIDNone NodeID = math.MaxUint32
	// NodeIDBegin marks the virtual start-of-input node. It is never an
	// index into Lattice.nodes.
	NodeIDBegin NodeID = NodeIDNone - 1
)

// Node is a single candidate span in the lattice.
//
// TermID is absent exactly when the node represents an unknown (non-dictionary)
// span. Start and End are code-point indices with 0 <= Start < End <= length.
type Node struct {
	TermID *uint32
	Start  int
	End    int
	Score  float32
}

// Lattice holds every candidate span considered for an input of Length code
// points, bucketed by start and end position for the propagation pass in
// FindPath.
//
// byEnd is sized length+1 (not length): a node may legitimately end exactly
// at the last code-point boundary (end == length), and that slot must exist
// for full-coverage paths to be reachable. byStart only ever needs `length`
// slots since no node can start at the final boundary.
type Lattice struct {
	length  int
	nodes   []Node
	byStart [][]NodeID
	byEnd   [][]NodeID
}

// New allocates a Lattice for an input of the given code-point length.
// nodeCountHint sizes the initial nodes capacity; it is not a hard limit.
func New(nodeCountHint, length int) *Lattice {
	byStart := make([][]NodeID, length)
	byEnd := make([][]NodeID, length+1)
	byEnd[0] = append(byEnd[0], NodeIDBegin)
	return &Lattice{
		length:  length,
		nodes:   make([]Node, 0, nodeCountHint),
		byStart: byStart,
		byEnd:   byEnd,
	}
}

// AddNode appends a node to the lattice, indexing it by its Start and End.
// No deduplication is performed.
func (l *Lattice) AddNode(n Node) {
	id := NodeID(len(l.nodes))
	l.nodes = append(l.nodes, n)
	l.byStart[n.Start] = append(l.byStart[n.Start], id)
	l.byEnd[n.End] = append(l.byEnd[n.End], id)
}

// Nodes returns the lattice's nodes in insertion order. Callers must not
// retain the slice beyond the Lattice's lifetime assumptions (single-use,
// built then queried then discarded).
func (l *Lattice) Nodes() []Node { return l.nodes }

// FindPath computes the maximum-score path from the virtual start node to
// any node ending at the last code-point position, and returns its nodes in
// left-to-right order. Returns nil if the lattice is empty or no connected
// path exists.
//
// Propagation and termination both start their running best-score at 0.0
// and require a strictly greater score to replace it, so a predecessor
// with a non-positive total score can never be chosen. Callers must keep
// node scores strictly positive, or a valid path can be silently dropped.
func (l *Lattice) FindPath() []Node {
	if l.length == 0 || len(l.nodes) == 0 {
		return nil
	}
	if NodeID(len(l.nodes)) >= NodeIDBegin {
		panic("lattice: too many nodes for sentinel encoding")
	}

	totalScore := make([]float32, len(l.nodes))
	previous := make([]NodeID, len(l.nodes))
	for i := range previous {
		previous[i] = NodeIDNone
		totalScore[i] = l.nodes[i].Score
	}

	for _, id := range l.byStart[0] {
		previous[id] = NodeIDBegin
	}

	for p := 1; p < l.length; p++ {
		for _, rightID := range l.byStart[p] {
			var maxPrev NodeID = NodeIDNone
			var maxScore float32 = 0.0

			for _, leftID := range l.byEnd[p] {
				if previous[leftID] == NodeIDNone {
					continue
				}
				s := totalScore[leftID]
				if s > maxScore {
					maxScore = s
					maxPrev = leftID
				}
			}

			if maxPrev != NodeIDNone {
				previous[rightID] = maxPrev
				totalScore[rightID] += maxScore
			}
		}
	}

	var maxEnd NodeID = NodeIDNone
	var maxEndScore float32 = 0.0
	for _, id := range l.byEnd[l.length] {
		if previous[id] == NodeIDNone {
			continue
		}
		if totalScore[id] > maxEndScore {
			maxEndScore = totalScore[id]
			maxEnd = id
		}
	}

	if maxEnd == NodeIDNone {
		return nil
	}

	path := make([]NodeID, 0, l.length)
	current := maxEnd
	for previous[current] != NodeIDBegin {
		path = append(path, current)
		current = previous[current]
	}
	path = append(path, current)

	out := make([]Node, len(path))
	for i, id := range path {
		out[len(path)-1-i] = l.nodes[id]
	}
	return out
}
