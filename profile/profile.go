// Package profile models a quality profile as a mutable tree of quality
// leaves and single-level groups, the way the target schema expresses
// them: a profile is an ordered list whose entries are either one quality
// or one named bundle of qualities. Nodes live in an arena keyed by a
// stable identity so grouping, ungrouping and reordering are pointer
// re-links and renaming never breaks references.
package profile

import (
	"github.com/google/uuid"
)

// NodeID is the stable identity of a node, independent of its name.
type NodeID string

type nodeKind int

const (
	kindLeaf nodeKind = iota
	kindGroup
)

type node struct {
	id       NodeID
	kind     nodeKind
	name     string
	parent   NodeID // empty when top-level
	children []NodeID
}

// Profile is one quality profile: its settings plus the quality tree.
type Profile struct {
	Name                 string
	UpgradeAllowed       bool
	UpgradeUntil         string
	UntilScore           int
	MinFormatScore       int
	QualitySort          string
	ScoreSet             string
	ResetUnmatchedScores bool

	nodes map[NodeID]*node
	roots []NodeID
}

// Item is the flat serialization shape of one top-level entry: a bare
// quality name, or a group name with its member qualities.
type Item struct {
	Name      string
	Qualities []string
}

// New creates an empty profile with the given name.
func New(name string) *Profile {
	return &Profile{
		Name:  name,
		nodes: make(map[NodeID]*node),
	}
}

// FromItems rebuilds a profile tree from its flat serialization shape,
// running every entry through the normal mutation path so the tree
// invariants hold even for hand-edited input.
func FromItems(name string, items []Item) (*Profile, error) {
	p := New(name)
	for _, item := range items {
		if len(item.Qualities) == 0 {
			if _, err := p.AddLeaf(item.Name, -1); err != nil {
				return nil, err
			}
			continue
		}
		ids := make([]NodeID, 0, len(item.Qualities))
		for _, q := range item.Qualities {
			id, err := p.AddLeaf(q, -1)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		if _, err := p.Group(ids, item.Name); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func newID() NodeID {
	return NodeID(uuid.NewString())
}

// Contains reports whether a name is used anywhere in the tree.
func (p *Profile) Contains(name string) bool {
	for _, n := range p.nodes {
		if n.name == name {
			return true
		}
	}
	return false
}

// Find returns the identity of the node with the given name.
func (p *Profile) Find(name string) (NodeID, bool) {
	for _, n := range p.nodes {
		if n.name == name {
			return n.id, true
		}
	}
	return "", false
}

// NodeName returns the display name of a node.
func (p *Profile) NodeName(id NodeID) (string, bool) {
	n, ok := p.nodes[id]
	if !ok {
		return "", false
	}
	return n.name, true
}

// IsGroup reports whether the node is a group.
func (p *Profile) IsGroup(id NodeID) bool {
	n, ok := p.nodes[id]
	return ok && n.kind == kindGroup
}

// Children returns the ordered child identities of a group; nil for
// leaves and unknown nodes.
func (p *Profile) Children(id NodeID) []NodeID {
	n, ok := p.nodes[id]
	if !ok || n.kind != kindGroup {
		return nil
	}
	out := make([]NodeID, len(n.children))
	copy(out, n.children)
	return out
}

// TopLevel returns the ordered top-level node identities.
func (p *Profile) TopLevel() []NodeID {
	out := make([]NodeID, len(p.roots))
	copy(out, p.roots)
	return out
}

// Len returns the total number of nodes in the tree.
func (p *Profile) Len() int {
	return len(p.nodes)
}

// Items returns the tree in its flat serialization shape, in order.
func (p *Profile) Items() []Item {
	items := make([]Item, 0, len(p.roots))
	for _, id := range p.roots {
		n := p.nodes[id]
		if n.kind == kindLeaf {
			items = append(items, Item{Name: n.name})
			continue
		}
		qualities := make([]string, 0, len(n.children))
		for _, cid := range n.children {
			qualities = append(qualities, p.nodes[cid].name)
		}
		items = append(items, Item{Name: n.name, Qualities: qualities})
	}
	return items
}

// Names returns every name in the tree, top-level order first, group
// members following their group.
func (p *Profile) Names() []string {
	var names []string
	for _, id := range p.roots {
		n := p.nodes[id]
		names = append(names, n.name)
		for _, cid := range n.children {
			names = append(names, p.nodes[cid].name)
		}
	}
	return names
}

// AddLeaf inserts a leaf quality at the given top-level index. A negative
// or out-of-range index appends. Fails with *DuplicateNameError when the
// name exists anywhere in the tree.
func (p *Profile) AddLeaf(name string, at int) (NodeID, error) {
	if p.Contains(name) {
		return "", &DuplicateNameError{Name: name}
	}
	n := &node{id: newID(), kind: kindLeaf, name: name}
	p.nodes[n.id] = n
	p.roots = insertID(p.roots, n.id, clampIndex(at, len(p.roots)))
	return n.id, nil
}

// Group creates a named group from the selected top-level nodes. The new
// group takes the position of the first selected node and its members
// keep their relative order. Selected nodes must all be top-level leaves;
// groups cannot nest.
func (p *Profile) Group(ids []NodeID, name string) (NodeID, error) {
	if len(ids) == 0 {
		return "", &InvalidSelectionError{Reason: "no nodes selected"}
	}
	selected := make(map[NodeID]bool, len(ids))
	for _, id := range ids {
		n, ok := p.nodes[id]
		if !ok {
			return "", &InvalidSelectionError{Reason: "selection references an unknown node"}
		}
		if n.kind == kindGroup {
			return "", &InvalidSelectionError{Reason: "groups cannot be nested"}
		}
		if n.parent != "" {
			return "", &InvalidSelectionError{Reason: "selection spans different parents"}
		}
		selected[id] = true
	}
	if p.Contains(name) {
		return "", &DuplicateNameError{Name: name}
	}

	// Collect members in tree order and splice them out of the top level.
	var members []NodeID
	remaining := p.roots[:0:0]
	position := -1
	for i, id := range p.roots {
		if selected[id] {
			if position < 0 {
				position = i
			}
			members = append(members, id)
			continue
		}
		remaining = append(remaining, id)
	}

	g := &node{id: newID(), kind: kindGroup, name: name, children: members}
	p.nodes[g.id] = g
	for _, id := range members {
		p.nodes[id].parent = g.id
	}
	if position > len(remaining) {
		position = len(remaining)
	}
	p.roots = insertID(remaining, g.id, position)
	return g.id, nil
}

// Ungroup dissolves a group, re-inserting its members at the group's
// former top-level position in order.
func (p *Profile) Ungroup(id NodeID) error {
	n, ok := p.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	if n.kind != kindGroup {
		return &InvalidSelectionError{Reason: "node is not a group"}
	}

	at := indexOf(p.roots, id)
	p.roots = append(p.roots[:at], p.roots[at+1:]...)
	for i, cid := range n.children {
		p.nodes[cid].parent = ""
		p.roots = insertID(p.roots, cid, at+i)
	}
	delete(p.nodes, id)
	return nil
}

// Reorder moves a node to a new index within its current parent's
// sequence. The index is clamped to the sequence bounds.
func (p *Profile) Reorder(id NodeID, newIndex int) error {
	n, ok := p.nodes[id]
	if !ok {
		return ErrUnknownNode
	}

	if n.parent == "" {
		p.roots = moveID(p.roots, id, newIndex)
		return nil
	}
	parent := p.nodes[n.parent]
	parent.children = moveID(parent.children, id, newIndex)
	return nil
}

// Remove deletes a node from the tree; removing a group removes its
// members as well.
func (p *Profile) Remove(id NodeID) error {
	n, ok := p.nodes[id]
	if !ok {
		return ErrUnknownNode
	}

	if n.parent != "" {
		parent := p.nodes[n.parent]
		at := indexOf(parent.children, id)
		parent.children = append(parent.children[:at], parent.children[at+1:]...)
		delete(p.nodes, id)
		return nil
	}

	at := indexOf(p.roots, id)
	p.roots = append(p.roots[:at], p.roots[at+1:]...)
	for _, cid := range n.children {
		delete(p.nodes, cid)
	}
	delete(p.nodes, id)
	return nil
}

// Rename changes a node's display name; its identity is unchanged.
func (p *Profile) Rename(id NodeID, name string) error {
	n, ok := p.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	if n.name == name {
		return nil
	}
	if p.Contains(name) {
		return &DuplicateNameError{Name: name}
	}
	n.name = name
	return nil
}

func clampIndex(at, length int) int {
	if at < 0 || at > length {
		return length
	}
	return at
}

func indexOf(ids []NodeID, id NodeID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func insertID(ids []NodeID, id NodeID, at int) []NodeID {
	ids = append(ids, "")
	copy(ids[at+1:], ids[at:])
	ids[at] = id
	return ids
}

func moveID(ids []NodeID, id NodeID, to int) []NodeID {
	from := indexOf(ids, id)
	ids = append(ids[:from], ids[from+1:]...)
	return insertID(ids, id, clampIndex(to, len(ids)))
}
