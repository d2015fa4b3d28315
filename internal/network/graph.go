// Package network builds the child/family relationship graph rendered by
// the dashboard's network visualization.
package network

import (
	"fmt"
	"strings"
	"sync"
)

// RootNodeID identifies the aggregate organization node.
const RootNodeID = "Node 0"

// Child is one child record as the graph consumes it, optionally carrying
// the virtual-family members revealed on expansion.
type Child struct {
	ID             int64   `json:"id"`
	SayName        string  `json:"sayName"`
	AwakeAvatarURL string  `json:"awakeAvatarUrl"`
	Family         *Family `json:"family"`
}

// Family holds the current virtual-family members of a child.
type Family struct {
	CurrentMembers []Member `json:"currentMembers"`
}

// Member is one virtual-family member.
type Member struct {
	Role int        `json:"role"`
	User MemberUser `json:"user"`
}

// MemberUser is the donor behind a family membership.
type MemberUser struct {
	ID        int64  `json:"id"`
	AvatarURL string `json:"avatarUrl"`
}

// Node is one rendered graph node.
type Node struct {
	ID       string  `json:"id"`
	Size     int     `json:"size"`
	Color    string  `json:"color"`
	Img      string  `json:"img"`
	TheID    int64   `json:"theId"`
	TheIndex int     `json:"theIndex"`
	Height   float64 `json:"height"`
}

// Link is one rendered graph edge.
type Link struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Color    string `json:"color,omitempty"`
	Distance int    `json:"distance"`
}

// Graph is a node/link set ready for the renderer.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Config carries the purely visual constants of the layout. The distances
// differ between mobile and desktop; that is presentation configuration,
// not a functional input.
type Config struct {
	RootSize       int
	ChildSize      int
	MemberSize     int
	ChildDistance  int
	MemberDistance int
	RootImage      string
	ChildFallback  string
	MemberFallback string
}

// DefaultConfig mirrors the desktop layout constants.
func DefaultConfig() Config {
	return Config{
		RootSize:       40,
		ChildSize:      25,
		MemberSize:     10,
		ChildDistance:  120,
		MemberDistance: 30,
		RootImage:      "/images/logo.png",
		ChildFallback:  "/images/logo.png",
		MemberFallback: "/images/user.svg",
	}
}

type familyEntry struct {
	nodes []Node
	links []Link
}

// Builder derives graphs from a fixed child list. Family sub-graphs are
// cached per child id after the first expansion and never invalidated; a
// backend family change only becomes visible after a full data reload.
// That staleness window is a known, accepted limitation.
type Builder struct {
	cfg      Config
	children []Child

	mu    sync.Mutex
	cache map[int64]familyEntry
}

// NewBuilder constructs a Builder over the given children.
func NewBuilder(children []Child, cfg Config) *Builder {
	return &Builder{
		cfg:      cfg,
		children: children,
		cache:    make(map[int64]familyEntry),
	}
}

// BaseGraph returns the root node, one node per child and the root-to-child
// links.
func (b *Builder) BaseGraph() Graph {
	nodes := make([]Node, 0, len(b.children)+1)
	links := make([]Link, 0, len(b.children))

	nodes = append(nodes, Node{
		ID:       RootNodeID,
		Size:     b.cfg.RootSize,
		Color:    "#767e89",
		Img:      b.cfg.RootImage,
		TheIndex: -1,
	})

	for idx, child := range b.children {
		img := child.AwakeAvatarURL
		if img == "" {
			img = b.cfg.ChildFallback
		}
		nodes = append(nodes, Node{
			ID:       childNodeID(idx),
			Size:     b.cfg.ChildSize,
			Color:    "rgb(97, 205, 187)",
			Img:      img,
			TheID:    child.ID,
			TheIndex: idx,
			Height:   0.05,
		})
		links = append(links, Link{
			Source:   RootNodeID,
			Target:   childNodeID(idx),
			Color:    "rgb(97, 205, 187)",
			Distance: b.cfg.ChildDistance,
		})
	}
	return Graph{Nodes: nodes, Links: links}
}

// Expanded returns the base graph plus the family sub-graph of the selected
// child node. An unknown selection, or a child without family members,
// yields the base graph unchanged.
func (b *Builder) Expanded(selectedID string) Graph {
	base := b.BaseGraph()
	if selectedID == "" || selectedID == RootNodeID {
		return base
	}

	idx, ok := b.childIndexForNode(selectedID)
	if !ok {
		return base
	}
	child := b.children[idx]
	if child.Family == nil || len(child.Family.CurrentMembers) == 0 {
		return base
	}

	entry := b.familyEntry(child, idx, selectedID)
	return Graph{
		Nodes: append(base.Nodes, entry.nodes...),
		Links: append(base.Links, entry.links...),
	}
}

// FamilySubgraph returns only the family nodes/links of a child by id.
func (b *Builder) FamilySubgraph(childID int64) (Graph, bool) {
	for idx, child := range b.children {
		if child.ID != childID {
			continue
		}
		if child.Family == nil || len(child.Family.CurrentMembers) == 0 {
			return Graph{}, false
		}
		entry := b.familyEntry(child, idx, childNodeID(idx))
		return Graph{Nodes: entry.nodes, Links: entry.links}, true
	}
	return Graph{}, false
}

func (b *Builder) familyEntry(child Child, childIndex int, selectedID string) familyEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	if entry, ok := b.cache[child.ID]; ok {
		return entry
	}

	members := child.Family.CurrentMembers
	entry := familyEntry{
		nodes: make([]Node, 0, len(members)),
		links: make([]Link, 0, len(members)),
	}
	for idx, m := range members {
		img := m.User.AvatarURL
		if img == "" {
			img = b.cfg.MemberFallback
		}
		node := Node{
			// Keyed by both child and user so repeated expansions of
			// different children never collide.
			ID:       memberNodeID(child.ID, m.User.ID),
			Size:     b.cfg.MemberSize,
			Color:    "#767e89",
			Img:      img,
			TheID:    m.User.ID*10000 + int64(idx),
			TheIndex: childIndex,
			Height:   0.05,
		}
		entry.nodes = append(entry.nodes, node)
		entry.links = append(entry.links, Link{
			Source:   selectedID,
			Target:   node.ID,
			Distance: b.cfg.MemberDistance,
		})
	}
	b.cache[child.ID] = entry
	return entry
}

func (b *Builder) childIndexForNode(nodeID string) (int, bool) {
	var n int
	if _, err := fmt.Sscanf(nodeID, "Node %d", &n); err != nil {
		return 0, false
	}
	idx := n - 1
	if idx < 0 || idx >= len(b.children) {
		return 0, false
	}
	return idx, true
}

func childNodeID(idx int) string {
	return fmt.Sprintf("Node %d", idx+1)
}

func memberNodeID(childID, userID int64) string {
	return fmt.Sprintf("Node ch-%d%d.0", childID, userID)
}

// ClickAction classifies what a node click should do.
type ClickAction int

const (
	// ClickIgnore leaves the graph untouched (the root node).
	ClickIgnore ClickAction = iota
	// ClickToggle expands or collapses a child's family.
	ClickToggle
	// ClickDetail opens a family member's detail view; no graph mutation.
	ClickDetail
)

// ClassifyClick maps a node id to its click behaviour.
func ClassifyClick(nodeID string) ClickAction {
	if nodeID == "" || nodeID == RootNodeID {
		return ClickIgnore
	}
	if strings.Contains(nodeID, ".") {
		return ClickDetail
	}
	return ClickToggle
}

// Selection implements the single-expansion model: at most one child is
// expanded; clicking the expanded child collapses it.
type Selection struct {
	mu      sync.Mutex
	current string
}

// Toggle applies a child-node click and returns the now-selected node id,
// empty when the click collapsed the selection.
func (s *Selection) Toggle(nodeID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nodeID {
		s.current = ""
	} else {
		s.current = nodeID
	}
	return s.current
}

// Current returns the selected node id, empty when nothing is expanded.
func (s *Selection) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
