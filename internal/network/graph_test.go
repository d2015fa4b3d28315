package network

import (
	"fmt"
	"testing"
)

func testChildren() []Child {
	return []Child{
		{ID: 101, SayName: "ava", AwakeAvatarURL: "/avatars/101.png", Family: &Family{CurrentMembers: []Member{
			{Role: 0, User: MemberUser{ID: 7, AvatarURL: "/u/7.png"}},
			{Role: 1, User: MemberUser{ID: 8}},
		}}},
		{ID: 202, SayName: "bo"},
	}
}

func TestBaseGraphShape(t *testing.T) {
	b := NewBuilder(testChildren(), DefaultConfig())
	g := b.BaseGraph()

	if len(g.Nodes) != 3 {
		t.Fatalf("expected root plus 2 children, got %d nodes", len(g.Nodes))
	}
	if len(g.Links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(g.Links))
	}
	if g.Nodes[0].ID != RootNodeID || g.Nodes[0].TheIndex != -1 {
		t.Fatalf("unexpected root node %+v", g.Nodes[0])
	}
	if g.Nodes[1].ID != "Node 1" || g.Nodes[1].TheID != 101 {
		t.Fatalf("unexpected first child node %+v", g.Nodes[1])
	}
	if g.Links[0].Source != RootNodeID || g.Links[0].Target != "Node 1" {
		t.Fatalf("unexpected first link %+v", g.Links[0])
	}
	if g.Links[0].Distance != 120 {
		t.Fatalf("expected child distance 120, got %d", g.Links[0].Distance)
	}
	// The second child has no avatar; the fallback image applies.
	if g.Nodes[2].Img != DefaultConfig().ChildFallback {
		t.Fatalf("expected fallback image, got %q", g.Nodes[2].Img)
	}
}

func TestExpandedAppendsFamily(t *testing.T) {
	b := NewBuilder(testChildren(), DefaultConfig())
	g := b.Expanded("Node 1")

	if len(g.Nodes) != 5 {
		t.Fatalf("expected base 3 plus 2 members, got %d nodes", len(g.Nodes))
	}
	member := g.Nodes[3]
	if member.ID != "Node ch-1017.0" {
		t.Fatalf("unexpected member node id %q", member.ID)
	}
	if member.TheID != 7*10000+0 {
		t.Fatalf("unexpected member theId %d", member.TheID)
	}
	second := g.Nodes[4]
	if second.TheID != 8*10000+1 {
		t.Fatalf("unexpected second member theId %d", second.TheID)
	}
	link := g.Links[2]
	if link.Source != "Node 1" || link.Target != member.ID || link.Distance != 30 {
		t.Fatalf("unexpected member link %+v", link)
	}
	// The member without an avatar falls back.
	if second.Img != DefaultConfig().MemberFallback {
		t.Fatalf("expected member fallback image, got %q", second.Img)
	}
}

func TestExpandedUnknownOrEmptySelection(t *testing.T) {
	b := NewBuilder(testChildren(), DefaultConfig())
	if g := b.Expanded(""); len(g.Nodes) != 3 {
		t.Fatalf("empty selection must yield the base graph")
	}
	if g := b.Expanded(RootNodeID); len(g.Nodes) != 3 {
		t.Fatalf("root selection must yield the base graph")
	}
	if g := b.Expanded("Node 99"); len(g.Nodes) != 3 {
		t.Fatalf("unknown selection must yield the base graph")
	}
	// Child 2 has no family.
	if g := b.Expanded("Node 2"); len(g.Nodes) != 3 {
		t.Fatalf("childless selection must yield the base graph")
	}
}

func TestMemberNodeIDFormat(t *testing.T) {
	children := []Child{
		{ID: 1, Family: &Family{CurrentMembers: []Member{{User: MemberUser{ID: 21}}}}},
		{ID: 2, Family: &Family{CurrentMembers: []Member{{User: MemberUser{ID: 21}}}}},
	}
	b := NewBuilder(children, DefaultConfig())

	first, ok := b.FamilySubgraph(1)
	if !ok {
		t.Fatalf("expected family for child 1")
	}
	if first.Nodes[0].ID != "Node ch-121.0" {
		t.Fatalf("unexpected member node id %q", first.Nodes[0].ID)
	}
	// The same donor in two families renders as two distinct nodes.
	second, ok := b.FamilySubgraph(2)
	if !ok {
		t.Fatalf("expected family for child 2")
	}
	if second.Nodes[0].ID == first.Nodes[0].ID {
		t.Fatalf("same donor in different families must get distinct ids")
	}
}

func TestFamilyEntryCached(t *testing.T) {
	children := testChildren()
	b := NewBuilder(children, DefaultConfig())

	before, ok := b.FamilySubgraph(101)
	if !ok {
		t.Fatalf("expected family for child 101")
	}

	// Mutating the source after the first expansion must not change the
	// cached entry; only a full rebuild picks it up.
	children[0].Family.CurrentMembers = append(children[0].Family.CurrentMembers, Member{User: MemberUser{ID: 9}})
	after, _ := b.FamilySubgraph(101)
	if len(after.Nodes) != len(before.Nodes) {
		t.Fatalf("cached family entry changed: %d -> %d nodes", len(before.Nodes), len(after.Nodes))
	}
}

func TestFamilySubgraphMissing(t *testing.T) {
	b := NewBuilder(testChildren(), DefaultConfig())
	if _, ok := b.FamilySubgraph(202); ok {
		t.Fatalf("childless family must report false")
	}
	if _, ok := b.FamilySubgraph(999); ok {
		t.Fatalf("unknown child must report false")
	}
}

func TestClassifyClick(t *testing.T) {
	cases := []struct {
		nodeID string
		want   ClickAction
	}{
		{RootNodeID, ClickIgnore},
		{"", ClickIgnore},
		{"Node 3", ClickToggle},
		{"Node ch-1017.0", ClickDetail},
	}
	for _, tc := range cases {
		if got := ClassifyClick(tc.nodeID); got != tc.want {
			t.Fatalf("%q: expected %d, got %d", tc.nodeID, tc.want, got)
		}
	}
}

func TestSelectionToggle(t *testing.T) {
	var sel Selection
	if got := sel.Toggle("Node 1"); got != "Node 1" {
		t.Fatalf("expected Node 1 selected, got %q", got)
	}
	// Selecting another child replaces the expansion.
	if got := sel.Toggle("Node 2"); got != "Node 2" {
		t.Fatalf("expected Node 2 selected, got %q", got)
	}
	// Clicking the expanded child collapses it.
	if got := sel.Toggle("Node 2"); got != "" {
		t.Fatalf("expected collapsed selection, got %q", got)
	}
	if sel.Current() != "" {
		t.Fatalf("expected empty current selection")
	}
}

func TestChildNodeIDRoundTrip(t *testing.T) {
	b := NewBuilder(testChildren(), DefaultConfig())
	for idx := range testChildren() {
		id := fmt.Sprintf("Node %d", idx+1)
		got, ok := b.childIndexForNode(id)
		if !ok || got != idx {
			t.Fatalf("%q: expected index %d, got %d ok=%v", id, idx, got, ok)
		}
	}
}
