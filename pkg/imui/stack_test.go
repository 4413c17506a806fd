package imui

import (
	"testing"
)

// fakeNode is a minimal Node for exercising frames without a toolkit.
type fakeNode struct {
	kind     Kind
	tag      ID
	tagged   bool
	children []*fakeNode
	parent   *fakeNode
}

func (n *fakeNode) Kind() Kind { return n.kind }
func (n *fakeNode) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}
func (n *fakeNode) FirstChild() Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}
func (n *fakeNode) NextSibling() Node {
	if n.parent == nil {
		return nil
	}
	for i, c := range n.parent.children {
		if c == n && i+1 < len(n.parent.children) {
			return n.parent.children[i+1]
		}
	}
	return nil
}
func (n *fakeNode) Tag() (ID, bool) { return n.tag, n.tagged }
func (n *fakeNode) SetTag(id ID)    { n.tag, n.tagged = id, true }
func (n *fakeNode) Hook() Hook      { return nil }
func (n *fakeNode) SetHook(Hook)    {}

func parentWith(ids ...ID) *fakeNode {
	p := &fakeNode{kind: KindPanel}
	for _, id := range ids {
		p.children = append(p.children, &fakeNode{kind: KindLabel, tag: id, tagged: true, parent: p})
	}
	return p
}

func tagsOf(nodes []Node) []ID {
	var out []ID
	for _, n := range nodes {
		id, _ := n.Tag()
		out = append(out, id)
	}
	return out
}

func equalIDs(a, b []ID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFrameTake(t *testing.T) {
	tests := []struct {
		name        string
		strategy    Strategy
		threshold   int
		children    []ID
		lookups     []ID
		wantFound   []bool
		wantEvicted []ID
		wantLeft    int
	}{
		{
			name:      "scan in order",
			strategy:  StrategyScan,
			children:  []ID{1, 2, 3},
			lookups:   []ID{1, 2, 3},
			wantFound: []bool{true, true, true},
		},
		{
			name:      "scan reordered keeps skipped nodes",
			strategy:  StrategyScan,
			children:  []ID{1, 2, 3},
			lookups:   []ID{3, 1, 2},
			wantFound: []bool{true, true, true},
		},
		{
			name:      "scan missing id",
			strategy:  StrategyScan,
			children:  []ID{1, 3},
			lookups:   []ID{2},
			wantFound: []bool{false},
			wantLeft:  2,
		},
		{
			name:        "evict destroys walked-past nodes",
			strategy:    StrategyEvict,
			children:    []ID{1, 2, 3},
			lookups:     []ID{3, 1, 2},
			wantFound:   []bool{true, false, false},
			wantEvicted: []ID{1, 2},
		},
		{
			name:        "evict exhausts cursor on miss",
			strategy:    StrategyEvict,
			children:    []ID{1, 2},
			lookups:     []ID{9},
			wantFound:   []bool{false},
			wantEvicted: []ID{1, 2},
		},
		{
			name:      "index reordered",
			strategy:  StrategyIndex,
			children:  []ID{1, 2, 3},
			lookups:   []ID{3, 1, 2},
			wantFound: []bool{true, true, true},
		},
		{
			name:      "index duplicate id claims in order",
			strategy:  StrategyIndex,
			children:  []ID{5, 5},
			lookups:   []ID{5, 5, 5},
			wantFound: []bool{true, true, false},
		},
		{
			name:      "auto below threshold",
			strategy:  StrategyAuto,
			threshold: 4,
			children:  []ID{2, 1},
			lookups:   []ID{1},
			wantFound: []bool{true},
			wantLeft:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			threshold := tt.threshold
			if threshold == 0 {
				threshold = DefaultIndexThreshold
			}
			var f frame
			f.reset(parentWith(tt.children...), tt.strategy, threshold)

			var evicted []Node
			evict := func(n Node) { evicted = append(evicted, n) }
			for i, id := range tt.lookups {
				n := f.take(id, evict)
				if found := n != nil; found != tt.wantFound[i] {
					t.Fatalf("take(%d) found = %v, want %v", id, found, tt.wantFound[i])
				}
				if n != nil {
					if tag, _ := n.Tag(); tag != id {
						t.Fatalf("take(%d) returned node tagged %d", id, tag)
					}
				}
			}
			if !equalIDs(tagsOf(evicted), tt.wantEvicted) {
				t.Errorf("evicted = %v, want %v", tagsOf(evicted), tt.wantEvicted)
			}
			if got := f.remaining(); got != tt.wantLeft {
				t.Errorf("remaining() = %d, want %d", got, tt.wantLeft)
			}
		})
	}
}

func TestFrameAutoSwitchesToIndex(t *testing.T) {
	var f frame
	f.reset(parentWith(1, 2, 3, 4), StrategyAuto, 4)
	if f.strategy != StrategyIndex {
		t.Errorf("strategy = %v, want index at the threshold", f.strategy)
	}
	f.reset(parentWith(1, 2, 3), StrategyAuto, 4)
	if f.strategy != StrategyScan {
		t.Errorf("strategy = %v, want scan below the threshold", f.strategy)
	}
}

func TestFrameDrainAndRelease(t *testing.T) {
	var f frame
	f.reset(parentWith(1, 2, 3), StrategyScan, DefaultIndexThreshold)
	f.take(2, func(Node) { t.Fatal("scan must not evict") })

	var evicted []Node
	f.drain(func(n Node) { evicted = append(evicted, n) })
	if !equalIDs(tagsOf(evicted), []ID{1, 3}) {
		t.Errorf("drained %v, want [1 3]", tagsOf(evicted))
	}
	if f.remaining() != 0 {
		t.Error("nothing should remain after drain")
	}

	f.release()
	if f.parent != nil || len(f.queue) != 0 || len(f.claimed) != 0 {
		t.Error("release should drop every reference")
	}
}

func TestFrameUntaggedNodesNeverMatch(t *testing.T) {
	p := parentWith(1)
	p.children = append(p.children, &fakeNode{kind: KindLabel, parent: p})
	var f frame
	f.reset(p, StrategyScan, DefaultIndexThreshold)
	if f.take(0, func(Node) {}) != nil {
		t.Error("an untagged node must not match id 0")
	}
	if f.remaining() != 2 {
		t.Errorf("remaining() = %d, want 2", f.remaining())
	}
}

func TestFrameMarkSeen(t *testing.T) {
	var f frame
	f.reset(parentWith(), StrategyScan, DefaultIndexThreshold)
	if f.markSeen(4) {
		t.Error("first markSeen should report false")
	}
	if !f.markSeen(4) {
		t.Error("second markSeen should report true")
	}
	f.release()
	f.reset(parentWith(), StrategyScan, DefaultIndexThreshold)
	if f.markSeen(4) {
		t.Error("seen set should be cleared between passes")
	}
}

func TestParseStrategyAndPolicy(t *testing.T) {
	for _, s := range []Strategy{StrategyScan, StrategyEvict, StrategyIndex, StrategyAuto} {
		got, err := ParseStrategy(s.String())
		if err != nil || got != s {
			t.Errorf("ParseStrategy(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseStrategy("bogus"); err == nil {
		t.Error("ParseStrategy should reject unknown names")
	}
	for _, p := range []DuplicatePolicy{DuplicateWarn, DuplicateReject} {
		got, err := ParseDuplicatePolicy(p.String())
		if err != nil || got != p {
			t.Errorf("ParseDuplicatePolicy(%q) = %v, %v", p.String(), got, err)
		}
	}
	if _, err := ParseDuplicatePolicy("ignore"); err == nil {
		t.Error("ParseDuplicatePolicy should reject unknown names")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"hello", 0, "hello"},
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"héllo", 2, "h"},
		{"héllo", 3, "hé"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.limit); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}
