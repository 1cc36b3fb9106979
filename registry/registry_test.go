package registry

import "testing"

func TestNewGeneratesNodeID(t *testing.T) {
	r := New("")
	if r.NodeID() == "" {
		t.Error("empty node id should be replaced with a generated one")
	}
	if New("node-1").NodeID() != "node-1" {
		t.Error("explicit node id should be kept")
	}
}

func TestNodeCountIncludesSelf(t *testing.T) {
	r := New("node-1")
	if r.NodeCount() != 1 {
		t.Errorf("fresh registry should count only the local node, got %d", r.NodeCount())
	}

	r.AddNode("node-2")
	r.AddNode("node-3")
	if r.NodeCount() != 3 {
		t.Errorf("expected 3 nodes, got %d", r.NodeCount())
	}
}

func TestAddNodeSelfIsNoOp(t *testing.T) {
	r := New("node-1")
	r.AddNode("node-1")
	r.AddNode("")
	if r.NodeCount() != 1 {
		t.Errorf("self and empty adds should be no-ops, got count %d", r.NodeCount())
	}
}

func TestAddNodeDeduplicates(t *testing.T) {
	r := New("node-1")
	r.AddNode("node-2")
	r.AddNode("node-2")
	if r.NodeCount() != 2 {
		t.Errorf("duplicate add should not grow the set, got %d", r.NodeCount())
	}
}

func TestRemoveNode(t *testing.T) {
	r := New("node-1")
	r.AddNode("node-2")
	r.RemoveNode("node-2")
	if r.NodeCount() != 1 {
		t.Errorf("expected count 1 after removal, got %d", r.NodeCount())
	}
	r.RemoveNode("node-2") // unknown, no-op
	if r.NodeCount() != 1 {
		t.Errorf("removing an unknown node should be a no-op, got %d", r.NodeCount())
	}
}

func TestHasNode(t *testing.T) {
	r := New("node-1")
	r.AddNode("node-2")

	if !r.HasNode("node-1") {
		t.Error("registry should know the local node")
	}
	if !r.HasNode("node-2") {
		t.Error("registry should know a registered peer")
	}
	if r.HasNode("node-9") {
		t.Error("registry should not know an unregistered id")
	}
}

func TestPeersSortedSnapshot(t *testing.T) {
	r := New("node-1")
	r.AddNode("charlie")
	r.AddNode("alpha")
	r.AddNode("bravo")

	peers := r.Peers()
	want := []string{"alpha", "bravo", "charlie"}
	if len(peers) != len(want) {
		t.Fatalf("expected %d peers, got %d", len(want), len(peers))
	}
	for i := range want {
		if peers[i] != want[i] {
			t.Errorf("expected peers sorted, got %v", peers)
			break
		}
	}

	peers[0] = "mutated"
	if r.Peers()[0] != "alpha" {
		t.Error("mutating the snapshot must not touch the registry")
	}
}
