package integration

import (
	"errors"
	"testing"

	"github.com/medledger/provenance/consensus"
	"github.com/medledger/provenance/ledger"
	"github.com/medledger/provenance/merkle"
	"github.com/medledger/provenance/registry"
	"github.com/medledger/provenance/types"
)

// testNode bundles one node's ledger, registry, and coordinator.
type testNode struct {
	Ledger      *ledger.Ledger
	Registry    *registry.Registry
	Coordinator *consensus.Coordinator
}

func setupTestNode(t *testing.T, nodeID string, peers ...string) *testNode {
	t.Helper()

	l, err := ledger.New(nil)
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	r := registry.New(nodeID)
	for _, p := range peers {
		r.AddNode(p)
	}
	c, err := consensus.New(nil, l, r)
	if err != nil {
		t.Fatalf("new coordinator: %v", err)
	}
	return &testNode{Ledger: l, Registry: r, Coordinator: c}
}

func consentTransaction(patient, action string) *types.Transaction {
	return &types.Transaction{
		From: "clinic-a",
		To:   patient,
		Data: map[string]any{"action": action, "scope": map[string]any{"category": "imaging"}},
	}
}

func TestConsensusLifecycle(t *testing.T) {
	node := setupTestNode(t, "node-1", "node-2", "node-3")

	result, err := node.Coordinator.ProposeBlock([]*types.Transaction{
		consentTransaction("patient-1", "grant"),
		consentTransaction("patient-2", "grant"),
	})
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if result.ConsensusReached {
		t.Fatal("1 of 3 votes should not reach quorum")
	}

	for _, peer := range []string{"node-2", "node-3"} {
		if err := node.Coordinator.CastVote(peer, result.BlockHash, true); err != nil {
			t.Fatalf("vote by %s: %v", peer, err)
		}
	}

	status, err := node.Coordinator.CheckConsensus(result.BlockHash)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !status.ConsensusReached || !status.Mined {
		t.Fatal("unanimous votes should have reached quorum and mined")
	}

	if node.Ledger.GetChainLength() != 2 {
		t.Fatalf("expected chain length 2, got %d", node.Ledger.GetChainLength())
	}
	if node.Ledger.PendingCount() != 0 {
		t.Errorf("pool should be empty after mining, got %d", node.Ledger.PendingCount())
	}
	if !node.Ledger.IsChainValid() {
		t.Error("mined chain should be valid")
	}

	mined, err := node.Ledger.GetBlock(1)
	if err != nil {
		t.Fatalf("get block: %v", err)
	}
	if mined.PreviousHash == types.GenesisPreviousHash {
		t.Error("mined block should link to genesis by hash, not by marker")
	}
	if len(mined.Transactions) != 2 {
		t.Errorf("expected 2 mined transactions, got %d", len(mined.Transactions))
	}
}

func TestMinedBlockMerkleProofs(t *testing.T) {
	node := setupTestNode(t, "node-1")

	result, err := node.Coordinator.ProposeBlock([]*types.Transaction{
		consentTransaction("patient-1", "grant"),
		consentTransaction("patient-2", "revoke"),
		consentTransaction("patient-3", "grant"),
	})
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if !result.ConsensusReached {
		t.Fatal("single node should mine immediately")
	}

	mined, err := node.Ledger.GetBlock(1)
	if err != nil {
		t.Fatalf("get block: %v", err)
	}

	items := make([]any, len(mined.Transactions))
	for i, tx := range mined.Transactions {
		items[i] = tx
	}
	tree, err := merkle.Build(items)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if tree.Root() != mined.MerkleRoot {
		t.Fatal("rebuilt tree should reproduce the stored merkle root")
	}

	entries := make([]merkle.BatchEntry, 0, len(items))
	for _, item := range items {
		proof, err := tree.Proof(item)
		if err != nil {
			t.Fatalf("proof: %v", err)
		}
		if !merkle.VerifyProof(item, proof, mined.MerkleRoot) {
			t.Error("every mined transaction should prove inclusion against the block root")
		}
		entries = append(entries, merkle.BatchEntry{Data: item, Proof: proof, Root: mined.MerkleRoot})
	}
	if !merkle.VerifyBatch(entries) {
		t.Error("batch of honest proofs should verify")
	}

	tampered := types.CopyTransaction(mined.Transactions[0])
	tampered.Data["action"] = "revoke"
	proof, err := tree.Proof(mined.Transactions[0])
	if err != nil {
		t.Fatalf("proof: %v", err)
	}
	if merkle.VerifyProof(tampered, proof, mined.MerkleRoot) {
		t.Error("tampered transaction should fail inclusion")
	}
}

func TestSearchAcrossMinedBlocks(t *testing.T) {
	node := setupTestNode(t, "node-1")

	if _, err := node.Coordinator.ProposeBlock([]*types.Transaction{
		consentTransaction("patient-1", "grant"),
		consentTransaction("patient-2", "revoke"),
	}); err != nil {
		t.Fatalf("propose: %v", err)
	}
	if _, err := node.Coordinator.ProposeBlock([]*types.Transaction{
		consentTransaction("patient-1", "revoke"),
	}); err != nil {
		t.Fatalf("propose: %v", err)
	}

	results := node.Ledger.SearchTransactions(map[string]any{
		"to":          "patient-1",
		"data.action": "grant",
	})
	if len(results) != 1 {
		t.Fatalf("expected exactly the grant for patient-1, got %d results", len(results))
	}
	if results[0].BlockIndex != 1 {
		t.Errorf("grant should sit in block 1, got %d", results[0].BlockIndex)
	}

	scoped := node.Ledger.SearchTransactions(map[string]any{"data.scope.category": "imaging"})
	if len(scoped) != 3 {
		t.Errorf("expected all 3 consents via nested path, got %d", len(scoped))
	}
}

func TestNodeFailureUnblocksProposal(t *testing.T) {
	node := setupTestNode(t, "node-1", "node-2", "node-3", "node-4")

	result, err := node.Coordinator.ProposeBlock([]*types.Transaction{
		consentTransaction("patient-1", "grant"),
	})
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if err := node.Coordinator.CastVote("node-2", result.BlockHash, true); err != nil {
		t.Fatalf("vote: %v", err)
	}
	// 2 of 4 (0.5): stalled below quorum.
	if node.Ledger.GetChainLength() != 1 {
		t.Fatal("proposal should be stalled")
	}

	// Two reported failures shrink the denominator to 2; the recorded 2 yes
	// votes now clear the threshold and the proposal mines.
	if err := node.Coordinator.HandleNodeFailure("node-3"); err != nil {
		t.Fatalf("failure: %v", err)
	}
	if node.Ledger.GetChainLength() != 1 {
		t.Fatal("2 of 3 (0.666...) must still be below the 0.67 threshold")
	}
	if err := node.Coordinator.HandleNodeFailure("node-4"); err != nil {
		t.Fatalf("failure: %v", err)
	}

	if node.Ledger.GetChainLength() != 2 {
		t.Fatalf("expected mined chain after failures, got length %d", node.Ledger.GetChainLength())
	}
	if _, err := node.Coordinator.CheckConsensus(result.BlockHash); !errors.Is(err, consensus.ErrUnknownProposal) {
		t.Errorf("mined proposal should be cleared, got %v", err)
	}
	if node.Registry.NodeCount() != 2 {
		t.Errorf("expected 2 surviving nodes, got %d", node.Registry.NodeCount())
	}
}

func TestForkComparisonReportsOnly(t *testing.T) {
	node := setupTestNode(t, "node-1")

	if _, err := node.Coordinator.ProposeBlock([]*types.Transaction{
		consentTransaction("patient-1", "grant"),
	}); err != nil {
		t.Fatalf("propose: %v", err)
	}
	lengthBefore := node.Ledger.GetChainLength()

	// A peer claims a longer chain built on the same genesis.
	remote := node.Ledger.GetAllBlocks()
	for i := 0; i < 2; i++ {
		tip := remote[len(remote)-1]
		block := &types.Block{
			Index:        tip.Index + 1,
			Timestamp:    tip.Timestamp + 1,
			PreviousHash: tip.Hash,
			MerkleRoot:   types.EmptyHash(),
		}
		block.Hash = types.HashString(block.PreviousHash + "remote")
		remote = append(remote, block)
	}

	sync := node.Coordinator.SyncChain([][]*types.Block{remote})
	if sync.Synced || !sync.WouldReplace {
		t.Error("the longer valid remote chain should win the comparison")
	}
	if node.Ledger.GetChainLength() != lengthBefore {
		t.Error("sync must only report; the local chain must remain untouched")
	}
}
