// Package consensus implements quorum-based block approval over a ledger.
//
// The Coordinator proposes candidate blocks from the ledger's pending pool,
// collects one vote per registered node per proposal, and triggers mining on
// the ledger once the yes-vote fraction reaches the configured threshold
// (default 0.67 of all registered nodes).
//
// Proposals are keyed by a stable content id covering index, previous hash,
// and merkle root — fields fixed before the proof-of-work nonce search — so
// votes remain reconcilable against the eventually mined block.
//
// There is no network transport here: peers are ids in the local registry,
// and an external layer relays their votes via CastVote and reports node
// failures via HandleNodeFailure. The coordinator reacts to reported
// failures; it does no failure detection of its own.
package consensus
