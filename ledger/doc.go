// Package ledger owns the append-only block chain and the pending
// transaction pool.
//
// The Ledger validates and pools submitted transactions, mines pending
// transactions into blocks with a fixed-difficulty proof-of-work search,
// computes per-block merkle roots, verifies whole-chain integrity, and
// answers criteria-based transaction searches.
//
// All state is in-memory and non-persistent: a restart loses the pool and
// the chain. Every public method is safe for concurrent callers; accessors
// return deep copies, never pointers into the chain.
package ledger
