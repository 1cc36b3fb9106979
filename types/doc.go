// Package types defines the core data model for the provenance ledger:
// transactions, blocks, votes, and the hashing/canonicalization helpers
// shared by the ledger, merkle, and consensus packages.
//
// Hashes are lowercase hex-encoded SHA-256 digests (64 characters). All
// hashing of structured values goes through CanonicalJSON so that two
// semantically identical values hash identically regardless of the key
// order they were built with.
//
// The CopyX helpers produce deep copies. Components hand out copies at
// their boundaries, never pointers into internal state.
package types
