// Package merkle builds binary Merkle trees over arbitrary canonicalized
// items and produces and verifies inclusion proofs.
//
// Leaves are SHA-256 digests of each item's canonical form (see
// types.HashItem). Levels are built bottom-up by hashing adjacent pairs; an
// odd trailing node at any level is duplicated and hashed with itself. The
// same policy applies on the proof path: a node without a sibling uses its
// own hash as the sibling, so proofs stay symmetric with the build.
//
// Verification fails closed: VerifyProof returns false on any malformed
// input and never panics or returns an error for a mismatch.
package merkle
