// Package registry tracks the local node id and the set of known peer ids.
// It supplies the quorum denominator for consensus: NodeCount is the peer
// count plus one for the local node.
//
// Nodes are opaque id strings with no metadata and no liveness tracking.
// Failures are reported by an external detector; the registry only mutates
// membership.
package registry
