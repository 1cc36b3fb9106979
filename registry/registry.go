package registry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jinzhu/copier"
	uuid "github.com/nu7hatch/gouuid"
	"github.com/prometheus/common/log"
)

// Registry holds the local node id and the peer set.
type Registry struct {
	mu     sync.RWMutex
	nodeID string
	peers  map[string]struct{}
}

// New creates a Registry for nodeID. An empty nodeID gets a generated UUID.
func New(nodeID string) *Registry {
	if nodeID == "" {
		nodeID = newNodeID()
	}
	return &Registry{
		nodeID: nodeID,
		peers:  make(map[string]struct{}),
	}
}

// NodeID returns the local node's id.
func (r *Registry) NodeID() string {
	return r.nodeID
}

// AddNode registers a peer. Adding the local node or an empty id is a no-op.
func (r *Registry) AddNode(id string) {
	if id == "" || id == r.nodeID {
		return
	}

	r.mu.Lock()
	_, exists := r.peers[id]
	if !exists {
		r.peers[id] = struct{}{}
	}
	r.mu.Unlock()

	if !exists {
		log.Info(fmt.Sprintf("Registered node %s", id))
	}
}

// RemoveNode removes a peer. Unknown ids and the local node are no-ops.
func (r *Registry) RemoveNode(id string) {
	r.mu.Lock()
	_, exists := r.peers[id]
	if exists {
		delete(r.peers, id)
	}
	r.mu.Unlock()

	if exists {
		log.Info(fmt.Sprintf("Removed node %s", id))
	}
}

// HasNode reports whether id is the local node or a registered peer.
func (r *Registry) HasNode(id string) bool {
	if id == r.nodeID {
		return true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.peers[id]
	return ok
}

// NodeCount returns the number of registered nodes, the local node included.
func (r *Registry) NodeCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.peers) + 1
}

// Peers returns a sorted snapshot of the peer ids.
func (r *Registry) Peers() []string {
	r.mu.RLock()
	peers := make([]string, 0, len(r.peers))
	for id := range r.peers {
		peers = append(peers, id)
	}
	r.mu.RUnlock()

	var snapshot []string
	copier.Copy(&snapshot, &peers)
	sort.Strings(snapshot)
	return snapshot
}

func newNodeID() string {
	u, err := uuid.NewV4()
	if err != nil {
		log.Error(fmt.Sprintf("Unable to generate node uuid: %s", err))
		return fmt.Sprintf("node-%d", time.Now().UnixNano())
	}
	return u.String()
}
