package consensus

import "github.com/medledger/provenance/types"

// trackedProposal couples a candidate block with the votes cast on it.
// Access is guarded by the Coordinator's mutex.
type trackedProposal struct {
	block *types.Block
	votes []*types.Vote
	mined bool
}

func (p *trackedProposal) hasVoted(nodeID string) bool {
	for _, v := range p.votes {
		if v.NodeID == nodeID {
			return true
		}
	}
	return false
}

func (p *trackedProposal) yesVotes() int {
	yes := 0
	for _, v := range p.votes {
		if v.IsValid {
			yes++
		}
	}
	return yes
}

// removeVotes drops every vote cast by nodeID and reports how many were
// removed.
func (p *trackedProposal) removeVotes(nodeID string) int {
	kept := p.votes[:0]
	removed := 0
	for _, v := range p.votes {
		if v.NodeID == nodeID {
			removed++
			continue
		}
		kept = append(kept, v)
	}
	p.votes = kept
	return removed
}

// voteSnapshot returns copies of the recorded votes.
func (p *trackedProposal) voteSnapshot() []*types.Vote {
	votes := make([]*types.Vote, len(p.votes))
	for i, v := range p.votes {
		votes[i] = types.CopyVote(v)
	}
	return votes
}
