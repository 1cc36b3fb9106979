package consensus

import "errors"

// Consensus errors
var (
	ErrNoTransactions     = errors.New("no transactions to propose")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrUnknownProposal    = errors.New("unknown proposal")
	ErrUnknownNode        = errors.New("unknown node")
	ErrDuplicateVote      = errors.New("duplicate vote")
	ErrInvalidVote        = errors.New("invalid vote")
	ErrInvalidConfig      = errors.New("invalid consensus config")
)
