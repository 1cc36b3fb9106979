package ledger

import "errors"

// Ledger errors
var (
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrNothingToMine      = errors.New("no pending transactions to mine")
	ErrBlockNotFound      = errors.New("block not found")
	ErrInvalidConfig      = errors.New("invalid ledger config")
)
