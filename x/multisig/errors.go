package multisig

import "github.com/iov-one/quorum/errors"

// Multisig takes codes 1030-1040.
var (
	ErrOwnersRequired      = errors.Register(1030, "owners required")
	ErrInvalidThreshold    = errors.Register(1031, "invalid threshold")
	ErrInvalidOwner        = errors.Register(1032, "invalid owner")
	ErrDuplicateOwner      = errors.Register(1033, "duplicate owner")
	ErrNotOwner            = errors.Register(1034, "not owner")
	ErrTransactionNotFound = errors.Register(1035, "transaction not found")
	ErrAlreadyExecuted     = errors.Register(1036, "already executed")
	ErrAlreadyConfirmed    = errors.Register(1037, "already confirmed")
	ErrNotConfirmed        = errors.Register(1038, "not confirmed")
	ErrQuorumNotMet        = errors.Register(1039, "quorum not met")
	ErrExecutionFailed     = errors.Register(1040, "execution failed")
)
