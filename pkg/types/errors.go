package types

import "errors"

// Validation errors. Returned before any state is touched.
var (
	ErrCopyOfCopy          = errors.New("Cannot mint copy from copy")
	ErrAlreadyOwnsOriginal = errors.New("Already own original")
	ErrUnknownArtifact     = errors.New("unknown artifact")
	ErrNotOriginal         = errors.New("artifact is not an original")
	ErrNotCopy             = errors.New("artifact is not a copy")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidAddress      = errors.New("address must not be empty")
	ErrInvalidID           = errors.New("invalid artifact ID")
	ErrInvalidKind         = errors.New("invalid artifact kind")
	ErrInvalidData         = errors.New("invalid artifact data")
)

// Holder errors.
var (
	ErrNotHolder     = errors.New("caller does not hold the artifact")
	ErrNoOwner       = errors.New("artifact has no owner")
	ErrAlreadyMinted = errors.New("artifact is already minted")
)

// Value transfer errors. Ledger implementations wrap their specific reason
// under ErrTransferFailed.
var (
	ErrTransferFailed        = errors.New("value transfer failed")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrInsufficientBalance   = errors.New("insufficient balance")
)

// Lifecycle errors.
var (
	ErrAlreadyInitialized = errors.New("game is already initialized")
	ErrNotInitialized     = errors.New("game is not initialized")
	ErrStoreDetached      = errors.New("store is detached")
	ErrAlreadyAttached    = errors.New("store is already attached")
)
