package core

import "errors"

// Block level failures. They are recovered by the composer and never reach
// the caller of a page render; they are exposed on outcomes for logging,
// metrics and the check command.
var (
	// ErrValidation means block data does not satisfy the renderer contract.
	ErrValidation = errors.New("block validation failed")

	// ErrUnknownBlockType means no renderer is registered for the type.
	ErrUnknownBlockType = errors.New("unknown block type")

	// ErrDataGateway wraps failures of tenant scoped queries.
	ErrDataGateway = errors.New("data gateway query failed")

	// ErrRenderPanic is reported when a renderer panicked.
	ErrRenderPanic = errors.New("renderer panicked")
)
