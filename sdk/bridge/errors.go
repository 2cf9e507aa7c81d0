package bridge

import "errors"

// Sentinel errors returned by bridge operations. Callers match them with
// errors.Is; every failed operation wraps exactly one of these.
var (
	// ErrTimeout means no matching response event arrived within the
	// request deadline.
	ErrTimeout = errors.New("bridge: request timed out")

	// ErrCancelled means the caller abandoned the request before a
	// response arrived.
	ErrCancelled = errors.New("bridge: request cancelled")

	// ErrBridgeUnsupported means there is no usable bridge: the transport
	// is absent, closed, or rejected the outbound call outright.
	ErrBridgeUnsupported = errors.New("bridge: transport unavailable")

	// ErrUnsupported means the capability check failed and no legacy
	// fallback exists for the operation.
	ErrUnsupported = errors.New("bridge: capability unsupported by host version")

	// ErrInvalidArgument means the caller supplied an out-of-range or
	// disallowed value; reported synchronously before any bridge call.
	ErrInvalidArgument = errors.New("bridge: invalid argument")
)
