package frp

import "errors"

// Misuse errors. They are raised with panic at the offending call site and can
// be matched with errors.Is on the recovered value.
var (
	ErrPushToDerived         = errors.New("frp: cannot push to a derived node")
	ErrAlreadyResolved       = errors.New("frp: future already resolved")
	ErrNotPullable           = errors.New("frp: node cannot be pulled")
	ErrNotPushing            = errors.New("frp: behavior is not in push state")
	ErrUnresolvedPlaceholder = errors.New("frp: placeholder has not been replaced")
	ErrPlaceholderResolved   = errors.New("frp: placeholder already replaced")
	ErrNoModel               = errors.New("frp: node has no denotational model")
	ErrSystemMismatch        = errors.New("frp: nodes belong to different systems")
	ErrClosed                = errors.New("frp: system is closed")
	ErrEmptyNow              = errors.New("frp: zero Now value")
)

// placeholderError is raised when sampling a behavior that still waits on a
// placeholder. Moment recovers it and keeps the node as a dependency.
type placeholderError struct {
	n *node
}

func (e *placeholderError) Error() string { return ErrUnresolvedPlaceholder.Error() }

func (e *placeholderError) Unwrap() error { return ErrUnresolvedPlaceholder }
