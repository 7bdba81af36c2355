package eventmodel

import (
	"errors"
	"fmt"
)

// Sentinel errors for propagation wiring.
var (
	// ErrCycle indicates an edge would let a node reach itself.
	ErrCycle = errors.New("propagation cycle")

	// ErrMissingCapability indicates the other end of an edge has no event
	// model in this network (nil, never initialized, or owned by another network).
	ErrMissingCapability = errors.New("object has no event model")
)

// Sentinel errors for dispatch.
var (
	// ErrMaxDepth indicates a dispatch descended past the configured depth limit.
	ErrMaxDepth = errors.New("exceeded maximum dispatch depth")

	// ErrListenerPanic is matched by PanicError via errors.Is.
	ErrListenerPanic = errors.New("listener panicked")
)

// Cycle reasons reported in CycleError.Reason.
const (
	ReasonSelf       = "node cannot propagate to itself"
	ReasonRootSource = "root cannot be a propagation source"
	ReasonRootTarget = "root cannot be a propagation target"
	ReasonReachable  = "source is reachable from target"
)

// CycleError describes a rejected edge.
type CycleError struct {
	// Source is the ID of the node that would forward.
	Source string
	// Target is the ID of the node that would receive.
	Target string
	// Event is the event name of the rejected edge.
	Event string
	// Reason is one of the Reason* constants.
	Reason string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("propagate %q from %s to %s: %s", e.Event, e.Source, e.Target, e.Reason)
}

// Unwrap returns ErrCycle for errors.Is support.
func (e *CycleError) Unwrap() error {
	return ErrCycle
}

// MissingCapabilityError is returned when PropagateTo or PropagateFrom is
// handed something that is not a node of the caller's network.
type MissingCapabilityError struct {
	// Op is the operation that failed ("PropagateTo" or "PropagateFrom").
	Op string
	// Node is the ID of the node the operation was called on.
	Node string
	// Event is the requested event name.
	Event string
	// Foreign is true when the other node exists but belongs to another network.
	Foreign bool
}

// Error implements the error interface.
func (e *MissingCapabilityError) Error() string {
	if e.Foreign {
		return fmt.Sprintf("%s %q on %s: node belongs to another network", e.Op, e.Event, e.Node)
	}
	return fmt.Sprintf("%s %q on %s: %v", e.Op, e.Event, e.Node, ErrMissingCapability)
}

// Unwrap returns ErrMissingCapability for errors.Is support.
func (e *MissingCapabilityError) Unwrap() error {
	return ErrMissingCapability
}

// DepthError is reported when a dispatch is cut off at the depth limit.
type DepthError struct {
	// Max is the configured limit.
	Max int
	// NodeID is the node that would have been dispatched next.
	NodeID string
	// Event is the event being dispatched.
	Event string
}

// Error implements the error interface.
func (e *DepthError) Error() string {
	return fmt.Sprintf("exceeded maximum dispatch depth (%d) at node %s for %q", e.Max, e.NodeID, e.Event)
}

// Unwrap returns ErrMaxDepth for errors.Is support.
func (e *DepthError) Unwrap() error {
	return ErrMaxDepth
}

// PanicError captures a recovered listener panic.
// Only produced when the network was built WithRecoverPanics(true).
type PanicError struct {
	// NodeID is the node whose listener panicked.
	NodeID string
	// Event is the event being dispatched.
	Event string
	// Value is the value passed to panic().
	Value any
	// Stack is the stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("listener on %s for %q panicked: %v", e.NodeID, e.Event, e.Value)
}

// Is allows errors.Is to match PanicError with ErrListenerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrListenerPanic
}
