package eventmodel

import "context"

// Reserved event names.
const (
	// Wildcard registers a listener for every event, or forwards every event
	// when used as the event name of an edge.
	Wildcard = "*"

	// EventDestroy is triggered by a node that is going away. Every node
	// propagating to it drops those edges when it fires.
	EventDestroy = "destroy"
)

// Listener handles an event. Listeners registered under Wildcard receive the
// event name as args[0], followed by the trigger arguments.
//
// Example:
//
//	doc.On("saved", func(ctx eventmodel.Context, args ...any) {
//	    ctx.Logger().Info("document saved", "path", args[0])
//	})
type Listener func(ctx Context, args ...any)

// Emitter is the event model capability. It is implemented by *Node, and by
// any struct that embeds a *Node, which is how host objects acquire it:
//
//	type Document struct {
//	    *eventmodel.Node
//	    Path string
//	}
//
//	doc := &Document{Node: net.NewNode("document"), Path: "a.txt"}
//	doc.On("saved", onSaved)
//
// The unexported method keeps implementations inside this package, so any
// value typed as Emitter is known to carry the capability.
type Emitter interface {
	// On registers l for event. Listeners run in registration order and are
	// not de-duplicated.
	On(event string, l Listener)

	// Trigger dispatches event synchronously: named listeners, then wildcard
	// listeners, then every direct propagation target, falling back to the
	// network root when there is no target for event.
	Trigger(event string, args ...any)

	// TriggerContext is Trigger with a caller context for tracing and depth
	// accounting of nested triggers.
	TriggerContext(ctx context.Context, event string, args ...any)

	// PropagateTo forwards event (or every event, for Wildcard) to target.
	PropagateTo(event string, target Emitter) error

	// PropagateFrom makes source forward event to this node.
	PropagateFrom(event string, source Emitter) error

	// StopPropagatingTo removes every edge to target.
	StopPropagatingTo(target Emitter)

	// DirectPropagationTargets returns the targets of one hop.
	DirectPropagationTargets(event ...string) []Emitter

	// AllPropagationTargets returns the transitive closure of DirectPropagationTargets.
	AllPropagationTargets(event ...string) []Emitter

	eventNode() *Node
}

// Compile-time interface check.
var _ Emitter = (*Node)(nil)

// nodeOf returns the node behind e, or nil when e is nil or embeds a nil node.
func nodeOf(e Emitter) *Node {
	if e == nil {
		return nil
	}
	return e.eventNode()
}

// idOf returns the node ID for logging, tolerating nil.
func idOf(n *Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.id
}
