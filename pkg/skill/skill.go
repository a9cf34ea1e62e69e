package skill

import (
	"context"

	"github.com/agentwire/agentwire/pkg/schema"
)

/*
Caller is the narrow runtime handle exposed to handlers. It lets a skill
drive a task on another agent without holding a reference to its own
runtime, which keeps handler code free of cycles and trivially testable.
*/
type Caller interface {
	// Call creates a task for skillID on the agent at baseURL, waits for it
	// to reach a terminal state and returns its output.
	Call(ctx context.Context, baseURL, skillID string, input any) (any, error)
}

/*
Context is the execution context handed to skill handlers. It embeds the
cancellation context of the run; handlers are expected to observe it at
every I/O boundary.
*/
type Context struct {
	context.Context

	// Key is the skill being invoked.
	Key string
	// Input is the validated (canonical) input value.
	Input any
	// Headers carries opaque request headers for pass-through auth.
	Headers map[string]string
	// RunID identifies this invocation.
	RunID string
	// Caller lets the handler invoke other agents. May be nil.
	Caller Caller
}

/*
Result is what a handler returns on success.
*/
type Result struct {
	Output any
	Usage  map[string]any
	Model  string
}

// Emit pushes one chunk from a streaming handler toward the subscriber.
// The framing layer assigns sequence numbers and timestamps; handlers only
// choose the kind ("delta", "text", or a custom name) and the fields.
type Emit func(kind string, fields map[string]any) error

// InvokeHandler is the synchronous entrypoint of a skill.
type InvokeHandler func(ctx *Context) (*Result, error)

// StreamHandler is the streaming entrypoint of a skill. The final Result
// is aggregated into the run-end envelope.
type StreamHandler func(ctx *Context, emit Emit) (*Result, error)

/*
Skill is a named capability offered by an agent. At least one handler must
be present; a stream handler implies the streaming flag.
*/
type Skill struct {
	Key         string
	Description string

	InputSchema  *schema.Schema
	OutputSchema *schema.Schema

	Invoke InvokeHandler
	Stream StreamHandler

	// Streaming may be set explicitly; IsStreaming also reports true
	// whenever a stream handler is present.
	Streaming bool

	Tags     []string
	Examples []string

	// Pricing hints are carried verbatim into the agent card and never
	// interpreted by the runtime.
	Pricing map[string]any
}

// IsStreaming reports whether the skill supports the streaming entrypoint.
func (s *Skill) IsStreaming() bool {
	return s.Streaming || s.Stream != nil
}
