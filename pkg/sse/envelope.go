package sse

import (
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/agentwire/agentwire/pkg/errors"
)

// Envelope kinds on a skill stream.
const (
	KindRunStart = "run-start"
	KindDelta    = "delta"
	KindText     = "text"
	KindError    = "error"
	KindRunEnd   = "run-end"
)

/*
Envelope is one chunk on a skill stream. The engine owns runId, sequence,
createdAt and kind; handlers contribute only the kind-specific fields,
which are flattened next to the reserved keys when marshalled.
*/
type Envelope struct {
	RunID     string
	Sequence  int
	CreatedAt time.Time
	Kind      string
	Fields    map[string]any
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(e.Fields)+4)
	for k, v := range e.Fields {
		m[k] = v
	}
	// Reserved keys always win over handler-supplied fields.
	m["runId"] = e.RunID
	m["sequence"] = e.Sequence
	m["createdAt"] = e.CreatedAt.UTC().Format(time.RFC3339Nano)
	m["kind"] = e.Kind

	return json.Marshal(m)
}

/*
Run frames the envelopes of a single skill-stream invocation, assigning a
gap-free monotone sequence starting at zero. A run writes run-start first,
any number of handler chunks, and exactly one run-end last.
*/
type Run struct {
	mu     sync.Mutex
	writer *Writer
	runID  string
	seq    int
}

func NewRun(writer *Writer, runID string) *Run {
	return &Run{writer: writer, runID: runID}
}

// RunID returns the identifier shared by every envelope of this run.
func (r *Run) RunID() string { return r.runID }

// Start emits the run-start envelope.
func (r *Run) Start() error {
	return r.send(KindRunStart, nil)
}

// Emit sends one handler chunk. An empty kind defaults to "delta".
func (r *Run) Emit(kind string, fields map[string]any) error {
	if kind == "" {
		kind = KindDelta
	}
	return r.send(kind, fields)
}

// End emits the final run-end envelope with the aggregated result fields.
func (r *Run) End(status string, fields map[string]any) error {
	merged := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		merged[k] = v
	}
	merged["status"] = status
	return r.send(KindRunEnd, merged)
}

// Fail emits an error envelope followed by a failed run-end, so consumers
// always observe a closed run even on handler errors.
func (r *Run) Fail(err error) error {
	ae, ok := errors.As(err)
	if !ok {
		ae = errors.ErrInternal.WithMessagef("%v", err)
	}

	if sendErr := r.send(KindError, map[string]any{"error": ae}); sendErr != nil {
		return sendErr
	}
	return r.End("failed", nil)
}

// send holds the lock across the write so concurrent emitters cannot put
// envelopes on the wire out of sequence order.
func (r *Run) send(kind string, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	env := Envelope{
		RunID:     r.runID,
		Sequence:  r.seq,
		CreatedAt: time.Now().UTC(),
		Kind:      kind,
		Fields:    fields,
	}
	r.seq++

	return r.writer.Send(strconv.Itoa(env.Sequence), kind, env)
}
