package a2a

import (
	"time"

	"github.com/agentwire/agentwire/pkg/errors"
)

/*
Task is the wire record of one asynchronous skill execution. Result is
present iff the task completed; Error is present iff it failed. Timestamps
are wall-clock UTC and marshal as ISO-8601.
*/
type Task struct {
	TaskID    string             `json:"taskId"`
	SkillID   string             `json:"skillId"`
	ContextID string             `json:"contextId,omitempty"`
	Status    TaskState          `json:"status"`
	Result    *Result            `json:"result,omitempty"`
	Error     *errors.AgentError `json:"error,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
	Metadata  map[string]any     `json:"metadata,omitempty"`
}

/*
Result is the outcome of a completed invocation. Usage and Model are
whatever the handler reported; the runtime does not interpret them.
*/
type Result struct {
	Output any            `json:"output"`
	Usage  map[string]any `json:"usage,omitempty"`
	Model  string         `json:"model,omitempty"`
}

// CreateTaskParams is the body of POST /tasks.
type CreateTaskParams struct {
	Message   Message        `json:"message"`
	SkillID   string         `json:"skillId"`
	ContextID string         `json:"contextId,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// TaskRef is the immediate response to task creation.
type TaskRef struct {
	TaskID string    `json:"taskId"`
	Status TaskState `json:"status"`
}

// ListQuery holds the query parameters of GET /tasks. Status is a single
// state or a comma-separated list; zero Limit means the default of 50.
type ListQuery struct {
	ContextID string
	Status    string
	Limit     int
	Offset    int
}

// TaskList is the response of GET /tasks. Total counts matches before
// pagination; HasMore is true when offset+limit < total.
type TaskList struct {
	Tasks   []Task `json:"tasks"`
	Total   int    `json:"total"`
	HasMore bool   `json:"hasMore"`
}

/*
StatusUpdateEvent is the payload of every task-subscription SSE event.
*/
type StatusUpdateEvent struct {
	TaskID string             `json:"taskId"`
	Status TaskState          `json:"status"`
	Result *Result            `json:"result,omitempty"`
	Error  *errors.AgentError `json:"error,omitempty"`
}

// InvokeRequest is the body of POST /entrypoints/{key}/invoke and /stream.
type InvokeRequest struct {
	Input any `json:"input"`
}

// InvokeResponse is the reply to a synchronous invoke.
type InvokeResponse struct {
	RunID  string         `json:"run_id"`
	Status string         `json:"status"`
	Output any            `json:"output"`
	Usage  map[string]any `json:"usage,omitempty"`
	Model  string         `json:"model,omitempty"`
}

// HealthResponse is the reply to GET /health.
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Version string `json:"version"`
}
