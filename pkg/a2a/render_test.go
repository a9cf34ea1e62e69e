package a2a

import (
	"testing"
	"time"

	"github.com/tj/assert"

	"github.com/agentwire/agentwire/pkg/errors"
)

func TestTask_String(t *testing.T) {
	task := &Task{
		TaskID:    "task-1",
		SkillID:   "echo",
		ContextID: "conv-1",
		Status:    TaskStateCompleted,
		Result:    &Result{Output: map[string]any{"text": "hi"}, Model: "echo-1"},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	out := task.String()
	assert.Contains(t, out, "task-1")
	assert.Contains(t, out, "echo")
	assert.Contains(t, out, "completed")
	assert.Contains(t, out, "echo-1")
}

func TestTask_String_FailedShowsError(t *testing.T) {
	task := &Task{
		TaskID:  "task-2",
		SkillID: "explode",
		Status:  TaskStateFailed,
		Error:   errors.ErrInternal.WithMessagef("kaboom"),
	}

	out := task.String()
	assert.Contains(t, out, "internal_error")
	assert.Contains(t, out, "kaboom")
}

func TestAgentCard_String(t *testing.T) {
	card := &AgentCard{
		Name:         "demo",
		URL:          "http://demo.local",
		Version:      "1.0.0",
		Capabilities: AgentCapabilities{Streaming: true},
		Skills: []AgentSkill{
			{ID: "echo", Description: "Echoes input.", Streaming: true},
		},
	}

	out := card.String()
	assert.Contains(t, out, "demo")
	assert.Contains(t, out, "http://demo.local")
	assert.Contains(t, out, "echo")
	assert.Contains(t, out, "(streaming)")
}
