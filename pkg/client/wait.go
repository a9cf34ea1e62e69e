package client

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/agentwire/agentwire/pkg/a2a"
	"github.com/agentwire/agentwire/pkg/errors"
	"github.com/agentwire/agentwire/pkg/skill"
)

// DefaultWaitBudget bounds WaitForTask when the caller passes no budget.
const DefaultWaitBudget = 30 * time.Second

const waitPollInterval = 100 * time.Millisecond

/*
WaitForTask polls the task until it reaches a terminal state, returning
the final record. A zero maxWait means the default budget; exhausting the
budget yields a timeout error.
*/
func (c *Client) WaitForTask(ctx context.Context, base, taskID string, maxWait time.Duration) (*a2a.Task, error) {
	if maxWait <= 0 {
		maxWait = DefaultWaitBudget
	}
	deadline := time.Now().Add(maxWait)

	ticker := time.NewTicker(waitPollInterval)
	defer ticker.Stop()

	for {
		snap, err := c.GetTask(ctx, base, taskID)
		if err != nil {
			return nil, err
		}
		if snap.Status.Terminal() {
			return snap, nil
		}

		if time.Now().After(deadline) {
			return nil, errors.ErrTimeout.WithMessagef("task %s still %s after %s", taskID, snap.Status, maxWait)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

/*
Caller adapts a Client to the narrow handle skills receive, letting one
agent's handler drive a task on another agent: send the input as a task,
wait for the terminal state, surface the output. This is the whole of the
facilitator pattern from the handler's point of view.
*/
type Caller struct {
	client  *Client
	maxWait time.Duration
}

var _ skill.Caller = (*Caller)(nil)

// NewCaller wraps a client; maxWait 0 means the default wait budget.
func NewCaller(c *Client, maxWait time.Duration) *Caller {
	return &Caller{client: c, maxWait: maxWait}
}

func (c *Caller) Call(ctx context.Context, baseURL, skillID string, input any) (any, error) {
	card, err := c.client.FetchCard(ctx, baseURL)
	if err != nil {
		return nil, err
	}
	if _, err := FindSkill(card, skillID); err != nil {
		return nil, err
	}

	msg, err := a2a.NewJSONMessage("user", input)
	if err != nil {
		return nil, err
	}

	ref, err := c.client.SendMessage(ctx, baseURL, a2a.CreateTaskParams{
		Message: msg,
		SkillID: skillID,
	})
	if err != nil {
		return nil, err
	}

	log.Debug("downstream task created", "agent", card.Name, "taskId", ref.TaskID)

	final, err := c.client.WaitForTask(ctx, baseURL, ref.TaskID, c.maxWait)
	if err != nil {
		return nil, err
	}

	switch final.Status {
	case a2a.TaskStateCompleted:
		return final.Result.Output, nil
	case a2a.TaskStateFailed:
		return nil, final.Error
	default:
		return nil, errors.ErrInvalidState.WithMessagef("downstream task %s ended %s", final.TaskID, final.Status)
	}
}
