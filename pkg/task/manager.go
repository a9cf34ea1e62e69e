package task

import (
	"context"
	stderr "errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/agentwire/agentwire/pkg/a2a"
	"github.com/agentwire/agentwire/pkg/agent"
	"github.com/agentwire/agentwire/pkg/errors"
	"github.com/agentwire/agentwire/pkg/skill"
)

/*
Manager owns every task in the process. It creates tasks, schedules their
handlers, serialises all state transitions behind one mutex and guarantees
the terminal latch: the first terminal event wins and later ones are
dropped. Records are kept until evicted explicitly; the runtime is
ephemeral by design.
*/
type Manager struct {
	mu    sync.RWMutex
	agent *agent.Agent
	tasks map[string]*record
	order []string
}

// record pairs the wire-visible task with its cancellation handle. The
// handle never leaves the manager.
type record struct {
	task   a2a.Task
	cancel context.CancelFunc
}

func NewManager(ag *agent.Agent) *Manager {
	return &Manager{
		agent: ag,
		tasks: make(map[string]*record),
	}
}

/*
Create installs a running task and schedules its handler. It returns as
soon as the record is visible; the handler runs on its own goroutine
against a cancellation context owned by the manager.

Task creation uses the non-streaming path, so the skill must have an
invoke handler.
*/
func (m *Manager) Create(params a2a.CreateTaskParams, headers map[string]string) (*a2a.TaskRef, error) {
	sk, ok := m.agent.Skill(params.SkillID)
	if !ok {
		return nil, errors.ErrSkillNotFound.WithMessagef("unknown skill %q", params.SkillID)
	}
	if sk.Invoke == nil {
		return nil, errors.ErrNotImplemented.WithMessagef("skill %q cannot run as a task", params.SkillID)
	}

	input := params.Message.ExtractInput()
	id := uuid.NewString()
	now := time.Now().UTC()

	// The handler outlives the HTTP request that created the task, so its
	// lifetime is bound to this context, not the request's.
	runCtx, cancel := context.WithCancel(context.Background())

	rec := &record{
		task: a2a.Task{
			TaskID:    id,
			SkillID:   params.SkillID,
			ContextID: params.ContextID,
			Status:    a2a.TaskStateRunning,
			CreatedAt: now,
			UpdatedAt: now,
			Metadata:  params.Metadata,
		},
		cancel: cancel,
	}

	m.mu.Lock()
	m.tasks[id] = rec
	m.order = append(m.order, id)
	m.mu.Unlock()

	log.Info("task created", "taskId", id, "skill", params.SkillID, "contextId", params.ContextID)

	go m.run(runCtx, id, params.SkillID, input, headers)

	return &a2a.TaskRef{TaskID: id, Status: a2a.TaskStateRunning}, nil
}

func (m *Manager) run(ctx context.Context, id, skillKey string, input any, headers map[string]string) {
	res, err := m.agent.Invoke(ctx, agent.Request{
		Key:     skillKey,
		Input:   input,
		Headers: headers,
		RunID:   id,
	})
	m.settle(ctx, id, res, err)
}

/*
settle installs the terminal state produced by the handler, unless the
task already reached one. Without this latch a handler finishing right
after a cancel would resurrect the task.
*/
func (m *Manager) settle(ctx context.Context, id string, res *skill.Result, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.tasks[id]
	if !ok {
		return
	}
	if rec.task.Status != a2a.TaskStateRunning {
		log.Debug("dropping handler outcome for settled task", "taskId", id, "status", rec.task.Status)
		return
	}

	now := time.Now().UTC()
	rec.task.UpdatedAt = now

	switch {
	case err == nil:
		rec.task.Status = a2a.TaskStateCompleted
		rec.task.Result = &a2a.Result{Output: res.Output, Usage: res.Usage, Model: res.Model}
	case stderr.Is(err, context.Canceled) || ctx.Err() != nil:
		// The cancel signal surfaced as a handler error; not a failure.
		rec.task.Status = a2a.TaskStateCancelled
	default:
		rec.task.Status = a2a.TaskStateFailed
		rec.task.Error = asTaskError(err)
	}

	log.Info("task settled", "taskId", id, "status", rec.task.Status)
}

func asTaskError(err error) *errors.AgentError {
	if ae, ok := errors.As(err); ok {
		return ae
	}
	return errors.ErrInternal.WithMessagef("%v", err)
}

// Get returns a snapshot of the task record.
func (m *Manager) Get(id string) (*a2a.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.tasks[id]
	if !ok {
		return nil, errors.ErrTaskNotFound.WithMessagef("no task with id %q", id)
	}

	snap := rec.task
	return &snap, nil
}

/*
Cancel raises the cancellation signal and synchronously marks the task
cancelled. The handler keeps running until it observes the signal; its
eventual outcome is dropped by the settle latch. Cancelling a task that
already reached a terminal state is invalid_state.
*/
func (m *Manager) Cancel(id string) (*a2a.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.tasks[id]
	if !ok {
		return nil, errors.ErrTaskNotFound.WithMessagef("no task with id %q", id)
	}
	if rec.task.Status != a2a.TaskStateRunning {
		return nil, errors.ErrInvalidState.WithMessagef("task is %s", rec.task.Status)
	}

	rec.cancel()
	rec.task.Status = a2a.TaskStateCancelled
	rec.task.UpdatedAt = time.Now().UTC()

	log.Info("task cancelled", "taskId", id)

	snap := rec.task
	return &snap, nil
}

/*
EvictTerminal removes terminal tasks whose last transition is older than
the cutoff and returns their ids. A get on an evicted id behaves exactly
like a never-existing one.
*/
func (m *Manager) EvictTerminal(olderThan time.Time) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var evicted []string
	kept := m.order[:0]

	for _, id := range m.order {
		rec := m.tasks[id]
		if rec.task.Status.Terminal() && rec.task.UpdatedAt.Before(olderThan) {
			delete(m.tasks, id)
			evicted = append(evicted, id)
			continue
		}
		kept = append(kept, id)
	}
	m.order = kept

	if len(evicted) > 0 {
		log.Info("evicted terminal tasks", "count", len(evicted))
	}
	return evicted
}
