package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agentwire/agentwire/pkg/a2a"
	"github.com/agentwire/agentwire/pkg/errors"
)

/*
fakeAgent is a minimal wire-protocol server backed by canned state. It
lets the client be tested without standing up the real runtime.
*/
type fakeAgent struct {
	mu    sync.Mutex
	card  a2a.AgentCard
	tasks map[string]*a2a.Task

	// settleAfter delays the transition to the final state by this many
	// Get calls, to exercise polling.
	settleAfter map[string]int
	final       map[string]a2a.Task

	lastHeaders http.Header
}

func newFakeAgent() *fakeAgent {
	return &fakeAgent{
		card: a2a.AgentCard{
			Name:    "fake",
			URL:     "http://fake.local",
			Version: "0.0.1",
			Skills:  []a2a.AgentSkill{{ID: "echo"}},
		},
		tasks:       make(map[string]*a2a.Task),
		settleAfter: make(map[string]int),
		final:       make(map[string]a2a.Task),
	}
}

func (f *fakeAgent) server(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/.well-known/agent-card.json", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(f.card)
	})

	mux.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.lastHeaders = r.Header.Clone()

		if r.Method == http.MethodGet {
			list := a2a.TaskList{}
			for _, task := range f.tasks {
				list.Tasks = append(list.Tasks, *task)
			}
			list.Total = len(list.Tasks)
			json.NewEncoder(w).Encode(list)
			return
		}

		var params a2a.CreateTaskParams
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil || params.SkillID == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{"error": errors.ErrInvalidRequest})
			return
		}
		if f.card.FindSkill(params.SkillID) == nil {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"error": errors.ErrSkillNotFound})
			return
		}

		id := "task-1"
		f.tasks[id] = &a2a.Task{TaskID: id, SkillID: params.SkillID, Status: a2a.TaskStateRunning}
		json.NewEncoder(w).Encode(a2a.TaskRef{TaskID: id, Status: a2a.TaskStateRunning})
	})

	mux.HandleFunc("/tasks/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		id := "task-1"
		task, ok := f.tasks[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"error": errors.ErrTaskNotFound})
			return
		}

		if remaining, pending := f.settleAfter[id]; pending {
			if remaining > 0 {
				f.settleAfter[id] = remaining - 1
			} else {
				final := f.final[id]
				*task = final
				delete(f.settleAfter, id)
			}
		}

		json.NewEncoder(w).Encode(task)
	})

	return httptest.NewServer(mux)
}

func completedTask(output any) a2a.Task {
	return a2a.Task{
		TaskID: "task-1",
		Status: a2a.TaskStateCompleted,
		Result: &a2a.Result{Output: output},
	}
}

func TestFetchCard(t *testing.T) {
	fake := newFakeAgent()
	server := fake.server(t)
	defer server.Close()

	card, err := New().FetchCard(context.Background(), server.URL)
	assert.NoError(t, err)
	assert.Equal(t, "fake", card.Name)

	sk, err := FindSkill(card, "echo")
	assert.NoError(t, err)
	assert.Equal(t, "echo", sk.ID)

	_, err = FindSkill(card, "missing")
	ae, ok := errors.As(err)
	assert.True(t, ok)
	assert.Equal(t, errors.CodeSkillNotFound, ae.Code)
}

func TestFetchCard_Unreachable(t *testing.T) {
	_, err := New().FetchCard(context.Background(), "http://127.0.0.1:1")

	ae, ok := errors.As(err)
	assert.True(t, ok)
	assert.Equal(t, errors.CodeCardFetchFailed, ae.Code)
}

func TestSendMessage_AndWait(t *testing.T) {
	fake := newFakeAgent()
	server := fake.server(t)
	defer server.Close()

	c := New()
	msg, err := a2a.NewJSONMessage("user", map[string]any{"text": "hi"})
	assert.NoError(t, err)

	ref, err := c.SendMessage(context.Background(), server.URL, a2a.CreateTaskParams{
		Message: msg,
		SkillID: "echo",
	})
	assert.NoError(t, err)
	assert.Equal(t, "task-1", ref.TaskID)

	fake.mu.Lock()
	fake.settleAfter["task-1"] = 2
	fake.final["task-1"] = completedTask(map[string]any{"text": "hi"})
	fake.mu.Unlock()

	final, err := c.WaitForTask(context.Background(), server.URL, ref.TaskID, 5*time.Second)
	assert.NoError(t, err)
	assert.Equal(t, a2a.TaskStateCompleted, final.Status)
}

func TestSendMessage_ServerErrorSurfacesTyped(t *testing.T) {
	fake := newFakeAgent()
	server := fake.server(t)
	defer server.Close()

	msg, err := a2a.NewJSONMessage("user", "x")
	assert.NoError(t, err)

	_, err = New().SendMessage(context.Background(), server.URL, a2a.CreateTaskParams{
		Message: msg,
		SkillID: "missing",
	})
	ae, ok := errors.As(err)
	assert.True(t, ok)
	assert.Equal(t, errors.CodeSkillNotFound, ae.Code)
}

func TestWaitForTask_Timeout(t *testing.T) {
	fake := newFakeAgent()
	fake.tasks["task-1"] = &a2a.Task{TaskID: "task-1", Status: a2a.TaskStateRunning}
	server := fake.server(t)
	defer server.Close()

	_, err := New().WaitForTask(context.Background(), server.URL, "task-1", 300*time.Millisecond)
	ae, ok := errors.As(err)
	assert.True(t, ok)
	assert.Equal(t, errors.CodeTimeout, ae.Code)
}

func TestWaitForTask_ContextCancellation(t *testing.T) {
	fake := newFakeAgent()
	fake.tasks["task-1"] = &a2a.Task{TaskID: "task-1", Status: a2a.TaskStateRunning}
	server := fake.server(t)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := New().WaitForTask(ctx, server.URL, "task-1", 30*time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithHeader_RidesOnEveryRequest(t *testing.T) {
	fake := newFakeAgent()
	server := fake.server(t)
	defer server.Close()

	c := New(WithHeader("Authorization", "Bearer opaque-token"))

	msg, err := a2a.NewJSONMessage("user", "x")
	assert.NoError(t, err)
	_, err = c.SendMessage(context.Background(), server.URL, a2a.CreateTaskParams{
		Message: msg,
		SkillID: "echo",
	})
	assert.NoError(t, err)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, "Bearer opaque-token", fake.lastHeaders.Get("Authorization"))
}

func TestDecodeError_UnexpectedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>upstream sad</html>"))
	}))
	defer server.Close()

	_, err := New().GetTask(context.Background(), server.URL, "task-1")
	ae, ok := errors.As(err)
	assert.True(t, ok)
	assert.Equal(t, errors.CodeInternal, ae.Code)
	assert.Contains(t, ae.Message, "502")
}

func TestCaller_Call(t *testing.T) {
	fake := newFakeAgent()
	server := fake.server(t)
	defer server.Close()

	fake.mu.Lock()
	fake.settleAfter["task-1"] = 0
	fake.final["task-1"] = completedTask(map[string]any{"text": "downstream says hi"})
	fake.mu.Unlock()

	caller := NewCaller(New(), 5*time.Second)
	out, err := caller.Call(context.Background(), server.URL, "echo", map[string]any{"text": "hi"})
	assert.NoError(t, err)

	asMap := out.(map[string]any)
	assert.Equal(t, "downstream says hi", asMap["text"])
}

func TestCaller_UnknownSkillFailsBeforeCreating(t *testing.T) {
	fake := newFakeAgent()
	server := fake.server(t)
	defer server.Close()

	caller := NewCaller(New(), time.Second)
	_, err := caller.Call(context.Background(), server.URL, "missing", nil)

	ae, ok := errors.As(err)
	assert.True(t, ok)
	assert.Equal(t, errors.CodeSkillNotFound, ae.Code)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Empty(t, fake.tasks)
}

func TestCaller_FailedDownstreamTask(t *testing.T) {
	fake := newFakeAgent()
	server := fake.server(t)
	defer server.Close()

	fake.mu.Lock()
	fake.settleAfter["task-1"] = 0
	fake.final["task-1"] = a2a.Task{
		TaskID: "task-1",
		Status: a2a.TaskStateFailed,
		Error:  errors.ErrInternal.WithMessagef("downstream on fire"),
	}
	fake.mu.Unlock()

	caller := NewCaller(New(), 5*time.Second)
	_, err := caller.Call(context.Background(), server.URL, "echo", nil)

	ae, ok := errors.As(err)
	assert.True(t, ok)
	assert.Equal(t, errors.CodeInternal, ae.Code)
	assert.Contains(t, ae.Message, "downstream on fire")
}
