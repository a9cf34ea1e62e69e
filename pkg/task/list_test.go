package task

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentwire/agentwire/pkg/a2a"
	"github.com/agentwire/agentwire/pkg/errors"
)

// seedTasks creates count completed echo tasks under the given context.
func seedTasks(t *testing.T, m *Manager, contextID string, count int) []string {
	t.Helper()

	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		ref, err := m.Create(a2a.CreateTaskParams{
			Message:   jsonMessage(t, fmt.Sprintf("input-%d", i)),
			SkillID:   "echo",
			ContextID: contextID,
		}, nil)
		assert.NoError(t, err)
		ids = append(ids, ref.TaskID)
	}
	for _, id := range ids {
		waitForStatus(t, m, id)
	}
	return ids
}

func TestList_Empty(t *testing.T) {
	m, _ := newTestManager(t)

	list, err := m.List(a2a.ListQuery{})
	assert.NoError(t, err)
	assert.Empty(t, list.Tasks)
	assert.Equal(t, 0, list.Total)
	assert.False(t, list.HasMore)
}

func TestList_KeepsCreationOrder(t *testing.T) {
	m, _ := newTestManager(t)
	ids := seedTasks(t, m, "", 3)

	list, err := m.List(a2a.ListQuery{})
	assert.NoError(t, err)
	assert.Len(t, list.Tasks, 3)

	for i, id := range ids {
		assert.Equal(t, id, list.Tasks[i].TaskID)
	}
}

func TestList_FiltersByContext(t *testing.T) {
	m, _ := newTestManager(t)
	seedTasks(t, m, "conv-a", 2)
	seedTasks(t, m, "conv-b", 1)

	list, err := m.List(a2a.ListQuery{ContextID: "conv-a"})
	assert.NoError(t, err)
	assert.Equal(t, 2, list.Total)
	for _, task := range list.Tasks {
		assert.Equal(t, "conv-a", task.ContextID)
	}
}

func TestList_FiltersByStatus(t *testing.T) {
	m, _ := newTestManager(t)
	seedTasks(t, m, "", 2)

	blocked, err := m.Create(a2a.CreateTaskParams{
		Message: jsonMessage(t, "x"),
		SkillID: "block",
	}, nil)
	assert.NoError(t, err)

	list, err := m.List(a2a.ListQuery{Status: "running"})
	assert.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, blocked.TaskID, list.Tasks[0].TaskID)

	list, err = m.List(a2a.ListQuery{Status: "completed,cancelled"})
	assert.NoError(t, err)
	assert.Equal(t, 2, list.Total)

	_, err = m.Cancel(blocked.TaskID)
	assert.NoError(t, err)
}

func TestList_UnknownStatusRejected(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.List(a2a.ListQuery{Status: "paused"})
	ae, ok := errors.As(err)
	assert.True(t, ok)
	assert.Equal(t, errors.CodeInvalidRequest, ae.Code)
}

func TestList_Pagination(t *testing.T) {
	m, _ := newTestManager(t)
	ids := seedTasks(t, m, "", 5)

	page, err := m.List(a2a.ListQuery{Limit: 2})
	assert.NoError(t, err)
	assert.Len(t, page.Tasks, 2)
	assert.Equal(t, 5, page.Total)
	assert.True(t, page.HasMore)
	assert.Equal(t, ids[0], page.Tasks[0].TaskID)

	page, err = m.List(a2a.ListQuery{Limit: 2, Offset: 4})
	assert.NoError(t, err)
	assert.Len(t, page.Tasks, 1)
	assert.Equal(t, ids[4], page.Tasks[0].TaskID)
	assert.False(t, page.HasMore)

	page, err = m.List(a2a.ListQuery{Limit: 2, Offset: 10})
	assert.NoError(t, err)
	assert.Empty(t, page.Tasks)
	assert.Equal(t, 5, page.Total)
	assert.False(t, page.HasMore)
}

func TestList_TotalCountsMatchesBeforePagination(t *testing.T) {
	m, _ := newTestManager(t)
	seedTasks(t, m, "conv-x", 3)
	seedTasks(t, m, "conv-y", 2)

	page, err := m.List(a2a.ListQuery{ContextID: "conv-x", Limit: 1})
	assert.NoError(t, err)
	assert.Len(t, page.Tasks, 1)
	assert.Equal(t, 3, page.Total)
	assert.True(t, page.HasMore)
}

func TestList_SnapshotIsStable(t *testing.T) {
	m, _ := newTestManager(t)
	seedTasks(t, m, "", 1)

	list, err := m.List(a2a.ListQuery{})
	assert.NoError(t, err)

	// Mutating the returned page must not leak into the manager.
	list.Tasks[0].Status = a2a.TaskStateRunning

	again, err := m.List(a2a.ListQuery{})
	assert.NoError(t, err)
	assert.Equal(t, a2a.TaskStateCompleted, again.Tasks[0].Status)
}
