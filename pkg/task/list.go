package task

import (
	"strings"

	"github.com/agentwire/agentwire/pkg/a2a"
	"github.com/agentwire/agentwire/pkg/errors"
)

const defaultListLimit = 50

/*
List filters tasks by context and status and paginates the filtered set.
Total counts matches before pagination and results keep creation order.
Unknown status values are rejected rather than silently matching nothing.
*/
func (m *Manager) List(q a2a.ListQuery) (*a2a.TaskList, error) {
	statuses, err := parseStatusFilter(q.Status)
	if err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []a2a.Task
	for _, id := range m.order {
		rec := m.tasks[id]
		if q.ContextID != "" && rec.task.ContextID != q.ContextID {
			continue
		}
		if statuses != nil && !statuses[rec.task.Status] {
			continue
		}
		matched = append(matched, rec.task)
	}

	total := len(matched)

	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	page := make([]a2a.Task, end-start)
	copy(page, matched[start:end])

	return &a2a.TaskList{
		Tasks:   page,
		Total:   total,
		HasMore: offset+limit < total,
	}, nil
}

// parseStatusFilter turns a single status or CSV into a membership set.
// nil means no status filtering.
func parseStatusFilter(raw string) (map[a2a.TaskState]bool, error) {
	if raw == "" {
		return nil, nil
	}

	set := make(map[a2a.TaskState]bool)
	for _, part := range strings.Split(raw, ",") {
		state := a2a.TaskState(strings.TrimSpace(part))
		if !state.Known() {
			return nil, errors.ErrInvalidRequest.WithMessagef(
				"unknown status %q, expected one of %s", part, strings.Join(a2a.KnownStates(), ", "))
		}
		set[state] = true
	}
	return set, nil
}
