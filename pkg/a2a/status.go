package a2a

/*
TaskState enumerates the mutually-exclusive states a task may be in. Tasks
start in "running" and move exactly once to one of the terminal states.
*/
type TaskState string

const (
	TaskStateRunning   TaskState = "running"
	TaskStateCompleted TaskState = "completed"
	TaskStateFailed    TaskState = "failed"
	TaskStateCancelled TaskState = "cancelled"
)

// Terminal reports whether a task in this state can never change again.
func (s TaskState) Terminal() bool {
	switch s {
	case TaskStateCompleted, TaskStateFailed, TaskStateCancelled:
		return true
	}
	return false
}

// Known reports whether s is one of the defined task states.
func (s TaskState) Known() bool {
	switch s {
	case TaskStateRunning, TaskStateCompleted, TaskStateFailed, TaskStateCancelled:
		return true
	}
	return false
}

// KnownStates lists every defined task state, used to validate list filters.
func KnownStates() []string {
	return []string{
		string(TaskStateRunning),
		string(TaskStateCompleted),
		string(TaskStateFailed),
		string(TaskStateCancelled),
	}
}
