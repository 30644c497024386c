package domain

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID               uint64
	WorkspaceID      uint64
	ParentTaskID     *uint64
	Position         int
	Title            string
	Description      *string
	Status           TaskStatus
	Priority         TaskPriority
	DueDate          *time.Time
	Recurrence       RecurrenceRule
	OriginalTaskID   *uint64
	SourceTemplateID *uint64
	SubtaskCount     int
	CompletedCount   int
	CompletedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsSubtask reports whether the task lives under a parent.
func (t Task) IsSubtask() bool {
	return t.ParentTaskID != nil
}

// IsRecurring reports whether the task carries an active recurrence rule.
// Only root tasks may recur.
func (t Task) IsRecurring() bool {
	return t.Recurrence.Type != "" && t.Recurrence.Type != RecurrenceNone
}

// SeriesRootID resolves the id anchoring the task's recurrence series: the
// original task for a generated instance, the task itself otherwise.
func (t Task) SeriesRootID() uint64 {
	if t.OriginalTaskID != nil {
		return *t.OriginalTaskID
	}
	return t.ID
}

type CreateTaskInput struct {
	WorkspaceID      uint64
	Title            string
	Description      *string
	Priority         TaskPriority
	DueDate          *time.Time
	ParentTaskID     *uint64
	Recurrence       RecurrenceRule
	SourceTemplateID *uint64
}

type UpdateTaskInput struct {
	Title           *string
	Description     *string
	DescriptionSet  bool
	Status          *TaskStatus
	Priority        *TaskPriority
	DueDate         *time.Time
	DueDateSet      bool
	ParentTaskID    *uint64
	ParentTaskIDSet bool
}

type TaskFilter struct {
	Status   *TaskStatus
	Priority *TaskPriority
}

// RecurrenceCompletion is the result of completing a recurring task: the
// completed task plus the next generated instance, nil once the series
// has ended.
type RecurrenceCompletion struct {
	Task     Task
	NextTask *Task
}
