package ports

import (
	"context"
	"time"

	"crewdesk/internal/core/domain"
)

// Store bundles the repositories behind one transactional boundary. Every
// write operation of the engine runs inside a single WithinTx call: either
// all of its writes commit or none do.
type Store interface {
	Tasks() TaskRepository
	Templates() TemplateRepository
	Workspaces() WorkspaceRepository

	// WithinTx runs fn against a transaction-scoped view of the store,
	// committing on nil and rolling back on error. Nested calls reuse the
	// enclosing transaction.
	WithinTx(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}

type TaskRepository interface {
	GetByID(ctx context.Context, id uint64) (domain.Task, error)
	ListByWorkspace(ctx context.Context, workspaceID uint64, filter domain.TaskFilter) ([]domain.Task, error)
	ListChildren(ctx context.Context, parentID uint64) ([]domain.Task, error)

	// NextChildPosition returns max(sibling positions)+1 for the given
	// parent, or for the workspace's root tasks when parentID is nil.
	NextChildPosition(ctx context.Context, workspaceID uint64, parentID *uint64) (int, error)

	Insert(ctx context.Context, task domain.Task) (uint64, error)
	Update(ctx context.Context, task domain.Task) error
	SetPosition(ctx context.Context, id uint64, position int) error
	SetRollup(ctx context.Context, id uint64, counts domain.RollupCounts) error
	Delete(ctx context.Context, id uint64) error
}

type TemplateRepository interface {
	GetByID(ctx context.Context, id uint64) (domain.TaskTemplate, error)
	ListVisible(ctx context.Context, workspaceID uint64) ([]domain.TaskTemplate, error)
	Insert(ctx context.Context, template domain.TaskTemplate) (uint64, error)

	// MarkUsed increments use_count and stamps last_used_at.
	MarkUsed(ctx context.Context, id uint64, usedAt time.Time) error
}

type WorkspaceRepository interface {
	Exists(ctx context.Context, id uint64) (bool, error)
}

type TaskService interface {
	CreateTask(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error)
	ListTasks(ctx context.Context, workspaceID uint64, filter domain.TaskFilter) ([]domain.Task, error)
	ListSubtasks(ctx context.Context, workspaceID, taskID uint64) ([]domain.Task, error)
	UpdateTask(ctx context.Context, workspaceID, id uint64, input domain.UpdateTaskInput) (domain.Task, error)
	CompleteRecurringTask(ctx context.Context, workspaceID, id uint64) (domain.RecurrenceCompletion, error)
	ReorderSubtasks(ctx context.Context, workspaceID, parentID uint64, orderedIDs []uint64) error
	DeleteTask(ctx context.Context, workspaceID, id uint64) error
}

type TemplateService interface {
	CreateTemplate(ctx context.Context, input domain.CreateTemplateInput) (domain.TaskTemplate, error)
	ListTemplates(ctx context.Context, workspaceID uint64) ([]domain.TaskTemplate, error)
	ApplyTemplate(ctx context.Context, input domain.ApplyTemplateInput) (domain.Task, error)
}
