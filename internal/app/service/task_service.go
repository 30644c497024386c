package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"crewdesk/internal/core/domain"
	"crewdesk/internal/core/ports"
)

// Option adjusts service construction. Only the clock is configurable;
// tests pin it to keep completion timestamps and due-date math fixed.
type Option func(*options)

type options struct {
	now func() time.Time
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// TaskService is the single entry point collaborators use for task writes
// and reads. It scopes every call to a workspace, normalizes input and
// delegates the rules to the lifecycle; each write runs in one store
// transaction.
type TaskService struct {
	store ports.Store
	rules lifecycle
}

func NewTaskService(store ports.Store, opts ...Option) *TaskService {
	o := buildOptions(opts)
	return &TaskService{store: store, rules: lifecycle{now: o.now}}
}

var _ ports.TaskService = (*TaskService)(nil)

func (s *TaskService) CreateTask(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		input.Description = &trimmed
	}
	if input.Priority == "" {
		input.Priority = domain.TaskPriorityMedium
	}
	input.Recurrence = normalizeRule(input.Recurrence)

	var created domain.Task
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		var err error
		created, err = s.rules.create(ctx, tx, input)
		return err
	})
	return created, err
}

func (s *TaskService) ListTasks(ctx context.Context, workspaceID uint64, filter domain.TaskFilter) ([]domain.Task, error) {
	exists, err := s.store.Workspaces().Exists(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &domain.NotFoundError{Resource: "workspace", ID: workspaceID}
	}
	return s.store.Tasks().ListByWorkspace(ctx, workspaceID, filter)
}

func (s *TaskService) ListSubtasks(ctx context.Context, workspaceID, taskID uint64) ([]domain.Task, error) {
	if _, err := s.rules.getScoped(ctx, s.store, workspaceID, taskID); err != nil {
		return nil, err
	}
	return s.store.Tasks().ListChildren(ctx, taskID)
}

func (s *TaskService) UpdateTask(ctx context.Context, workspaceID, id uint64, input domain.UpdateTaskInput) (domain.Task, error) {
	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		input.Title = &trimmed
	}

	var updated domain.Task
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		var err error
		updated, err = s.rules.update(ctx, tx, workspaceID, id, input)
		return err
	})
	return updated, err
}

func (s *TaskService) CompleteRecurringTask(ctx context.Context, workspaceID, id uint64) (domain.RecurrenceCompletion, error) {
	var completion domain.RecurrenceCompletion
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		var err error
		completion, err = s.rules.completeRecurring(ctx, tx, workspaceID, id)
		return err
	})
	return completion, err
}

func (s *TaskService) ReorderSubtasks(ctx context.Context, workspaceID, parentID uint64, orderedIDs []uint64) error {
	return s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		return s.rules.reorder(ctx, tx, workspaceID, parentID, orderedIDs)
	})
}

func (s *TaskService) DeleteTask(ctx context.Context, workspaceID, id uint64) error {
	return s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		return s.rules.delete(ctx, tx, workspaceID, id)
	})
}

// normalizeRule canonicalizes a recurrence rule: empty type means none, and
// weekly day sets are sorted and deduplicated. Rules are value objects,
// recomputed rather than patched.
func normalizeRule(rule domain.RecurrenceRule) domain.RecurrenceRule {
	if rule.Type == "" {
		rule.Type = domain.RecurrenceNone
	}
	if len(rule.Days) > 0 {
		seen := make(map[int]struct{}, len(rule.Days))
		days := make([]int, 0, len(rule.Days))
		for _, d := range rule.Days {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			days = append(days, d)
		}
		sort.Ints(days)
		rule.Days = days
	}
	return rule
}
