package service

import (
	"context"
	"time"

	"crewdesk/internal/core/domain"
	"crewdesk/internal/core/ports"
)

// maxHierarchyDepth caps the ancestor walk used for cycle detection and
// depth limiting. The store does not prevent cyclic parent chains itself.
const maxHierarchyDepth = 32

// lifecycle owns the status-transition and hierarchy rules for a single
// task. Its methods run against a transaction-scoped store; the façade owns
// the transaction boundary.
type lifecycle struct {
	now func() time.Time
}

func (l lifecycle) create(ctx context.Context, s ports.Store, input domain.CreateTaskInput) (domain.Task, error) {
	if input.Title == "" {
		return domain.Task{}, domain.NewValidationError("title must not be empty")
	}
	if !input.Priority.Valid() {
		return domain.Task{}, domain.NewValidationError("unknown priority %q", input.Priority)
	}
	if err := input.Recurrence.Validate(); err != nil {
		return domain.Task{}, err
	}

	exists, err := s.Workspaces().Exists(ctx, input.WorkspaceID)
	if err != nil {
		return domain.Task{}, err
	}
	if !exists {
		return domain.Task{}, &domain.NotFoundError{Resource: "workspace", ID: input.WorkspaceID}
	}

	if input.ParentTaskID != nil {
		// Recurrence is defined only at the root of a hierarchy.
		if input.Recurrence.Type != "" && input.Recurrence.Type != domain.RecurrenceNone {
			return domain.Task{}, domain.NewValidationError("a subtask may not declare its own recurrence")
		}
		parent, err := l.getScoped(ctx, s, input.WorkspaceID, *input.ParentTaskID)
		if err != nil {
			return domain.Task{}, err
		}
		if err := l.walkAncestors(ctx, s, parent, 0); err != nil {
			return domain.Task{}, err
		}
	}

	position, err := s.Tasks().NextChildPosition(ctx, input.WorkspaceID, input.ParentTaskID)
	if err != nil {
		return domain.Task{}, err
	}

	now := l.now()
	rule := input.Recurrence
	if rule.Type == "" {
		rule.Type = domain.RecurrenceNone
	}

	task := domain.Task{
		WorkspaceID:      input.WorkspaceID,
		ParentTaskID:     input.ParentTaskID,
		Position:         position,
		Title:            input.Title,
		Description:      input.Description,
		Status:           domain.TaskStatusTodo,
		Priority:         input.Priority,
		DueDate:          input.DueDate,
		Recurrence:       rule,
		SourceTemplateID: input.SourceTemplateID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	id, err := s.Tasks().Insert(ctx, task)
	if err != nil {
		return domain.Task{}, err
	}
	task.ID = id

	if task.ParentTaskID != nil {
		if err := l.refreshRollup(ctx, s, *task.ParentTaskID); err != nil {
			return domain.Task{}, err
		}
	}
	return task, nil
}

func (l lifecycle) update(ctx context.Context, s ports.Store, workspaceID, id uint64, input domain.UpdateTaskInput) (domain.Task, error) {
	task, err := l.getScoped(ctx, s, workspaceID, id)
	if err != nil {
		return domain.Task{}, err
	}

	prevStatus := task.Status
	prevParent := task.ParentTaskID

	if input.Title != nil {
		if *input.Title == "" {
			return domain.Task{}, domain.NewValidationError("title must not be empty")
		}
		task.Title = *input.Title
	}
	if input.DescriptionSet {
		task.Description = input.Description
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return domain.Task{}, domain.NewValidationError("unknown priority %q", *input.Priority)
		}
		task.Priority = *input.Priority
	}
	if input.DueDateSet {
		task.DueDate = input.DueDate
	}

	now := l.now()
	if input.Status != nil && *input.Status != prevStatus {
		if !input.Status.Valid() {
			return domain.Task{}, domain.NewValidationError("unknown status %q", *input.Status)
		}
		task.Status = *input.Status
		switch {
		case task.Status == domain.TaskStatusCompleted:
			task.CompletedAt = &now
		case prevStatus == domain.TaskStatusCompleted:
			task.CompletedAt = nil
		}
	}

	if input.ParentTaskIDSet && !sameParent(prevParent, input.ParentTaskID) {
		if err := l.reparent(ctx, s, &task, input.ParentTaskID); err != nil {
			return domain.Task{}, err
		}
	}

	task.UpdatedAt = now
	if err := s.Tasks().Update(ctx, task); err != nil {
		return domain.Task{}, err
	}

	// Subtask counters are cached on the parent row; refresh every parent a
	// status change or move could have touched.
	touched := map[uint64]struct{}{}
	if prevParent != nil && (input.ParentTaskIDSet || task.Status != prevStatus) {
		touched[*prevParent] = struct{}{}
	}
	if task.ParentTaskID != nil && (input.ParentTaskIDSet || task.Status != prevStatus) {
		touched[*task.ParentTaskID] = struct{}{}
	}
	for parentID := range touched {
		if err := l.refreshRollup(ctx, s, parentID); err != nil {
			return domain.Task{}, err
		}
	}
	return task, nil
}

func (l lifecycle) reparent(ctx context.Context, s ports.Store, task *domain.Task, newParent *uint64) error {
	if newParent != nil {
		if *newParent == task.ID {
			return domain.NewValidationError("a task cannot be its own parent")
		}
		if task.IsRecurring() {
			return domain.NewValidationError("a subtask may not declare its own recurrence")
		}
		parent, err := l.getScoped(ctx, s, task.WorkspaceID, *newParent)
		if err != nil {
			return err
		}
		if err := l.walkAncestors(ctx, s, parent, task.ID); err != nil {
			return err
		}
	}

	position, err := s.Tasks().NextChildPosition(ctx, task.WorkspaceID, newParent)
	if err != nil {
		return err
	}
	task.ParentTaskID = newParent
	task.Position = position
	return nil
}

func (l lifecycle) completeRecurring(ctx context.Context, s ports.Store, workspaceID, id uint64) (domain.RecurrenceCompletion, error) {
	task, err := l.getScoped(ctx, s, workspaceID, id)
	if err != nil {
		return domain.RecurrenceCompletion{}, err
	}
	if !task.IsRecurring() {
		return domain.RecurrenceCompletion{}, domain.NewValidationError("task %d has no recurrence rule", id)
	}

	now := l.now()
	from := now
	if task.DueDate != nil {
		from = *task.DueDate
	}

	task.Status = domain.TaskStatusCompleted
	task.CompletedAt = &now
	task.UpdatedAt = now
	if err := s.Tasks().Update(ctx, task); err != nil {
		return domain.RecurrenceCompletion{}, err
	}

	next := task.Recurrence.NextOccurrence(from)
	if next == nil {
		// Series ended: either the rule expired or nothing follows.
		return domain.RecurrenceCompletion{Task: task}, nil
	}

	seriesRoot := task.SeriesRootID()
	position, err := s.Tasks().NextChildPosition(ctx, workspaceID, nil)
	if err != nil {
		return domain.RecurrenceCompletion{}, err
	}

	instance := domain.Task{
		WorkspaceID:      workspaceID,
		Position:         position,
		Title:            task.Title,
		Description:      cloneString(task.Description),
		Status:           domain.TaskStatusTodo,
		Priority:         task.Priority,
		DueDate:          next,
		Recurrence:       task.Recurrence,
		OriginalTaskID:   &seriesRoot,
		SourceTemplateID: task.SourceTemplateID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	instanceID, err := s.Tasks().Insert(ctx, instance)
	if err != nil {
		return domain.RecurrenceCompletion{}, err
	}
	instance.ID = instanceID

	return domain.RecurrenceCompletion{Task: task, NextTask: &instance}, nil
}

func (l lifecycle) reorder(ctx context.Context, s ports.Store, workspaceID, parentID uint64, orderedIDs []uint64) error {
	if _, err := l.getScoped(ctx, s, workspaceID, parentID); err != nil {
		return err
	}
	children, err := s.Tasks().ListChildren(ctx, parentID)
	if err != nil {
		return err
	}
	if len(orderedIDs) != len(children) {
		return domain.NewValidationError("reorder names %d tasks, parent has %d children", len(orderedIDs), len(children))
	}

	byID := make(map[uint64]struct{}, len(children))
	for _, child := range children {
		byID[child.ID] = struct{}{}
	}
	for _, childID := range orderedIDs {
		if _, ok := byID[childID]; !ok {
			return domain.NewValidationError("task %d is not a child of task %d", childID, parentID)
		}
		delete(byID, childID)
	}

	// Two passes keep the sibling position uniqueness constraint satisfied
	// at every intermediate statement.
	for i, childID := range orderedIDs {
		if err := s.Tasks().SetPosition(ctx, childID, -(i + 1)); err != nil {
			return err
		}
	}
	for i, childID := range orderedIDs {
		if err := s.Tasks().SetPosition(ctx, childID, i); err != nil {
			return err
		}
	}
	return l.refreshRollup(ctx, s, parentID)
}

func (l lifecycle) delete(ctx context.Context, s ports.Store, workspaceID, id uint64) error {
	task, err := l.getScoped(ctx, s, workspaceID, id)
	if err != nil {
		return err
	}
	if err := l.deleteTree(ctx, s, task.ID, 0); err != nil {
		return err
	}
	if task.ParentTaskID != nil {
		return l.refreshRollup(ctx, s, *task.ParentTaskID)
	}
	return nil
}

// deleteTree removes a task and the subtask tree it owns, children first.
// References through original_task_id are left alone: the history of a
// recurring series survives deletion of any single instance.
func (l lifecycle) deleteTree(ctx context.Context, s ports.Store, id uint64, depth int) error {
	if depth > maxHierarchyDepth {
		return domain.NewValidationError("task hierarchy deeper than %d levels", maxHierarchyDepth)
	}
	children, err := s.Tasks().ListChildren(ctx, id)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err := l.deleteTree(ctx, s, child.ID, depth+1); err != nil {
			return err
		}
	}
	return s.Tasks().Delete(ctx, id)
}

func (l lifecycle) refreshRollup(ctx context.Context, s ports.Store, parentID uint64) error {
	children, err := s.Tasks().ListChildren(ctx, parentID)
	if err != nil {
		return err
	}
	return s.Tasks().SetRollup(ctx, parentID, domain.Rollup(children))
}

// getScoped loads a task and hides it behind NotFoundError when it belongs
// to another workspace. Cross-tenant ids must be indistinguishable from
// unknown ids.
func (l lifecycle) getScoped(ctx context.Context, s ports.Store, workspaceID, id uint64) (domain.Task, error) {
	task, err := s.Tasks().GetByID(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}
	if task.WorkspaceID != workspaceID {
		return domain.Task{}, &domain.NotFoundError{Resource: "task", ID: id}
	}
	return task, nil
}

// walkAncestors climbs the parent chain from start, failing when forbidden
// shows up among the ancestors (the move would create a cycle) or the chain
// exceeds the depth cap. A forbidden id of 0 only enforces the cap.
func (l lifecycle) walkAncestors(ctx context.Context, s ports.Store, start domain.Task, forbidden uint64) error {
	current := start
	for depth := 0; depth < maxHierarchyDepth; depth++ {
		if forbidden != 0 && current.ID == forbidden {
			return domain.NewValidationError("task %d cannot become a child of its own descendant", forbidden)
		}
		if current.ParentTaskID == nil {
			return nil
		}
		parent, err := s.Tasks().GetByID(ctx, *current.ParentTaskID)
		if err != nil {
			return err
		}
		current = parent
	}
	return domain.NewValidationError("task hierarchy deeper than %d levels", maxHierarchyDepth)
}

func sameParent(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	value := *s
	return &value
}
