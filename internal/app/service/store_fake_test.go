package service_test

import (
	"context"
	"sort"
	"time"

	"crewdesk/internal/core/domain"
	"crewdesk/internal/core/ports"
)

// fakeStore is an in-memory ports.Store. WithinTx snapshots state before
// running the callback and restores it on error, mirroring the rollback
// behavior the services rely on for all-or-nothing operations.
type fakeStore struct {
	tasks          map[uint64]domain.Task
	templates      map[uint64]domain.TaskTemplate
	workspaces     map[uint64]bool
	nextTaskID     uint64
	nextTemplateID uint64
}

func newFakeStore(workspaceIDs ...uint64) *fakeStore {
	s := &fakeStore{
		tasks:          map[uint64]domain.Task{},
		templates:      map[uint64]domain.TaskTemplate{},
		workspaces:     map[uint64]bool{},
		nextTaskID:     1,
		nextTemplateID: 1,
	}
	for _, id := range workspaceIDs {
		s.workspaces[id] = true
	}
	return s
}

func (s *fakeStore) Tasks() ports.TaskRepository           { return &fakeTaskRepo{s} }
func (s *fakeStore) Templates() ports.TemplateRepository   { return &fakeTemplateRepo{s} }
func (s *fakeStore) Workspaces() ports.WorkspaceRepository { return &fakeWorkspaceRepo{s} }

func (s *fakeStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ports.Store) error) error {
	backupTasks := make(map[uint64]domain.Task, len(s.tasks))
	for id, task := range s.tasks {
		backupTasks[id] = task
	}
	backupTemplates := make(map[uint64]domain.TaskTemplate, len(s.templates))
	for id, template := range s.templates {
		backupTemplates[id] = template
	}
	backupNextTask, backupNextTemplate := s.nextTaskID, s.nextTemplateID

	if err := fn(ctx, s); err != nil {
		s.tasks = backupTasks
		s.templates = backupTemplates
		s.nextTaskID, s.nextTemplateID = backupNextTask, backupNextTemplate
		return err
	}
	return nil
}

var _ ports.Store = (*fakeStore)(nil)

type fakeTaskRepo struct {
	s *fakeStore
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id uint64) (domain.Task, error) {
	task, ok := r.s.tasks[id]
	if !ok {
		return domain.Task{}, &domain.NotFoundError{Resource: "task", ID: id}
	}
	return task, nil
}

func (r *fakeTaskRepo) ListByWorkspace(_ context.Context, workspaceID uint64, filter domain.TaskFilter) ([]domain.Task, error) {
	var tasks []domain.Task
	for _, task := range r.s.tasks {
		if task.WorkspaceID != workspaceID || task.ParentTaskID != nil {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && task.Priority != *filter.Priority {
			continue
		}
		tasks = append(tasks, task)
	}
	sortTasks(tasks)
	return tasks, nil
}

func (r *fakeTaskRepo) ListChildren(_ context.Context, parentID uint64) ([]domain.Task, error) {
	var children []domain.Task
	for _, task := range r.s.tasks {
		if task.ParentTaskID != nil && *task.ParentTaskID == parentID {
			children = append(children, task)
		}
	}
	sortTasks(children)
	return children, nil
}

func (r *fakeTaskRepo) NextChildPosition(_ context.Context, workspaceID uint64, parentID *uint64) (int, error) {
	next := 0
	for _, task := range r.s.tasks {
		if task.WorkspaceID != workspaceID {
			continue
		}
		if parentID == nil && task.ParentTaskID != nil {
			continue
		}
		if parentID != nil && (task.ParentTaskID == nil || *task.ParentTaskID != *parentID) {
			continue
		}
		if task.Position+1 > next {
			next = task.Position + 1
		}
	}
	return next, nil
}

func (r *fakeTaskRepo) Insert(_ context.Context, task domain.Task) (uint64, error) {
	id := r.s.nextTaskID
	r.s.nextTaskID++
	task.ID = id
	r.s.tasks[id] = task
	return id, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task domain.Task) error {
	r.s.tasks[task.ID] = task
	return nil
}

func (r *fakeTaskRepo) SetPosition(_ context.Context, id uint64, position int) error {
	task := r.s.tasks[id]
	task.Position = position
	r.s.tasks[id] = task
	return nil
}

func (r *fakeTaskRepo) SetRollup(_ context.Context, id uint64, counts domain.RollupCounts) error {
	task := r.s.tasks[id]
	task.SubtaskCount = counts.Count
	task.CompletedCount = counts.CompletedCount
	r.s.tasks[id] = task
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id uint64) error {
	delete(r.s.tasks, id)
	return nil
}

type fakeTemplateRepo struct {
	s *fakeStore
}

func (r *fakeTemplateRepo) GetByID(_ context.Context, id uint64) (domain.TaskTemplate, error) {
	template, ok := r.s.templates[id]
	if !ok {
		return domain.TaskTemplate{}, &domain.NotFoundError{Resource: "template", ID: id}
	}
	return template, nil
}

func (r *fakeTemplateRepo) ListVisible(_ context.Context, workspaceID uint64) ([]domain.TaskTemplate, error) {
	var templates []domain.TaskTemplate
	for _, template := range r.s.templates {
		if template.VisibleTo(workspaceID) {
			templates = append(templates, template)
		}
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].ID < templates[j].ID })
	return templates, nil
}

func (r *fakeTemplateRepo) Insert(_ context.Context, template domain.TaskTemplate) (uint64, error) {
	id := r.s.nextTemplateID
	r.s.nextTemplateID++
	template.ID = id
	r.s.templates[id] = template
	return id, nil
}

func (r *fakeTemplateRepo) MarkUsed(_ context.Context, id uint64, usedAt time.Time) error {
	template, ok := r.s.templates[id]
	if !ok {
		return &domain.NotFoundError{Resource: "template", ID: id}
	}
	template.UseCount++
	template.LastUsedAt = &usedAt
	r.s.templates[id] = template
	return nil
}

type fakeWorkspaceRepo struct {
	s *fakeStore
}

func (r *fakeWorkspaceRepo) Exists(_ context.Context, id uint64) (bool, error) {
	return r.s.workspaces[id], nil
}

func sortTasks(tasks []domain.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].Position != tasks[j].Position {
			return tasks[i].Position < tasks[j].Position
		}
		return tasks[i].ID < tasks[j].ID
	})
}
