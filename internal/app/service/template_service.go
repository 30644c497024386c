package service

import (
	"context"
	"strings"

	"crewdesk/internal/core/domain"
	"crewdesk/internal/core/ports"
)

// TemplateService manages task templates and expands them into concrete
// task graphs. Applying a template and its use-count bookkeeping commit as
// one unit.
type TemplateService struct {
	store ports.Store
	rules lifecycle
}

func NewTemplateService(store ports.Store, opts ...Option) *TemplateService {
	o := buildOptions(opts)
	return &TemplateService{store: store, rules: lifecycle{now: o.now}}
}

var _ ports.TemplateService = (*TemplateService)(nil)

func (s *TemplateService) CreateTemplate(ctx context.Context, input domain.CreateTemplateInput) (domain.TaskTemplate, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.TitleTemplate = strings.TrimSpace(input.TitleTemplate)
	input.Category = strings.TrimSpace(input.Category)
	if input.Name == "" {
		return domain.TaskTemplate{}, domain.NewValidationError("template name must not be empty")
	}
	if input.TitleTemplate == "" {
		return domain.TaskTemplate{}, domain.NewValidationError("title template must not be empty")
	}
	if input.DefaultPriority == "" {
		input.DefaultPriority = domain.TaskPriorityMedium
	}
	if !input.DefaultPriority.Valid() {
		return domain.TaskTemplate{}, domain.NewValidationError("unknown priority %q", input.DefaultPriority)
	}
	input.DefaultRecurrence = normalizeRule(input.DefaultRecurrence)
	if err := input.DefaultRecurrence.Validate(); err != nil {
		return domain.TaskTemplate{}, err
	}
	for i, subtask := range input.Subtasks {
		if strings.TrimSpace(subtask.Title) == "" {
			return domain.TaskTemplate{}, domain.NewValidationError("subtask template %d has an empty title", i)
		}
		if subtask.Priority != nil && !subtask.Priority.Valid() {
			return domain.TaskTemplate{}, domain.NewValidationError("unknown priority %q", *subtask.Priority)
		}
	}

	var created domain.TaskTemplate
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		exists, err := tx.Workspaces().Exists(ctx, input.WorkspaceID)
		if err != nil {
			return err
		}
		if !exists {
			return &domain.NotFoundError{Resource: "workspace", ID: input.WorkspaceID}
		}

		now := s.rules.now()
		created = domain.TaskTemplate{
			Name:                 input.Name,
			Category:             input.Category,
			TitleTemplate:        input.TitleTemplate,
			DescriptionTemplate:  input.DescriptionTemplate,
			DefaultPriority:      input.DefaultPriority,
			DefaultDueOffsetDays: input.DefaultDueOffsetDays,
			DefaultRecurrence:    input.DefaultRecurrence,
			Subtasks:             input.Subtasks,
			IsGlobal:             input.IsGlobal,
			IsActive:             true,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if !input.IsGlobal {
			workspaceID := input.WorkspaceID
			created.WorkspaceID = &workspaceID
		}

		id, err := tx.Templates().Insert(ctx, created)
		if err != nil {
			return err
		}
		created.ID = id
		return nil
	})
	return created, err
}

func (s *TemplateService) ListTemplates(ctx context.Context, workspaceID uint64) ([]domain.TaskTemplate, error) {
	exists, err := s.store.Workspaces().Exists(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &domain.NotFoundError{Resource: "workspace", ID: workspaceID}
	}
	return s.store.Templates().ListVisible(ctx, workspaceID)
}

// ApplyTemplate expands a template into a root task plus its subtask set,
// substituting {variable} tokens and preserving blueprint order as sibling
// positions. Templates invisible to the workspace (inactive, or bound to
// another tenant) surface as not found.
func (s *TemplateService) ApplyTemplate(ctx context.Context, input domain.ApplyTemplateInput) (domain.Task, error) {
	var root domain.Task
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Store) error {
		template, err := tx.Templates().GetByID(ctx, input.TemplateID)
		if err != nil {
			return err
		}
		if !template.VisibleTo(input.WorkspaceID) {
			return &domain.NotFoundError{Resource: "template", ID: input.TemplateID}
		}

		now := s.rules.now()
		dueDate := input.DueDate
		if dueDate == nil && template.DefaultDueOffsetDays != nil {
			due := now.AddDate(0, 0, *template.DefaultDueOffsetDays)
			dueDate = &due
		}

		title := strings.TrimSpace(domain.RenderTemplate(template.TitleTemplate, input.Variables))
		var description *string
		if template.DescriptionTemplate != nil {
			rendered := domain.RenderTemplate(*template.DescriptionTemplate, input.Variables)
			description = &rendered
		}

		templateID := template.ID
		root, err = s.rules.create(ctx, tx, domain.CreateTaskInput{
			WorkspaceID:      input.WorkspaceID,
			Title:            title,
			Description:      description,
			Priority:         template.DefaultPriority,
			DueDate:          dueDate,
			Recurrence:       template.DefaultRecurrence,
			SourceTemplateID: &templateID,
		})
		if err != nil {
			return err
		}

		for _, subtask := range template.Subtasks {
			priority := template.DefaultPriority
			if subtask.Priority != nil {
				priority = *subtask.Priority
			}
			var subtaskDescription *string
			if subtask.Description != nil {
				rendered := domain.RenderTemplate(*subtask.Description, input.Variables)
				subtaskDescription = &rendered
			}
			parentID := root.ID
			if _, err := s.rules.create(ctx, tx, domain.CreateTaskInput{
				WorkspaceID:      input.WorkspaceID,
				Title:            strings.TrimSpace(domain.RenderTemplate(subtask.Title, input.Variables)),
				Description:      subtaskDescription,
				Priority:         priority,
				ParentTaskID:     &parentID,
				SourceTemplateID: &templateID,
			}); err != nil {
				return err
			}
		}

		if err := tx.Templates().MarkUsed(ctx, template.ID, now); err != nil {
			return err
		}

		// Re-read the root so the returned task carries the subtask
		// counters cached by the child creations.
		root, err = tx.Tasks().GetByID(ctx, root.ID)
		return err
	})
	return root, err
}
