package validation

import (
	"strings"
	"time"

	"crewdesk/internal/adapter/http/dto"
	"crewdesk/internal/core/domain"
)

func BuildCreateTemplateInput(workspaceID uint64, req dto.CreateTemplateRequest) (domain.CreateTemplateInput, error) {
	name := strings.TrimSpace(req.Name)
	titleTemplate := strings.TrimSpace(req.TitleTemplate)
	if name == "" || titleTemplate == "" {
		return domain.CreateTemplateInput{}, ErrInvalidTaskPayload
	}

	priority := domain.TaskPriority("")
	if req.DefaultPriority != nil {
		priority = domain.TaskPriority(*req.DefaultPriority)
	}

	recurrence, err := BuildRecurrenceRule(req.Recurrence)
	if err != nil {
		return domain.CreateTemplateInput{}, ErrInvalidTaskPayload
	}

	subtasks := make([]domain.SubtaskTemplate, 0, len(req.Subtasks))
	for _, subtask := range req.Subtasks {
		entry := domain.SubtaskTemplate{
			Title:       strings.TrimSpace(subtask.Title),
			Description: subtask.Description,
		}
		if entry.Title == "" {
			return domain.CreateTemplateInput{}, ErrInvalidTaskPayload
		}
		if subtask.Priority != nil {
			value := domain.TaskPriority(*subtask.Priority)
			entry.Priority = &value
		}
		subtasks = append(subtasks, entry)
	}

	return domain.CreateTemplateInput{
		WorkspaceID:          workspaceID,
		Name:                 name,
		Category:             req.Category,
		TitleTemplate:        titleTemplate,
		DescriptionTemplate:  req.DescriptionTemplate,
		DefaultPriority:      priority,
		DefaultDueOffsetDays: req.DefaultDueOffsetDays,
		DefaultRecurrence:    recurrence,
		Subtasks:             subtasks,
		IsGlobal:             req.IsGlobal,
	}, nil
}

func BuildApplyTemplateInput(templateID, workspaceID uint64, req dto.ApplyTemplateRequest) (domain.ApplyTemplateInput, error) {
	var dueDate *time.Time
	if req.DueDate != nil {
		parsed, err := time.Parse(dateLayout, *req.DueDate)
		if err != nil {
			return domain.ApplyTemplateInput{}, ErrInvalidTaskPayload
		}
		dueDate = &parsed
	}
	return domain.ApplyTemplateInput{
		TemplateID:  templateID,
		WorkspaceID: workspaceID,
		Variables:   req.Variables,
		DueDate:     dueDate,
	}, nil
}
