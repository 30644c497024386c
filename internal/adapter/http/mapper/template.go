package mapper

import (
	"time"

	"crewdesk/internal/adapter/http/dto"
	"crewdesk/internal/core/domain"
)

func ToTemplateItems(templates []domain.TaskTemplate) []dto.TemplateItem {
	items := make([]dto.TemplateItem, 0, len(templates))
	for _, template := range templates {
		items = append(items, ToTemplateItem(template))
	}
	return items
}

func ToTemplateItem(template domain.TaskTemplate) dto.TemplateItem {
	item := dto.TemplateItem{
		ID:                   template.ID,
		WorkspaceID:          template.WorkspaceID,
		Name:                 template.Name,
		Category:             template.Category,
		TitleTemplate:        template.TitleTemplate,
		DefaultPriority:      string(template.DefaultPriority),
		DefaultDueOffsetDays: template.DefaultDueOffsetDays,
		Recurrence:           toRecurrence(template.DefaultRecurrence),
		Subtasks:             make([]dto.SubtaskTemplate, 0, len(template.Subtasks)),
		IsGlobal:             template.IsGlobal,
		IsActive:             template.IsActive,
		UseCount:             template.UseCount,
		CreatedAt:            template.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            template.UpdatedAt.Format(time.RFC3339),
	}

	if template.DescriptionTemplate != nil {
		value := *template.DescriptionTemplate
		item.DescriptionTemplate = &value
	}

	if template.LastUsedAt != nil {
		value := template.LastUsedAt.Format(time.RFC3339)
		item.LastUsedAt = &value
	}

	for _, subtask := range template.Subtasks {
		entry := dto.SubtaskTemplate{Title: subtask.Title, Description: subtask.Description}
		if subtask.Priority != nil {
			value := string(*subtask.Priority)
			entry.Priority = &value
		}
		item.Subtasks = append(item.Subtasks, entry)
	}

	return item
}
