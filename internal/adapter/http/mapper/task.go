package mapper

import (
	"time"

	"crewdesk/internal/adapter/http/dto"
	"crewdesk/internal/core/domain"
)

const dateLayout = "2006-01-02"

func ToTaskItems(tasks []domain.Task) []dto.TaskItem {
	items := make([]dto.TaskItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, ToTaskItem(task))
	}
	return items
}

func ToTaskItem(task domain.Task) dto.TaskItem {
	item := dto.TaskItem{
		ID:               task.ID,
		WorkspaceID:      task.WorkspaceID,
		ParentTaskID:     task.ParentTaskID,
		Position:         task.Position,
		Title:            task.Title,
		Status:           string(task.Status),
		Priority:         string(task.Priority),
		OriginalTaskID:   task.OriginalTaskID,
		SourceTemplateID: task.SourceTemplateID,
		SubtaskCount:     task.SubtaskCount,
		CompletedCount:   task.CompletedCount,
		CreatedAt:        task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        task.UpdatedAt.Format(time.RFC3339),
	}

	if task.Description != nil {
		value := *task.Description
		item.Description = &value
	}

	if task.DueDate != nil {
		value := task.DueDate.Format(dateLayout)
		item.DueDate = &value
	}

	if task.CompletedAt != nil {
		value := task.CompletedAt.Format(dateLayout)
		item.CompletedAt = &value
	}

	item.Recurrence = toRecurrence(task.Recurrence)

	return item
}

func ToCompleteRecurringResponse(completion domain.RecurrenceCompletion) dto.CompleteRecurringResponse {
	response := dto.CompleteRecurringResponse{Task: ToTaskItem(completion.Task)}
	if completion.NextTask != nil {
		next := ToTaskItem(*completion.NextTask)
		response.NextTask = &next
	}
	return response
}

// toRecurrence omits the block entirely for non-recurring tasks.
func toRecurrence(rule domain.RecurrenceRule) *dto.Recurrence {
	if rule.Type == "" || rule.Type == domain.RecurrenceNone {
		return nil
	}
	recurrence := &dto.Recurrence{
		Type:     string(rule.Type),
		Interval: rule.Interval,
		Days:     rule.Days,
	}
	if rule.EndDate != nil {
		value := rule.EndDate.Format(dateLayout)
		recurrence.EndDate = &value
	}
	return recurrence
}
