package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"crewdesk/internal/adapter/http/dto"
	"crewdesk/internal/core/domain"
)

var ErrInvalidTaskPayload = errors.New("invalid task payload")

const dateLayout = "2006-01-02"

// BuildCreateTaskInput turns a bound create request into the domain input.
// The raw field map distinguishes absent fields from fields sent with
// invalid values that binding nilled out.
func BuildCreateTaskInput(workspaceID uint64, req dto.CreateTaskRequest, raw map[string]json.RawMessage) (domain.CreateTaskInput, error) {
	if hasJSONField(raw, "priority") && req.Priority == nil {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}

	priority := domain.TaskPriority("")
	if req.Priority != nil {
		priority = domain.TaskPriority(*req.Priority)
	}

	dueDate, err := parseOptionalDate(req.DueDate)
	if err != nil {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}

	recurrence, err := BuildRecurrenceRule(req.Recurrence)
	if err != nil {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}

	return domain.CreateTaskInput{
		WorkspaceID:  workspaceID,
		Title:        title,
		Description:  req.Description,
		Priority:     priority,
		DueDate:      dueDate,
		ParentTaskID: req.ParentTaskID,
		Recurrence:   recurrence,
	}, nil
}

func BuildUpdateTaskInput(req dto.UpdateTaskRequest, raw map[string]json.RawMessage) (domain.UpdateTaskInput, error) {
	if !hasTaskUpdateFields(raw) {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}

	var title *string
	if hasJSONField(raw, "title") && req.Title == nil {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}
	if req.Title != nil {
		value := strings.TrimSpace(*req.Title)
		if value == "" {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		title = &value
	}

	var status *domain.TaskStatus
	if hasJSONField(raw, "status") && req.Status == nil {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}
	if req.Status != nil {
		value := domain.TaskStatus(*req.Status)
		status = &value
	}

	var priority *domain.TaskPriority
	if hasJSONField(raw, "priority") && req.Priority == nil {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}
	if req.Priority != nil {
		value := domain.TaskPriority(*req.Priority)
		priority = &value
	}

	descriptionSet := hasJSONField(raw, "description")
	if descriptionSet && !isJSONNull(raw["description"]) && req.Description == nil {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}

	var dueDate *time.Time
	dueDateSet := hasJSONField(raw, "due_date")
	if dueDateSet && !isJSONNull(raw["due_date"]) {
		if req.DueDate == nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		parsedDueDate, err := time.Parse(dateLayout, *req.DueDate)
		if err != nil {
			return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
		}
		dueDate = &parsedDueDate
	}

	parentTaskIDSet := hasJSONField(raw, "parent_task_id")
	if parentTaskIDSet && !isJSONNull(raw["parent_task_id"]) && req.ParentTaskID == nil {
		return domain.UpdateTaskInput{}, ErrInvalidTaskPayload
	}

	return domain.UpdateTaskInput{
		Title:           title,
		Description:     req.Description,
		DescriptionSet:  descriptionSet,
		Status:          status,
		Priority:        priority,
		DueDate:         dueDate,
		DueDateSet:      dueDateSet,
		ParentTaskID:    req.ParentTaskID,
		ParentTaskIDSet: parentTaskIDSet,
	}, nil
}

// BuildRecurrenceRule maps the wire recurrence block onto the domain value
// object. A nil block means no recurrence.
func BuildRecurrenceRule(r *dto.Recurrence) (domain.RecurrenceRule, error) {
	if r == nil {
		return domain.RecurrenceRule{Type: domain.RecurrenceNone}, nil
	}
	endDate, err := parseOptionalDate(r.EndDate)
	if err != nil {
		return domain.RecurrenceRule{}, ErrInvalidTaskPayload
	}
	interval := r.Interval
	if interval == 0 && r.Type != string(domain.RecurrenceNone) {
		interval = 1
	}
	return domain.RecurrenceRule{
		Type:     domain.RecurrenceType(r.Type),
		Interval: interval,
		Days:     r.Days,
		EndDate:  endDate,
	}, nil
}

func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, *value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func hasTaskUpdateFields(raw map[string]json.RawMessage) bool {
	return hasJSONField(raw, "title") ||
		hasJSONField(raw, "description") ||
		hasJSONField(raw, "status") ||
		hasJSONField(raw, "priority") ||
		hasJSONField(raw, "due_date") ||
		hasJSONField(raw, "parent_task_id")
}

func hasJSONField(raw map[string]json.RawMessage, field string) bool {
	_, ok := raw[field]
	return ok
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
