package domain

import (
	"regexp"
	"time"
)

// SubtaskTemplate is one entry of a template's ordered subtask blueprint.
// A missing priority falls back to the template's default.
type SubtaskTemplate struct {
	Title       string        `json:"title"`
	Description *string       `json:"description,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty"`
}

// TaskTemplate is a reusable blueprint for a task and its subtasks.
// Category is a free-form tag compared case-insensitively by callers; the
// engine stores it without validating against any closed set.
type TaskTemplate struct {
	ID                   uint64
	WorkspaceID          *uint64
	Name                 string
	Category             string
	TitleTemplate        string
	DescriptionTemplate  *string
	DefaultPriority      TaskPriority
	DefaultDueOffsetDays *int
	DefaultRecurrence    RecurrenceRule
	Subtasks             []SubtaskTemplate
	IsGlobal             bool
	IsActive             bool
	UseCount             int
	LastUsedAt           *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// VisibleTo reports whether a workspace may instantiate the template:
// global templates are visible everywhere, others only to their own
// workspace. Inactive templates are invisible to every caller.
func (t TaskTemplate) VisibleTo(workspaceID uint64) bool {
	if !t.IsActive {
		return false
	}
	if t.IsGlobal {
		return true
	}
	return t.WorkspaceID != nil && *t.WorkspaceID == workspaceID
}

var templateToken = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// RenderTemplate substitutes {key} tokens from vars. Unresolved tokens stay
// verbatim: templates are advisory text, not a strict formatting language.
func RenderTemplate(s string, vars map[string]string) string {
	return templateToken.ReplaceAllStringFunc(s, func(token string) string {
		key := token[1 : len(token)-1]
		if value, ok := vars[key]; ok {
			return value
		}
		return token
	})
}

type CreateTemplateInput struct {
	WorkspaceID          uint64
	Name                 string
	Category             string
	TitleTemplate        string
	DescriptionTemplate  *string
	DefaultPriority      TaskPriority
	DefaultDueOffsetDays *int
	DefaultRecurrence    RecurrenceRule
	Subtasks             []SubtaskTemplate
	IsGlobal             bool
}

type ApplyTemplateInput struct {
	TemplateID  uint64
	WorkspaceID uint64
	Variables   map[string]string
	DueDate     *time.Time
}
