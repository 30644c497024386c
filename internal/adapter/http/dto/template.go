package dto

type TemplateItem struct {
	ID                   uint64            `json:"id"`
	WorkspaceID          *uint64           `json:"workspace_id,omitempty"`
	Name                 string            `json:"name"`
	Category             string            `json:"category,omitempty"`
	TitleTemplate        string            `json:"title_template"`
	DescriptionTemplate  *string           `json:"description_template,omitempty"`
	DefaultPriority      string            `json:"default_priority"`
	DefaultDueOffsetDays *int              `json:"default_due_offset_days,omitempty"`
	Recurrence           *Recurrence       `json:"recurrence,omitempty"`
	Subtasks             []SubtaskTemplate `json:"subtask_templates"`
	IsGlobal             bool              `json:"is_global"`
	IsActive             bool              `json:"is_active"`
	UseCount             int               `json:"use_count"`
	LastUsedAt           *string           `json:"last_used_at,omitempty"`
	CreatedAt            string            `json:"created_at"`
	UpdatedAt            string            `json:"updated_at"`
}

type SubtaskTemplate struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description *string `json:"description" binding:"omitempty,max=65535"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=low medium high"`
}

type CreateTemplateRequest struct {
	Name                 string            `json:"name" binding:"required,max=255"`
	Category             string            `json:"category" binding:"omitempty,max=100"`
	TitleTemplate        string            `json:"title_template" binding:"required,max=255"`
	DescriptionTemplate  *string           `json:"description_template" binding:"omitempty,max=65535"`
	DefaultPriority      *string           `json:"default_priority" binding:"omitempty,oneof=low medium high"`
	DefaultDueOffsetDays *int              `json:"default_due_offset_days" binding:"omitempty,gte=0"`
	Recurrence           *Recurrence       `json:"recurrence"`
	Subtasks             []SubtaskTemplate `json:"subtask_templates" binding:"omitempty,dive"`
	IsGlobal             bool              `json:"is_global"`
}

type ApplyTemplateRequest struct {
	Variables map[string]string `json:"variables"`
	DueDate   *string           `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
}
