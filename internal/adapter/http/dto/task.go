package dto

type TaskItem struct {
	ID               uint64      `json:"id"`
	WorkspaceID      uint64      `json:"workspace_id"`
	ParentTaskID     *uint64     `json:"parent_task_id,omitempty"`
	Position         int         `json:"position"`
	Title            string      `json:"title"`
	Description      *string     `json:"description,omitempty"`
	Status           string      `json:"status"`
	Priority         string      `json:"priority"`
	DueDate          *string     `json:"due_date,omitempty"`
	Recurrence       *Recurrence `json:"recurrence,omitempty"`
	OriginalTaskID   *uint64     `json:"original_task_id,omitempty"`
	SourceTemplateID *uint64     `json:"source_template_id,omitempty"`
	SubtaskCount     int         `json:"subtask_count"`
	CompletedCount   int         `json:"completed_subtask_count"`
	CompletedAt      *string     `json:"completed_at,omitempty"`
	CreatedAt        string      `json:"created_at"`
	UpdatedAt        string      `json:"updated_at"`
}

type Recurrence struct {
	Type     string  `json:"type" binding:"required,oneof=none daily weekly monthly"`
	Interval int     `json:"interval" binding:"omitempty,gte=1"`
	Days     []int   `json:"days" binding:"omitempty,max=7,dive,gte=0,lte=6"`
	EndDate  *string `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

type CreateTaskRequest struct {
	Title        string      `json:"title" binding:"required,max=255"`
	Description  *string     `json:"description" binding:"omitempty,max=65535"`
	Priority     *string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate      *string     `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	ParentTaskID *uint64     `json:"parent_task_id" binding:"omitempty,gt=0"`
	Recurrence   *Recurrence `json:"recurrence"`
}

type UpdateTaskRequest struct {
	Title        *string `json:"title" binding:"omitempty,max=255"`
	Description  *string `json:"description" binding:"omitempty,max=65535"`
	Status       *string `json:"status" binding:"omitempty,oneof=todo in_progress completed"`
	Priority     *string `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate      *string `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	ParentTaskID *uint64 `json:"parent_task_id" binding:"omitempty,gt=0"`
}

type ReorderSubtasksRequest struct {
	OrderedIDs []uint64 `json:"ordered_ids" binding:"required"`
}

type CompleteRecurringResponse struct {
	Task     TaskItem  `json:"task"`
	NextTask *TaskItem `json:"next_task"`
}
