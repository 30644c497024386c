package db

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"crewdesk/internal/core/domain"
	"crewdesk/internal/core/ports"
)

const taskColumns = `
  id, workspace_id, parent_task_id, position, title, description, status,
  priority, due_date, recurrence_type, recurrence_interval, recurrence_days,
  recurrence_end_date, original_task_id, source_template_id, subtask_count,
  completed_subtask_count, completed_at, created_at, updated_at`

const getTaskQuery = `SELECT` + taskColumns + ` FROM tasks WHERE id = ?;`

const listChildrenQuery = `
SELECT` + taskColumns + `
FROM tasks
WHERE parent_task_id = ?
ORDER BY position, id;`

// Sibling order is scoped per parent; root tasks order within their
// workspace. <=> is MySQL's null-safe equality.
const nextChildPositionQuery = `
SELECT COALESCE(MAX(position), -1) + 1
FROM tasks
WHERE workspace_id = ? AND parent_task_id <=> ?;`

const insertTaskQuery = `
INSERT INTO tasks (
  workspace_id, parent_task_id, position, title, description, status,
  priority, due_date, recurrence_type, recurrence_interval, recurrence_days,
  recurrence_end_date, original_task_id, source_template_id, subtask_count,
  completed_subtask_count, completed_at, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

const updateTaskQuery = `
UPDATE tasks SET
  parent_task_id = ?, position = ?, title = ?, description = ?, status = ?,
  priority = ?, due_date = ?, recurrence_type = ?, recurrence_interval = ?,
  recurrence_days = ?, recurrence_end_date = ?, completed_at = ?,
  updated_at = ?
WHERE id = ?;`

type TaskRepository struct {
	ext sqlx.ExtContext
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

type taskRow struct {
	ID                    uint64         `db:"id"`
	WorkspaceID           uint64         `db:"workspace_id"`
	ParentTaskID          sql.NullInt64  `db:"parent_task_id"`
	Position              int            `db:"position"`
	Title                 string         `db:"title"`
	Description           sql.NullString `db:"description"`
	Status                string         `db:"status"`
	Priority              string         `db:"priority"`
	DueDate               sql.NullTime   `db:"due_date"`
	RecurrenceType        string         `db:"recurrence_type"`
	RecurrenceInterval    int            `db:"recurrence_interval"`
	RecurrenceDays        sql.NullString `db:"recurrence_days"`
	RecurrenceEndDate     sql.NullTime   `db:"recurrence_end_date"`
	OriginalTaskID        sql.NullInt64  `db:"original_task_id"`
	SourceTemplateID      sql.NullInt64  `db:"source_template_id"`
	SubtaskCount          int            `db:"subtask_count"`
	CompletedSubtaskCount int            `db:"completed_subtask_count"`
	CompletedAt           sql.NullTime   `db:"completed_at"`
	CreatedAt             time.Time      `db:"created_at"`
	UpdatedAt             time.Time      `db:"updated_at"`
}

func (r *TaskRepository) GetByID(ctx context.Context, id uint64) (domain.Task, error) {
	var row taskRow
	if err := sqlx.GetContext(ctx, r.ext, &row, getTaskQuery, id); err != nil {
		return domain.Task{}, translateNotFound(err, "task", id)
	}
	return mapTaskRow(row), nil
}

func (r *TaskRepository) ListByWorkspace(ctx context.Context, workspaceID uint64, filter domain.TaskFilter) ([]domain.Task, error) {
	query := `SELECT` + taskColumns + ` FROM tasks WHERE workspace_id = ? AND parent_task_id IS NULL`
	args := []any{workspaceID}
	if filter.Status != nil {
		query += ` AND status = ?`
		args = append(args, string(*filter.Status))
	}
	if filter.Priority != nil {
		query += ` AND priority = ?`
		args = append(args, string(*filter.Priority))
	}
	query += ` ORDER BY position, id;`

	var rows []taskRow
	if err := sqlx.SelectContext(ctx, r.ext, &rows, query, args...); err != nil {
		return nil, err
	}
	return mapTaskRows(rows), nil
}

func (r *TaskRepository) ListChildren(ctx context.Context, parentID uint64) ([]domain.Task, error) {
	var rows []taskRow
	if err := sqlx.SelectContext(ctx, r.ext, &rows, listChildrenQuery, parentID); err != nil {
		return nil, err
	}
	return mapTaskRows(rows), nil
}

func (r *TaskRepository) NextChildPosition(ctx context.Context, workspaceID uint64, parentID *uint64) (int, error) {
	var position int
	err := sqlx.GetContext(ctx, r.ext, &position, nextChildPositionQuery, workspaceID, nullableID(parentID))
	return position, err
}

func (r *TaskRepository) Insert(ctx context.Context, task domain.Task) (uint64, error) {
	result, err := r.ext.ExecContext(ctx, insertTaskQuery,
		task.WorkspaceID,
		nullableID(task.ParentTaskID),
		task.Position,
		task.Title,
		nullableString(task.Description),
		string(task.Status),
		string(task.Priority),
		nullableTime(task.DueDate),
		string(task.Recurrence.Type),
		recurrenceInterval(task.Recurrence),
		encodeDays(task.Recurrence.Days),
		nullableTime(task.Recurrence.EndDate),
		nullableID(task.OriginalTaskID),
		nullableID(task.SourceTemplateID),
		task.SubtaskCount,
		task.CompletedCount,
		nullableTime(task.CompletedAt),
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return 0, translateConflict(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func (r *TaskRepository) Update(ctx context.Context, task domain.Task) error {
	_, err := r.ext.ExecContext(ctx, updateTaskQuery,
		nullableID(task.ParentTaskID),
		task.Position,
		task.Title,
		nullableString(task.Description),
		string(task.Status),
		string(task.Priority),
		nullableTime(task.DueDate),
		string(task.Recurrence.Type),
		recurrenceInterval(task.Recurrence),
		encodeDays(task.Recurrence.Days),
		nullableTime(task.Recurrence.EndDate),
		nullableTime(task.CompletedAt),
		task.UpdatedAt,
		task.ID,
	)
	return translateConflict(err)
}

func (r *TaskRepository) SetPosition(ctx context.Context, id uint64, position int) error {
	_, err := r.ext.ExecContext(ctx, `UPDATE tasks SET position = ? WHERE id = ?;`, position, id)
	return translateConflict(err)
}

func (r *TaskRepository) SetRollup(ctx context.Context, id uint64, counts domain.RollupCounts) error {
	_, err := r.ext.ExecContext(ctx,
		`UPDATE tasks SET subtask_count = ?, completed_subtask_count = ? WHERE id = ?;`,
		counts.Count, counts.CompletedCount, id)
	return err
}

func (r *TaskRepository) Delete(ctx context.Context, id uint64) error {
	_, err := r.ext.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?;`, id)
	return err
}

func mapTaskRows(rows []taskRow) []domain.Task {
	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, mapTaskRow(row))
	}
	return tasks
}

func mapTaskRow(row taskRow) domain.Task {
	task := domain.Task{
		ID:          row.ID,
		WorkspaceID: row.WorkspaceID,
		Position:    row.Position,
		Title:       row.Title,
		Status:      domain.TaskStatus(row.Status),
		Priority:    domain.TaskPriority(row.Priority),
		Recurrence: domain.RecurrenceRule{
			Type:     domain.RecurrenceType(row.RecurrenceType),
			Interval: row.RecurrenceInterval,
			Days:     decodeDays(row.RecurrenceDays),
		},
		SubtaskCount:   row.SubtaskCount,
		CompletedCount: row.CompletedSubtaskCount,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}

	if row.ParentTaskID.Valid {
		value := uint64(row.ParentTaskID.Int64)
		task.ParentTaskID = &value
	}
	if row.Description.Valid {
		value := row.Description.String
		task.Description = &value
	}
	if row.DueDate.Valid {
		value := row.DueDate.Time
		task.DueDate = &value
	}
	if row.RecurrenceEndDate.Valid {
		value := row.RecurrenceEndDate.Time
		task.Recurrence.EndDate = &value
	}
	if row.OriginalTaskID.Valid {
		value := uint64(row.OriginalTaskID.Int64)
		task.OriginalTaskID = &value
	}
	if row.SourceTemplateID.Valid {
		value := uint64(row.SourceTemplateID.Int64)
		task.SourceTemplateID = &value
	}
	if row.CompletedAt.Valid {
		value := row.CompletedAt.Time
		task.CompletedAt = &value
	}
	return task
}

// encodeDays stores weekday indices as a comma-separated string, NULL when
// the rule has none.
func encodeDays(days []int) sql.NullString {
	if len(days) == 0 {
		return sql.NullString{}
	}
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(d))
	}
	return sql.NullString{String: strings.Join(parts, ","), Valid: true}
}

func decodeDays(value sql.NullString) []int {
	if !value.Valid || value.String == "" {
		return nil
	}
	parts := strings.Split(value.String, ",")
	days := make([]int, 0, len(parts))
	for _, part := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	return days
}

func recurrenceInterval(rule domain.RecurrenceRule) int {
	if rule.Type == domain.RecurrenceNone || rule.Type == "" {
		return 0
	}
	return rule.Interval
}

func nullableID(id *uint64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*id), Valid: true}
}

func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
