package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"

	"crewdesk/internal/core/domain"
	"crewdesk/internal/core/ports"
)

const templateColumns = `
  id, workspace_id, name, category, title_template, description_template,
  default_priority, default_due_offset_days, recurrence_type,
  recurrence_interval, recurrence_days, recurrence_end_date,
  subtask_templates, is_global, is_active, use_count, last_used_at,
  created_at, updated_at`

const getTemplateQuery = `SELECT` + templateColumns + ` FROM task_templates WHERE id = ?;`

// Visible templates: the workspace's own plus active globals. Inactive
// templates are filtered on read so they are invisible to every caller.
const listVisibleTemplatesQuery = `
SELECT` + templateColumns + `
FROM task_templates
WHERE is_active = TRUE AND (is_global = TRUE OR workspace_id = ?)
ORDER BY name, id;`

const insertTemplateQuery = `
INSERT INTO task_templates (
  workspace_id, name, category, title_template, description_template,
  default_priority, default_due_offset_days, recurrence_type,
  recurrence_interval, recurrence_days, recurrence_end_date,
  subtask_templates, is_global, is_active, use_count, last_used_at,
  created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

const markTemplateUsedQuery = `
UPDATE task_templates
SET use_count = use_count + 1, last_used_at = ?, updated_at = ?
WHERE id = ?;`

type TemplateRepository struct {
	ext sqlx.ExtContext
}

var _ ports.TemplateRepository = (*TemplateRepository)(nil)

type templateRow struct {
	ID                  uint64         `db:"id"`
	WorkspaceID         sql.NullInt64  `db:"workspace_id"`
	Name                string         `db:"name"`
	Category            string         `db:"category"`
	TitleTemplate       string         `db:"title_template"`
	DescriptionTemplate sql.NullString `db:"description_template"`
	DefaultPriority     string         `db:"default_priority"`
	DefaultDueOffset    sql.NullInt64  `db:"default_due_offset_days"`
	RecurrenceType      string         `db:"recurrence_type"`
	RecurrenceInterval  int            `db:"recurrence_interval"`
	RecurrenceDays      sql.NullString `db:"recurrence_days"`
	RecurrenceEndDate   sql.NullTime   `db:"recurrence_end_date"`
	SubtaskTemplates    []byte         `db:"subtask_templates"`
	IsGlobal            bool           `db:"is_global"`
	IsActive            bool           `db:"is_active"`
	UseCount            int            `db:"use_count"`
	LastUsedAt          sql.NullTime   `db:"last_used_at"`
	CreatedAt           time.Time      `db:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

func (r *TemplateRepository) GetByID(ctx context.Context, id uint64) (domain.TaskTemplate, error) {
	var row templateRow
	if err := sqlx.GetContext(ctx, r.ext, &row, getTemplateQuery, id); err != nil {
		return domain.TaskTemplate{}, translateNotFound(err, "template", id)
	}
	return mapTemplateRow(row)
}

func (r *TemplateRepository) ListVisible(ctx context.Context, workspaceID uint64) ([]domain.TaskTemplate, error) {
	var rows []templateRow
	if err := sqlx.SelectContext(ctx, r.ext, &rows, listVisibleTemplatesQuery, workspaceID); err != nil {
		return nil, err
	}
	templates := make([]domain.TaskTemplate, 0, len(rows))
	for _, row := range rows {
		template, err := mapTemplateRow(row)
		if err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}
	return templates, nil
}

func (r *TemplateRepository) Insert(ctx context.Context, template domain.TaskTemplate) (uint64, error) {
	subtasks, err := json.Marshal(template.Subtasks)
	if err != nil {
		return 0, err
	}

	result, err := r.ext.ExecContext(ctx, insertTemplateQuery,
		nullableID(template.WorkspaceID),
		template.Name,
		template.Category,
		template.TitleTemplate,
		nullableString(template.DescriptionTemplate),
		string(template.DefaultPriority),
		nullableInt(template.DefaultDueOffsetDays),
		string(template.DefaultRecurrence.Type),
		recurrenceInterval(template.DefaultRecurrence),
		encodeDays(template.DefaultRecurrence.Days),
		nullableTime(template.DefaultRecurrence.EndDate),
		subtasks,
		template.IsGlobal,
		template.IsActive,
		template.UseCount,
		nullableTime(template.LastUsedAt),
		template.CreatedAt,
		template.UpdatedAt,
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

func (r *TemplateRepository) MarkUsed(ctx context.Context, id uint64, usedAt time.Time) error {
	result, err := r.ext.ExecContext(ctx, markTemplateUsedQuery, usedAt, usedAt, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.NotFoundError{Resource: "template", ID: id}
	}
	return nil
}

func mapTemplateRow(row templateRow) (domain.TaskTemplate, error) {
	template := domain.TaskTemplate{
		ID:              row.ID,
		Name:            row.Name,
		Category:        row.Category,
		TitleTemplate:   row.TitleTemplate,
		DefaultPriority: domain.TaskPriority(row.DefaultPriority),
		DefaultRecurrence: domain.RecurrenceRule{
			Type:     domain.RecurrenceType(row.RecurrenceType),
			Interval: row.RecurrenceInterval,
			Days:     decodeDays(row.RecurrenceDays),
		},
		IsGlobal:  row.IsGlobal,
		IsActive:  row.IsActive,
		UseCount:  row.UseCount,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}

	if row.WorkspaceID.Valid {
		value := uint64(row.WorkspaceID.Int64)
		template.WorkspaceID = &value
	}
	if row.DescriptionTemplate.Valid {
		value := row.DescriptionTemplate.String
		template.DescriptionTemplate = &value
	}
	if row.DefaultDueOffset.Valid {
		value := int(row.DefaultDueOffset.Int64)
		template.DefaultDueOffsetDays = &value
	}
	if row.RecurrenceEndDate.Valid {
		value := row.RecurrenceEndDate.Time
		template.DefaultRecurrence.EndDate = &value
	}
	if row.LastUsedAt.Valid {
		value := row.LastUsedAt.Time
		template.LastUsedAt = &value
	}

	if len(row.SubtaskTemplates) > 0 {
		if err := json.Unmarshal(row.SubtaskTemplates, &template.Subtasks); err != nil {
			return domain.TaskTemplate{}, err
		}
	}
	return template, nil
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
