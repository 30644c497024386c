package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"crewdesk/internal/core/domain"
	"crewdesk/internal/core/ports"
)

const mysqlErrDuplicateEntry = 1062

// Store implements ports.Store on sqlx. Outside a transaction it queries
// the pool directly; WithinTx hands callbacks a view bound to one *sqlx.Tx.
type Store struct {
	db  *sqlx.DB
	ext sqlx.ExtContext
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, ext: db}
}

var _ ports.Store = (*Store)(nil)

func (s *Store) Tasks() ports.TaskRepository {
	return &TaskRepository{ext: s.ext}
}

func (s *Store) Templates() ports.TemplateRepository {
	return &TemplateRepository{ext: s.ext}
}

func (s *Store) Workspaces() ports.WorkspaceRepository {
	return &WorkspaceRepository{ext: s.ext}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ports.Store) error) error {
	// Nested calls join the enclosing transaction.
	if _, ok := s.ext.(*sqlx.Tx); ok {
		return fn(ctx, s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(ctx, &Store{db: s.db, ext: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			zap.L().Warn("transaction rollback failed", zap.Error(rbErr))
		}
		return err
	}
	return tx.Commit()
}

// translateNotFound maps missing rows onto the typed domain error so the
// service layer never sees sql.ErrNoRows.
func translateNotFound(err error, resource string, id uint64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Resource: resource, ID: id}
	}
	return err
}

// translateConflict surfaces MySQL duplicate-key rejections as the typed
// conflict error.
func translateConflict(err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
		return &domain.ConflictError{Reason: mysqlErr.Message}
	}
	return err
}
