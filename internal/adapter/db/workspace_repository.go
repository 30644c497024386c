package db

import (
	"context"

	"github.com/jmoiron/sqlx"

	"crewdesk/internal/core/ports"
)

// WorkspaceRepository answers tenant-existence checks. Workspace content
// (members, access) is another service's concern.
type WorkspaceRepository struct {
	ext sqlx.ExtContext
}

var _ ports.WorkspaceRepository = (*WorkspaceRepository)(nil)

func (r *WorkspaceRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, r.ext, &exists,
		`SELECT EXISTS(SELECT 1 FROM workspaces WHERE id = ?);`, id)
	return exists, err
}
