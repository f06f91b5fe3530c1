package revisions

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/scribe/internal/common"
	"github.com/dmitrijs2005/scribe/internal/dbx"
	"github.com/dmitrijs2005/scribe/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) MaxVersion(ctx context.Context, path string) (int, error) {
	query := `SELECT COALESCE(MAX(version), 0) FROM revisions WHERE path = $1`

	var v int
	if err := r.db.QueryRowContext(ctx, query, path).Scan(&v); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *PostgresRepository) Create(ctx context.Context, rev *models.Revision) (*models.Revision, error) {
	query :=
		`INSERT INTO revisions (path, version, content, author)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query, rev.Path, rev.Version, rev.Content, rev.Author).Scan(&rev.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrVersionConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rev, nil
}

func (r *PostgresRepository) ListByPath(ctx context.Context, path string) ([]*models.Revision, error) {
	query :=
		`SELECT path, version, content, author, created_at FROM revisions
		 WHERE path = $1
		 ORDER BY version ASC
		 `

	rows, err := r.db.QueryContext(ctx, query, path)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Revision
	for rows.Next() {
		rev := &models.Revision{}
		if err := rows.Scan(&rev.Path, &rev.Version, &rev.Content, &rev.Author, &rev.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
