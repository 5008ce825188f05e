package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/nepfy/nepfy-backend/internal/projects/domain"
)

const uniqueViolation = "23505"

const projectColumns = `id, user_id, client_name, project_name, coalesce(project_url, ''),
       template_type, project_status, data_version, published_at, created_at, updated_at`

// ProjectRepository provides persistence operations for projects and their
// proposal documents.
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var publishedAt sql.NullTime
	if err := row.Scan(
		&p.ID, &p.UserID, &p.ClientName, &p.ProjectName, &p.ProjectURL,
		&p.TemplateType, &p.Status, &p.DataVersion, &publishedAt, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if publishedAt.Valid {
		p.PublishedAt = &publishedAt.Time
	}
	return &p, nil
}

// Create inserts a new draft project together with its initial document.
func (r *ProjectRepository) Create(ctx context.Context, userID string, in domain.CreateProjectInput, data []byte) (*domain.Project, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user id required")
	}

	q := `
INSERT INTO projects (id, user_id, client_name, project_name, template_type, project_status, proposal_data)
VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb)
RETURNING ` + projectColumns + `;
`
	p, err := scanProject(r.db.QueryRowContext(ctx, q,
		uuid.New(), userID, in.ClientName, in.ProjectName, in.TemplateType, domain.StatusDraft, string(data),
	))
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return p, nil
}

// Get returns a non-deleted project owned by userID.
func (r *ProjectRepository) Get(ctx context.Context, userID string, id uuid.UUID) (*domain.Project, error) {
	q := `
SELECT ` + projectColumns + `
FROM projects
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL;
`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// List returns all non-deleted projects for the given user, newest first.
func (r *ProjectRepository) List(ctx context.Context, userID string) ([]domain.Project, error) {
	q := `
SELECT ` + projectColumns + `
FROM projects
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY created_at DESC;
`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateMeta patches the project's metadata. Nil fields keep their value.
func (r *ProjectRepository) UpdateMeta(ctx context.Context, userID string, id uuid.UUID, in domain.UpdateProjectInput) (*domain.Project, error) {
	q := `
UPDATE projects
SET client_name = coalesce($3, client_name),
    project_name = coalesce($4, project_name),
    project_status = coalesce($5, project_status),
    updated_at = now()
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
RETURNING ` + projectColumns + `;
`
	var status *string
	if in.Status != nil {
		s := string(*in.Status)
		status = &s
	}

	p, err := scanProject(r.db.QueryRowContext(ctx, q, id, userID, in.ClientName, in.ProjectName, status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// SoftDelete marks a project as deleted and frees its public URL.
func (r *ProjectRepository) SoftDelete(ctx context.Context, userID string, id uuid.UUID) (bool, error) {
	const q = `
UPDATE projects
SET deleted_at = now(), updated_at = now(), project_url = NULL, project_status = 'archived'
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL;
`
	result, err := r.db.ExecContext(ctx, q, id, userID)
	if err != nil {
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

// LoadData returns the raw proposal document, the project template and the
// current data version.
func (r *ProjectRepository) LoadData(ctx context.Context, projectID uuid.UUID) ([]byte, domain.TemplateType, int64, error) {
	const q = `
SELECT coalesce(proposal_data::text, ''), template_type, data_version
FROM projects
WHERE id = $1 AND deleted_at IS NULL;
`
	var (
		data     string
		template domain.TemplateType
		version  int64
	)
	err := r.db.QueryRowContext(ctx, q, projectID).Scan(&data, &template, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", 0, domain.ErrNotFound
		}
		return nil, "", 0, err
	}
	return []byte(data), template, version, nil
}

// ReplaceData overwrites the whole document unconditionally.
func (r *ProjectRepository) ReplaceData(ctx context.Context, projectID uuid.UUID, data []byte) (int64, error) {
	const q = `
UPDATE projects
SET proposal_data = $2::jsonb, data_version = data_version + 1, updated_at = now()
WHERE id = $1 AND deleted_at IS NULL
RETURNING data_version;
`
	var version int64
	err := r.db.QueryRowContext(ctx, q, projectID, string(data)).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return version, nil
}

// CompareAndSwapData writes data only if the stored version still equals
// expected. It returns domain.ErrVersionConflict otherwise.
func (r *ProjectRepository) CompareAndSwapData(ctx context.Context, projectID uuid.UUID, data []byte, expected int64) (int64, error) {
	const q = `
UPDATE projects
SET proposal_data = $2::jsonb, data_version = data_version + 1, updated_at = now()
WHERE id = $1 AND data_version = $3 AND deleted_at IS NULL
RETURNING data_version;
`
	var version int64
	err := r.db.QueryRowContext(ctx, q, projectID, string(data), expected).Scan(&version)
	if err == nil {
		return version, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1 AND deleted_at IS NULL)`, projectID,
	).Scan(&exists); err != nil {
		return 0, err
	}
	if !exists {
		return 0, domain.ErrNotFound
	}
	return 0, domain.ErrVersionConflict
}

// Publish assigns the public project URL and marks the project published.
func (r *ProjectRepository) Publish(ctx context.Context, userID string, id uuid.UUID, projectURL string) (*domain.Project, error) {
	q := `
UPDATE projects
SET project_url = $3, project_status = 'published', published_at = now(), updated_at = now()
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
RETURNING ` + projectColumns + `;
`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, id, userID, projectURL))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrProjectURLTaken
		}
		return nil, err
	}
	return p, nil
}

// Unpublish takes the project offline but keeps its URL reserved.
func (r *ProjectRepository) Unpublish(ctx context.Context, userID string, id uuid.UUID) (*domain.Project, error) {
	q := `
UPDATE projects
SET project_status = 'draft', published_at = NULL, updated_at = now()
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
RETURNING ` + projectColumns + `;
`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// FindPublished resolves a public subdomain identity to a published project
// and its raw document.
func (r *ProjectRepository) FindPublished(ctx context.Context, userName, projectURL string) (*domain.Project, []byte, error) {
	const q = `
SELECT p.id, p.user_id, p.client_name, p.project_name, coalesce(p.project_url, ''),
       p.template_type, p.project_status, p.data_version, p.published_at, p.created_at, p.updated_at,
       coalesce(p.proposal_data::text, '')
FROM projects p
JOIN users u ON u.firebase_uid = p.user_id
WHERE u.user_name = $1 AND p.project_url = $2
  AND p.project_status = 'published' AND p.deleted_at IS NULL;
`
	var (
		p           domain.Project
		publishedAt sql.NullTime
		data        string
	)
	err := r.db.QueryRowContext(ctx, q, userName, projectURL).Scan(
		&p.ID, &p.UserID, &p.ClientName, &p.ProjectName, &p.ProjectURL,
		&p.TemplateType, &p.Status, &p.DataVersion, &publishedAt, &p.CreatedAt, &p.UpdatedAt,
		&data,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, err
	}
	if publishedAt.Valid {
		p.PublishedAt = &publishedAt.Time
	}
	return &p, []byte(data), nil
}
