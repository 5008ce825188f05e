package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/nepfy/nepfy-backend/internal/apperr"
	"github.com/nepfy/nepfy-backend/internal/logging"
	"github.com/nepfy/nepfy-backend/internal/projects/domain"
	"github.com/nepfy/nepfy-backend/internal/slug"
)

// ProjectStore is the persistence the project service needs.
type ProjectStore interface {
	Create(ctx context.Context, userID string, in domain.CreateProjectInput, data []byte) (*domain.Project, error)
	Get(ctx context.Context, userID string, id uuid.UUID) (*domain.Project, error)
	List(ctx context.Context, userID string) ([]domain.Project, error)
	UpdateMeta(ctx context.Context, userID string, id uuid.UUID, in domain.UpdateProjectInput) (*domain.Project, error)
	SoftDelete(ctx context.Context, userID string, id uuid.UUID) (bool, error)
	Publish(ctx context.Context, userID string, id uuid.UUID, projectURL string) (*domain.Project, error)
	Unpublish(ctx context.Context, userID string, id uuid.UUID) (*domain.Project, error)
	FindPublished(ctx context.Context, userName, projectURL string) (*domain.Project, []byte, error)
}

// UserDirectory resolves the public user name of an account. An empty name
// means the user has not picked one yet.
type UserDirectory interface {
	UserName(ctx context.Context, firebaseUID string) (string, error)
}

// ProjectService handles project lifecycle: creation, metadata, publishing
// and public lookup.
type ProjectService struct {
	repo  ProjectStore
	users UserDirectory
	codec slug.Codec
}

// NewProjectService creates a new project service
func NewProjectService(repo ProjectStore, users UserDirectory, codec slug.Codec) *ProjectService {
	return &ProjectService{repo: repo, users: users, codec: codec}
}

// PublishResult is returned after a successful publish.
type PublishResult struct {
	Project *domain.Project `json:"project"`
	URL     string          `json:"url"`
}

// Create stores a new draft project with a default proposal document.
func (s *ProjectService) Create(ctx context.Context, userID string, in domain.CreateProjectInput) (*domain.Project, error) {
	in.ClientName = strings.TrimSpace(in.ClientName)
	in.ProjectName = strings.TrimSpace(in.ProjectName)
	if in.ClientName == "" || in.ProjectName == "" {
		return nil, apperr.Validation("client_name and project_name are required")
	}
	if !in.TemplateType.Valid() {
		return nil, apperr.Validation("template_type must be one of [flash minimal prime], received %q", in.TemplateType)
	}

	data, err := json.Marshal(domain.NewDocument(in.TemplateType))
	if err != nil {
		return nil, apperr.Internal("encode default document", err)
	}

	p, err := s.repo.Create(ctx, userID, in, data)
	if err != nil {
		return nil, translate(err)
	}
	logging.FromContext(ctx).Info("project created", "project_id", p.ID, "template", p.TemplateType)
	return p, nil
}

// Get returns one of the user's projects.
func (s *ProjectService) Get(ctx context.Context, userID string, id uuid.UUID) (*domain.Project, error) {
	p, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}

// List returns all projects for a user
func (s *ProjectService) List(ctx context.Context, userID string) ([]domain.Project, error) {
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}
	return items, nil
}

// Update patches client/project names and status. Publishing goes through
// Publish so the URL is always assigned with it.
func (s *ProjectService) Update(ctx context.Context, userID string, id uuid.UUID, in domain.UpdateProjectInput) (*domain.Project, error) {
	if in.ClientName != nil {
		v := strings.TrimSpace(*in.ClientName)
		if v == "" {
			return nil, apperr.Validation("client_name must not be empty")
		}
		in.ClientName = &v
	}
	if in.ProjectName != nil {
		v := strings.TrimSpace(*in.ProjectName)
		if v == "" {
			return nil, apperr.Validation("project_name must not be empty")
		}
		in.ProjectName = &v
	}
	if in.Status != nil {
		switch *in.Status {
		case domain.StatusDraft, domain.StatusArchived:
		case domain.StatusPublished:
			return nil, apperr.Validation("use the publish endpoint to publish a project")
		default:
			return nil, apperr.Validation("status must be one of [draft archived], received %q", *in.Status)
		}
	}

	p, err := s.repo.UpdateMeta(ctx, userID, id, in)
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}

// Delete soft-deletes a project
func (s *ProjectService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	ok, err := s.repo.SoftDelete(ctx, userID, id)
	if err != nil {
		return translate(err)
	}
	if !ok {
		return apperr.NotFound("project not found")
	}
	return nil
}

// Publish slugifies the requested project URL, assigns it and returns the
// public subdomain address.
func (s *ProjectService) Publish(ctx context.Context, userID string, id uuid.UUID, requestedURL string) (*PublishResult, error) {
	projectURL := slug.TruncateSlug(slug.Slugify(requestedURL), domain.MaxProjectURLLength)
	if !slug.IsValidSlug(projectURL) {
		return nil, apperr.Validation("project url %q does not produce a valid slug", requestedURL)
	}

	userName, err := s.users.UserName(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}
	if userName == "" {
		return nil, translate(domain.ErrUserNameRequired)
	}

	p, err := s.repo.Publish(ctx, userID, id, projectURL)
	if err != nil {
		return nil, translate(err)
	}

	url := s.codec.GenerateURL(userName, p.ProjectURL)
	logging.FromContext(ctx).Info("project published", "project_id", p.ID, "url", url)
	return &PublishResult{Project: p, URL: url}, nil
}

// Unpublish takes a project offline.
func (s *ProjectService) Unpublish(ctx context.Context, userID string, id uuid.UUID) (*domain.Project, error) {
	p, err := s.repo.Unpublish(ctx, userID, id)
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}

// ResolvePublic maps a request host to the published proposal it names.
func (s *ProjectService) ResolvePublic(ctx context.Context, host string) (*domain.PublicProposal, error) {
	ident := s.codec.Parse(host)
	if ident == nil {
		return nil, apperr.NotFound("proposal not found")
	}

	p, data, err := s.repo.FindPublished(ctx, ident.UserName, ident.ProjectURL)
	if err != nil {
		if apperr.KindOf(translate(err)) == apperr.KindNotFound {
			return nil, apperr.NotFound("proposal not found")
		}
		return nil, translate(err)
	}

	doc, err := domain.DecodeDocument(data, p.TemplateType)
	if err != nil {
		return nil, apperr.Internal("stored proposal document is unreadable", err)
	}
	return &domain.PublicProposal{Project: *p, UserName: ident.UserName, Document: *doc}, nil
}
