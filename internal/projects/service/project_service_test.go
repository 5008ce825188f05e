package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nepfy/nepfy-backend/internal/apperr"
	"github.com/nepfy/nepfy-backend/internal/projects/domain"
	"github.com/nepfy/nepfy-backend/internal/slug"
)

type fakeProjectStore struct {
	projects  map[uuid.UUID]*domain.Project
	data      map[uuid.UUID][]byte
	takenURLs map[string]bool
	published map[string]uuid.UUID
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{
		projects:  map[uuid.UUID]*domain.Project{},
		data:      map[uuid.UUID][]byte{},
		takenURLs: map[string]bool{},
		published: map[string]uuid.UUID{},
	}
}

func (f *fakeProjectStore) Create(_ context.Context, userID string, in domain.CreateProjectInput, data []byte) (*domain.Project, error) {
	p := &domain.Project{
		ID: uuid.New(), UserID: userID, ClientName: in.ClientName, ProjectName: in.ProjectName,
		TemplateType: in.TemplateType, Status: domain.StatusDraft,
	}
	f.projects[p.ID] = p
	f.data[p.ID] = data
	return p, nil
}

func (f *fakeProjectStore) Get(_ context.Context, userID string, id uuid.UUID) (*domain.Project, error) {
	p, ok := f.projects[id]
	if !ok || p.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeProjectStore) List(_ context.Context, userID string) ([]domain.Project, error) {
	var out []domain.Project
	for _, p := range f.projects {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProjectStore) UpdateMeta(ctx context.Context, userID string, id uuid.UUID, in domain.UpdateProjectInput) (*domain.Project, error) {
	p, err := f.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if in.ClientName != nil {
		p.ClientName = *in.ClientName
	}
	if in.ProjectName != nil {
		p.ProjectName = *in.ProjectName
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	return p, nil
}

func (f *fakeProjectStore) SoftDelete(_ context.Context, userID string, id uuid.UUID) (bool, error) {
	p, ok := f.projects[id]
	if !ok || p.UserID != userID {
		return false, nil
	}
	delete(f.projects, id)
	return true, nil
}

func (f *fakeProjectStore) Publish(ctx context.Context, userID string, id uuid.UUID, projectURL string) (*domain.Project, error) {
	p, err := f.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if f.takenURLs[projectURL] {
		return nil, domain.ErrProjectURLTaken
	}
	f.takenURLs[projectURL] = true
	p.ProjectURL = projectURL
	p.Status = domain.StatusPublished
	return p, nil
}

func (f *fakeProjectStore) Unpublish(ctx context.Context, userID string, id uuid.UUID) (*domain.Project, error) {
	p, err := f.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	p.Status = domain.StatusDraft
	return p, nil
}

func (f *fakeProjectStore) FindPublished(_ context.Context, userName, projectURL string) (*domain.Project, []byte, error) {
	id, ok := f.published[userName+"/"+projectURL]
	if !ok {
		return nil, nil, domain.ErrNotFound
	}
	return f.projects[id], f.data[id], nil
}

type fakeUsers map[string]string

func (f fakeUsers) UserName(_ context.Context, uid string) (string, error) {
	return f[uid], nil
}

func newTestProjectService(store *fakeProjectStore, users fakeUsers) *ProjectService {
	return NewProjectService(store, users, slug.NewCodec("nepfy.com"))
}

func TestProjectServiceCreate(t *testing.T) {
	store := newFakeProjectStore()
	svc := newTestProjectService(store, fakeUsers{})
	ctx := context.Background()

	t.Run("stores default document", func(t *testing.T) {
		p, err := svc.Create(ctx, "user-1", domain.CreateProjectInput{
			ClientName: " Acme ", ProjectName: "Website", TemplateType: domain.TemplatePrime,
		})
		require.NoError(t, err)
		assert.Equal(t, "Acme", p.ClientName)

		doc, err := domain.DecodeDocument(store.data[p.ID], p.TemplateType)
		require.NoError(t, err)
		assert.Equal(t, domain.TemplatePrime, doc.Template)
	})

	t.Run("rejects unknown template", func(t *testing.T) {
		_, err := svc.Create(ctx, "user-1", domain.CreateProjectInput{
			ClientName: "Acme", ProjectName: "Website", TemplateType: "grid",
		})
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestProjectServiceUpdateRejectsPublishedStatus(t *testing.T) {
	store := newFakeProjectStore()
	svc := newTestProjectService(store, fakeUsers{})
	ctx := context.Background()

	p, err := svc.Create(ctx, "user-1", domain.CreateProjectInput{ClientName: "A", ProjectName: "B", TemplateType: domain.TemplateFlash})
	require.NoError(t, err)

	status := domain.StatusPublished
	_, err = svc.Update(ctx, "user-1", p.ID, domain.UpdateProjectInput{Status: &status})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	name := "Renamed"
	got, err := svc.Update(ctx, "user-1", p.ID, domain.UpdateProjectInput{ProjectName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.ProjectName)
}

func TestProjectServiceDeleteMissing(t *testing.T) {
	svc := newTestProjectService(newFakeProjectStore(), fakeUsers{})
	err := svc.Delete(context.Background(), "user-1", uuid.New())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestProjectServicePublish(t *testing.T) {
	store := newFakeProjectStore()
	svc := newTestProjectService(store, fakeUsers{"user-1": "joao"})
	ctx := context.Background()

	p, err := svc.Create(ctx, "user-1", domain.CreateProjectInput{ClientName: "Acme", ProjectName: "Site", TemplateType: domain.TemplateFlash})
	require.NoError(t, err)

	t.Run("slugifies and returns url", func(t *testing.T) {
		res, err := svc.Publish(ctx, "user-1", p.ID, "Proposta Ação Única")
		require.NoError(t, err)
		assert.Equal(t, "proposta-acao-unica", res.Project.ProjectURL)
		assert.Equal(t, "https://joao-proposta-acao-unica.nepfy.com", res.URL)
	})

	t.Run("duplicate url conflicts", func(t *testing.T) {
		other, err := svc.Create(ctx, "user-1", domain.CreateProjectInput{ClientName: "B", ProjectName: "C", TemplateType: domain.TemplateFlash})
		require.NoError(t, err)

		_, err = svc.Publish(ctx, "user-1", other.ID, "proposta-acao-unica")
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})

	t.Run("invalid slug", func(t *testing.T) {
		_, err := svc.Publish(ctx, "user-1", p.ID, "!!!")
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("truncates long urls", func(t *testing.T) {
		long := "a-very-long-project-name-that-keeps-going-and-going-past-sixty-characters"
		third, err := svc.Create(ctx, "user-1", domain.CreateProjectInput{ClientName: "D", ProjectName: "E", TemplateType: domain.TemplateFlash})
		require.NoError(t, err)

		res, err := svc.Publish(ctx, "user-1", third.ID, long)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(res.Project.ProjectURL), domain.MaxProjectURLLength)
		assert.True(t, slug.IsValidSlug(res.Project.ProjectURL))
	})
}

func TestProjectServicePublishRequiresUserName(t *testing.T) {
	store := newFakeProjectStore()
	svc := newTestProjectService(store, fakeUsers{})
	ctx := context.Background()

	p, err := svc.Create(ctx, "user-1", domain.CreateProjectInput{ClientName: "A", ProjectName: "B", TemplateType: domain.TemplateFlash})
	require.NoError(t, err)

	_, err = svc.Publish(ctx, "user-1", p.ID, "site")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.ErrorIs(t, err, domain.ErrUserNameRequired)
}

func TestProjectServiceResolvePublic(t *testing.T) {
	store := newFakeProjectStore()
	svc := newTestProjectService(store, fakeUsers{"user-1": "joao"})
	ctx := context.Background()

	p, err := svc.Create(ctx, "user-1", domain.CreateProjectInput{ClientName: "Acme", ProjectName: "Site", TemplateType: domain.TemplateMinimal})
	require.NoError(t, err)
	store.published["joao/site-novo"] = p.ID

	t.Run("published project", func(t *testing.T) {
		pub, err := svc.ResolvePublic(ctx, "Joao-Site-Novo.nepfy.com:443")
		require.NoError(t, err)
		assert.Equal(t, "joao", pub.UserName)
		assert.Equal(t, domain.TemplateMinimal, pub.Document.Template)
	})

	t.Run("unknown project", func(t *testing.T) {
		_, err := svc.ResolvePublic(ctx, "joao-other.nepfy.com")
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("main domain", func(t *testing.T) {
		_, err := svc.ResolvePublic(ctx, "app.nepfy.com")
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}
