package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/nepfy/nepfy-backend/internal/apperr"
	"github.com/nepfy/nepfy-backend/internal/logging"
	"github.com/nepfy/nepfy-backend/internal/projects/domain"
)

// maxWriteAttempts bounds the optimistic retry loop of section updates.
const maxWriteAttempts = 5

// DataStore persists the proposal document of a project.
type DataStore interface {
	LoadData(ctx context.Context, projectID uuid.UUID) ([]byte, domain.TemplateType, int64, error)
	ReplaceData(ctx context.Context, projectID uuid.UUID, data []byte) (int64, error)
	CompareAndSwapData(ctx context.Context, projectID uuid.UUID, data []byte, expected int64) (int64, error)
}

// ProposalService reads and writes proposal documents.
type ProposalService struct {
	store DataStore
}

func NewProposalService(store DataStore) *ProposalService {
	return &ProposalService{store: store}
}

// GetProposalData returns the project's document, or the default document
// when nothing has been stored yet.
func (s *ProposalService) GetProposalData(ctx context.Context, projectID uuid.UUID) (*domain.Document, error) {
	doc, _, err := s.load(ctx, projectID)
	return doc, err
}

// UpdateProposalData replaces the whole document. Concurrent writers are not
// arbitrated: the last write wins.
func (s *ProposalService) UpdateProposalData(ctx context.Context, projectID uuid.UUID, doc *domain.Document) error {
	if doc == nil {
		return apperr.Validation("proposal document is required")
	}
	doc.Normalize()

	data, err := encode(doc)
	if err != nil {
		return err
	}
	if _, err := s.store.ReplaceData(ctx, projectID, data); err != nil {
		return translate(err)
	}
	return nil
}

// UpdateProposalSection replaces one section and leaves the others intact,
// even when other sections are written concurrently.
func (s *ProposalService) UpdateProposalSection(ctx context.Context, projectID uuid.UUID, key domain.SectionKey, value json.RawMessage) (*domain.Document, error) {
	return s.mutate(ctx, projectID, func(d *domain.Document) error {
		return d.SetSection(key, value)
	})
}

// MergeProposalData shallow-merges the top-level keys of partial into the
// stored document and returns the result.
func (s *ProposalService) MergeProposalData(ctx context.Context, projectID uuid.UUID, partial map[string]json.RawMessage) (*domain.Document, error) {
	return s.mutate(ctx, projectID, func(d *domain.Document) error {
		return d.Merge(partial)
	})
}

func (s *ProposalService) load(ctx context.Context, projectID uuid.UUID) (*domain.Document, int64, error) {
	data, template, version, err := s.store.LoadData(ctx, projectID)
	if err != nil {
		return nil, 0, translate(err)
	}

	doc, err := domain.DecodeDocument(data, template)
	if err != nil {
		return nil, 0, apperr.Internal("stored proposal document is unreadable", err)
	}
	return doc, version, nil
}

// mutate applies fn to a fresh copy of the document and writes it back with
// a version check, retrying from a new read when another write got there
// first.
func (s *ProposalService) mutate(ctx context.Context, projectID uuid.UUID, fn func(*domain.Document) error) (*domain.Document, error) {
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		doc, version, err := s.load(ctx, projectID)
		if err != nil {
			return nil, err
		}

		if err := fn(doc); err != nil {
			return nil, translate(err)
		}

		data, err := encode(doc)
		if err != nil {
			return nil, err
		}

		_, err = s.store.CompareAndSwapData(ctx, projectID, data, version)
		if err == nil {
			return doc, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return nil, translate(err)
		}

		logging.FromContext(ctx).Debug("proposal write conflict, retrying",
			"project_id", projectID, "attempt", attempt)
	}

	return nil, apperr.Wrap(apperr.KindConflict, "proposal is being edited concurrently, try again", domain.ErrVersionConflict)
}

func encode(doc *domain.Document) ([]byte, error) {
	if err := doc.Validate(); err != nil {
		return nil, translate(err)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, apperr.Internal("encode proposal document", err)
	}
	return data, nil
}

// translate classifies domain errors for the HTTP boundary.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return apperr.Wrap(apperr.KindValidation, verr.Error(), err)
	case errors.Is(err, domain.ErrNotFound):
		return apperr.Wrap(apperr.KindNotFound, "project not found", err)
	case errors.Is(err, domain.ErrUnknownSection), errors.Is(err, domain.ErrInvalidPayload):
		return apperr.Wrap(apperr.KindValidation, err.Error(), err)
	case errors.Is(err, domain.ErrProjectURLTaken):
		return apperr.Wrap(apperr.KindConflict, "this project url is already in use", err)
	case errors.Is(err, domain.ErrUserNameRequired):
		return apperr.Wrap(apperr.KindValidation, err.Error(), err)
	case errors.Is(err, domain.ErrVersionConflict):
		return apperr.Wrap(apperr.KindConflict, "proposal is being edited concurrently, try again", err)
	}

	var classified *apperr.Error
	if errors.As(err, &classified) {
		return err
	}
	return apperr.Internal("proposal storage", err)
}
