package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nepfy/nepfy-backend/internal/apperr"
	"github.com/nepfy/nepfy-backend/internal/projects/domain"
)

// memStore is an in-memory DataStore. When barrier is set, the first
// barrier loads block until all of them have happened, so concurrent
// callers are guaranteed to read the same version.
type memStore struct {
	mu       sync.Mutex
	data     []byte
	template domain.TemplateType
	version  int64
	missing  bool

	barrier int
	release chan struct{}
	loads   int

	casCalls       int
	alwaysConflict bool
}

func newMemStore(template domain.TemplateType) *memStore {
	return &memStore{template: template, release: make(chan struct{})}
}

func (m *memStore) LoadData(_ context.Context, _ uuid.UUID) ([]byte, domain.TemplateType, int64, error) {
	m.mu.Lock()
	if m.missing {
		m.mu.Unlock()
		return nil, "", 0, domain.ErrNotFound
	}
	m.loads++
	n := m.loads
	data := append([]byte(nil), m.data...)
	template, version := m.template, m.version
	if m.barrier > 0 && n == m.barrier {
		close(m.release)
	}
	m.mu.Unlock()

	if m.barrier > 0 && n <= m.barrier {
		<-m.release
	}
	return data, template, version, nil
}

func (m *memStore) ReplaceData(_ context.Context, _ uuid.UUID, data []byte) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.version++
	return m.version, nil
}

func (m *memStore) CompareAndSwapData(_ context.Context, _ uuid.UUID, data []byte, expected int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.casCalls++
	if m.alwaysConflict || m.version != expected {
		return 0, domain.ErrVersionConflict
	}
	m.data = append([]byte(nil), data...)
	m.version++
	return m.version, nil
}

func (m *memStore) stored(t *testing.T) *domain.Document {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	d, err := domain.DecodeDocument(m.data, m.template)
	require.NoError(t, err)
	return d
}

func TestGetProposalDataDefaultsWhenEmpty(t *testing.T) {
	svc := NewProposalService(newMemStore(domain.TemplatePrime))

	doc, err := svc.GetProposalData(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, domain.TemplatePrime, doc.Template)
	assert.NotNil(t, doc.Team.Members)
}

func TestGetProposalDataNotFound(t *testing.T) {
	store := newMemStore(domain.TemplateFlash)
	store.missing = true
	svc := NewProposalService(store)

	_, err := svc.GetProposalData(context.Background(), uuid.New())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUpdateProposalDataRejectsInvalidDocument(t *testing.T) {
	store := newMemStore(domain.TemplateFlash)
	svc := NewProposalService(store)

	doc := domain.NewDocument(domain.TemplateFlash)
	doc.Footer.Email = "nope"

	err := svc.UpdateProposalData(context.Background(), uuid.New(), doc)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Zero(t, store.version)
}

// Two editors read the same document and each saves the whole thing back.
// Only one of the two edits survives.
func TestUpdateProposalDataLastWriteWins(t *testing.T) {
	store := newMemStore(domain.TemplateFlash)
	store.barrier = 2
	svc := NewProposalService(store)
	id := uuid.New()
	ctx := context.Background()

	var wg sync.WaitGroup
	edit := func(fn func(*domain.Document)) {
		defer wg.Done()
		doc, err := svc.GetProposalData(ctx, id)
		if !assert.NoError(t, err) {
			return
		}
		fn(doc)
		assert.NoError(t, svc.UpdateProposalData(ctx, id, doc))
	}

	wg.Add(2)
	go edit(func(d *domain.Document) { d.Team.Title = "Nosso time" })
	go edit(func(d *domain.Document) { d.FAQ.Title = "Perguntas" })
	wg.Wait()

	got := store.stored(t)
	teamKept := got.Team.Title == "Nosso time"
	faqKept := got.FAQ.Title == "Perguntas"
	assert.True(t, teamKept != faqKept, "exactly one edit should survive, team=%v faq=%v", teamKept, faqKept)
}

// The same interleaving through section updates keeps both edits.
func TestUpdateProposalSectionKeepsConcurrentEdits(t *testing.T) {
	store := newMemStore(domain.TemplateFlash)
	store.barrier = 2
	svc := NewProposalService(store)
	id := uuid.New()
	ctx := context.Background()

	var wg sync.WaitGroup
	update := func(key domain.SectionKey, raw string) {
		defer wg.Done()
		_, err := svc.UpdateProposalSection(ctx, id, key, json.RawMessage(raw))
		assert.NoError(t, err)
	}

	wg.Add(2)
	go update(domain.SectionTeam, `{"hideSection":false,"title":"Nosso time","members":[]}`)
	go update(domain.SectionFAQ, `{"hideSection":false,"title":"Perguntas","items":[]}`)
	wg.Wait()

	got := store.stored(t)
	assert.Equal(t, "Nosso time", got.Team.Title)
	assert.Equal(t, "Perguntas", got.FAQ.Title)
	assert.Equal(t, int64(2), store.version)
	assert.GreaterOrEqual(t, store.loads, 3)
}

func TestUpdateProposalSectionErrors(t *testing.T) {
	svc := NewProposalService(newMemStore(domain.TemplateFlash))
	ctx := context.Background()

	t.Run("unknown section", func(t *testing.T) {
		_, err := svc.UpdateProposalSection(ctx, uuid.New(), "pricing", json.RawMessage(`{}`))
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := svc.UpdateProposalSection(ctx, uuid.New(), domain.SectionTeam, json.RawMessage(`{"color":"red"}`))
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("schema violation", func(t *testing.T) {
		_, err := svc.UpdateProposalSection(ctx, uuid.New(), domain.SectionFAQ,
			json.RawMessage(`{"hideSection":false,"items":[{"question":"Q","answer":"A","sortOrder":-2}]}`))
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		assert.Contains(t, err.Error(), "FAQ.Items[0].SortOrder")
	})
}

func TestUpdateProposalSectionGivesUpAfterRepeatedConflicts(t *testing.T) {
	store := newMemStore(domain.TemplateFlash)
	store.alwaysConflict = true
	svc := NewProposalService(store)

	_, err := svc.UpdateProposalSection(context.Background(), uuid.New(), domain.SectionCTA,
		json.RawMessage(`{"hideSection":true}`))
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, maxWriteAttempts, store.casCalls)
}

func TestMergeProposalData(t *testing.T) {
	store := newMemStore(domain.TemplateFlash)
	svc := NewProposalService(store)
	id := uuid.New()
	ctx := context.Background()

	_, err := svc.UpdateProposalSection(ctx, id, domain.SectionIntroduction,
		json.RawMessage(`{"hideSection":false,"title":"Olá","services":[]}`))
	require.NoError(t, err)

	doc, err := svc.MergeProposalData(ctx, id, map[string]json.RawMessage{
		"footer": json.RawMessage(`{"hideSection":false,"thankYouMessage":"Obrigado"}`),
	})
	require.NoError(t, err)

	assert.Equal(t, "Olá", doc.Introduction.Title)
	assert.Equal(t, "Obrigado", doc.Footer.ThankYouMessage)
	assert.Equal(t, "Obrigado", store.stored(t).Footer.ThankYouMessage)
}
