package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/villagehub/directory-backend/internal/api/handlers"
	"github.com/villagehub/directory-backend/internal/application/services"
	"github.com/villagehub/directory-backend/internal/domain/entities"
	"github.com/villagehub/directory-backend/internal/domain/repositories"
	"github.com/villagehub/directory-backend/internal/query"
)

type stubProfileRepo struct {
	sampleSeed     int64
	sampleCalls    int
	sampleProfiles []*entities.Profile
}

func (s *stubProfileRepo) Create(ctx context.Context, p *entities.Profile) error { return nil }
func (s *stubProfileRepo) GetByID(ctx context.Context, id string) (*entities.Profile, error) {
	return nil, errors.New("not implemented")
}
func (s *stubProfileRepo) GetBySlug(ctx context.Context, slug string) (*entities.Profile, error) {
	return nil, errors.New("not implemented")
}
func (s *stubProfileRepo) Update(ctx context.Context, p *entities.Profile) error { return nil }
func (s *stubProfileRepo) Delete(ctx context.Context, id string) error           { return nil }
func (s *stubProfileRepo) List(ctx context.Context, filter repositories.ProfileFilter) ([]*entities.Profile, error) {
	return nil, nil
}
func (s *stubProfileRepo) Sample(ctx context.Context, seed int64, size int, activeOnly bool) ([]*entities.Profile, error) {
	s.sampleCalls++
	s.sampleSeed = seed
	return s.sampleProfiles, nil
}

type stubSearchEngine struct {
	executed *query.Query
	result   *query.Result
	err      error
}

func (s *stubSearchEngine) Execute(ctx context.Context, q *query.Query) (*query.Result, error) {
	s.executed = q
	return s.result, s.err
}
func (s *stubSearchEngine) Index(ctx context.Context, p *entities.Profile) error { return nil }
func (s *stubSearchEngine) Delete(ctx context.Context, id string) error          { return nil }
func (s *stubSearchEngine) InitSchema(ctx context.Context) error                 { return nil }

func newSearchHandler(repo repositories.ProfileRepository, engine repositories.ProfileSearchRepository) *handlers.SearchHandler {
	return handlers.NewSearchHandler(services.NewSearchService(repo, engine), nil)
}

func TestSearchProfiles_RankedSearch(t *testing.T) {
	engine := &stubSearchEngine{
		result: &query.Result{
			Hits: []query.Hit{
				{Profile: &entities.Profile{Name: "Sarah", Slug: "sarah", Active: true}, Score: 2.5},
			},
			Total: 1,
		},
	}
	handler := newSearchHandler(&stubProfileRepo{}, engine)

	req := httptest.NewRequest(http.MethodGet, "/api/profiles/search?q=doula", nil)
	rec := httptest.NewRecorder()
	handler.SearchProfiles(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope entities.SearchEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "sarah", envelope.Data[0].Slug)
}

// A broken engine must not break the directory page: the public route answers
// 200 with the empty envelope instead of an error payload.
func TestSearchProfiles_EngineFailureFailsOpen(t *testing.T) {
	engine := &stubSearchEngine{err: errors.New("typesense unreachable")}
	handler := newSearchHandler(&stubProfileRepo{}, engine)

	req := httptest.NewRequest(http.MethodGet, "/api/profiles/search?q=doula", nil)
	rec := httptest.NewRecorder()
	handler.SearchProfiles(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var envelope entities.SearchEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Empty(t, envelope.Data)
	require.NotNil(t, envelope.Pagination)
	assert.Zero(t, envelope.Pagination.Count)
}

// Browsing without a query gets an auto-generated seed so the sample path
// runs and the listing order varies between visits.
func TestSearchProfiles_EmptyBrowseGetsRandomSample(t *testing.T) {
	repo := &stubProfileRepo{
		sampleProfiles: []*entities.Profile{
			{Name: "Sarah", Slug: "sarah", Active: true},
		},
	}
	handler := newSearchHandler(repo, &stubSearchEngine{})

	req := httptest.NewRequest(http.MethodGet, "/api/profiles/search", nil)
	rec := httptest.NewRecorder()
	handler.SearchProfiles(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, repo.sampleCalls)
	assert.Greater(t, repo.sampleSeed, int64(0))

	var envelope entities.SearchEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Len(t, envelope.Data, 1)
}

// An explicit random parameter is honored verbatim, including an invalid one,
// which falls back to the nothing-to-search response instead of a fresh seed.
func TestSearchProfiles_ExplicitInvalidSeedSkipsAutoSeed(t *testing.T) {
	repo := &stubProfileRepo{}
	handler := newSearchHandler(repo, &stubSearchEngine{})

	req := httptest.NewRequest(http.MethodGet, "/api/profiles/search?random=abc", nil)
	rec := httptest.NewRecorder()
	handler.SearchProfiles(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, repo.sampleCalls)

	var envelope entities.SearchEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
}

func TestSearchProfiles_ExplicitSeedIsUsed(t *testing.T) {
	repo := &stubProfileRepo{}
	handler := newSearchHandler(repo, &stubSearchEngine{})

	req := httptest.NewRequest(http.MethodGet, "/api/profiles/search?random=1234", nil)
	rec := httptest.NewRecorder()
	handler.SearchProfiles(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, repo.sampleCalls)
	assert.Equal(t, int64(1234), repo.sampleSeed)
}

func TestAdminSearchProfiles_SurfacesErrors(t *testing.T) {
	engine := &stubSearchEngine{err: errors.New("typesense unreachable")}
	handler := newSearchHandler(&stubProfileRepo{}, engine)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/profiles/search?q=sarah", nil)
	rec := httptest.NewRecorder()
	handler.AdminSearchProfiles(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestAdminSearchProfiles_ReturnsAdminProjection(t *testing.T) {
	engine := &stubSearchEngine{
		result: &query.Result{
			Hits: []query.Hit{
				{
					Profile: &entities.Profile{ID: "p-1", Name: "Sarah", Slug: "sarah", Email: "sarah@example.com"},
					Score:   1.5,
				},
			},
			Total: 1,
		},
	}
	handler := newSearchHandler(&stubProfileRepo{}, engine)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/profiles/search?q=sarah", nil)
	rec := httptest.NewRecorder()
	handler.AdminSearchProfiles(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Results []entities.AdminProfileResult `json:"results"`
		Count   int                           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Results, 1)
	assert.Equal(t, "sarah@example.com", body.Results[0].Email)
}
