package services

import (
	"context"

	"github.com/villagehub/directory-backend/internal/domain/entities"
	"github.com/villagehub/directory-backend/internal/domain/repositories"
	"github.com/villagehub/directory-backend/internal/query"
	apperrors "github.com/villagehub/directory-backend/pkg/errors"
)

// SearchService composes and executes directory searches. Errors from the
// engine are returned as-is so the boundary layer can decide whether to fail
// open; the service itself never swallows them.
type SearchService struct {
	profiles repositories.ProfileRepository
	engine   repositories.ProfileSearchRepository
}

// NewSearchService creates a new search service
func NewSearchService(profiles repositories.ProfileRepository, engine repositories.ProfileSearchRepository) *SearchService {
	return &SearchService{
		profiles: profiles,
		engine:   engine,
	}
}

// Search runs one public directory search for the given normalized request.
func (s *SearchService) Search(ctx context.Context, req query.Request) (*entities.SearchEnvelope, error) {
	plan := query.BuildPlan(req)

	switch plan.Mode {
	case query.ModeNone:
		return entities.NoQueryEnvelope(), nil

	case query.ModeSample:
		return s.sample(ctx, req, plan)

	default:
		if s.engine == nil {
			return nil, apperrors.NewExternalError("search engine unavailable", nil)
		}
		res, err := s.engine.Execute(ctx, plan.Query)
		if err != nil {
			return nil, apperrors.NewExternalError("search query failed", err)
		}
		return query.Envelope(res, req.PageLimit, req.PageNum), nil
	}
}

func (s *SearchService) sample(ctx context.Context, req query.Request, plan query.Plan) (*entities.SearchEnvelope, error) {
	profiles, err := s.profiles.Sample(ctx, plan.SampleSeed, plan.SampleSize, plan.SampleActiveOnly)
	if err != nil {
		return nil, apperrors.NewExternalError("profile sample failed", err)
	}

	res := &query.Result{Total: len(profiles)}
	for _, p := range profiles {
		res.Hits = append(res.Hits, query.Hit{Profile: p})
	}
	return query.Envelope(res, req.PageLimit, req.PageNum), nil
}

// AdminSearch runs the restricted admin lookup: fuzzy name/email match with
// no active filtering, returning the admin projection.
func (s *SearchService) AdminSearch(ctx context.Context, term string, pageNum, pageLimit int) ([]entities.AdminProfileResult, error) {
	plan := query.BuildAdminPlan(term, pageNum, pageLimit)
	if plan.Mode == query.ModeNone {
		return []entities.AdminProfileResult{}, nil
	}
	if s.engine == nil {
		return nil, apperrors.NewExternalError("search engine unavailable", nil)
	}

	res, err := s.engine.Execute(ctx, plan.Query)
	if err != nil {
		return nil, apperrors.NewExternalError("admin search query failed", err)
	}

	results := make([]entities.AdminProfileResult, 0, len(res.Hits))
	for _, h := range res.Hits {
		if h.Profile == nil {
			continue
		}
		results = append(results, entities.AdminProfileResult{
			ID:     h.Profile.ID,
			Name:   h.Profile.Name,
			Slug:   h.Profile.Slug,
			Email:  h.Profile.Email,
			Active: h.Profile.Active,
			Score:  h.Score,
		})
	}
	return results, nil
}
