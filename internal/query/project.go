package query

import (
	"github.com/villagehub/directory-backend/internal/domain/entities"
)

// Hit is one ranked document returned by the search engine, with the score
// the engine assigned for this query and an opaque continuation token scoped
// to this query's result sequence.
type Hit struct {
	Profile         *entities.Profile
	Score           float64
	PaginationToken string
}

// Result is a ranked page plus the matched total count.
type Result struct {
	Hits  []Hit
	Total int
}

// ProjectHit maps a hit onto the public-safe RankedProfile. The field set is
// an allowlist: anything not named here (email, active status, timestamps,
// internal IDs) stays out of public search responses.
func ProjectHit(h Hit) entities.RankedProfile {
	p := h.Profile
	return entities.RankedProfile{
		Name:            p.Name,
		Slug:            p.Slug,
		Socials:         p.Socials,
		FiveWords:       p.FiveWords,
		Details:         p.Details,
		PrimaryImageURL: p.PrimaryImageURL,
		City:            p.City,
		Geo:             p.Geo,
		Score:           h.Score,
		PaginationToken: h.PaginationToken,
	}
}

// BuildPagination computes the pagination block from the matched total and
// the requested window.
func BuildPagination(total, pageLimit, pageNum int) entities.Pagination {
	if pageLimit < 1 {
		pageLimit = DefaultPageLimit
	}
	if pageNum < 1 {
		pageNum = DefaultPageNum
	}

	totalPages := (total + pageLimit - 1) / pageLimit
	if totalPages < 1 {
		totalPages = 1
	}

	return entities.Pagination{
		Count:      total,
		PerPage:    pageLimit,
		Offset:     pageLimit*pageNum - pageLimit,
		PageNumber: pageNum,
		TotalPages: totalPages,
	}
}

// Envelope shapes a ranked result page into the response envelope.
func Envelope(res *Result, pageLimit, pageNum int) *entities.SearchEnvelope {
	if res == nil {
		return entities.EmptySearchEnvelope()
	}

	data := make([]entities.RankedProfile, 0, len(res.Hits))
	for _, h := range res.Hits {
		if h.Profile == nil {
			continue
		}
		data = append(data, ProjectHit(h))
	}

	pagination := BuildPagination(res.Total, pageLimit, pageNum)
	return &entities.SearchEnvelope{
		Success:    true,
		Data:       data,
		Pagination: &pagination,
	}
}
