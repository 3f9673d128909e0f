package handlers

import (
	"net/http"
	"time"

	"github.com/villagehub/directory-backend/internal/application/services"
	"github.com/villagehub/directory-backend/internal/domain/entities"
	"github.com/villagehub/directory-backend/internal/infrastructure/observability"
	"github.com/villagehub/directory-backend/internal/query"
)

// SearchHandler handles directory search HTTP requests
type SearchHandler struct {
	searchService *services.SearchService
	metrics       *observability.Metrics
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *services.SearchService, metrics *observability.Metrics) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		metrics:       metrics,
	}
}

// SearchProfiles handles GET /api/profiles/search
//
// Browsing without a query term gets a fresh random seed so the directory
// still shows varied listings. Downstream failures deliberately fail open to
// the empty envelope: a broken search engine must not break the page.
func (h *SearchHandler) SearchProfiles(w http.ResponseWriter, r *http.Request) {
	req := query.ParseRequest(r.URL.Query())
	if req.Term == "" && req.RandomSeed == 0 && !r.URL.Query().Has("random") {
		req.RandomSeed = query.BrowseSeed()
	}

	start := time.Now()
	envelope, err := h.searchService.Search(r.Context(), req)
	if h.metrics != nil {
		observability.RecordSearchMetric(r.Context(), h.metrics, searchMode(req), time.Since(start))
	}

	if err != nil {
		logger := observability.LoggerFromContext(r.Context())
		logger.Error().Err(err).Str("term", req.Term).Msg("directory search failed, returning empty envelope")
		respondWithJSON(w, http.StatusOK, entities.EmptySearchEnvelope())
		return
	}

	respondWithJSON(w, http.StatusOK, envelope)
}

// AdminSearchProfiles handles GET /api/admin/profiles/search. Unlike the
// public route, errors surface here: operators need to see them.
func (h *SearchHandler) AdminSearchProfiles(w http.ResponseWriter, r *http.Request) {
	req := query.ParseRequest(r.URL.Query())

	results, err := h.searchService.AdminSearch(r.Context(), req.Term, req.PageNum, req.PageLimit)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}

func searchMode(req query.Request) string {
	switch {
	case req.RandomSeed > 0:
		return "sample"
	case req.Term == "":
		return "none"
	default:
		return "ranked"
	}
}
