package entities

// RankedProfile is the public-safe projection of a profile returned by the
// directory search, plus two query-scoped fields: the relevance score the
// engine assigned for this query and an opaque continuation token valid only
// within this query's result sequence.
type RankedProfile struct {
	Name            string   `json:"name"`
	Slug            string   `json:"slug"`
	Socials         Socials  `json:"socials"`
	FiveWords       string   `json:"five_words"`
	Details         string   `json:"details"`
	PrimaryImageURL string   `json:"primary_image_url"`
	City            string   `json:"city"`
	Geo             GeoPoint `json:"geo"`
	Score           float64  `json:"score"`
	PaginationToken string   `json:"pagination_token,omitempty"`
}

// AdminProfileResult is the restricted admin lookup projection. Unlike
// RankedProfile it carries email and active status; it is never returned on
// public routes.
type AdminProfileResult struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Slug   string  `json:"slug"`
	Email  string  `json:"email"`
	Active bool    `json:"active"`
	Score  float64 `json:"score"`
}

// Pagination describes the window of a search response
type Pagination struct {
	Count      int `json:"count"`
	PerPage    int `json:"per_page"`
	Offset     int `json:"offset"`
	PageNumber int `json:"page_number"`
	TotalPages int `json:"total_pages"`
}

// SearchEnvelope is the response shape of the directory search
type SearchEnvelope struct {
	Success    bool            `json:"success"`
	Data       []RankedProfile `json:"data"`
	Pagination *Pagination     `json:"pagination,omitempty"`
}

// EmptySearchEnvelope is the safe fallback returned when the underlying
// search call yields no usable result. Callers cannot distinguish it from a
// legitimate zero-match response; that trade-off keeps the directory page
// rendering when the engine is down.
func EmptySearchEnvelope() *SearchEnvelope {
	return &SearchEnvelope{
		Success:    true,
		Data:       []RankedProfile{},
		Pagination: &Pagination{},
	}
}

// NoQueryEnvelope signals that no ranked search was executed because there
// was nothing to search for.
func NoQueryEnvelope() *SearchEnvelope {
	return &SearchEnvelope{
		Success: false,
		Data:    []RankedProfile{},
	}
}
