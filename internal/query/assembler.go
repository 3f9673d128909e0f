package query

// Mode is the execution path chosen for a request.
type Mode int

const (
	// ModeNone means there is nothing to search: no term, no sample seed.
	// Callers must answer with the unsuccessful envelope.
	ModeNone Mode = iota
	// ModeSample bypasses relevance search and returns a uniform random
	// sample of PageLimit documents.
	ModeSample
	// ModeRanked executes the composed relevance query.
	ModeRanked
)

// SampleActiveOnly governs whether the random-sample path restricts itself to
// active profiles. The ranked path always filters on active; the sample path
// historically did not. Kept as a named switch so the asymmetry is easy to
// correct if product intent changes.
const SampleActiveOnly = false

// Query is one composed search: hard filters, weighted should-clauses, an
// optional geo fragment, and a result window. It is executed as a single call
// against the search engine.
type Query struct {
	Term               string
	Filters            []FilterClause
	Should             []TextClause
	Geo                *GeoClause
	MinimumShouldMatch int
	Skip               int
	Limit              int
	WithCount          bool
}

// Plan is the assembled execution plan for one request.
type Plan struct {
	Mode             Mode
	Query            *Query
	SampleSeed       int64
	SampleSize       int
	SampleActiveOnly bool
}

// BuildPlan assembles the execution plan for a public directory search.
//
// Three mutually exclusive paths: a requested random seed wins and selects
// the sample path; an empty term with no seed means there is nothing to
// search; otherwise one ranked query is composed from the text, filter and
// geo fragments.
func BuildPlan(req Request) Plan {
	if req.RandomSeed > 0 {
		return Plan{
			Mode:             ModeSample,
			SampleSeed:       req.RandomSeed,
			SampleSize:       req.PageLimit,
			SampleActiveOnly: SampleActiveOnly,
		}
	}

	if req.Term == "" {
		return Plan{Mode: ModeNone}
	}

	filters := []FilterClause{{Field: "active", Value: true}}
	filters = append(filters, BuildFilterClauses("counties", req.Locations)...)
	filters = append(filters, BuildFilterClauses("categories", req.Categories)...)

	should := []TextClause{
		{
			Fields:        []string{"name"},
			Boost:         NameBoost,
			Fuzzy:         true,
			MaxEdits:      NameMaxEdits,
			MaxExpansions: NameMaxExpansions,
		},
		{
			Fields: []string{"five_words", "tags"},
			Boost:  KeywordBoost,
		},
		{
			Fields: []string{"details", "background"},
			Boost:  BodyBoost,
		},
	}

	return Plan{
		Mode: ModeRanked,
		Query: &Query{
			Term:               req.Term,
			Filters:            filters,
			Should:             should,
			Geo:                BuildGeoClause(req.Lat, req.Lng, req.View),
			MinimumShouldMatch: 1,
			Skip:               (req.PageNum - 1) * req.PageLimit,
			Limit:              req.PageLimit,
			WithCount:          true,
		},
	}
}

// BuildAdminPlan assembles the restricted admin lookup: fuzzy name/email
// match only, no active filter, no geo or category/location clauses.
func BuildAdminPlan(term string, pageNum, pageLimit int) Plan {
	if term == "" {
		return Plan{Mode: ModeNone}
	}
	if pageNum < 1 {
		pageNum = DefaultPageNum
	}
	if pageLimit < 1 {
		pageLimit = DefaultPageLimit
	}

	return Plan{
		Mode: ModeRanked,
		Query: &Query{
			Term: term,
			Should: []TextClause{
				{
					Fields:        []string{"name", "email"},
					Boost:         NameBoost,
					Fuzzy:         true,
					MaxEdits:      NameMaxEdits,
					MaxExpansions: NameMaxExpansions,
				},
			},
			MinimumShouldMatch: 1,
			Skip:               (pageNum - 1) * pageLimit,
			Limit:              pageLimit,
			WithCount:          true,
		},
	}
}
