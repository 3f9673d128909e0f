package search

import (
	"context"
	"encoding/base64"
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/villagehub/directory-backend/internal/domain/entities"
	"github.com/villagehub/directory-backend/internal/domain/repositories"
	tsclient "github.com/villagehub/directory-backend/internal/infrastructure/clients/typesense"
	"github.com/villagehub/directory-backend/internal/query"
)

// CollectionName is the Typesense collection holding directory profiles
const CollectionName = "profiles"

// TypesenseAdapter implements directory search using Typesense. It translates
// one composed query into one engine call; tokenization and base relevance
// ranking stay inside the engine.
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements ProfileSearchRepository
var _ repositories.ProfileSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the profiles collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	_, err := a.client.Client().Collection(CollectionName).Retrieve(ctx)
	if err == nil {
		return nil // Collection exists
	}

	schema := &api.CollectionSchema{
		Name: CollectionName,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "slug", Type: "string"},
			{Name: "email", Type: "string"},
			{Name: "five_words", Type: "string"},
			{Name: "tags", Type: "string[]"},
			{Name: "details", Type: "string"},
			{Name: "background", Type: "string"},
			{Name: "city", Type: "string", Facet: pointer.True()},
			{Name: "counties", Type: "string[]", Facet: pointer.True()},
			{Name: "categories", Type: "string[]", Facet: pointer.True()},
			{Name: "active", Type: "bool"},
			{Name: "geo", Type: "geopoint"},
			{Name: "primary_image_url", Type: "string", Index: pointer.False(), Optional: pointer.True()},
			{Name: "social_twitter", Type: "string", Index: pointer.False(), Optional: pointer.True()},
			{Name: "social_instagram", Type: "string", Index: pointer.False(), Optional: pointer.True()},
			{Name: "social_facebook", Type: "string", Index: pointer.False(), Optional: pointer.True()},
			{Name: "social_website", Type: "string", Index: pointer.False(), Optional: pointer.True()},
			{Name: "created_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("created_at"),
	}

	_, err = a.client.Client().Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}

	return nil
}

// Index upserts a profile into the search collection
func (a *TypesenseAdapter) Index(ctx context.Context, profile *entities.Profile) error {
	document := map[string]interface{}{
		"id":         profile.ID,
		"name":       profile.Name,
		"slug":       profile.Slug,
		"email":      profile.Email,
		"five_words": profile.FiveWords,
		"tags":       emptyIfNil(profile.Tags),
		"details":    profile.Details,
		"background": profile.Background,
		"city":       profile.City,
		"counties":   emptyIfNil(profile.Counties),
		"categories": emptyIfNil(profile.Categories),
		"active":     profile.Active,
		// Typesense geopoints are [lat, lng]; the domain GeoPoint is
		// longitude-first GeoJSON.
		"geo":               []float64{profile.Geo.Lat(), profile.Geo.Lng()},
		"primary_image_url": profile.PrimaryImageURL,
		"social_twitter":    profile.Socials.Twitter,
		"social_instagram":  profile.Socials.Instagram,
		"social_facebook":   profile.Socials.Facebook,
		"social_website":    profile.Socials.Website,
		"created_at":        profile.CreatedAt.Unix(),
	}

	_, err := a.client.Client().Collection(CollectionName).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index profile: %w", err)
	}

	return nil
}

// Delete removes a profile from the search collection
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(CollectionName).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete profile from index: %w", err)
	}
	return nil
}

// Execute runs one composed query against the engine and returns the ranked
// page with the matched total count.
func (a *TypesenseAdapter) Execute(ctx context.Context, q *query.Query) (*query.Result, error) {
	if q == nil {
		return nil, fmt.Errorf("nil query")
	}

	queryBy, weights, numTypos := buildQueryBy(q.Should)
	filterBy := buildFilterBy(q.Filters, q.Geo)

	perPage := q.Limit
	if perPage < 1 {
		perPage = query.DefaultPageLimit
	}

	params := &api.SearchCollectionParams{
		Q:       pointer.String(q.Term),
		QueryBy: pointer.String(queryBy),
		Page:    pointer.Int(q.Skip/perPage + 1),
		PerPage: pointer.Int(perPage),
	}
	if weights != "" {
		params.QueryByWeights = pointer.String(weights)
	}
	if numTypos != "" {
		params.NumTypos = pointer.String(numTypos)
	}
	if filterBy != "" {
		params.FilterBy = pointer.String(filterBy)
	}

	result, err := a.client.Client().Collection(CollectionName).Documents().Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}

	res := &query.Result{}
	if result.Found != nil {
		res.Total = *result.Found
	}
	if result.Hits == nil {
		return res, nil
	}

	fingerprint := queryFingerprint(q.Term, queryBy, filterBy)
	maxBoost := maxShouldBoost(q.Should)

	// Normalize engine text ranks against the best rank on the page so the
	// proximity boost composes on a comparable scale.
	var maxTextMatch int64
	for _, hit := range *result.Hits {
		if hit.TextMatch != nil && *hit.TextMatch > maxTextMatch {
			maxTextMatch = *hit.TextMatch
		}
	}

	for i, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		profile := documentToProfile(*hit.Document)

		score := 0.0
		if hit.TextMatch != nil && maxTextMatch > 0 {
			score = float64(*hit.TextMatch) / float64(maxTextMatch) * maxBoost
		}
		if q.Geo != nil && q.Geo.Mode == query.GeoBoost && !profile.Geo.IsZero() {
			dist := haversineMeters(q.Geo.Lat, q.Geo.Lng, profile.Geo.Lat(), profile.Geo.Lng())
			score += q.Geo.Boost * query.ProximityScore(q.Geo.PivotMeters, dist)
		}

		res.Hits = append(res.Hits, query.Hit{
			Profile:         profile,
			Score:           score,
			PaginationToken: paginationToken(fingerprint, q.Skip+i),
		})
	}

	// The proximity boost can reorder within the page.
	if q.Geo != nil && q.Geo.Mode == query.GeoBoost {
		sort.SliceStable(res.Hits, func(i, j int) bool {
			return res.Hits[i].Score > res.Hits[j].Score
		})
	}

	return res, nil
}

// buildQueryBy flattens the should-clauses into the engine's query_by,
// query_by_weights and num_typos parameter triple, preserving clause order.
func buildQueryBy(should []query.TextClause) (queryBy, weights, numTypos string) {
	var fields, ws, typos []string
	for _, clause := range should {
		for _, f := range clause.Fields {
			fields = append(fields, f)
			ws = append(ws, strconv.Itoa(int(clause.Boost)))
			if clause.Fuzzy {
				typos = append(typos, strconv.Itoa(clause.MaxEdits))
			} else {
				typos = append(typos, "0")
			}
		}
	}
	return strings.Join(fields, ","), strings.Join(ws, ","), strings.Join(typos, ",")
}

// buildFilterBy renders the hard filters. Boolean sub-field clauses like
// counties.kent map onto the collection's string-array facets, and a bounding
// geo clause becomes a radius filter.
func buildFilterBy(filters []query.FilterClause, geo *query.GeoClause) string {
	var parts []string
	for _, f := range filters {
		if prefix, key, ok := strings.Cut(f.Field, "."); ok {
			parts = append(parts, fmt.Sprintf("%s:=%s", prefix, key))
		} else {
			parts = append(parts, fmt.Sprintf("%s:=%t", f.Field, f.Value))
		}
	}
	if geo != nil && geo.Mode == query.GeoBound {
		radiusKm := geo.RadiusMiles * query.MetersPerMile / 1000
		parts = append(parts, fmt.Sprintf("geo:(%f, %f, %.3f km)", geo.Lat, geo.Lng, radiusKm))
	}
	return strings.Join(parts, " && ")
}

func maxShouldBoost(should []query.TextClause) float64 {
	boost := 1.0
	for _, c := range should {
		if c.Boost > boost {
			boost = c.Boost
		}
	}
	return boost
}

// queryFingerprint scopes pagination tokens to one query's result sequence.
func queryFingerprint(term, queryBy, filterBy string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(term))
	h.Write([]byte{0})
	h.Write([]byte(queryBy))
	h.Write([]byte{0})
	h.Write([]byte(filterBy))
	return h.Sum64()
}

func paginationToken(fingerprint uint64, position int) string {
	raw := fmt.Sprintf("%s:%x:%d", CollectionName, fingerprint, position)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func documentToProfile(doc map[string]interface{}) *entities.Profile {
	profile := &entities.Profile{
		ID:              stringField(doc, "id"),
		Name:            stringField(doc, "name"),
		Slug:            stringField(doc, "slug"),
		Email:           stringField(doc, "email"),
		FiveWords:       stringField(doc, "five_words"),
		Details:         stringField(doc, "details"),
		Background:      stringField(doc, "background"),
		City:            stringField(doc, "city"),
		Tags:            stringSliceField(doc, "tags"),
		Counties:        stringSliceField(doc, "counties"),
		Categories:      stringSliceField(doc, "categories"),
		PrimaryImageURL: stringField(doc, "primary_image_url"),
		Socials: entities.Socials{
			Twitter:   stringField(doc, "social_twitter"),
			Instagram: stringField(doc, "social_instagram"),
			Facebook:  stringField(doc, "social_facebook"),
			Website:   stringField(doc, "social_website"),
		},
	}

	if active, ok := doc["active"].(bool); ok {
		profile.Active = active
	}

	if loc, ok := doc["geo"].([]interface{}); ok && len(loc) == 2 {
		lat, latOK := loc[0].(float64)
		lng, lngOK := loc[1].(float64)
		if latOK && lngOK {
			profile.Geo = entities.NewGeoPoint(lat, lng)
		}
	}

	return profile
}

func stringField(doc map[string]interface{}, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}

func stringSliceField(doc map[string]interface{}, key string) []string {
	raw, ok := doc[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	const rad = math.Pi / 180
	a := 0.5 - math.Cos((lat2-lat1)*rad)/2 +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*(1-math.Cos((lon2-lon1)*rad))/2
	return 12742000 * math.Asin(math.Sqrt(a))
}
