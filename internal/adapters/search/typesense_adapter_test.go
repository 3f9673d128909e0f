package search

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/villagehub/directory-backend/internal/query"
)

func TestBuildQueryBy(t *testing.T) {
	should := []query.TextClause{
		{Fields: []string{"name"}, Boost: query.NameBoost, Fuzzy: true, MaxEdits: 1, MaxExpansions: 5},
		{Fields: []string{"five_words", "tags"}, Boost: query.KeywordBoost},
		{Fields: []string{"details", "background"}, Boost: query.BodyBoost},
	}

	queryBy, weights, numTypos := buildQueryBy(should)

	assert.Equal(t, "name,five_words,tags,details,background", queryBy)
	assert.Equal(t, "5,3,3,1,1", weights)
	assert.Equal(t, "1,0,0,0,0", numTypos)
}

func TestBuildQueryBy_Empty(t *testing.T) {
	queryBy, weights, numTypos := buildQueryBy(nil)
	assert.Equal(t, "", queryBy)
	assert.Equal(t, "", weights)
	assert.Equal(t, "", numTypos)
}

func TestBuildFilterBy_SubFieldClausesMapToFacets(t *testing.T) {
	filters := []query.FilterClause{
		{Field: "active", Value: true},
		{Field: "counties.kent", Value: true},
		{Field: "categories.birth", Value: true},
	}

	filterBy := buildFilterBy(filters, nil)

	assert.Equal(t, "active:=true && counties:=kent && categories:=birth", filterBy)
}

func TestBuildFilterBy_GeoBoundAppendsRadiusFilter(t *testing.T) {
	geo := &query.GeoClause{
		Lat:         51.27,
		Lng:         0.52,
		Mode:        query.GeoBound,
		RadiusMiles: query.MapRadiusMiles,
	}

	filterBy := buildFilterBy([]query.FilterClause{{Field: "active", Value: true}}, geo)

	require.True(t, strings.HasPrefix(filterBy, "active:=true && geo:("))
	// 25 miles is 40.234 km
	assert.Contains(t, filterBy, "40.234 km)")
}

func TestBuildFilterBy_GeoBoostAddsNoFilter(t *testing.T) {
	geo := &query.GeoClause{
		Lat:         51.27,
		Lng:         0.52,
		Mode:        query.GeoBoost,
		PivotMeters: query.ProximityPivotMeters,
		Boost:       query.ProximityBoost,
	}

	filterBy := buildFilterBy(nil, geo)
	assert.Equal(t, "", filterBy, "a boost clause must not exclude documents")
}

func TestMaxShouldBoost(t *testing.T) {
	should := []query.TextClause{
		{Fields: []string{"name"}, Boost: 5},
		{Fields: []string{"details"}, Boost: 1},
	}
	assert.Equal(t, 5.0, maxShouldBoost(should))
	assert.Equal(t, 1.0, maxShouldBoost(nil))
}

func TestPaginationToken_ScopedToQuery(t *testing.T) {
	fpA := queryFingerprint("doula", "name,details", "active:=true")
	fpB := queryFingerprint("doula", "name,details", "active:=true && counties:=kent")
	fpC := queryFingerprint("doula", "name,details", "active:=true")

	assert.NotEqual(t, fpA, fpB, "different filters mean a different result sequence")
	assert.Equal(t, fpA, fpC, "same query composition means the same sequence")

	tokenA := paginationToken(fpA, 0)
	tokenB := paginationToken(fpA, 1)
	assert.NotEqual(t, tokenA, tokenB, "tokens encode the position")

	// Tokens are opaque but must decode as URL-safe base64
	raw, err := base64.RawURLEncoding.DecodeString(tokenA)
	require.NoError(t, err)
	assert.Contains(t, string(raw), CollectionName)
}

func TestDocumentToProfile(t *testing.T) {
	doc := map[string]interface{}{
		"id":               "p-1",
		"name":             "Sarah",
		"slug":             "sarah",
		"email":            "sarah@example.com",
		"five_words":       "calm kind experienced doula mum",
		"details":          "Doula",
		"background":       "Experienced",
		"city":             "Rochester",
		"tags":             []interface{}{"doula", "birth"},
		"counties":         []interface{}{"kent"},
		"categories":       []interface{}{"birth"},
		"active":           true,
		"geo":              []interface{}{51.38, 0.5},
		"social_instagram": "@sarah",
	}

	profile := documentToProfile(doc)

	assert.Equal(t, "p-1", profile.ID)
	assert.Equal(t, "Sarah", profile.Name)
	assert.Equal(t, []string{"doula", "birth"}, profile.Tags)
	assert.Equal(t, []string{"kent"}, profile.Counties)
	assert.True(t, profile.Active)
	assert.Equal(t, "@sarah", profile.Socials.Instagram)
	assert.Equal(t, 51.38, profile.Geo.Lat())
	assert.Equal(t, 0.5, profile.Geo.Lng())
}

func TestDocumentToProfile_MissingFields(t *testing.T) {
	profile := documentToProfile(map[string]interface{}{"id": "p-2"})

	assert.Equal(t, "p-2", profile.ID)
	assert.Empty(t, profile.Name)
	assert.Nil(t, profile.Tags)
	assert.False(t, profile.Active)
	assert.True(t, profile.Geo.IsZero())
}

func TestHaversineMeters(t *testing.T) {
	// Same point
	assert.InDelta(t, 0, haversineMeters(51.27, 0.52, 51.27, 0.52), 0.001)

	// Rochester to Maidstone is roughly 11 km
	d := haversineMeters(51.388, 0.505, 51.272, 0.529)
	assert.InDelta(t, 13000, d, 2000)

	// Symmetry
	assert.InDelta(t,
		haversineMeters(51.0, 0.0, 52.0, 1.0),
		haversineMeters(52.0, 1.0, 51.0, 0.0),
		0.001,
	)
}
