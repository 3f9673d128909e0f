package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/villagehub/directory-backend/internal/query"
)

func TestBuildPlan_SeedSelectsSamplePath(t *testing.T) {
	req := query.Request{
		PageNum:    1,
		PageLimit:  20,
		Term:       "midwife", // seed wins even when a term is present
		RandomSeed: 42,
	}

	plan := query.BuildPlan(req)

	assert.Equal(t, query.ModeSample, plan.Mode)
	assert.Equal(t, int64(42), plan.SampleSeed)
	assert.Equal(t, 20, plan.SampleSize)
	assert.Equal(t, query.SampleActiveOnly, plan.SampleActiveOnly)
	assert.Nil(t, plan.Query)
}

func TestBuildPlan_EmptyTermNoSeedIsNone(t *testing.T) {
	plan := query.BuildPlan(query.Request{PageNum: 1, PageLimit: 20})
	assert.Equal(t, query.ModeNone, plan.Mode)
	assert.Nil(t, plan.Query)
}

func TestBuildPlan_RankedQueryComposition(t *testing.T) {
	lat, lng := 51.27, 0.52
	req := query.Request{
		PageNum:    2,
		PageLimit:  10,
		Term:       "doula",
		Locations:  []string{"kent", "medway"},
		Categories: []string{"birth"},
		Lat:        &lat,
		Lng:        &lng,
		View:       query.ViewList,
	}

	plan := query.BuildPlan(req)
	require.Equal(t, query.ModeRanked, plan.Mode)
	require.NotNil(t, plan.Query)
	q := plan.Query

	assert.Equal(t, "doula", q.Term)
	assert.Equal(t, 1, q.MinimumShouldMatch)
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, 10, q.Skip, "page 2 with limit 10 skips one page")
	assert.True(t, q.WithCount)

	// Active filter always leads, followed by one clause per filter key
	require.Len(t, q.Filters, 4)
	assert.Equal(t, query.FilterClause{Field: "active", Value: true}, q.Filters[0])
	assert.Equal(t, query.FilterClause{Field: "counties.kent", Value: true}, q.Filters[1])
	assert.Equal(t, query.FilterClause{Field: "counties.medway", Value: true}, q.Filters[2])
	assert.Equal(t, query.FilterClause{Field: "categories.birth", Value: true}, q.Filters[3])

	require.NotNil(t, q.Geo)
	assert.Equal(t, query.GeoBoost, q.Geo.Mode)
}

func TestBuildPlan_TextClauseWeights(t *testing.T) {
	plan := query.BuildPlan(query.Request{PageNum: 1, PageLimit: 20, Term: "yoga"})
	require.Equal(t, query.ModeRanked, plan.Mode)

	should := plan.Query.Should
	require.Len(t, should, 3)

	name := should[0]
	assert.Equal(t, []string{"name"}, name.Fields)
	assert.Equal(t, query.NameBoost, name.Boost)
	assert.True(t, name.Fuzzy)
	assert.Equal(t, query.NameMaxEdits, name.MaxEdits)
	assert.Equal(t, query.NameMaxExpansions, name.MaxExpansions)

	keywords := should[1]
	assert.Equal(t, []string{"five_words", "tags"}, keywords.Fields)
	assert.Equal(t, query.KeywordBoost, keywords.Boost)
	assert.False(t, keywords.Fuzzy)

	body := should[2]
	assert.Equal(t, []string{"details", "background"}, body.Fields)
	assert.Equal(t, query.BodyBoost, body.Boost)
	assert.False(t, body.Fuzzy)
}

func TestBuildPlan_NoFilterKeysLeavesOnlyActive(t *testing.T) {
	plan := query.BuildPlan(query.Request{PageNum: 1, PageLimit: 20, Term: "yoga"})
	require.Equal(t, query.ModeRanked, plan.Mode)

	require.Len(t, plan.Query.Filters, 1)
	assert.Equal(t, "active", plan.Query.Filters[0].Field)
	assert.Nil(t, plan.Query.Geo)
}

func TestBuildAdminPlan(t *testing.T) {
	plan := query.BuildAdminPlan("sarah", 3, 25)
	require.Equal(t, query.ModeRanked, plan.Mode)
	require.NotNil(t, plan.Query)
	q := plan.Query

	assert.Equal(t, "sarah", q.Term)
	assert.Equal(t, 50, q.Skip)
	assert.Equal(t, 25, q.Limit)
	assert.Equal(t, 1, q.MinimumShouldMatch)

	// Admin lookup sees inactive profiles and applies no directory filters
	assert.Empty(t, q.Filters)
	assert.Nil(t, q.Geo)

	require.Len(t, q.Should, 1)
	assert.Equal(t, []string{"name", "email"}, q.Should[0].Fields)
	assert.True(t, q.Should[0].Fuzzy)
	assert.Equal(t, query.NameBoost, q.Should[0].Boost)
}

func TestBuildAdminPlan_EmptyTermIsNone(t *testing.T) {
	plan := query.BuildAdminPlan("", 1, 20)
	assert.Equal(t, query.ModeNone, plan.Mode)
}

func TestBuildAdminPlan_BadWindowFallsBackToDefaults(t *testing.T) {
	plan := query.BuildAdminPlan("sarah", 0, -5)
	require.Equal(t, query.ModeRanked, plan.Mode)
	assert.Equal(t, 0, plan.Query.Skip)
	assert.Equal(t, query.DefaultPageLimit, plan.Query.Limit)
}
