package query_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/villagehub/directory-backend/internal/domain/entities"
	"github.com/villagehub/directory-backend/internal/query"
)

func fullProfile() *entities.Profile {
	return &entities.Profile{
		ID:              "p-1",
		Name:            "Sarah Jones",
		Slug:            "sarah-jones",
		Email:           "sarah@example.com",
		Details:         "Doula serving the Medway towns",
		Background:      "Ten years of experience",
		FiveWords:       "calm kind experienced doula mum",
		Tags:            []string{"doula", "birth"},
		Socials:         entities.Socials{Instagram: "@sarahjones"},
		PrimaryImageURL: "https://img.example.com/sarah.jpg",
		City:            "Rochester",
		Counties:        []string{"kent", "medway"},
		Categories:      []string{"birth"},
		Geo:             entities.NewGeoPoint(51.38, 0.5),
		Active:          true,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
}

func TestProjectHit_CopiesPublicFields(t *testing.T) {
	hit := query.Hit{Profile: fullProfile(), Score: 7.5, PaginationToken: "tok"}

	ranked := query.ProjectHit(hit)

	assert.Equal(t, "Sarah Jones", ranked.Name)
	assert.Equal(t, "sarah-jones", ranked.Slug)
	assert.Equal(t, "@sarahjones", ranked.Socials.Instagram)
	assert.Equal(t, "calm kind experienced doula mum", ranked.FiveWords)
	assert.Equal(t, "Doula serving the Medway towns", ranked.Details)
	assert.Equal(t, "https://img.example.com/sarah.jpg", ranked.PrimaryImageURL)
	assert.Equal(t, "Rochester", ranked.City)
	assert.Equal(t, 51.38, ranked.Geo.Lat())
	assert.Equal(t, 7.5, ranked.Score)
	assert.Equal(t, "tok", ranked.PaginationToken)
}

// The public projection is an allowlist: contact and moderation fields must
// never leak into search responses, whatever the JSON encoder does.
func TestProjectHit_ExcludesPrivateFields(t *testing.T) {
	ranked := query.ProjectHit(query.Hit{Profile: fullProfile(), Score: 1})

	raw, err := json.Marshal(ranked)
	require.NoError(t, err)

	payload := string(raw)
	assert.NotContains(t, payload, "sarah@example.com")
	assert.NotContains(t, payload, `"email"`)
	assert.NotContains(t, payload, `"active"`)
	assert.NotContains(t, payload, `"id"`)
	assert.NotContains(t, payload, `"created_at"`)
	assert.NotContains(t, payload, `"background"`)
}

func TestBuildPagination(t *testing.T) {
	tests := []struct {
		name            string
		total, limit    int
		page            int
		wantTotalPages  int
		wantOffset      int
	}{
		{"exact multiple", 40, 20, 1, 2, 0},
		{"remainder rounds up", 41, 20, 1, 3, 0},
		{"zero matches still one page", 0, 20, 1, 1, 0},
		{"single result", 1, 20, 1, 1, 0},
		{"third page offset", 100, 10, 3, 10, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := query.BuildPagination(tt.total, tt.limit, tt.page)

			assert.Equal(t, tt.total, p.Count)
			assert.Equal(t, tt.limit, p.PerPage)
			assert.Equal(t, tt.page, p.PageNumber)
			assert.Equal(t, tt.wantTotalPages, p.TotalPages)
			assert.Equal(t, tt.wantOffset, p.Offset)
		})
	}
}

func TestBuildPagination_BadWindowFallsBackToDefaults(t *testing.T) {
	p := query.BuildPagination(10, 0, 0)
	assert.Equal(t, query.DefaultPageLimit, p.PerPage)
	assert.Equal(t, query.DefaultPageNum, p.PageNumber)
}

func TestEnvelope(t *testing.T) {
	res := &query.Result{
		Hits: []query.Hit{
			{Profile: fullProfile(), Score: 9.1},
			{Profile: nil, Score: 2.0}, // dropped, not projected
		},
		Total: 21,
	}

	env := query.Envelope(res, 20, 1)
	require.NotNil(t, env)

	assert.True(t, env.Success)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "sarah-jones", env.Data[0].Slug)

	require.NotNil(t, env.Pagination)
	assert.Equal(t, 21, env.Pagination.Count)
	assert.Equal(t, 2, env.Pagination.TotalPages)
}

func TestEnvelope_NilResultFailsOpen(t *testing.T) {
	env := query.Envelope(nil, 20, 1)
	require.NotNil(t, env)
	assert.True(t, env.Success)
	assert.Empty(t, env.Data)
}
