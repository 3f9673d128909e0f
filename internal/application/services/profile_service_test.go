package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/villagehub/directory-backend/internal/application/services"
	"github.com/villagehub/directory-backend/internal/domain/entities"
	apperrors "github.com/villagehub/directory-backend/pkg/errors"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Sarah Jones", "sarah-jones"},
		{"  Sarah   Jones  ", "sarah-jones"},
		{"Sarah & Co.", "sarah-co"},
		{"Émilie", "milie"},
		{"already-a-slug", "already-a-slug"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, services.Slugify(tt.name), "name=%q", tt.name)
	}
}

func TestProfileCreate_RequiresName(t *testing.T) {
	svc := services.NewProfileService(&fakeProfileRepo{}, nil, nil)

	err := svc.Create(context.Background(), &entities.Profile{Name: "   "})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestProfileCreate_FillsIDSlugAndTimestamps(t *testing.T) {
	svc := services.NewProfileService(&fakeProfileRepo{}, nil, nil)

	profile := &entities.Profile{Name: "Sarah Jones"}
	require.NoError(t, svc.Create(context.Background(), profile))

	assert.NotEmpty(t, profile.ID)
	assert.Equal(t, "sarah-jones", profile.Slug)
	assert.False(t, profile.CreatedAt.IsZero())
	assert.Equal(t, profile.CreatedAt, profile.UpdatedAt)
}

func TestProfileCreate_KeepsExplicitSlug(t *testing.T) {
	svc := services.NewProfileService(&fakeProfileRepo{}, nil, nil)

	profile := &entities.Profile{Name: "Sarah Jones", Slug: "custom-slug"}
	require.NoError(t, svc.Create(context.Background(), profile))

	assert.Equal(t, "custom-slug", profile.Slug)
}

// Index failures must not fail the write: the indexer reconciles later.
func TestProfileCreate_SurvivesIndexFailure(t *testing.T) {
	engine := &fakeSearchEngine{indexErr: errors.New("engine down")}
	svc := services.NewProfileService(&fakeProfileRepo{}, engine, nil)

	err := svc.Create(context.Background(), &entities.Profile{Name: "Sarah Jones"})
	require.NoError(t, err)
}
