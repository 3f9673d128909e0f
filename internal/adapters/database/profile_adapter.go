package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"
	"github.com/villagehub/directory-backend/internal/domain/entities"
	"github.com/villagehub/directory-backend/internal/domain/repositories"
	"github.com/villagehub/directory-backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/villagehub/directory-backend/pkg/errors"
)

var profileColumns = []interface{}{
	"id", "name", "slug", "email", "details", "background", "five_words",
	"tags", "socials", "primary_image_url", "city", "counties", "categories",
	"latitude", "longitude", "active", "created_at", "updated_at",
}

// ProfileAdapter implements ProfileRepository on PostgreSQL
type ProfileAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProfileAdapter creates a new profile adapter
func NewProfileAdapter(client *postgres.Client) repositories.ProfileRepository {
	return &ProfileAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new profile
func (a *ProfileAdapter) Create(ctx context.Context, profile *entities.Profile) error {
	record, err := profileRecord(profile)
	if err != nil {
		return apperrors.NewInternalError("failed to encode profile", err)
	}

	sqlStr, args, err := a.db.Insert("profiles").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, sqlStr, args...); err != nil {
		return apperrors.NewInternalError("failed to create profile", err)
	}

	return nil
}

// GetByID retrieves a profile by ID
func (a *ProfileAdapter) GetByID(ctx context.Context, id string) (*entities.Profile, error) {
	return a.getByField(ctx, "id", id)
}

// GetBySlug retrieves a profile by its public slug
func (a *ProfileAdapter) GetBySlug(ctx context.Context, slug string) (*entities.Profile, error) {
	return a.getByField(ctx, "slug", slug)
}

func (a *ProfileAdapter) getByField(ctx context.Context, field, value string) (*entities.Profile, error) {
	sqlStr, args, err := a.db.From("profiles").
		Select(profileColumns...).
		Where(goqu.Ex{field: value}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	row := a.client.DB().QueryRowContext(ctx, sqlStr, args...)
	profile, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("profile with %s %s not found", field, value))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get profile", err)
	}

	return profile, nil
}

// Update updates a profile
func (a *ProfileAdapter) Update(ctx context.Context, profile *entities.Profile) error {
	profile.UpdatedAt = time.Now()

	record, err := profileRecord(profile)
	if err != nil {
		return apperrors.NewInternalError("failed to encode profile", err)
	}
	delete(record, "id")
	delete(record, "created_at")

	sqlStr, args, err := a.db.Update("profiles").
		Set(record).
		Where(goqu.Ex{"id": profile.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update profile", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("profile with id %s not found", profile.ID))
	}

	return nil
}

// Delete deletes a profile
func (a *ProfileAdapter) Delete(ctx context.Context, id string) error {
	sqlStr, args, err := a.db.Delete("profiles").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete profile", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("profile with id %s not found", id))
	}

	return nil
}

// List retrieves profiles with filters
func (a *ProfileAdapter) List(ctx context.Context, filter repositories.ProfileFilter) ([]*entities.Profile, error) {
	ds := a.db.From("profiles").Select(profileColumns...)

	if filter.Active != nil {
		ds = ds.Where(goqu.Ex{"active": *filter.Active})
	}
	if filter.County != "" {
		ds = ds.Where(goqu.L("? = ANY(counties)", filter.County))
	}
	if filter.Category != "" {
		ds = ds.Where(goqu.L("? = ANY(categories)", filter.Category))
	}

	ds = ds.Order(goqu.I("name").Asc())
	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	sqlStr, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	return a.queryProfiles(ctx, sqlStr, args)
}

// Sample returns a uniform random sample of size profiles. Ordering by a hash
// of the row ID and the seed keeps the sample deterministic for a given seed
// while varying across seeds.
func (a *ProfileAdapter) Sample(ctx context.Context, seed int64, size int, activeOnly bool) ([]*entities.Profile, error) {
	if size < 1 {
		return []*entities.Profile{}, nil
	}

	ds := a.db.From("profiles").Select(profileColumns...)
	if activeOnly {
		ds = ds.Where(goqu.Ex{"active": true})
	}
	ds = ds.Order(goqu.L("md5(id || ?)", strconv.FormatInt(seed, 10)).Asc()).
		Limit(uint(size))

	sqlStr, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build sample query", err)
	}

	return a.queryProfiles(ctx, sqlStr, args)
}

func (a *ProfileAdapter) queryProfiles(ctx context.Context, sqlStr string, args []interface{}) ([]*entities.Profile, error) {
	rows, err := a.client.DB().QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query profiles", err)
	}
	defer rows.Close()

	var profiles []*entities.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan profile", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read profiles", err)
	}

	if profiles == nil {
		profiles = []*entities.Profile{}
	}
	return profiles, nil
}

func profileRecord(profile *entities.Profile) (goqu.Record, error) {
	socials, err := json.Marshal(profile.Socials)
	if err != nil {
		return nil, err
	}

	return goqu.Record{
		"id":                profile.ID,
		"name":              profile.Name,
		"slug":              profile.Slug,
		"email":             profile.Email,
		"details":           profile.Details,
		"background":        profile.Background,
		"five_words":        profile.FiveWords,
		"tags":              pq.Array(profile.Tags),
		"socials":           socials,
		"primary_image_url": profile.PrimaryImageURL,
		"city":              profile.City,
		"counties":          pq.Array(profile.Counties),
		"categories":        pq.Array(profile.Categories),
		"latitude":          profile.Geo.Lat(),
		"longitude":         profile.Geo.Lng(),
		"active":            profile.Active,
		"created_at":        profile.CreatedAt,
		"updated_at":        profile.UpdatedAt,
	}, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row rowScanner) (*entities.Profile, error) {
	profile := &entities.Profile{}
	var socials []byte
	var lat, lng float64

	err := row.Scan(
		&profile.ID,
		&profile.Name,
		&profile.Slug,
		&profile.Email,
		&profile.Details,
		&profile.Background,
		&profile.FiveWords,
		pq.Array(&profile.Tags),
		&socials,
		&profile.PrimaryImageURL,
		&profile.City,
		pq.Array(&profile.Counties),
		pq.Array(&profile.Categories),
		&lat,
		&lng,
		&profile.Active,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(socials) > 0 {
		if err := json.Unmarshal(socials, &profile.Socials); err != nil {
			return nil, fmt.Errorf("failed to decode socials: %w", err)
		}
	}
	profile.Geo = entities.NewGeoPoint(lat, lng)

	return profile, nil
}
