package handlers

import (
	"github.com/villagehub/directory-backend/internal/domain/entities"
)

// profilePayload is the write shape accepted on profile create/update. Geo is
// taken as a lat/lng pair and converted to the longitude-first GeoJSON point
// at the boundary.
type profilePayload struct {
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	Details         string           `json:"details"`
	Background      string           `json:"background"`
	FiveWords       string           `json:"five_words"`
	Tags            []string         `json:"tags"`
	Socials         entities.Socials `json:"socials"`
	PrimaryImageURL string           `json:"primary_image_url"`
	City            string           `json:"city"`
	Counties        []string         `json:"counties"`
	Categories      []string         `json:"categories"`
	Lat             *float64         `json:"lat"`
	Lng             *float64         `json:"lng"`
	Active          *bool            `json:"active"`
}

func (p profilePayload) toProfile() *entities.Profile {
	profile := &entities.Profile{
		Name:            p.Name,
		Email:           p.Email,
		Details:         p.Details,
		Background:      p.Background,
		FiveWords:       p.FiveWords,
		Tags:            p.Tags,
		Socials:         p.Socials,
		PrimaryImageURL: p.PrimaryImageURL,
		City:            p.City,
		Counties:        p.Counties,
		Categories:      p.Categories,
	}
	if p.Lat != nil && p.Lng != nil {
		profile.Geo = entities.NewGeoPoint(*p.Lat, *p.Lng)
	}
	if p.Active != nil {
		profile.Active = *p.Active
	}
	return profile
}

// apply overlays the payload onto an existing profile, leaving identity and
// timestamps alone.
func (p profilePayload) apply(profile *entities.Profile) {
	if p.Name != "" {
		profile.Name = p.Name
	}
	if p.Email != "" {
		profile.Email = p.Email
	}
	if p.Details != "" {
		profile.Details = p.Details
	}
	if p.Background != "" {
		profile.Background = p.Background
	}
	if p.FiveWords != "" {
		profile.FiveWords = p.FiveWords
	}
	if p.Tags != nil {
		profile.Tags = p.Tags
	}
	if p.Socials != (entities.Socials{}) {
		profile.Socials = p.Socials
	}
	if p.PrimaryImageURL != "" {
		profile.PrimaryImageURL = p.PrimaryImageURL
	}
	if p.City != "" {
		profile.City = p.City
	}
	if p.Counties != nil {
		profile.Counties = p.Counties
	}
	if p.Categories != nil {
		profile.Categories = p.Categories
	}
	if p.Lat != nil && p.Lng != nil {
		profile.Geo = entities.NewGeoPoint(*p.Lat, *p.Lng)
	}
	if p.Active != nil {
		profile.Active = *p.Active
	}
}
