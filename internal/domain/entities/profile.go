package entities

import "time"

// Profile represents a member listing in the community directory
type Profile struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Slug            string    `json:"slug" db:"slug"`
	Email           string    `json:"email" db:"email"`
	Details         string    `json:"details" db:"details"`
	Background      string    `json:"background" db:"background"`
	FiveWords       string    `json:"five_words" db:"five_words"`
	Tags            []string  `json:"tags,omitempty" db:"-"`
	Socials         Socials   `json:"socials" db:"-"`
	PrimaryImageURL string    `json:"primary_image_url" db:"primary_image_url"`
	City            string    `json:"city" db:"city"`
	Counties        []string  `json:"counties,omitempty" db:"-"`
	Categories      []string  `json:"categories,omitempty" db:"-"`
	Geo             GeoPoint  `json:"geo" db:"-"`
	Active          bool      `json:"active" db:"active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Socials holds a profile's public social links
type Socials struct {
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Website   string `json:"website,omitempty"`
}

// GeoPoint is a GeoJSON point. Coordinates are [longitude, latitude] —
// longitude first, everywhere this type is used.
type GeoPoint struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// NewGeoPoint builds a GeoPoint from a latitude/longitude pair
func NewGeoPoint(lat, lng float64) GeoPoint {
	return GeoPoint{
		Type:        "Point",
		Coordinates: [2]float64{lng, lat},
	}
}

// Lat returns the point's latitude
func (g GeoPoint) Lat() float64 {
	return g.Coordinates[1]
}

// Lng returns the point's longitude
func (g GeoPoint) Lng() float64 {
	return g.Coordinates[0]
}

// IsZero reports whether the point has never been set
func (g GeoPoint) IsZero() bool {
	return g.Type == "" && g.Coordinates[0] == 0 && g.Coordinates[1] == 0
}
