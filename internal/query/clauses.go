package query

import "fmt"

// Geo constants. The map view bounds results to a fixed radius; the list view
// boosts nearby results with a pivot-distance decay where
// score ≈ pivot / (pivot + distance).
const (
	MapRadiusMiles      = 25.0
	ProximityPivotMiles = 50.0
	MetersPerMile       = 1609.344
	ProximityPivotMeters = ProximityPivotMiles * MetersPerMile
	ProximityBoost      = 10.0
)

// Text relevance weights and fuzzy-match bounds.
const (
	NameBoost         = 5.0
	NameMaxEdits      = 1
	NameMaxExpansions = 5
	KeywordBoost      = 3.0
	BodyBoost         = 1.0
)

// FilterClause is a hard equality filter on a boolean sub-field, e.g.
// counties.kent == true. Documents failing it are excluded outright.
type FilterClause struct {
	Field string
	Value bool
}

// BuildFilterClauses converts a set of filter keys into equality clauses
// against boolean sub-fields under prefix. Any present key emits a clause;
// an empty key set emits none.
func BuildFilterClauses(prefix string, keys []string) []FilterClause {
	if len(keys) == 0 {
		return nil
	}

	clauses := make([]FilterClause, 0, len(keys))
	for _, key := range keys {
		if key == "" {
			continue
		}
		clauses = append(clauses, FilterClause{
			Field: fmt.Sprintf("%s.%s", prefix, key),
			Value: true,
		})
	}
	if len(clauses) == 0 {
		return nil
	}
	return clauses
}

// GeoMode distinguishes the two geo clause roles.
type GeoMode int

const (
	// GeoBound excludes documents outside a fixed radius. No score
	// contribution.
	GeoBound GeoMode = iota
	// GeoBoost scores documents by proximity without excluding any.
	GeoBoost
)

// GeoClause is the at-most-one geo fragment of a composed query.
type GeoClause struct {
	Lat         float64
	Lng         float64
	Mode        GeoMode
	RadiusMiles float64
	PivotMeters float64
	Boost       float64
}

// BuildGeoClause produces the geo clause for the given coordinates and view,
// or nil when no coordinates were supplied.
func BuildGeoClause(lat, lng *float64, view View) *GeoClause {
	if lat == nil || lng == nil {
		return nil
	}

	if view == ViewMap {
		return &GeoClause{
			Lat:         *lat,
			Lng:         *lng,
			Mode:        GeoBound,
			RadiusMiles: MapRadiusMiles,
		}
	}

	return &GeoClause{
		Lat:         *lat,
		Lng:         *lng,
		Mode:        GeoBoost,
		PivotMeters: ProximityPivotMeters,
		Boost:       ProximityBoost,
	}
}

// ProximityScore is the pivot-distance decay function: 1 at the coordinate,
// 0.5 at pivot distance, falling off toward 0. Monotonically decreasing in
// distance.
func ProximityScore(pivotMeters, distanceMeters float64) float64 {
	if distanceMeters < 0 {
		distanceMeters = 0
	}
	return pivotMeters / (pivotMeters + distanceMeters)
}

// TextClause is a scored, OR'd (should) clause matching the search term
// against one or more fields.
type TextClause struct {
	Fields        []string
	Boost         float64
	Fuzzy         bool
	MaxEdits      int
	MaxExpansions int
}
