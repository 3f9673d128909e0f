package query

import (
	"math/rand"
	"net/url"
	"strconv"
	"strings"
)

// Defaults applied when request parameters are missing or malformed.
const (
	DefaultPageNum   = 1
	DefaultPageLimit = 20
)

// View selects how search results will be presented, which changes the role
// of the geo clause: map views bound results to a radius, list views boost
// nearby results without excluding distant ones.
type View string

const (
	ViewList View = "list"
	ViewMap  View = "map"
)

// Request holds the normalized, typed search parameters for one invocation.
type Request struct {
	PageNum    int
	PageLimit  int
	Term       string
	Locations  []string
	Categories []string
	RandomSeed int64
	Lat        *float64
	Lng        *float64
	View       View
}

// ParseRequest coerces raw request parameters into a typed Request. It never
// fails: malformed values silently fall back to their defaults.
//
// Recognized parameters: page, limit, q, floc, fcat, random, geolat, geolng, v.
func ParseRequest(values url.Values) Request {
	req := Request{
		PageNum:    positiveIntOr(values.Get("page"), DefaultPageNum),
		PageLimit:  positiveIntOr(values.Get("limit"), DefaultPageLimit),
		Term:       strings.TrimSpace(values.Get("q")),
		Locations:  SplitKeys(values.Get("floc")),
		Categories: SplitKeys(values.Get("fcat")),
		RandomSeed: seedOr(values.Get("random")),
		View:       ViewList,
	}

	if values.Get("v") == string(ViewMap) {
		req.View = ViewMap
	}

	// Coordinates are only kept as a pair; a lone latitude or longitude is
	// meaningless for either geo clause.
	lat, latOK := parseFloat(values.Get("geolat"))
	lng, lngOK := parseFloat(values.Get("geolng"))
	if latOK && lngOK {
		req.Lat = &lat
		req.Lng = &lng
	}

	return req
}

// BrowseSeed returns a nonzero pseudo-random seed. The public handler uses it
// when no search term and no explicit seed were supplied, so browsing the
// directory without a query still yields varied ordering.
func BrowseSeed() int64 {
	return rand.Int63n(1<<31-2) + 1
}

func positiveIntOr(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func seedOr(raw string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n < 1 {
		return 0
	}
	return n
}

func parseFloat(raw string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// SplitKeys splits a '+'-delimited filter list into its keys. Spaces are
// accepted as delimiters too, since '+' in a query string often arrives
// decoded as a space.
func SplitKeys(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '+' || r == ' '
	})

	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			keys = append(keys, f)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return keys
}
