package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/villagehub/directory-backend/internal/domain/providers"
	"github.com/villagehub/directory-backend/internal/infrastructure/observability"
)

// CacheConfig holds cache configuration for specific routes
type CacheConfig struct {
	TTLSeconds int
	Enabled    bool
}

// CacheMiddleware provides HTTP response caching for read-heavy routes
type CacheMiddleware struct {
	cache        providers.CacheProvider
	metrics      *observability.Metrics
	routeConfigs map[string]CacheConfig
}

// NewCacheMiddleware creates a new cache middleware. searchTTL applies to the
// search route; listings cache longer since they change less often.
func NewCacheMiddleware(cache providers.CacheProvider, metrics *observability.Metrics, searchTTL int) *CacheMiddleware {
	if searchTTL <= 0 {
		searchTTL = 300
	}
	return &CacheMiddleware{
		cache:   cache,
		metrics: metrics,
		routeConfigs: map[string]CacheConfig{
			"/api/profiles/search": {TTLSeconds: searchTTL, Enabled: true},
			"/api/profiles/slug/":  {TTLSeconds: 600, Enabled: true}, // prefix match
			"/api/profiles":        {TTLSeconds: 600, Enabled: true},
		},
	}
}

// Middleware returns the cache middleware handler
func (m *CacheMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || m.cache == nil {
			next.ServeHTTP(w, r)
			return
		}

		config := m.routeConfig(r.URL.Path)
		if !config.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		// Random browse responses must stay uncached or every visitor would
		// see the same "random" sample for the TTL window.
		if strings.HasSuffix(r.URL.Path, "/search") && r.URL.Query().Get("q") == "" {
			next.ServeHTTP(w, r)
			return
		}

		cacheKey := m.cacheKey(r)

		if cached, err := m.cache.Get(r.Context(), cacheKey); err == nil {
			if m.metrics != nil {
				observability.RecordCacheHit(r.Context(), m.metrics, r.URL.Path)
			}
			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}

		if m.metrics != nil {
			observability.RecordCacheMiss(r.Context(), m.metrics, r.URL.Path)
		}
		w.Header().Set("X-Cache", "MISS")

		recorder := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(recorder, r)

		if recorder.statusCode == http.StatusOK && recorder.body.Len() > 0 {
			if err := m.cache.Set(r.Context(), cacheKey, recorder.body.Bytes(), config.TTLSeconds); err != nil {
				log.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache response")
			}
		}
	})
}

func (m *CacheMiddleware) routeConfig(path string) CacheConfig {
	if config, ok := m.routeConfigs[path]; ok {
		return config
	}
	for route, config := range m.routeConfigs {
		if strings.HasSuffix(route, "/") && strings.HasPrefix(path, route) {
			return config
		}
	}
	return CacheConfig{}
}

func (m *CacheMiddleware) cacheKey(r *http.Request) string {
	sum := sha256.Sum256([]byte(r.URL.Path + "?" + r.URL.RawQuery))
	return fmt.Sprintf("httpcache:%s", hex.EncodeToString(sum[:]))
}

// responseRecorder captures the response body so it can be cached
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
