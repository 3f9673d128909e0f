package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/villagehub/directory-backend/internal/application/services"
	"github.com/villagehub/directory-backend/internal/domain/repositories"
)

// ProfileHandler handles profile CRUD HTTP requests
type ProfileHandler struct {
	profileService *services.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// GetProfile handles GET /api/profiles/{id}
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profileID := r.PathValue("id")
	if profileID == "" {
		respondWithError(w, http.StatusBadRequest, "profile ID is required")
		return
	}

	profile, err := h.profileService.GetByID(r.Context(), profileID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

// GetProfileBySlug handles GET /api/profiles/slug/{slug}
func (h *ProfileHandler) GetProfileBySlug(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		respondWithError(w, http.StatusBadRequest, "profile slug is required")
		return
	}

	profile, err := h.profileService.GetBySlug(r.Context(), slug)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

// ListProfiles handles GET /api/profiles
func (h *ProfileHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()

	filter := repositories.ProfileFilter{
		County:   values.Get("county"),
		Category: values.Get("category"),
		Limit:    30,
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(values.Get("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}
	if values.Get("active") != "" {
		active := values.Get("active") == "true"
		filter.Active = &active
	}

	profiles, err := h.profileService.List(r.Context(), filter)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list profiles")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"profiles": profiles,
		"count":    len(profiles),
	})
}

// CreateProfile handles POST /api/profiles
func (h *ProfileHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var payload profilePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile := payload.toProfile()
	if err := h.profileService.Create(r.Context(), profile); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, profile)
}

// UpdateProfile handles PUT /api/profiles/{id}
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	profileID := r.PathValue("id")
	if profileID == "" {
		respondWithError(w, http.StatusBadRequest, "profile ID is required")
		return
	}

	existing, err := h.profileService.GetByID(r.Context(), profileID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	var payload profilePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payload.apply(existing)
	if err := h.profileService.Update(r.Context(), existing); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, existing)
}

// DeleteProfile handles DELETE /api/profiles/{id}
func (h *ProfileHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	profileID := r.PathValue("id")
	if profileID == "" {
		respondWithError(w, http.StatusBadRequest, "profile ID is required")
		return
	}

	if err := h.profileService.Delete(r.Context(), profileID); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
