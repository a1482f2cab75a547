package handler

import (
	"net/http"

	"book-sanctuary/internal/domain"
)

// PreferenceHandler handles user preference requests
type PreferenceHandler struct {
	preferenceService domain.PreferenceService
	logger            domain.Logger
}

func NewPreferenceHandler(preferenceService domain.PreferenceService, logger domain.Logger) *PreferenceHandler {
	return &PreferenceHandler{preferenceService: preferenceService, logger: logger}
}

// GetPreferences handles GET /users/me/preferences
func (h *PreferenceHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	prefs, err := h.preferenceService.GetPreferences(r.Context(), sess)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// UpdatePreferences handles PUT /users/me/preferences. Omitted fields keep
// their current value.
func (h *PreferenceHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	var prefs domain.Preferences
	if err := decodeJSON(r, &prefs); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	updated, err := h.preferenceService.UpdatePreferences(r.Context(), sess, prefs)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
