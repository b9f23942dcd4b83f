package settings

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/settings", func(sr chi.Router) {
		sr.Get("/", getSettingsHandler(svc))
		sr.Patch("/", updateSettingsHandler(svc))
	})
}

type updateSettingsRequest struct {
	MedicationReminders  *bool `json:"medication_reminders,omitempty"`
	AppointmentReminders *bool `json:"appointment_reminders,omitempty"`
}

// getSettingsHandler godoc
// @Summary Reminder preferences
// @Tags settings
// @Produce json
// @Success 200 {object} Preferences
// @Router /settings [get]
func getSettingsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Get(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// updateSettingsHandler godoc
// @Summary Update reminder preferences
// @Tags settings
// @Accept json
// @Produce json
// @Param body body updateSettingsRequest true "flags to change"
// @Success 200 {object} Preferences
// @Router /settings [patch]
func updateSettingsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateSettingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		p, err := svc.Update(r.Context(), UpdateInput(req))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
