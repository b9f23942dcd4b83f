package voice

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"eldercare-reminders/internal/domain/appointments"
	"eldercare-reminders/internal/domain/medications"
	"eldercare-reminders/internal/platform/validator"
)

func RegisterRoutes(r chi.Router, svc *Service, v *validator.Validator) {
	r.Route("/voice/commands", func(vr chi.Router) {
		vr.Post("/", executeCommandHandler(svc, v))
		vr.Get("/recent", recentCommandsHandler(svc))
	})
}

type commandRequest struct {
	Transcript string `json:"transcript" validate:"required,max=500"`
}

type commandResponse struct {
	Intent         string `json:"intent"`
	Transcript     string `json:"transcript"`
	Handled        bool   `json:"handled"`
	Reply          string `json:"reply"`
	MedicationID   string `json:"medication_id,omitempty"`
	AppointmentID  string `json:"appointment_id,omitempty"`
	MedicationName string `json:"medication_name,omitempty"`
	Time           string `json:"time,omitempty"`
	Specialty      string `json:"specialty,omitempty"`
	When           string `json:"when,omitempty"`
}

// executeCommandHandler godoc
// @Summary Interpret and run a voice transcript
// @Tags voice
// @Accept json
// @Produce json
// @Param body body commandRequest true "transcript"
// @Success 200 {object} commandResponse
// @Failure 400 {object} map[string]string
// @Router /voice/commands [post]
func executeCommandHandler(svc *Service, v *validator.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req commandRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := v.Validate(req); err != nil {
			writeJSON(w, http.StatusBadRequest, v.FormatErrors(err))
			return
		}

		res, err := svc.Execute(r.Context(), req.Transcript)
		if err != nil {
			switch {
			case errors.Is(err, ErrEmptyTranscript),
				errors.Is(err, medications.ErrInvalidInput),
				errors.Is(err, appointments.ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, medications.ErrBadState):
				http.Error(w, err.Error(), http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, commandResponse{
			Intent:         string(res.Command.Intent),
			Transcript:     res.Command.Transcript,
			Handled:        res.Handled,
			Reply:          res.Reply,
			MedicationID:   res.MedicationID,
			AppointmentID:  res.AppointmentID,
			MedicationName: res.Command.MedicationName,
			Time:           res.Command.TimeLabel,
			Specialty:      string(res.Command.Specialty),
			When:           string(res.Command.When),
		})
	}
}

// recentCommandsHandler godoc
// @Summary Last voice transcripts, newest first
// @Tags voice
// @Produce json
// @Success 200 {array} string
// @Router /voice/commands/recent [get]
func recentCommandsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Recent(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
