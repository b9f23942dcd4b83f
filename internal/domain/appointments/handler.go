package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"eldercare-reminders/internal/domain/schedule"
	"eldercare-reminders/internal/platform/validator"
)

func RegisterRoutes(r chi.Router, svc *Service, v *validator.Validator) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Post("/", bookAppointmentHandler(svc, v))
		ar.Get("/", listAppointmentsHandler(svc))
		ar.Get("/specialties", listSpecialtiesHandler())

		ar.Route("/{appointmentID}", func(ir chi.Router) {
			ir.Get("/", getAppointmentHandler(svc))
			ir.Put("/", updateAppointmentHandler(svc, v))
			ir.Patch("/", updateAppointmentHandler(svc, v))
			ir.Delete("/", deleteAppointmentHandler(svc))
			ir.Post("/complete", completeAppointmentHandler(svc))
			ir.Post("/missed", missedAppointmentHandler(svc))
		})
	})
}

// La fecha llega como date_time (RFC3339) o como date + time ("2024-03-14" + "9:00 AM").
type bookAppointmentRequest struct {
	Doctor    string     `json:"doctor" validate:"required,max=100"`
	Specialty string     `json:"specialty" validate:"required"`
	DateTime  *time.Time `json:"date_time,omitempty"`
	Date      string     `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Time      string     `json:"time,omitempty" validate:"omitempty,timelabel"`
	Clinic    string     `json:"clinic" validate:"max=200"`
	Insurance string     `json:"insurance" validate:"max=100"`
}

type updateAppointmentRequest struct {
	Doctor    *string    `json:"doctor,omitempty" validate:"omitempty,max=100"`
	Specialty *string    `json:"specialty,omitempty"`
	DateTime  *time.Time `json:"date_time,omitempty"`
	Date      string     `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Time      string     `json:"time,omitempty" validate:"omitempty,timelabel"`
	Clinic    *string    `json:"clinic,omitempty" validate:"omitempty,max=200"`
	Insurance *string    `json:"insurance,omitempty" validate:"omitempty,max=100"`
}

type appointmentResponse struct {
	ID        string    `json:"id"`
	Doctor    string    `json:"doctor"`
	Specialty string    `json:"specialty"`
	DateTime  time.Time `json:"date_time"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Clinic    string    `json:"clinic,omitempty"`
	Insurance string    `json:"insurance,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type listingResponse struct {
	Upcoming []appointmentResponse `json:"upcoming"`
	Past     []appointmentResponse `json:"past"`
}

// bookAppointmentHandler godoc
// @Summary Book appointment
// @Tags appointments
// @Accept json
// @Produce json
// @Param body body bookAppointmentRequest true "appointment"
// @Success 201 {object} appointmentResponse
// @Failure 400 {object} map[string]string
// @Router /appointments [post]
func bookAppointmentHandler(svc *Service, v *validator.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bookAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := v.Validate(req); err != nil {
			writeJSON(w, http.StatusBadRequest, v.FormatErrors(err))
			return
		}

		at, err := resolveDateTime(req.DateTime, req.Date, req.Time, svc.Now().Location())
		if err != nil || at == nil {
			http.Error(w, "invalid date/time", http.StatusBadRequest)
			return
		}

		a, err := svc.Book(r.Context(), BookInput{
			Doctor:    req.Doctor,
			Specialty: Specialty(req.Specialty),
			At:        *at,
			Clinic:    req.Clinic,
			Insurance: req.Insurance,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toAppointmentResponse(a))
	}
}

// listAppointmentsHandler godoc
// @Summary List appointments split in upcoming and past
// @Tags appointments
// @Produce json
// @Success 200 {object} listingResponse
// @Router /appointments [get]
func listAppointmentsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, err := svc.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		out := listingResponse{
			Upcoming: make([]appointmentResponse, 0, len(l.Upcoming)),
			Past:     make([]appointmentResponse, 0, len(l.Past)),
		}
		for _, a := range l.Upcoming {
			out.Upcoming = append(out.Upcoming, toAppointmentResponse(a))
		}
		for _, a := range l.Past {
			out.Past = append(out.Past, toAppointmentResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// listSpecialtiesHandler godoc
// @Summary Specialties offered by the booking form
// @Tags appointments
// @Produce json
// @Success 200 {array} string
// @Router /appointments/specialties [get]
func listSpecialtiesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Specialties)
	}
}

// getAppointmentHandler godoc
// @Summary Get appointment
// @Tags appointments
// @Produce json
// @Param appointmentID path string true "appointment id"
// @Success 200 {object} appointmentResponse
// @Failure 404 {string} string
// @Router /appointments/{appointmentID} [get]
func getAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "appointmentID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

// updateAppointmentHandler godoc
// @Summary Update appointment
// @Tags appointments
// @Accept json
// @Produce json
// @Param appointmentID path string true "appointment id"
// @Param body body updateAppointmentRequest true "fields to change"
// @Success 200 {object} appointmentResponse
// @Router /appointments/{appointmentID} [put]
func updateAppointmentHandler(svc *Service, v *validator.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := v.Validate(req); err != nil {
			writeJSON(w, http.StatusBadRequest, v.FormatErrors(err))
			return
		}

		at, err := resolveDateTime(req.DateTime, req.Date, req.Time, svc.Now().Location())
		if err != nil {
			http.Error(w, "invalid date/time", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			Doctor:    req.Doctor,
			At:        at,
			Clinic:    req.Clinic,
			Insurance: req.Insurance,
		}
		if req.Specialty != nil {
			sp := Specialty(*req.Specialty)
			in.Specialty = &sp
		}

		a, err := svc.Update(r.Context(), chi.URLParam(r, "appointmentID"), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

// deleteAppointmentHandler godoc
// @Summary Delete a past appointment
// @Tags appointments
// @Param appointmentID path string true "appointment id"
// @Success 204
// @Failure 409 {string} string
// @Router /appointments/{appointmentID} [delete]
func deleteAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "appointmentID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// completeAppointmentHandler godoc
// @Summary Mark appointment completed
// @Tags appointments
// @Produce json
// @Param appointmentID path string true "appointment id"
// @Success 200 {object} appointmentResponse
// @Router /appointments/{appointmentID}/complete [post]
func completeAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.Complete(r.Context(), chi.URLParam(r, "appointmentID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

// missedAppointmentHandler godoc
// @Summary Mark appointment missed
// @Tags appointments
// @Produce json
// @Param appointmentID path string true "appointment id"
// @Success 200 {object} appointmentResponse
// @Router /appointments/{appointmentID}/missed [post]
func missedAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.MarkMissed(r.Context(), chi.URLParam(r, "appointmentID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

// resolveDateTime devuelve nil si no vino ninguna fecha.
func resolveDateTime(dt *time.Time, date, label string, loc *time.Location) (*time.Time, error) {
	if dt != nil {
		return dt, nil
	}
	if date == "" && label == "" {
		return nil, nil
	}
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return nil, err
	}
	mins, err := schedule.ParseTimeLabel(label)
	if err != nil {
		return nil, err
	}
	at := time.Date(day.Year(), day.Month(), day.Day(), mins/60, mins%60, 0, 0, loc)
	return &at, nil
}

func toAppointmentResponse(a Appointment) appointmentResponse {
	label, _ := schedule.FormatMinutes(schedule.MinuteOfDay(a.At))
	return appointmentResponse{
		ID:        a.ID,
		Doctor:    a.Doctor,
		Specialty: string(a.Specialty),
		DateTime:  a.At,
		Date:      a.At.Format("2006-01-02"),
		Time:      label,
		Clinic:    a.Clinic,
		Insurance: a.Insurance,
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "appointment not found", http.StatusNotFound)
	case errors.Is(err, ErrBadState):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
