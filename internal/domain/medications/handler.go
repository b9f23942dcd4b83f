package medications

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
	r.Route("/medications", func(mr chi.Router) {
		mr.Post("/", createMedicationHandler(svc, v))
		mr.Get("/", listMedicationsHandler(svc))
		mr.Get("/agenda", agendaHandler(svc))

		mr.Route("/{medicationID}", func(ir chi.Router) {
			ir.Get("/", getMedicationHandler(svc))
			ir.Put("/", updateMedicationHandler(svc, v))
			ir.Patch("/", updateMedicationHandler(svc, v))
			ir.Delete("/", deleteMedicationHandler(svc))
			ir.Post("/taken", markTakenHandler(svc))
			ir.Delete("/taken", undoTakenHandler(svc))
		})
	})
}

type createMedicationRequest struct {
	Name      string  `json:"name" validate:"required,max=100"`
	Dosage    string  `json:"dosage" validate:"max=40"`
	Unit      string  `json:"unit" validate:"required"`
	Time      string  `json:"time" validate:"required,timelabel"`
	Frequency string  `json:"frequency" validate:"required,oneof='Daily' 'Every Other Day' 'Weekly'"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Notes     string  `json:"notes" validate:"max=500"`
}

type updateMedicationRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Dosage       *string `json:"dosage,omitempty" validate:"omitempty,max=40"`
	Unit         *string `json:"unit,omitempty"`
	Time         *string `json:"time,omitempty" validate:"omitempty,timelabel"`
	Frequency    *string `json:"frequency,omitempty" validate:"omitempty,oneof='Daily' 'Every Other Day' 'Weekly'"`
	StartDate    *string `json:"start_date,omitempty"`
	EndDate      *string `json:"end_date,omitempty"`
	ClearEndDate bool    `json:"clear_end_date,omitempty"`
	Notes        *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type medicationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Dosage    string    `json:"dosage"`
	Amount    string    `json:"amount"`
	Unit      string    `json:"unit"`
	Time      string    `json:"time"`
	Frequency string    `json:"frequency"`
	StartDate string    `json:"start_date,omitempty"`
	EndDate   string    `json:"end_date,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type doseResponse struct {
	Medication medicationResponse `json:"medication"`
	Date       string             `json:"date"`
	Bucket     string             `json:"bucket"`
	Status     string             `json:"status"`
}

type sectionResponse struct {
	Bucket string         `json:"bucket"`
	Items  []doseResponse `json:"items"`
}

type agendaResponse struct {
	View     string            `json:"view"`
	Date     string            `json:"date"`
	Sections []sectionResponse `json:"sections"`
}

// createMedicationHandler godoc
// @Summary Create medication
// @Tags medications
// @Accept json
// @Produce json
// @Param body body createMedicationRequest true "medication"
// @Success 201 {object} medicationResponse
// @Failure 400 {object} map[string]string
// @Router /medications [post]
func createMedicationHandler(svc *Service, v *validator.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := v.Validate(req); err != nil {
			writeJSON(w, http.StatusBadRequest, v.FormatErrors(err))
			return
		}

		loc := svc.Today().Location()
		start, err := parseDatePtr(req.StartDate, loc)
		if err != nil {
			http.Error(w, "invalid start_date", http.StatusBadRequest)
			return
		}
		end, err := parseDatePtr(req.EndDate, loc)
		if err != nil {
			http.Error(w, "invalid end_date", http.StatusBadRequest)
			return
		}

		m, err := svc.Create(r.Context(), CreateInput{
			Name:         req.Name,
			DosageAmount: req.Dosage,
			DosageUnit:   DosageUnit(req.Unit),
			Time:         req.Time,
			Frequency:    schedule.Frequency(req.Frequency),
			StartDate:    start,
			EndDate:      end,
			Notes:        req.Notes,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toMedicationResponse(m))
	}
}

// listMedicationsHandler godoc
// @Summary List medications sorted by time of day
// @Tags medications
// @Produce json
// @Success 200 {array} medicationResponse
// @Router /medications [get]
func listMedicationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]medicationResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMedicationResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getMedicationHandler godoc
// @Summary Get medication
// @Tags medications
// @Produce json
// @Param medicationID path string true "medication id"
// @Success 200 {object} medicationResponse
// @Failure 404 {string} string
// @Router /medications/{medicationID} [get]
func getMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.GetByID(r.Context(), chi.URLParam(r, "medicationID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

// updateMedicationHandler godoc
// @Summary Update medication (partial)
// @Tags medications
// @Accept json
// @Produce json
// @Param medicationID path string true "medication id"
// @Param body body updateMedicationRequest true "fields to change"
// @Success 200 {object} medicationResponse
// @Router /medications/{medicationID} [put]
func updateMedicationHandler(svc *Service, v *validator.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := v.Validate(req); err != nil {
			writeJSON(w, http.StatusBadRequest, v.FormatErrors(err))
			return
		}

		loc := svc.Today().Location()
		start, err := parseDatePtr(req.StartDate, loc)
		if err != nil {
			http.Error(w, "invalid start_date", http.StatusBadRequest)
			return
		}
		end, err := parseDatePtr(req.EndDate, loc)
		if err != nil {
			http.Error(w, "invalid end_date", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			Name:         req.Name,
			DosageAmount: req.Dosage,
			Time:         req.Time,
			StartDate:    start,
			EndDate:      end,
			ClearEndDate: req.ClearEndDate,
			Notes:        req.Notes,
		}
		if req.Unit != nil {
			u := DosageUnit(*req.Unit)
			in.DosageUnit = &u
		}
		if req.Frequency != nil {
			f := schedule.Frequency(*req.Frequency)
			in.Frequency = &f
		}

		m, err := svc.Update(r.Context(), chi.URLParam(r, "medicationID"), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

// deleteMedicationHandler godoc
// @Summary Delete medication
// @Tags medications
// @Param medicationID path string true "medication id"
// @Success 204
// @Router /medications/{medicationID} [delete]
func deleteMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "medicationID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// markTakenHandler godoc
// @Summary Mark today's dose as taken
// @Tags medications
// @Produce json
// @Param medicationID path string true "medication id"
// @Success 200 {object} doseResponse
// @Failure 409 {string} string
// @Router /medications/{medicationID}/taken [post]
func markTakenHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.MarkTaken(r.Context(), chi.URLParam(r, "medicationID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDoseResponse(d))
	}
}

// undoTakenHandler godoc
// @Summary Undo today's intake
// @Tags medications
// @Produce json
// @Param medicationID path string true "medication id"
// @Success 200 {object} doseResponse
// @Router /medications/{medicationID}/taken [delete]
func undoTakenHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.UndoTaken(r.Context(), chi.URLParam(r, "medicationID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDoseResponse(d))
	}
}

// agendaHandler godoc
// @Summary Medication agenda grouped by time of day
// @Tags medications
// @Produce json
// @Param view query string false "today | tomorrow | upcoming"
// @Success 200 {object} agendaResponse
// @Router /medications/agenda [get]
func agendaHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, ok := ParseView(r.URL.Query().Get("view"))
		if !ok {
			http.Error(w, "invalid view", http.StatusBadRequest)
			return
		}
		a, err := svc.Agenda(r.Context(), view)
		if err != nil {
			writeError(w, err)
			return
		}

		out := agendaResponse{
			View:     string(a.View),
			Date:     a.Date.Format(dateLayout),
			Sections: make([]sectionResponse, 0, len(a.Sections)),
		}
		for _, sec := range a.Sections {
			items := make([]doseResponse, 0, len(sec.Items))
			for _, d := range sec.Items {
				items = append(items, toDoseResponse(d))
			}
			out.Sections = append(out.Sections, sectionResponse{Bucket: string(sec.Bucket), Items: items})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

const dateLayout = "2006-01-02"

func parseDatePtr(s *string, loc *time.Location) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, *s, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toMedicationResponse(m Medication) medicationResponse {
	out := medicationResponse{
		ID:        m.ID,
		Name:      m.Name,
		Dosage:    m.Dosage(),
		Amount:    m.DosageAmount,
		Unit:      string(m.DosageUnit),
		Time:      m.TimeLabel,
		Frequency: string(m.Frequency),
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if !m.StartDate.IsZero() {
		out.StartDate = m.StartDate.Format(dateLayout)
	}
	if m.EndDate != nil {
		out.EndDate = m.EndDate.Format(dateLayout)
	}
	return out
}

func toDoseResponse(d Dose) doseResponse {
	return doseResponse{
		Medication: toMedicationResponse(d.Medication),
		Date:       d.Date.Format(dateLayout),
		Bucket:     string(d.Bucket),
		Status:     string(d.Status),
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "medication not found", http.StatusNotFound)
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
