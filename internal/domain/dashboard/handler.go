package dashboard

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/dashboard", summaryHandler(svc))
}

type pendingDoseResponse struct {
	MedicationID string `json:"medication_id"`
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Time         string `json:"time"`
	Status       string `json:"status"`
}

type nextAppointmentResponse struct {
	ID        string    `json:"id"`
	Doctor    string    `json:"doctor"`
	Specialty string    `json:"specialty"`
	DateTime  time.Time `json:"date_time"`
}

type summaryResponse struct {
	Date                  string                   `json:"date"`
	MedicationsDueToday   int                      `json:"medications_due_today"`
	PendingDoses          []pendingDoseResponse    `json:"pending_doses"`
	UpcomingAppointments  int                      `json:"upcoming_appointments"`
	NextAppointment       *nextAppointmentResponse `json:"next_appointment,omitempty"`
	AdherencePercent      int                      `json:"adherence_percent"`
	AdherenceDays         int                      `json:"adherence_days"`
	AdherenceTakenOfTotal [2]int                   `json:"adherence_taken_of_total"`
}

// summaryHandler godoc
// @Summary Home dashboard summary
// @Tags dashboard
// @Produce json
// @Success 200 {object} summaryResponse
// @Router /dashboard [get]
func summaryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := svc.Summary(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := summaryResponse{
			Date:                  s.Date.Format("2006-01-02"),
			MedicationsDueToday:   len(s.PendingDoses),
			PendingDoses:          make([]pendingDoseResponse, 0, len(s.PendingDoses)),
			UpcomingAppointments:  len(s.UpcomingAppointments),
			AdherencePercent:      s.Adherence.Percent,
			AdherenceDays:         s.Adherence.Days,
			AdherenceTakenOfTotal: [2]int{s.Adherence.Taken, s.Adherence.Due},
		}
		for _, d := range s.PendingDoses {
			out.PendingDoses = append(out.PendingDoses, pendingDoseResponse{
				MedicationID: d.Medication.ID,
				Name:         d.Medication.Name,
				Dosage:       d.Medication.Dosage(),
				Time:         d.Medication.TimeLabel,
				Status:       string(d.Status),
			})
		}
		if a := s.NextAppointment; a != nil {
			out.NextAppointment = &nextAppointmentResponse{
				ID:        a.ID,
				Doctor:    a.Doctor,
				Specialty: string(a.Specialty),
				DateTime:  a.At,
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(out)
	}
}
