package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"eldercare-reminders/internal/domain/appointments"
	"eldercare-reminders/internal/domain/schedule"
)

type AppointmentsRepo struct {
	db *sql.DB
}

func NewAppointmentsRepo(db *sql.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

func (r *AppointmentsRepo) Create(ctx context.Context, a appointments.Appointment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO appointments (
			id, doctor, specialty,
			date_time, clinic, insurance,
			status, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		a.ID,
		a.Doctor,
		string(a.Specialty),
		a.At,
		a.Clinic,
		a.Insurance,
		string(a.Status),
		a.CreatedAt,
		a.UpdatedAt,
	)
	return err
}

func (r *AppointmentsRepo) Update(ctx context.Context, a appointments.Appointment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE appointments
		SET
			doctor = $2,
			specialty = $3,
			date_time = $4,
			clinic = $5,
			insurance = $6,
			status = $7,
			updated_at = $8
		WHERE id = $1
	`,
		a.ID,
		a.Doctor,
		string(a.Specialty),
		a.At,
		a.Clinic,
		a.Insurance,
		string(a.Status),
		a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return appointments.ErrNotFound
	}
	return nil
}

const selectAppointment = `
	SELECT
		id, doctor, specialty,
		date_time, clinic, insurance,
		status, created_at, updated_at
	FROM appointments
`

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return appointments.Appointment{}, appointments.ErrNotFound
	}

	a, err := scanAppointment(r.db.QueryRowContext(ctx, selectAppointment+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return appointments.Appointment{}, appointments.ErrNotFound
	}
	return a, err
}

func (r *AppointmentsRepo) List(ctx context.Context) ([]appointments.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, selectAppointment+` ORDER BY date_time ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]appointments.Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AppointmentsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return appointments.ErrNotFound
	}
	return nil
}

func scanAppointment(row rowScanner) (appointments.Appointment, error) {
	var (
		a                 appointments.Appointment
		specialty, status string
	)
	if err := row.Scan(
		&a.ID,
		&a.Doctor,
		&specialty,
		&a.At,
		&a.Clinic,
		&a.Insurance,
		&status,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return appointments.Appointment{}, err
	}
	a.Specialty = appointments.Specialty(specialty)
	a.Status = schedule.AppointmentStatus(status)
	return a, nil
}
