package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"eldercare-reminders/internal/domain/medications"
	"eldercare-reminders/internal/domain/schedule"
)

type MedicationsRepo struct {
	db *sql.DB
}

func NewMedicationsRepo(db *sql.DB) *MedicationsRepo {
	return &MedicationsRepo{db: db}
}

func (r *MedicationsRepo) Create(ctx context.Context, m medications.Medication) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO medications (
			id, name,
			dosage_amount, dosage_unit,
			time_label, frequency,
			start_date, end_date,
			notes, deleted,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		m.ID,
		m.Name,
		m.DosageAmount,
		string(m.DosageUnit),
		m.TimeLabel,
		string(m.Frequency),
		toNullDate(&m.StartDate),
		toNullDate(m.EndDate),
		m.Notes,
		m.Deleted,
		m.CreatedAt,
		m.UpdatedAt,
	)
	return err
}

func (r *MedicationsRepo) Update(ctx context.Context, m medications.Medication) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE medications
		SET
			name = $2,
			dosage_amount = $3,
			dosage_unit = $4,
			time_label = $5,
			frequency = $6,
			start_date = $7,
			end_date = $8,
			notes = $9,
			deleted = $10,
			updated_at = $11
		WHERE id = $1
	`,
		m.ID,
		m.Name,
		m.DosageAmount,
		string(m.DosageUnit),
		m.TimeLabel,
		string(m.Frequency),
		toNullDate(&m.StartDate),
		toNullDate(m.EndDate),
		m.Notes,
		m.Deleted,
		m.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return medications.ErrNotFound
	}
	return nil
}

const selectMedication = `
	SELECT
		id, name,
		dosage_amount, dosage_unit,
		time_label, frequency,
		start_date, end_date,
		notes, deleted,
		created_at, updated_at
	FROM medications
`

func (r *MedicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medications.Medication{}, medications.ErrNotFound
	}

	m, err := scanMedication(r.db.QueryRowContext(ctx, selectMedication+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return medications.Medication{}, medications.ErrNotFound
	}
	return m, err
}

func (r *MedicationsRepo) List(ctx context.Context) ([]medications.Medication, error) {
	rows, err := r.db.QueryContext(ctx, selectMedication+` ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medications.Medication, 0)
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMedication(row rowScanner) (medications.Medication, error) {
	var (
		m          medications.Medication
		unit, freq string
		start, end sql.NullTime
	)
	if err := row.Scan(
		&m.ID,
		&m.Name,
		&m.DosageAmount,
		&unit,
		&m.TimeLabel,
		&freq,
		&start,
		&end,
		&m.Notes,
		&m.Deleted,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return medications.Medication{}, err
	}

	m.DosageUnit = medications.DosageUnit(unit)
	m.Frequency = schedule.Frequency(freq)
	if s := fromNullDate(start); s != nil {
		m.StartDate = *s
	}
	m.EndDate = fromNullDate(end)
	return m, nil
}
