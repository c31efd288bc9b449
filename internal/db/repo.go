package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"triage-chatbot/pkg"

	"github.com/google/uuid"
)

// ErrUnavailable marks a store failure that is an outage, not an absence of
// data. Query results that simply find nothing never carry it.
var ErrUnavailable = errors.New("db: store unavailable")

// Repository wraps the Postgres store used by the triage pipeline.
// The caller is responsible for managing the DB connection lifecycle;
// *sql.DB is safe for concurrent use.
type Repository struct {
	DB *sql.DB
}

// NewRepository constructs a new Repository from an existing sql.DB.
func NewRepository(db *sql.DB) *Repository { return &Repository{DB: db} }

// AppointmentsByPatient returns every past appointment for a patient,
// unfiltered beyond patient identity.
func (r *Repository) AppointmentsByPatient(ctx context.Context, patientID string) ([]pkg.AppointmentRecord, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, patient_id, appointment_date, symptoms_text, staff_id, patient_name, prescriptions
         FROM appointments
         WHERE patient_id = $1`, patientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var records []pkg.AppointmentRecord
	for rows.Next() {
		var rec pkg.AppointmentRecord
		var prescriptions []byte
		if err := rows.Scan(&rec.DocID, &rec.PatientID, &rec.AppointmentDate, &rec.SymptomsText,
			&rec.StaffID, &rec.PatientName, &prescriptions); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if len(prescriptions) > 0 {
			if err := json.Unmarshal(prescriptions, &rec.Prescriptions); err != nil {
				return nil, fmt.Errorf("decode prescriptions for appointment %s: %w", rec.DocID, err)
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return records, nil
}

// PractitionerName resolves the treating doctor's full name from a staff ID
// via the staff assignment row. An unknown staff ID or an unassigned staff
// member yields an empty name, not an error.
func (r *Repository) PractitionerName(ctx context.Context, staffID string) (string, error) {
	var doctorID sql.NullString
	err := r.DB.QueryRowContext(ctx,
		`SELECT assigned_doctor_id FROM staff WHERE id = $1`, staffID).Scan(&doctorID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !doctorID.Valid {
		return "", nil
	}

	var name string
	err = r.DB.QueryRowContext(ctx,
		`SELECT full_name FROM users WHERE id = $1`, doctorID.String).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return name, nil
}

// PractitionerBySpecialty returns one doctor whose specialization matches
// case-insensitively, or nil when none does. Which doctor wins among
// duplicates is deliberately unspecified; there is no ORDER BY.
func (r *Repository) PractitionerBySpecialty(ctx context.Context, specialty string) (*pkg.Practitioner, error) {
	var p pkg.Practitioner
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, full_name, specialization
         FROM users
         WHERE role = 'doctor' AND LOWER(specialization) = LOWER($1)
         LIMIT 1`, specialty).Scan(&p.ID, &p.Name, &p.Specialty)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &p, nil
}

// CreatePendingApproval inserts one pending-approval row and returns its ID.
// Each call creates a new record; there is no deduplication key.
func (r *Repository) CreatePendingApproval(ctx context.Context, patientID, doctorID, symptoms, aiOutput string) (string, error) {
	id := uuid.New()
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO pending_approvals (id, patient_id, doctor_id, symptoms, ai_output, status)
         VALUES ($1, $2, $3, $4, $5, $6)`,
		id, patientID, doctorID, symptoms, aiOutput, pkg.StatusPending)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return id.String(), nil
}
