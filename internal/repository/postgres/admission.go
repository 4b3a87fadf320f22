package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/carewire/clinical-api/internal/model"
	"github.com/carewire/clinical-api/internal/repository"
)

type admissionRepository struct {
	db *sqlx.DB
}

func NewAdmissionRepository(db *sqlx.DB) repository.AdmissionRepository {
	return &admissionRepository{db: db}
}

func (r *admissionRepository) Create(ctx context.Context, admission *model.AdmittedPatient) error {
	query := `
		INSERT INTO admitted_patients (
			id, patient_id, hospital_id, doctor_assigned,
			support, support_no, content,
			admission_date, discharge_date, is_discharged,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	admission.ID = uuid.New()
	admission.CreatedAt = time.Now()
	admission.UpdatedAt = admission.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		admission.ID,
		admission.PatientID,
		admission.HospitalID,
		admission.DoctorAssigned,
		admission.Support,
		admission.SupportNo,
		admission.Content,
		admission.AdmissionDate,
		admission.DischargeDate,
		admission.IsDischarged,
		admission.CreatedAt,
		admission.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create admission: %w", err)
	}
	return nil
}

func (r *admissionRepository) Get(ctx context.Context, id uuid.UUID) (*model.AdmittedPatient, error) {
	query := `SELECT * FROM admitted_patients WHERE id = $1`
	var admission model.AdmittedPatient
	err := r.db.GetContext(ctx, &admission, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admission: %w", err)
	}
	return &admission, nil
}

func (r *admissionRepository) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*model.AdmittedPatient, error) {
	query := `SELECT * FROM admitted_patients WHERE hospital_id = $1 ORDER BY admission_date DESC`
	var admissions []*model.AdmittedPatient
	if err := r.db.SelectContext(ctx, &admissions, query, hospitalID); err != nil {
		return nil, fmt.Errorf("failed to list admissions: %w", err)
	}
	return admissions, nil
}

func (r *admissionRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AdmittedPatient, error) {
	query := `SELECT * FROM admitted_patients WHERE doctor_assigned = $1 ORDER BY admission_date DESC`
	var admissions []*model.AdmittedPatient
	if err := r.db.SelectContext(ctx, &admissions, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list admissions by doctor: %w", err)
	}
	return admissions, nil
}

// AssignDoctor is last-write-wins: concurrent assignments race without a
// version check and the final write determines doctor_assigned.
func (r *admissionRepository) AssignDoctor(ctx context.Context, admissionID, doctorID uuid.UUID) (*model.AdmittedPatient, error) {
	query := `
		UPDATE admitted_patients
		SET doctor_assigned = $1, updated_at = $2
		WHERE id = $3
		RETURNING *
	`
	var admission model.AdmittedPatient
	err := r.db.GetContext(ctx, &admission, query, doctorID, time.Now(), admissionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to assign doctor: %w", err)
	}
	return &admission, nil
}

// UpdateDischarge marks the episode discharged. Not reachable from the
// public contract yet; kept so the transition can be exposed without
// schema work.
func (r *admissionRepository) UpdateDischarge(ctx context.Context, admissionID uuid.UUID, dischargedAt time.Time) error {
	query := `
		UPDATE admitted_patients
		SET is_discharged = TRUE, discharge_date = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, dischargedAt, time.Now(), admissionID)
	if err != nil {
		return fmt.Errorf("failed to discharge admission: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}
