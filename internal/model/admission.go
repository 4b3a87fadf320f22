package model

import (
	"time"

	"github.com/google/uuid"
)

// AdmittedPatient is one hospitalization episode. A patient may hold several
// episodes over time, concurrent ones included; episodes are never deleted,
// only marked discharged.
type AdmittedPatient struct {
	Base
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	HospitalID     uuid.UUID  `db:"hospital_id" json:"hospital_id"`
	DoctorAssigned *uuid.UUID `db:"doctor_assigned" json:"doctorAssigned"`
	Support        string     `db:"support" json:"support"`
	SupportNo      int        `db:"support_no" json:"supportNo"`
	Content        string     `db:"content" json:"content"`
	AdmissionDate  time.Time  `db:"admission_date" json:"admissionDate"`
	DischargeDate  *time.Time `db:"discharge_date" json:"dischargeDate,omitempty"`
	IsDischarged   bool       `db:"is_discharged" json:"isDischarged"`
}

type AdmitPatientRequest struct {
	PatientID string `json:"patientId" binding:"required"`
	Support   string `json:"support" binding:"required"`
	SupportNo int    `json:"supportNo" binding:"required"`
	Content   string `json:"content" binding:"required"`
}

// AssignDoctorRequest targets an admission record, not the patient itself.
type AssignDoctorRequest struct {
	AdmissionID string `json:"patientId" binding:"required"`
	DoctorID    string `json:"doctorId" binding:"required"`
}
