package model

type Doctor struct {
	Base
	Name           string `db:"name" json:"name"`
	Email          string `db:"email" json:"email"`
	PasswordHash   string `db:"password_hash" json:"-"`
	Specialization string `db:"specialization" json:"specialization"`
	RegID          string `db:"reg_id" json:"regId"`
}

// RegisterDoctorRequest is the hospital-mediated creation path; doctors
// have no self-signup.
type RegisterDoctorRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=6"`
	Specialization string `json:"specialization" binding:"required"`
}
