package model

import "time"

type Patient struct {
	Base
	Name         string     `db:"name" json:"name"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	DOB          *time.Time `db:"dob" json:"dob,omitempty"`
	Gender       *string    `db:"gender" json:"gender,omitempty"`
	Address      *string    `db:"address" json:"address,omitempty"`
	Age          *int       `db:"age" json:"age,omitempty"`
	RegID        string     `db:"reg_id" json:"regId"`
}

// SignupPatientRequest is the self-signup path. The hospital-mediated path
// uses RegisterPatientRequest; the record shape is identical, only the
// caller differs.
type SignupPatientRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type RegisterPatientRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6"`
	Age      *int    `json:"age"`
	Gender   *string `json:"gender" binding:"omitempty,oneof=male female other"`
}

// DeletePatientRequest re-verifies credentials before the hard delete.
type DeletePatientRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
