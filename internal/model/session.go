package model

// Tagged session types, one per actor. Middleware attaches exactly one of
// these to the request context; handlers retrieve the one they expect and
// never read a loosely-typed user field.

type HospitalSession struct {
	Hospital *Hospital
}

type DoctorSession struct {
	Doctor *Doctor
}

type PatientSession struct {
	Patient *Patient
}
