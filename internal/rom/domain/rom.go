package domain

// ROM is one stored measurement session of a patient.
type ROM struct {
	ID        int64
	PatientID int64
	Row       Row
}
