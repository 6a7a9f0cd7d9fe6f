package internal

import "gaitbase/internal/rom/domain"

type PatientCreateRequest struct {
	PatientCode string `json:"patient_code"`
	FirstName   string `json:"firstname"`
	LastName    string `json:"lastname"`
	SSN         string `json:"ssn"`
	Diagnosis   string `json:"diagnosis"`
}

func (r PatientCreateRequest) ToDomain() domain.Identity {
	return domain.Identity{
		PatientCode: r.PatientCode,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		SSN:         r.SSN,
		Diagnosis:   r.Diagnosis,
	}
}

type PatientResponse struct {
	ID          int64  `json:"id,omitempty"`
	PatientCode string `json:"patient_code"`
	FirstName   string `json:"firstname"`
	LastName    string `json:"lastname"`
	SSN         string `json:"ssn"`
	Diagnosis   string `json:"diagnosis"`
}

func ToPatientResponse(id int64, identity domain.Identity) PatientResponse {
	return PatientResponse{
		ID:          id,
		PatientCode: identity.PatientCode,
		FirstName:   identity.FirstName,
		LastName:    identity.LastName,
		SSN:         identity.SSN,
		Diagnosis:   identity.Diagnosis,
	}
}
