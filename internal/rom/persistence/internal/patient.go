package internal

import "gaitbase/internal/rom/domain"

type Patient struct {
	PatientID   int64  `gorm:"column:patient_id;primaryKey;autoIncrement"`
	PatientCode string `gorm:"column:patient_code;index"`
	FirstName   string `gorm:"column:firstname"`
	LastName    string `gorm:"column:lastname"`
	SSN         string `gorm:"column:ssn"`
	Diagnosis   string `gorm:"column:diagnosis"`
}

func (Patient) TableName() string {
	return "patients"
}

func (p Patient) ToDomain() domain.Identity {
	return domain.Identity{
		PatientCode: p.PatientCode,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		SSN:         p.SSN,
		Diagnosis:   p.Diagnosis,
	}
}

func FromIdentity(value domain.Identity) Patient {
	return Patient{
		PatientCode: value.PatientCode,
		FirstName:   value.FirstName,
		LastName:    value.LastName,
		SSN:         value.SSN,
		Diagnosis:   value.Diagnosis,
	}
}
