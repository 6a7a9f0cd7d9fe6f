package domain

import "strings"

// Identity is the read-only patient data that lives outside the ROM row.
type Identity struct {
	PatientCode string
	FirstName   string
	LastName    string
	SSN         string
	Diagnosis   string
}

func (i Identity) FullName() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}

// Fields exposes the identity under the patients table column names and the
// keys used by older report templates and backups.
func (i Identity) Fields() map[string]string {
	return map[string]string{
		"patient_code": i.PatientCode,
		"firstname":    i.FirstName,
		"lastname":     i.LastName,
		"ssn":          i.SSN,
		"diagnosis":    i.Diagnosis,
		"TiedotID":     i.PatientCode,
		"TiedotNimi":   i.FullName(),
		"TiedotHetu":   i.SSN,
		"TiedotDiag":   i.Diagnosis,
	}
}
