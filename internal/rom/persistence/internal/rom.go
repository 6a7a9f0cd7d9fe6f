package internal

// ROM is the fixed part of a roms row. Measurement columns are handled as a
// dynamic column set.
type ROM struct {
	ROMID     int64 `gorm:"column:rom_id;primaryKey;autoIncrement"`
	PatientID int64 `gorm:"column:patient_id"`
}

func (ROM) TableName() string {
	return "roms"
}

const (
	ROMIDColumn     = "rom_id"
	PatientIDColumn = "patient_id"
)
