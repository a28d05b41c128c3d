package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DoctorID uint `gorm:"index" json:"doctor_id"`
	Doctor   User `gorm:"foreignKey:DoctorID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"doctor"`

	PatientID uint `gorm:"index" json:"patient_id"`
	Patient   User `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"patient"`

	SlotID uint `gorm:"index" json:"slot_id"`
	Slot   Slot `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"slot"`

	ScheduledTime time.Time `json:"scheduled_time"`
	DurationMin   int       `json:"duration_min"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	AudioURL      string `gorm:"size:512" json:"audio_url"`
	Transcription string `gorm:"type:text" json:"transcription"`
	Summary       string `gorm:"type:text" json:"summary"`

	Prescriptions []Prescription `json:"prescriptions"`

	DeclinedAt  *time.Time `json:"declined_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
