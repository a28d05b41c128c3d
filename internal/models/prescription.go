package models

import "time"

type Prescription struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	AppointmentID uint `gorm:"index" json:"appointment_id"`

	Name              string `gorm:"size:100;not null" json:"name"`
	Dosage            string `gorm:"size:100" json:"dosage"`
	Purpose           string `gorm:"size:255" json:"purpose"`
	UsageInstructions string `gorm:"size:255" json:"usage_instructions"`

	CreatedAt time.Time `json:"created_at"`
}
