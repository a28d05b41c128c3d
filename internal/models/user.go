package models

import "time"

const (
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;not null" json:"role"`

	Gender      string `gorm:"size:20" json:"gender"`
	DateOfBirth string `gorm:"size:10" json:"date_of_birth"`

	// Doctor profile
	Specialization    string `gorm:"size:100" json:"specialization"`
	Degrees           string `gorm:"size:255" json:"degrees"`
	ExperienceYears   int    `json:"experience_years"`
	ClinicName        string `gorm:"size:100" json:"clinic_name"`
	ClinicAddress     string `gorm:"size:255" json:"clinic_address"`
	Timezone          string `gorm:"size:50" json:"timezone"`
	ProfilePictureURL string `gorm:"size:512" json:"profile_picture_url"`

	// Schedule configuration, doctor only
	WorkStart       string `gorm:"size:5;default:'09:00'" json:"work_start"`
	WorkEnd         string `gorm:"size:5;default:'17:00'" json:"work_end"`
	SlotDurationMin int    `gorm:"default:30" json:"slot_duration_min"`

	ProfileCompleted bool `gorm:"default:false" json:"profile_completed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsDoctor() bool {
	return u.Role == RoleDoctor
}
