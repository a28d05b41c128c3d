package dto

import "time"

type AppointmentListDTO struct {
	ID            uint      `json:"id"`
	ScheduledTime time.Time `json:"scheduled_time"`
	DurationMin   int       `json:"duration_min"`
	Status        string    `json:"status"`
	DoctorName    string    `json:"doctor_name"`
	PatientName   string    `json:"patient_name"`
	HasSummary    bool      `json:"has_summary"`
}
