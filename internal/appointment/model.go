// Package appointment books follow-up visits. Each booking snapshots the
// patient info, symptoms and prediction as they stand at booking time;
// repeated bookings for the same symptom record are distinct by design.
package appointment

import (
	"time"

	"mediassist/internal/symptom"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

type PatientInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Appointment struct {
	ID            string             `json:"id"`
	UserID        string             `json:"userId"`
	SymptomID     string             `json:"symptomId"`
	PatientInfo   PatientInfo        `json:"patientInfo"`
	Symptoms      []string           `json:"symptoms"`
	AIAnalysis    symptom.Prediction `json:"aiAnalysis"`
	PreferredDate string             `json:"preferredDate"`
	PreferredTime string             `json:"preferredTime"`
	Urgency       string             `json:"urgency"`
	Notes         string             `json:"notes"`
	Status        Status             `json:"status"`
	AppointmentID string             `json:"appointmentId"`
	CreatedAt     time.Time          `json:"createdAt"`
}
