// Package report assembles the immutable health-report document: a join of
// one symptom record with snapshots of the user profile and medical
// information taken at generation time. Exactly one report exists per
// symptom record.
package report

import (
	"time"

	"mediassist/internal/symptom"
)

type PatientInfo struct {
	Name   string `json:"name"`
	Age    string `json:"age"`
	Gender string `json:"gender"`
	Email  string `json:"email"`
}

type MedicalInfo struct {
	BloodType   string `json:"bloodType"`
	Allergies   string `json:"allergies"`
	Medications string `json:"medications"`
	Conditions  string `json:"conditions"`
}

type SymptomAnalysis struct {
	Transcript string   `json:"transcript"`
	Symptoms   []string `json:"symptoms"`
	RecordedAt string   `json:"recordedAt"`
}

// HealthReport is keyed by the symptom record it was generated from. All
// nested fields are copies; later profile edits never change a report.
type HealthReport struct {
	ID                       string             `json:"id"`
	UserID                   string             `json:"userId"`
	SymptomID                string             `json:"symptomId"`
	PatientInfo              PatientInfo        `json:"patientInfo"`
	MedicalInfo              MedicalInfo        `json:"medicalInfo"`
	SymptomAnalysis          SymptomAnalysis    `json:"symptomAnalysis"`
	AIAnalysis               symptom.Prediction `json:"aiAnalysis"`
	HighestConfidenceAilment *symptom.Ailment   `json:"highestConfidenceAilment"`
	ReportID                 string             `json:"reportId"`
	ReportGeneratedAt        time.Time          `json:"reportGeneratedAt"`
}
