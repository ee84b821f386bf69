package report

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"mediassist/internal/logger"
	"mediassist/internal/profile"
	"mediassist/internal/symptom"
)

type Repository interface {
	// CreateIfAbsent writes the report only when no report exists for its
	// symptom id, in a single conditional insert. created reports false
	// when a report was already there.
	CreateIfAbsent(ctx context.Context, r *HealthReport) (created bool, err error)
	GetBySymptomID(ctx context.Context, symptomID string) (*HealthReport, error)
}

type SymptomSource interface {
	GetByID(ctx context.Context, id string) (*symptom.Record, error)
}

type ProfileSource interface {
	GetUser(ctx context.Context, id string) (*profile.User, error)
	GetMedicalInfo(ctx context.Context, userID string) (*profile.MedicalInfo, error)
}

type Service struct {
	repo     Repository
	symptoms SymptomSource
	profiles ProfileSource
	log      *logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, symptoms SymptomSource, profiles ProfileSource, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		symptoms: symptoms,
		profiles: profiles,
		log:      log,
		now:      time.Now,
	}
}

// Generate builds and persists the report for the given symptom record, or
// returns the existing one. The symptom record must exist; user profile and
// medical information are optional and fall back to placeholder values.
func (s *Service) Generate(ctx context.Context, userID, symptomID string) (*HealthReport, bool, error) {
	rec, err := s.symptoms.GetByID(ctx, symptomID)
	if err != nil {
		return nil, false, err
	}

	user, err := s.profiles.GetUser(ctx, userID)
	if err != nil {
		return nil, false, errors.Wrap(err, "accessing user record")
	}

	medical, err := s.profiles.GetMedicalInfo(ctx, userID)
	if err != nil {
		return nil, false, errors.Wrap(err, "accessing medical information")
	}

	rpt := s.assemble(userID, rec, user, medical)

	created, err := s.repo.CreateIfAbsent(ctx, rpt)
	if err != nil {
		return nil, false, errors.Wrap(err, "saving health report")
	}
	if created {
		return rpt, false, nil
	}

	existing, err := s.repo.GetBySymptomID(ctx, symptomID)
	if err != nil {
		return nil, false, errors.Wrap(err, "reading existing health report")
	}
	s.log.Info(fmt.Sprintf("health report for symptom %s already exists", symptomID))
	return existing, true, nil
}

func (s *Service) assemble(userID string, rec *symptom.Record, user *profile.User, medical *profile.MedicalInfo) *HealthReport {
	patient := PatientInfo{Name: "Unknown", Age: "Unknown", Gender: "Unknown", Email: "Unknown"}
	if user != nil {
		patient = PatientInfo{
			Name:   orPlaceholder(user.Name, "Unknown"),
			Age:    "Unknown",
			Gender: orPlaceholder(user.Gender, "Unknown"),
			Email:  orPlaceholder(user.Email, "Unknown"),
		}
		if user.Age > 0 {
			patient.Age = strconv.Itoa(user.Age)
		}
	}

	medInfo := MedicalInfo{BloodType: "Unknown", Allergies: "None", Medications: "None", Conditions: "None"}
	if medical != nil {
		medInfo = MedicalInfo{
			BloodType:   orPlaceholder(medical.BloodType, "Unknown"),
			Allergies:   orPlaceholder(medical.Allergies, "None"),
			Medications: orPlaceholder(medical.Medications, "None"),
			Conditions:  orPlaceholder(medical.Conditions, "None"),
		}
	}

	recordedAt := ""
	if !rec.CreatedAt.IsZero() {
		recordedAt = rec.CreatedAt.UTC().Format(time.RFC3339)
	}

	analysis := symptom.Prediction{}
	var highest *symptom.Ailment
	if rec.Prediction != nil {
		analysis = *rec.Prediction
		highest = symptom.HighestConfidenceAilment(rec.Prediction.PossibleAilments)
	}

	return &HealthReport{
		ID:        rec.ID,
		UserID:    userID,
		SymptomID: rec.ID,
		PatientInfo: patient,
		MedicalInfo: medInfo,
		SymptomAnalysis: SymptomAnalysis{
			Transcript: rec.Transcript,
			Symptoms:   rec.Symptoms,
			RecordedAt: recordedAt,
		},
		AIAnalysis:               analysis,
		HighestConfidenceAilment: highest,
		ReportID:                 fmt.Sprintf("HR_%s_%d", userID, s.now().Unix()),
	}
}

// Get returns the stored report by its id (== symptom id).
func (s *Service) Get(ctx context.Context, reportID string) (*HealthReport, error) {
	return s.repo.GetBySymptomID(ctx, reportID)
}

func orPlaceholder(v, placeholder string) string {
	if v == "" {
		return placeholder
	}
	return v
}
