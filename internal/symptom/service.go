package symptom

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"mediassist/internal/genai"
	"mediassist/internal/logger"
	"mediassist/internal/profile"
)

const historyLimit = 10

// TextGenerator is the generative-text dependency. Its output is treated as
// free text; the service never assumes it contains valid JSON.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type Repository interface {
	Insert(ctx context.Context, rec *Record) (string, error)
	GetByID(ctx context.Context, id string) (*Record, error)
	// AttachPrediction stores the prediction and flips the record to
	// ailment_predicted in one statement. A repeated transition is a no-op.
	AttachPrediction(ctx context.Context, id string, p Prediction) error
	RecentByUser(ctx context.Context, userID string, limit int) ([]Record, error)
}

// ProfileSource supplies the medical context for predictions. A nil user is
// a missing profile, not an error.
type ProfileSource interface {
	GetUser(ctx context.Context, id string) (*profile.User, error)
}

type SaveInput struct {
	UserID     string
	Transcript string
	Symptoms   []string
	AudioURL   string
}

type Service interface {
	// ExtractSymptoms never fails for a degraded model response; the worst
	// outcome is an empty list.
	ExtractSymptoms(ctx context.Context, transcript string) []string
	SaveRecord(ctx context.Context, in SaveInput) (string, error)
	PredictAilment(ctx context.Context, userID string, symptoms []string, symptomID string) (Prediction, error)
	History(ctx context.Context, userID string) ([]HistoryEntry, error)
}

type service struct {
	repo     Repository
	gen      TextGenerator
	profiles ProfileSource
	log      *logger.Logger
}

func NewService(repo Repository, gen TextGenerator, profiles ProfileSource, log *logger.Logger) Service {
	return &service{
		repo:     repo,
		gen:      gen,
		profiles: profiles,
		log:      log,
	}
}

func (s *service) ExtractSymptoms(ctx context.Context, transcript string) []string {
	prompt := fmt.Sprintf(extractPromptTemplate, transcript)

	text, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		s.log.Warn(fmt.Sprintf("symptom extraction call failed: %v", err))
		return []string{}
	}

	span, ok := genai.FirstJSONArray(text)
	if !ok {
		return []string{}
	}

	var symptoms []string
	if err := json.Unmarshal([]byte(span), &symptoms); err != nil {
		s.log.Warn(fmt.Sprintf("symptom extraction returned undecodable array: %v", err))
		return []string{}
	}
	return symptoms
}

func (s *service) SaveRecord(ctx context.Context, in SaveInput) (string, error) {
	rec := &Record{
		UserID:     in.UserID,
		Transcript: in.Transcript,
		Symptoms:   in.Symptoms,
		AudioURL:   in.AudioURL,
		Status:     StatusSymptomsIdentified,
	}
	id, err := s.repo.Insert(ctx, rec)
	if err != nil {
		return "", errors.Wrap(err, "saving symptom record")
	}
	return id, nil
}

func (s *service) PredictAilment(ctx context.Context, userID string, symptoms []string, symptomID string) (Prediction, error) {
	medicalContext := s.medicalContext(ctx, userID)

	prompt := fmt.Sprintf(predictPromptTemplate, strings.Join(symptoms, ", "), medicalContext)

	prediction := SafeDefaultPrediction()
	text, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		s.log.Warn(fmt.Sprintf("ailment prediction call failed: %v", err))
	} else if span, ok := genai.FirstJSONObject(text); ok {
		var parsed Prediction
		if err := json.Unmarshal([]byte(span), &parsed); err != nil {
			s.log.Warn(fmt.Sprintf("ailment prediction returned undecodable object: %v", err))
		} else {
			prediction = parsed
		}
	}

	if symptomID != "" {
		if err := s.repo.AttachPrediction(ctx, symptomID, prediction); err != nil {
			return prediction, errors.Wrap(err, "saving prediction")
		}
	}

	return prediction, nil
}

// medicalContext assembles the free-form context block from the user's
// self-reported fields, omitting empty ones. A missing profile or a failed
// lookup yields an empty context rather than failing the prediction.
func (s *service) medicalContext(ctx context.Context, userID string) string {
	user, err := s.profiles.GetUser(ctx, userID)
	if err != nil {
		s.log.Warn(fmt.Sprintf("loading medical context for %s: %v", userID, err))
		return ""
	}
	if user == nil {
		return ""
	}

	var sb strings.Builder
	if user.Allergies != "" {
		fmt.Fprintf(&sb, "Allergies: %s\n", user.Allergies)
	}
	if user.Medications != "" {
		fmt.Fprintf(&sb, "Current Medications: %s\n", user.Medications)
	}
	if user.Conditions != "" {
		fmt.Fprintf(&sb, "Chronic Conditions: %s\n", user.Conditions)
	}
	return sb.String()
}

func (s *service) History(ctx context.Context, userID string) ([]HistoryEntry, error) {
	records, err := s.repo.RecentByUser(ctx, userID, historyLimit)
	if err != nil {
		return nil, errors.Wrap(err, "querying symptom history")
	}

	entries := make([]HistoryEntry, 0, len(records))
	for _, rec := range records {
		created := ""
		if !rec.CreatedAt.IsZero() {
			created = rec.CreatedAt.UTC().Format(time.RFC3339)
		}
		entries = append(entries, HistoryEntry{
			ID:         rec.ID,
			Transcript: rec.Transcript,
			Symptoms:   rec.Symptoms,
			Prediction: rec.Prediction,
			Created:    created,
			Status:     string(rec.Status),
		})
	}
	return entries, nil
}
