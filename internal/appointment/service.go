package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"mediassist/internal/logger"
	"mediassist/internal/profile"
	"mediassist/internal/symptom"
)

type Repository interface {
	Insert(ctx context.Context, appt *Appointment) (string, error)
	ByUser(ctx context.Context, userID string) ([]Appointment, error)
}

type SymptomSource interface {
	GetByID(ctx context.Context, id string) (*symptom.Record, error)
}

type ProfileSource interface {
	GetUser(ctx context.Context, id string) (*profile.User, error)
}

// Notifier delivers the booking heads-up to clinic staff. Delivery is best
// effort; a failed notification never fails the booking.
type Notifier interface {
	SendMessage(chatID int64, text string) error
}

type BookInput struct {
	UserID        string
	SymptomID     string
	PreferredDate string
	PreferredTime string
	Urgency       string
	Notes         string
}

type Service struct {
	repo         Repository
	symptoms     SymptomSource
	profiles     ProfileSource
	notifier     Notifier
	clinicChatID int64
	log          *logger.Logger
	now          func() time.Time
}

func NewService(repo Repository, symptoms SymptomSource, profiles ProfileSource, notifier Notifier, clinicChatID int64, log *logger.Logger) *Service {
	return &Service{
		repo:         repo,
		symptoms:     symptoms,
		profiles:     profiles,
		notifier:     notifier,
		clinicChatID: clinicChatID,
		log:          log,
		now:          time.Now,
	}
}

func (s *Service) Book(ctx context.Context, in BookInput) (*Appointment, error) {
	user, err := s.profiles.GetUser(ctx, in.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "accessing user record")
	}

	rec, err := s.symptoms.GetByID(ctx, in.SymptomID)
	if err != nil {
		return nil, err
	}

	patient := PatientInfo{Name: "Unknown", Email: "Unknown", Phone: "Unknown"}
	if user != nil {
		if user.Name != "" {
			patient.Name = user.Name
		}
		if user.Email != "" {
			patient.Email = user.Email
		}
		if user.Phone != "" {
			patient.Phone = user.Phone
		}
	}

	urgency := in.Urgency
	if urgency == "" {
		urgency = symptom.UrgencyMedium
	}

	appt := &Appointment{
		UserID:        in.UserID,
		SymptomID:     in.SymptomID,
		PatientInfo:   patient,
		Symptoms:      rec.Symptoms,
		PreferredDate: in.PreferredDate,
		PreferredTime: in.PreferredTime,
		Urgency:       urgency,
		Notes:         in.Notes,
		Status:        StatusPending,
		AppointmentID: fmt.Sprintf("APT_%s_%d", in.UserID, s.now().Unix()),
	}
	if rec.Prediction != nil {
		appt.AIAnalysis = *rec.Prediction
	}

	if _, err := s.repo.Insert(ctx, appt); err != nil {
		return nil, errors.Wrap(err, "saving appointment")
	}

	s.notify(appt)

	return appt, nil
}

func (s *Service) notify(appt *Appointment) {
	if s.notifier == nil || s.clinicChatID == 0 {
		return
	}
	text := fmt.Sprintf("New appointment request %s\nPatient: %s\nPreferred: %s %s\nUrgency: %s",
		appt.AppointmentID, appt.PatientInfo.Name, appt.PreferredDate, appt.PreferredTime, appt.Urgency)
	if err := s.notifier.SendMessage(s.clinicChatID, text); err != nil {
		s.log.Warn(fmt.Sprintf("clinic notification failed: %v", err))
	}
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Appointment, error) {
	appts, err := s.repo.ByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying appointments")
	}
	return appts, nil
}
