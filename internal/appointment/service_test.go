package appointment

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediassist/internal/httpx"
	"mediassist/internal/logger"
	"mediassist/internal/profile"
	"mediassist/internal/symptom"
)

type fakeApptRepo struct {
	appts []Appointment
}

func (f *fakeApptRepo) Insert(ctx context.Context, appt *Appointment) (string, error) {
	appt.ID = fmt.Sprintf("appt-%d", len(f.appts)+1)
	appt.CreatedAt = time.Now()
	f.appts = append(f.appts, *appt)
	return appt.ID, nil
}

func (f *fakeApptRepo) ByUser(ctx context.Context, userID string) ([]Appointment, error) {
	var out []Appointment
	for _, a := range f.appts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeSymptoms struct {
	records map[string]*symptom.Record
}

func (f *fakeSymptoms) GetByID(ctx context.Context, id string) (*symptom.Record, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, httpx.ErrNotFound
	}
	return rec, nil
}

type fakeProfiles struct {
	user *profile.User
}

func (f *fakeProfiles) GetUser(ctx context.Context, id string) (*profile.User, error) {
	return f.user, nil
}

type fakeNotifier struct {
	sent []string
	err  error
}

func (f *fakeNotifier) SendMessage(chatID int64, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, text)
	return nil
}

func testSymptomRecord() *symptom.Record {
	return &symptom.Record{
		ID:       "sym-1",
		UserID:   "u1",
		Symptoms: []string{"fever", "cough"},
		Status:   symptom.StatusAilmentPredicted,
		Prediction: &symptom.Prediction{
			PossibleAilments: []symptom.Ailment{{Name: "Flu", Confidence: "high"}},
			Urgency:          "medium",
			ShouldSeeDoctor:  true,
		},
	}
}

func TestBookCreatesDistinctAppointments(t *testing.T) {
	repo := &fakeApptRepo{}
	symptoms := &fakeSymptoms{records: map[string]*symptom.Record{"sym-1": testSymptomRecord()}}
	svc := NewService(repo, symptoms, &fakeProfiles{}, nil, 0, logger.New("error", false))

	in := BookInput{UserID: "u1", SymptomID: "sym-1", PreferredDate: "2025-06-13", PreferredTime: "10:30"}

	first, err := svc.Book(context.Background(), in)
	require.NoError(t, err)
	second, err := svc.Book(context.Background(), in)
	require.NoError(t, err)

	// No idempotence here: identical input books twice.
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, repo.appts, 2)
}

func TestBookSnapshotsSymptomRecord(t *testing.T) {
	repo := &fakeApptRepo{}
	symptoms := &fakeSymptoms{records: map[string]*symptom.Record{"sym-1": testSymptomRecord()}}
	profiles := &fakeProfiles{user: &profile.User{ID: "u1", Name: "Arnab", Email: "arnab@example.com"}}
	svc := NewService(repo, symptoms, profiles, nil, 0, logger.New("error", false))

	appt, err := svc.Book(context.Background(), BookInput{UserID: "u1", SymptomID: "sym-1"})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, appt.Status)
	assert.Equal(t, []string{"fever", "cough"}, appt.Symptoms)
	assert.Equal(t, "Flu", appt.AIAnalysis.PossibleAilments[0].Name)
	assert.Equal(t, "Arnab", appt.PatientInfo.Name)
	// Phone was never registered, placeholder applies.
	assert.Equal(t, "Unknown", appt.PatientInfo.Phone)
	assert.Contains(t, appt.AppointmentID, "APT_u1_")
}

func TestBookDefaultsUrgency(t *testing.T) {
	repo := &fakeApptRepo{}
	symptoms := &fakeSymptoms{records: map[string]*symptom.Record{"sym-1": testSymptomRecord()}}
	svc := NewService(repo, symptoms, &fakeProfiles{}, nil, 0, logger.New("error", false))

	appt, err := svc.Book(context.Background(), BookInput{UserID: "u1", SymptomID: "sym-1"})
	require.NoError(t, err)
	assert.Equal(t, "medium", appt.Urgency)

	appt, err = svc.Book(context.Background(), BookInput{UserID: "u1", SymptomID: "sym-1", Urgency: "high"})
	require.NoError(t, err)
	assert.Equal(t, "high", appt.Urgency)
}

func TestBookMissingSymptomRecord(t *testing.T) {
	repo := &fakeApptRepo{}
	symptoms := &fakeSymptoms{records: map[string]*symptom.Record{}}
	svc := NewService(repo, symptoms, &fakeProfiles{}, nil, 0, logger.New("error", false))

	_, err := svc.Book(context.Background(), BookInput{UserID: "u1", SymptomID: "missing"})
	require.Error(t, err)
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestBookNotifiesClinicBestEffort(t *testing.T) {
	repo := &fakeApptRepo{}
	symptoms := &fakeSymptoms{records: map[string]*symptom.Record{"sym-1": testSymptomRecord()}}

	notifier := &fakeNotifier{}
	svc := NewService(repo, symptoms, &fakeProfiles{}, notifier, 42, logger.New("error", false))
	appt, err := svc.Book(context.Background(), BookInput{UserID: "u1", SymptomID: "sym-1"})
	require.NoError(t, err)
	require.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0], appt.AppointmentID)

	// A broken notifier must not fail the booking.
	notifier.err = errors.New("telegram down")
	_, err = svc.Book(context.Background(), BookInput{UserID: "u1", SymptomID: "sym-1"})
	require.NoError(t, err)
}
