package symptom

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediassist/internal/logger"
	"mediassist/internal/profile"
)

type fakeGenerator struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

type fakeRepo struct {
	records    map[string]*Record
	attached   map[string]Prediction
	attachErr  error
	recent     []Record
	recentErr  error
	lastLimit  int
	insertedID string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		records:  map[string]*Record{},
		attached: map[string]Prediction{},
	}
}

func (f *fakeRepo) Insert(ctx context.Context, rec *Record) (string, error) {
	f.insertedID = fmt.Sprintf("sym-%d", len(f.records)+1)
	rec.ID = f.insertedID
	f.records[rec.ID] = rec
	return rec.ID, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*Record, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return rec, nil
}

func (f *fakeRepo) AttachPrediction(ctx context.Context, id string, p Prediction) error {
	if f.attachErr != nil {
		return f.attachErr
	}
	f.attached[id] = p
	return nil
}

func (f *fakeRepo) RecentByUser(ctx context.Context, userID string, limit int) ([]Record, error) {
	f.lastLimit = limit
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	if len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

type fakeProfiles struct {
	user *profile.User
	err  error
}

func (f *fakeProfiles) GetUser(ctx context.Context, id string) (*profile.User, error) {
	return f.user, f.err
}

func newTestService(gen *fakeGenerator, repo *fakeRepo, profiles *fakeProfiles) Service {
	if repo == nil {
		repo = newFakeRepo()
	}
	if profiles == nil {
		profiles = &fakeProfiles{}
	}
	return NewService(repo, gen, profiles, logger.New("error", false))
}

func TestExtractSymptomsParsesEmbeddedArray(t *testing.T) {
	gen := &fakeGenerator{response: "Sure, here you go:\n[\"fever\", \"cough\", \"loss of smell\"]\nStay safe!"}
	svc := newTestService(gen, nil, nil)

	got := svc.ExtractSymptoms(context.Background(), "I have a fever and a cough")
	assert.Equal(t, []string{"fever", "cough", "loss of smell"}, got)
}

func TestExtractSymptomsDegradesToEmptyList(t *testing.T) {
	cases := map[string]*fakeGenerator{
		"no array in response":  {response: "I cannot identify any symptoms."},
		"undecodable array":     {response: `["fever", 42]`},
		"empty response body":   {response: ""},
		"generator call failed": {err: errors.New("upstream down")},
	}

	for name, gen := range cases {
		t.Run(name, func(t *testing.T) {
			svc := newTestService(gen, nil, nil)
			got := svc.ExtractSymptoms(context.Background(), "some transcript")
			assert.Equal(t, []string{}, got)
		})
	}
}

func TestSaveRecordStartsAsSymptomsIdentified(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(&fakeGenerator{}, repo, nil)

	id, err := svc.SaveRecord(context.Background(), SaveInput{
		UserID:     "u1",
		Transcript: "my throat hurts",
		Symptoms:   []string{"sore throat"},
	})
	require.NoError(t, err)
	assert.Equal(t, repo.insertedID, id)
	assert.Equal(t, StatusSymptomsIdentified, repo.records[id].Status)
}

func TestPredictAilmentParsesObject(t *testing.T) {
	gen := &fakeGenerator{response: `Analysis below.
{
  "possibleAilments": [{"name": "Influenza", "confidence": "high", "description": "Fever plus cough."}],
  "recommendations": ["Rest and hydrate."],
  "urgency": "low",
  "shouldSeeDoctor": false
}`}
	repo := newFakeRepo()
	svc := newTestService(gen, repo, nil)

	got, err := svc.PredictAilment(context.Background(), "u1", []string{"fever", "cough"}, "sym-9")
	require.NoError(t, err)
	assert.Equal(t, "Influenza", got.PossibleAilments[0].Name)
	assert.Equal(t, "low", got.Urgency)
	assert.False(t, got.ShouldSeeDoctor)

	// The prediction must have been persisted onto the record.
	assert.Equal(t, got, repo.attached["sym-9"])
}

func TestPredictAilmentSafeDefault(t *testing.T) {
	cases := map[string]*fakeGenerator{
		"no object in response": {response: "sorry, I can't help with that"},
		"undecodable object":    {response: `{"urgency": 17}`},
		"empty response body":   {response: ""},
		"generator call failed": {err: errors.New("upstream down")},
	}

	for name, gen := range cases {
		t.Run(name, func(t *testing.T) {
			svc := newTestService(gen, nil, nil)
			got, err := svc.PredictAilment(context.Background(), "u1", []string{"fever"}, "")
			require.NoError(t, err)
			assert.Equal(t, SafeDefaultPrediction(), got)
			assert.Equal(t, []string{"Unable to analyze symptoms. Please consult a healthcare professional."}, got.Recommendations)
			assert.Equal(t, UrgencyMedium, got.Urgency)
			assert.True(t, got.ShouldSeeDoctor)
			assert.Empty(t, got.PossibleAilments)
		})
	}
}

func TestPredictAilmentReportsPersistenceFailure(t *testing.T) {
	gen := &fakeGenerator{response: `{"possibleAilments": [], "recommendations": [], "urgency": "low", "shouldSeeDoctor": false}`}
	repo := newFakeRepo()
	repo.attachErr = errors.New("connection reset")
	svc := newTestService(gen, repo, nil)

	got, err := svc.PredictAilment(context.Background(), "u1", []string{"fever"}, "sym-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "saving prediction")
	// The computed prediction still comes back alongside the error.
	assert.Equal(t, "low", got.Urgency)
}

func TestPredictAilmentMedicalContext(t *testing.T) {
	gen := &fakeGenerator{response: "{}"}
	profiles := &fakeProfiles{user: &profile.User{
		ID:         "u1",
		Allergies:  "penicillin",
		Conditions: "asthma",
	}}
	svc := newTestService(gen, nil, profiles)

	_, err := svc.PredictAilment(context.Background(), "u1", []string{"wheezing"}, "")
	require.NoError(t, err)

	require.Len(t, gen.prompts, 1)
	prompt := gen.prompts[0]
	assert.Contains(t, prompt, "Allergies: penicillin")
	assert.Contains(t, prompt, "Chronic Conditions: asthma")
	// Empty medication field is omitted from the context block.
	assert.NotContains(t, prompt, "Current Medications")
	assert.Contains(t, prompt, "Symptoms: wheezing")
}

func TestHistoryBoundedAndNormalized(t *testing.T) {
	repo := newFakeRepo()
	for i := 0; i < 15; i++ {
		repo.recent = append(repo.recent, Record{
			ID:        fmt.Sprintf("sym-%d", i),
			UserID:    "u1",
			Status:    StatusSymptomsIdentified,
			CreatedAt: time.Date(2025, 6, 1, 12, 0, i, 0, time.UTC),
		})
	}
	svc := newTestService(&fakeGenerator{}, repo, nil)

	entries, err := svc.History(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, entries, 10)
	assert.Equal(t, 10, repo.lastLimit)
	assert.Equal(t, "2025-06-01T12:00:00Z", entries[0].Created)
	assert.True(t, strings.HasSuffix(entries[0].Created, "Z"))
}

func TestHistoryMissingTimestamp(t *testing.T) {
	repo := newFakeRepo()
	repo.recent = []Record{{ID: "sym-1", UserID: "u1"}}
	svc := newTestService(&fakeGenerator{}, repo, nil)

	entries, err := svc.History(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "", entries[0].Created)
}

func TestHighestConfidenceAilment(t *testing.T) {
	ailments := []Ailment{
		{Name: "A", Confidence: "low"},
		{Name: "B", Confidence: "high"},
		{Name: "C", Confidence: "high"},
	}
	got := HighestConfidenceAilment(ailments)
	require.NotNil(t, got)
	assert.Equal(t, "B", got.Name)

	assert.Nil(t, HighestConfidenceAilment(nil))
	assert.Nil(t, HighestConfidenceAilment([]Ailment{}))

	// Unrecognized confidence labels rank below "low".
	got = HighestConfidenceAilment([]Ailment{
		{Name: "X", Confidence: "unsure"},
		{Name: "Y", Confidence: "low"},
	})
	require.NotNil(t, got)
	assert.Equal(t, "Y", got.Name)
}
