package symptom

import "time"

// Status is the one-directional lifecycle of a symptom record. A record is
// created as StatusSymptomsIdentified and flips to StatusAilmentPredicted
// exactly once, when a prediction is attached.
type Status string

const (
	StatusSymptomsIdentified Status = "symptoms_identified"
	StatusAilmentPredicted   Status = "ailment_predicted"
)

// Confidence levels a prediction may assign to an ailment, strongest first.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

const (
	UrgencyHigh   = "high"
	UrgencyMedium = "medium"
	UrgencyLow    = "low"
)

type Ailment struct {
	Name        string `json:"name"`
	Confidence  string `json:"confidence"`
	Description string `json:"description"`
}

// Prediction is the structured ailment guess produced for one record. It is
// immutable once attached.
type Prediction struct {
	PossibleAilments []Ailment `json:"possibleAilments"`
	Recommendations  []string  `json:"recommendations"`
	Urgency          string    `json:"urgency"`
	ShouldSeeDoctor  bool      `json:"shouldSeeDoctor"`
}

// SafeDefaultPrediction is the fallback used whenever the generative
// service's output cannot be parsed.
func SafeDefaultPrediction() Prediction {
	return Prediction{
		PossibleAilments: []Ailment{},
		Recommendations:  []string{"Unable to analyze symptoms. Please consult a healthcare professional."},
		Urgency:          UrgencyMedium,
		ShouldSeeDoctor:  true,
	}
}

// Record is one voice-intake session: the transcript, the symptoms pulled
// out of it, and eventually the prediction.
type Record struct {
	ID         string      `json:"id"`
	UserID     string      `json:"userId"`
	Transcript string      `json:"transcript"`
	Symptoms   []string    `json:"symptoms"`
	AudioURL   string      `json:"audioUrl,omitempty"`
	Status     Status      `json:"status"`
	Prediction *Prediction `json:"prediction,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// HistoryEntry is the wire shape of one record in the health-history list.
// Created carries the normalized ISO-8601 timestamp, empty when unknown.
type HistoryEntry struct {
	ID         string      `json:"id"`
	Transcript string      `json:"transcript"`
	Symptoms   []string    `json:"symptoms"`
	Prediction *Prediction `json:"prediction"`
	Created    string      `json:"created"`
	Status     string      `json:"status"`
}

// ConfidenceRank orders confidence labels high > medium > low; anything
// unrecognized ranks below low.
func ConfidenceRank(confidence string) int {
	switch confidence {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}

// HighestConfidenceAilment picks the entry with the maximum confidence rank,
// first occurrence winning ties. Returns nil for an empty list.
func HighestConfidenceAilment(ailments []Ailment) *Ailment {
	var best *Ailment
	bestRank := -1
	for i := range ailments {
		if rank := ConfidenceRank(ailments[i].Confidence); rank > bestRank {
			best = &ailments[i]
			bestRank = rank
		}
	}
	return best
}
