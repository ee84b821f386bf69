// Seeds a development database with a demo patient, their medical
// information and one analyzed symptom record.
package main

import (
	"encoding/json"
	"fmt"

	"mediassist/internal/config"
	"mediassist/internal/logger"
	"mediassist/internal/store"
	"mediassist/internal/symptom"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogJSON)

	db, err := store.Open(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal(fmt.Sprintf("could not connect to database: %v", err))
	}
	defer db.Close()

	if err := store.Migrate(cfg.DatabaseURL, cfg.MigrationsDir, log); err != nil {
		log.Fatal(fmt.Sprintf("migrations failed: %v", err))
	}

	_, err = db.Exec(`
		INSERT INTO users (id, name, email, phone, age, gender, allergies, medications, conditions)
		VALUES ('user123', 'Arnab', 'arnab@example.com', '+91-9812345678', 22, 'male', 'dust', '', 'asthma')
		ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		log.Fatal(fmt.Sprintf("seeding users: %v", err))
	}

	_, err = db.Exec(`
		INSERT INTO medical_information (user_id, blood_type, allergies, medications, conditions)
		VALUES ('user123', 'B+', 'dust', '', 'asthma')
		ON CONFLICT (user_id) DO NOTHING`)
	if err != nil {
		log.Fatal(fmt.Sprintf("seeding medical information: %v", err))
	}

	prediction := symptom.Prediction{
		PossibleAilments: []symptom.Ailment{
			{Name: "Common Cold", Confidence: symptom.ConfidenceHigh, Description: "Dry cough and mild fever over one night."},
			{Name: "Viral Fever", Confidence: symptom.ConfidenceMedium, Description: "Fever without localized infection signs."},
		},
		Recommendations: []string{"Rest, hydrate, and monitor temperature."},
		Urgency:         symptom.UrgencyLow,
		ShouldSeeDoctor: false,
	}
	predictionJSON, err := json.Marshal(prediction)
	if err != nil {
		log.Fatal(err.Error())
	}

	_, err = db.Exec(`
		INSERT INTO user_symptoms (id, user_id, transcript, symptoms, status, prediction, predicted_at)
		VALUES ('seed-symptom-1', 'user123', 'Dry cough since last night and I feel feverish',
		        '["cough", "fever"]', $1, $2, now())
		ON CONFLICT (id) DO NOTHING`,
		string(symptom.StatusAilmentPredicted), string(predictionJSON))
	if err != nil {
		log.Fatal(fmt.Sprintf("seeding symptom records: %v", err))
	}

	log.Info("seeding complete")
}
