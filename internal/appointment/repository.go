package appointment

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"mediassist/internal/store"
)

type postgresRepo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) Insert(ctx context.Context, appt *Appointment) (string, error) {
	appt.ID = uuid.NewString()
	if appt.Symptoms == nil {
		appt.Symptoms = []string{}
	}

	patientJSON, err := json.Marshal(appt.PatientInfo)
	if err != nil {
		return "", err
	}
	symptomsJSON, err := json.Marshal(appt.Symptoms)
	if err != nil {
		return "", err
	}
	aiJSON, err := json.Marshal(appt.AIAnalysis)
	if err != nil {
		return "", err
	}

	query, args, err := store.Builder.
		Insert("appointments").
		Columns("id", "user_id", "symptom_id", "patient_info", "symptoms", "ai_analysis",
			"preferred_date", "preferred_time", "urgency", "notes", "status", "appointment_id").
		Values(appt.ID, appt.UserID, appt.SymptomID, string(patientJSON), string(symptomsJSON), string(aiJSON),
			appt.PreferredDate, appt.PreferredTime, appt.Urgency, appt.Notes, string(appt.Status), appt.AppointmentID).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return "", err
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&appt.CreatedAt); err != nil {
		return "", err
	}
	return appt.ID, nil
}

func (r *postgresRepo) ByUser(ctx context.Context, userID string) ([]Appointment, error) {
	query, args, err := store.Builder.
		Select("id", "user_id", "symptom_id", "patient_info", "symptoms", "ai_analysis",
			"preferred_date", "preferred_time", "urgency", "notes", "status", "appointment_id", "created_at").
		From("appointments").
		Where("user_id = ?", userID).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []Appointment
	for rows.Next() {
		var appt Appointment
		var patientJSON, symptomsJSON, aiJSON []byte

		err := rows.Scan(
			&appt.ID, &appt.UserID, &appt.SymptomID, &patientJSON, &symptomsJSON, &aiJSON,
			&appt.PreferredDate, &appt.PreferredTime, &appt.Urgency, &appt.Notes,
			&appt.Status, &appt.AppointmentID, &appt.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(patientJSON, &appt.PatientInfo); err != nil {
			return nil, errors.Wrap(err, "unmarshaling patient info")
		}
		if err := json.Unmarshal(symptomsJSON, &appt.Symptoms); err != nil {
			return nil, errors.Wrap(err, "unmarshaling symptoms")
		}
		if err := json.Unmarshal(aiJSON, &appt.AIAnalysis); err != nil {
			return nil, errors.Wrap(err, "unmarshaling ai analysis")
		}

		appts = append(appts, appt)
	}
	return appts, rows.Err()
}
