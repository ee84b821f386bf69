package report

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	"mediassist/internal/httpx"
	"mediassist/internal/store"
)

type postgresRepo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) CreateIfAbsent(ctx context.Context, rpt *HealthReport) (bool, error) {
	patientJSON, err := json.Marshal(rpt.PatientInfo)
	if err != nil {
		return false, err
	}
	medicalJSON, err := json.Marshal(rpt.MedicalInfo)
	if err != nil {
		return false, err
	}
	analysisJSON, err := json.Marshal(rpt.SymptomAnalysis)
	if err != nil {
		return false, err
	}
	aiJSON, err := json.Marshal(rpt.AIAnalysis)
	if err != nil {
		return false, err
	}
	var highestJSON []byte
	if rpt.HighestConfidenceAilment != nil {
		highestJSON, err = json.Marshal(rpt.HighestConfidenceAilment)
		if err != nil {
			return false, err
		}
	}

	query, args, err := store.Builder.
		Insert("health_reports").
		Columns("symptom_id", "user_id", "patient_info", "medical_info", "symptom_analysis",
			"ai_analysis", "highest_confidence_ailment", "report_id").
		Values(rpt.SymptomID, rpt.UserID, string(patientJSON), string(medicalJSON), string(analysisJSON),
			string(aiJSON), highestParam(highestJSON), rpt.ReportID).
		Suffix("ON CONFLICT (symptom_id) DO NOTHING RETURNING report_generated_at").
		ToSql()
	if err != nil {
		return false, err
	}

	err = r.db.QueryRowContext(ctx, query, args...).Scan(&rpt.ReportGeneratedAt)
	if err == sql.ErrNoRows {
		// Conflict: a report for this symptom id already exists.
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// highestParam keeps a missing highest-confidence ailment as SQL NULL; a
// plain string conversion would write the empty string into the jsonb column.
func highestParam(data []byte) interface{} {
	if len(data) == 0 {
		return nil
	}
	return string(data)
}

func (r *postgresRepo) GetBySymptomID(ctx context.Context, symptomID string) (*HealthReport, error) {
	query, args, err := store.Builder.
		Select("symptom_id", "user_id", "patient_info", "medical_info", "symptom_analysis",
			"ai_analysis", "highest_confidence_ailment", "report_id", "report_generated_at").
		From("health_reports").
		Where("symptom_id = ?", symptomID).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rpt HealthReport
	var patientJSON, medicalJSON, analysisJSON, aiJSON, highestJSON []byte

	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&rpt.SymptomID, &rpt.UserID, &patientJSON, &medicalJSON, &analysisJSON,
		&aiJSON, &highestJSON, &rpt.ReportID, &rpt.ReportGeneratedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.Wrap(httpx.ErrNotFound, "health report")
	}
	if err != nil {
		return nil, err
	}
	rpt.ID = rpt.SymptomID

	if err := json.Unmarshal(patientJSON, &rpt.PatientInfo); err != nil {
		return nil, errors.Wrap(err, "unmarshaling patient info")
	}
	if err := json.Unmarshal(medicalJSON, &rpt.MedicalInfo); err != nil {
		return nil, errors.Wrap(err, "unmarshaling medical info")
	}
	if err := json.Unmarshal(analysisJSON, &rpt.SymptomAnalysis); err != nil {
		return nil, errors.Wrap(err, "unmarshaling symptom analysis")
	}
	if err := json.Unmarshal(aiJSON, &rpt.AIAnalysis); err != nil {
		return nil, errors.Wrap(err, "unmarshaling ai analysis")
	}
	if len(highestJSON) > 0 {
		if err := json.Unmarshal(highestJSON, &rpt.HighestConfidenceAilment); err != nil {
			return nil, errors.Wrap(err, "unmarshaling highest confidence ailment")
		}
	}

	return &rpt, nil
}
