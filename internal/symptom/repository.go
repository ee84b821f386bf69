package symptom

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"mediassist/internal/httpx"
	"mediassist/internal/logger"
	"mediassist/internal/store"
)

type postgresRepo struct {
	db  *sql.DB
	log *logger.Logger
}

func NewRepository(db *sql.DB, log *logger.Logger) Repository {
	return &postgresRepo{db: db, log: log}
}

func (r *postgresRepo) Insert(ctx context.Context, rec *Record) (string, error) {
	rec.ID = uuid.NewString()
	if rec.Symptoms == nil {
		rec.Symptoms = []string{}
	}

	symptomsJSON, err := json.Marshal(rec.Symptoms)
	if err != nil {
		return "", err
	}

	query, args, err := store.Builder.
		Insert("user_symptoms").
		Columns("id", "user_id", "transcript", "symptoms", "audio_url", "status").
		Values(rec.ID, rec.UserID, rec.Transcript, string(symptomsJSON), rec.AudioURL, string(rec.Status)).
		Suffix("RETURNING created").
		ToSql()
	if err != nil {
		return "", err
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&rec.CreatedAt); err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*Record, error) {
	query, args, err := store.Builder.
		Select("id", "user_id", "transcript", "symptoms", "audio_url", "status", "prediction", "created").
		From("user_symptoms").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, err
	}

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, errors.Wrap(httpx.ErrNotFound, "symptom record")
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *postgresRepo) AttachPrediction(ctx context.Context, id string, p Prediction) error {
	predictionJSON, err := json.Marshal(p)
	if err != nil {
		return err
	}

	query, args, err := store.Builder.
		Update("user_symptoms").
		Set("prediction", string(predictionJSON)).
		Set("status", string(StatusAilmentPredicted)).
		Set("predicted_at", sq.Expr("now()")).
		Where("id = ? AND status = ?", id, string(StatusSymptomsIdentified)).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// Either the record is gone or it was already predicted; only the
	// former is an error.
	var exists bool
	if err := r.db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM user_symptoms WHERE id = $1)", id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return errors.Wrap(httpx.ErrNotFound, "symptom record")
	}
	return nil
}

func (r *postgresRepo) RecentByUser(ctx context.Context, userID string, limit int) ([]Record, error) {
	base := store.Builder.
		Select("id", "user_id", "transcript", "symptoms", "audio_url", "status", "prediction", "created").
		From("user_symptoms").
		Where("user_id = ?", userID).
		Limit(uint64(limit))

	query, args, err := base.OrderBy("created DESC").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		// Fall back to an unordered bounded scan rather than failing the
		// whole history request.
		r.log.Warn(fmt.Sprintf("ordered history query failed, retrying unordered: %v", err))
		query, args, err = base.ToSql()
		if err != nil {
			return nil, err
		}
		rows, err = r.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, err
		}
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var rec Record
	var symptomsJSON []byte
	var predictionJSON []byte

	err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Transcript,
		&symptomsJSON,
		&rec.AudioURL,
		&rec.Status,
		&predictionJSON,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(symptomsJSON) > 0 {
		if err := json.Unmarshal(symptomsJSON, &rec.Symptoms); err != nil {
			return nil, errors.Wrap(err, "unmarshaling symptoms")
		}
	}
	if len(predictionJSON) > 0 {
		var p Prediction
		if err := json.Unmarshal(predictionJSON, &p); err != nil {
			return nil, errors.Wrap(err, "unmarshaling prediction")
		}
		rec.Prediction = &p
	}

	return &rec, nil
}
