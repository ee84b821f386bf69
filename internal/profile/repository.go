package profile

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"mediassist/internal/store"
)

type Repository interface {
	// GetUser returns (nil, nil) when the user document does not exist.
	GetUser(ctx context.Context, id string) (*User, error)
	// GetMedicalInfo returns (nil, nil) when no record exists for the user.
	GetMedicalInfo(ctx context.Context, userID string) (*MedicalInfo, error)
}

type postgresRepo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) GetUser(ctx context.Context, id string) (*User, error) {
	query, args, err := store.Builder.
		Select("id", "name", "email", "phone", "COALESCE(age, 0)", "gender", "allergies", "medications", "conditions").
		From("users").
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return nil, err
	}

	var u User
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.Age, &u.Gender,
		&u.Allergies, &u.Medications, &u.Conditions,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading user record")
	}
	return &u, nil
}

func (r *postgresRepo) GetMedicalInfo(ctx context.Context, userID string) (*MedicalInfo, error) {
	query, args, err := store.Builder.
		Select("user_id", "blood_type", "allergies", "medications", "conditions").
		From("medical_information").
		Where("user_id = ?", userID).
		ToSql()
	if err != nil {
		return nil, err
	}

	var m MedicalInfo
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&m.UserID, &m.BloodType, &m.Allergies, &m.Medications, &m.Conditions,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading medical information")
	}
	return &m, nil
}
