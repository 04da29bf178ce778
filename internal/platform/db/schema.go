package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements are the idempotent bootstrap statements for the three
// core tables. patient_diagnoses.diagnosis_id deliberately carries no
// foreign key: catalog entries may be deleted while dated assignment rows
// referencing them remain (the history join simply stops showing them).
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS patients (
		id BIGSERIAL PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		birth_date DATE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS diagnoses (
		id BIGSERIAL PRIMARY KEY,
		diagnosis TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS patient_diagnoses (
		id BIGSERIAL PRIMARY KEY,
		patient_id BIGINT NOT NULL REFERENCES patients(id),
		diagnosis_id BIGINT NOT NULL,
		diagnosis_date DATE NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_patient_diagnoses_patient
		ON patient_diagnoses (patient_id, diagnosis_date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_patients_last_name
		ON patients (last_name)`,
}

// EnsureSchema creates the core tables if they do not exist. It is safe to
// call on every startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
