// Package patient manages patient records and their dated diagnosis
// assignments. Assignments are owned by the patient: deleting a patient
// removes its assignment rows, while catalog entries live independently.
package patient

import (
	"encoding/json"
	"time"

	"github.com/medcard/medcard/internal/validate"
)

// Patient maps to the patients table. Patients are immutable after
// registration; there is no update operation.
type Patient struct {
	ID        int64     `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	BirthDate time.Time `db:"birth_date" json:"-"`
}

func (p Patient) MarshalJSON() ([]byte, error) {
	type alias Patient
	return json.Marshal(struct {
		alias
		BirthDate string `json:"birth_date"`
	}{alias(p), p.BirthDate.Format(validate.ISODateLayout)})
}

// Assignment maps to the patient_diagnoses table: a dated link between one
// patient and one catalog entry. The same diagnosis may be assigned to the
// same patient repeatedly on different dates; every assign creates a new row.
type Assignment struct {
	ID          int64     `db:"id" json:"id"`
	PatientID   int64     `db:"patient_id" json:"patient_id"`
	DiagnosisID int64     `db:"diagnosis_id" json:"diagnosis_id"`
	Date        time.Time `db:"diagnosis_date" json:"-"`
}

func (a Assignment) MarshalJSON() ([]byte, error) {
	type alias Assignment
	return json.Marshal(struct {
		alias
		Date string `json:"diagnosis_date"`
	}{alias(a), a.Date.Format(validate.ISODateLayout)})
}

// HistoryEntry is one row of a patient's diagnosis history: the assignment
// joined with its catalog text.
type HistoryEntry struct {
	ID        int64     `db:"id" json:"id"`
	Diagnosis string    `db:"diagnosis" json:"diagnosis"`
	Date      time.Time `db:"diagnosis_date" json:"-"`
}

func (h HistoryEntry) MarshalJSON() ([]byte, error) {
	type alias HistoryEntry
	return json.Marshal(struct {
		alias
		Date string `json:"diagnosis_date"`
	}{alias(h), h.Date.Format(validate.ISODateLayout)})
}

// Card bundles everything the patient page needs: the record, one page of
// diagnosis history (most recent first), and the full catalog texts for
// autocomplete.
type Card struct {
	Patient     *Patient
	History     []*HistoryEntry
	Total       int
	Suggestions []string
}
