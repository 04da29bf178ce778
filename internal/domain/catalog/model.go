// Package catalog manages the shared diagnosis catalog: the deduplicated
// list of known diagnosis names, independent of any patient.
package catalog

// Diagnosis maps to the diagnoses table. Text is unique across the catalog
// with case-sensitive exact matching.
type Diagnosis struct {
	ID   int64  `db:"id" json:"id"`
	Text string `db:"diagnosis" json:"diagnosis"`
}
