package repository

import "github.com/google/uuid"

// ValidID reports whether id is a canonical hyphenated UUID, the only shape
// entity ids take. Ids that fail this can never match a row.
func ValidID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
