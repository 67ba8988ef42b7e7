package utils

// NewNullString returns a pointer to s, or nil if s is empty. Useful for
// optional fields that should be NULL in the database when not provided.
func NewNullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
