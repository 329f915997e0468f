package uid

import "github.com/google/uuid"

// UUID generates version 7 UUIDs, falling back to version 4.
type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

func (*UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}
