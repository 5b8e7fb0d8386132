package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID returns a random v4 UUID
func GenerateUUID() string {
	return uuid.NewString()
}

// GenerateShortID returns 8 hex characters, enough for request correlation
func GenerateShortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
