package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// RefGenerator issues human-facing reference numbers for movements and
// reservations when the caller does not supply one. Injected so tests can
// substitute a deterministic implementation.
type RefGenerator interface {
	NewReference(prefix string) string
}

type uuidRefGenerator struct{}

// NewUUIDRefGenerator returns a RefGenerator backed by random UUIDs.
func NewUUIDRefGenerator() RefGenerator {
	return uuidRefGenerator{}
}

func (uuidRefGenerator) NewReference(prefix string) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("%s-%s", prefix, id[:12])
}
