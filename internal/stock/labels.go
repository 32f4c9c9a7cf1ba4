package stock

import (
	"strings"

	"github.com/boxaid/boxaid/internal/models"
	"github.com/google/uuid"
)

// MintLabel generates a fresh box label: a random UUID truncated to the
// label column's fixed length. The truncation keeps 11 characters of a
// v4 UUID (~44 bits of randomness), effectively unique across the lifetime
// of the dataset; the unique index on boxes.label_identifier is the
// backstop, and creation retries once if it ever fires.
func MintLabel() string {
	return uuid.NewString()[:models.BoxLabelLength]
}

// MintQrCode generates a fresh opaque scan code (32 hex characters,
// matching the legacy code format).
func MintQrCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
