package utils

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// ReferencePrefix is the fixed prefix carried by every transfer reference number
const ReferencePrefix = "TRF-"

// GenerateReferenceNumber returns an opaque transfer reference of the form
// TRF-XXXXXXXX where X is an uppercase hex character. Collisions are left to the
// database unique constraint; there is no in-process retry.
func GenerateReferenceNumber() string {
	id := uuid.New()
	return ReferencePrefix + strings.ToUpper(hex.EncodeToString(id[:])[:8])
}
