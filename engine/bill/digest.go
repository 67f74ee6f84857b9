package bill

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ActionDigest computes the content identity of an action: a SHA-256 hex
// digest over the bill UID and the action's semantic fields. Absent fields
// contribute empty strings, so identical semantic content always reproduces
// the identical digest. The digest is the action's storage key and the sole
// deduplication identity; no observation count or timestamp is involved.
func ActionDigest(billUID string, a *Action) string {
	preimage := strings.Join([]string{
		billUID,
		a.Date,
		a.Organization,
		strings.Join(a.Classification, ","),
		a.Text,
	}, "|")
	sum := sha256.Sum256([]byte(preimage))
	return hex.EncodeToString(sum[:])
}
