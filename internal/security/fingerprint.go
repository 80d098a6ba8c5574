package security

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// fingerprintMatchLen bounds how much of the matched text feeds the
// fingerprint, so trailing context noise cannot change a finding's identity.
const fingerprintMatchLen = 32

// Fingerprint derives the stable identity of a finding from its location,
// the pattern that claimed it, and a normalized prefix of the matched text.
// Rescanning byte-identical content always reproduces the same fingerprint.
func Fingerprint(path string, line int, patternID, match string) string {
	normalized := strings.TrimSpace(match)
	if len(normalized) > fingerprintMatchLen {
		normalized = normalized[:fingerprintMatchLen]
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%s|%s", path, line, patternID, normalized)))
	return hex.EncodeToString(sum[:])
}

// maskSecret keeps a short identifying prefix of the matched text and blanks
// the rest, so reports and masked files never carry the full credential.
func maskSecret(match string) string {
	const keep = 4
	if len(match) <= keep {
		return strings.Repeat("*", len(match))
	}
	masked := len(match) - keep
	if masked > 32 {
		masked = 32
	}
	return match[:keep] + strings.Repeat("*", masked)
}
