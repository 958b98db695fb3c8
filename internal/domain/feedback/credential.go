package feedback

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CredentialPrefix marks issued API keys so leaked values are recognizable
// in logs and scanners.
const CredentialPrefix = "fk_"

// Credential is a freshly issued API key. Plaintext is revealed exactly
// once; only Hash is persisted.
type Credential struct {
	Plaintext string
	Hash      string
	Hint      string
}

// NewCredential issues an opaque random key. The key body is derived from a
// random UUID, giving enough entropy that an unsalted digest lookup is safe.
func NewCredential() Credential {
	body := strings.ReplaceAll(uuid.NewString(), "-", "")
	plaintext := CredentialPrefix + body
	return Credential{
		Plaintext: plaintext,
		Hash:      HashCredential(plaintext),
		Hint:      plaintext[len(plaintext)-4:],
	}
}

// HashCredential digests a presented key for the stored-hash equality
// lookup. Hashing plus exact match keeps the comparison constant-shape.
func HashCredential(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// NowUTC is the canonical stored timestamp format.
func NowUTC() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
