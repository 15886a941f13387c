package id

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// TransactionPrefix marks payment transaction references.
const TransactionPrefix = "TXN"

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NewTransactionID returns "TXN" followed by an uppercase UUIDv7 without hyphens.
// v7 embeds a millisecond timestamp plus a per-process monotonic counter, so ids
// sort by creation time and do not collide within one process.
func NewTransactionID() string {
	u, err := uuid.NewV7()
	if err != nil {
		// entropy failure; a random v4 still keeps the reference unique
		u = uuid.New()
	}
	return TransactionPrefix + strings.ToUpper(strings.ReplaceAll(u.String(), "-", ""))
}
