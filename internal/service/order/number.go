package order

import (
	"crypto/rand"
	"fmt"
	"time"
)

// numberAlphabet skips characters that read ambiguously in payment notes
// (0/O, 1/I/L).
const numberAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const numberSuffixLen = 8

// GenerateNumber produces a customer-facing order number such as
// ORD-20260830-K4FQ72MX. The number is the only token correlating a manual
// bank payment to an order, so the random suffix is wide enough that
// collisions are practically impossible; the database's unique index on the
// column is the backstop.
func GenerateNumber(now time.Time) string {
	suffix := make([]byte, numberSuffixLen)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand failing means the platform is broken beyond what an
		// order form can recover from.
		panic(fmt.Sprintf("order number entropy unavailable: %v", err))
	}
	for i, b := range suffix {
		suffix[i] = numberAlphabet[int(b)%len(numberAlphabet)]
	}
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), suffix)
}
