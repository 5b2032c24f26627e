package util

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewULID generates a new ULID string from a cryptographically secure
// entropy source.
func NewULID() string {
	return ulid.Make().String()
}

// NewPrefixedID returns "<prefix>_<ulid>", the identifier format used for
// quizzes (quiz), questions (q) and leaderboard entries (le).
func NewPrefixedID(prefix string) string {
	return prefix + "_" + NewULID()
}

// IsULID reports whether s parses as a ULID.
func IsULID(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewGuestID returns "guest_<unix ms>_<7 base36 chars>".
func NewGuestID(now time.Time) string {
	var sb strings.Builder
	sb.WriteString("guest_")
	sb.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	sb.WriteByte('_')
	max := big.NewInt(int64(len(base36Alphabet)))
	for i := 0; i < 7; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand never fails on supported platforms
			panic(err)
		}
		sb.WriteByte(base36Alphabet[n.Int64()])
	}
	return sb.String()
}
