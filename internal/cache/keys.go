package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	GlobalKeyPrefix = "quizflare"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// JudgmentKey addresses the cached verdict for an answer pair. Only
// surrounding whitespace is ignored; case is part of the key since the model
// may judge case-sensitive answers differently.
func JudgmentKey(userAnswer, correctAnswer string) string {
	h := sha256.New()
	h.Write([]byte(strings.TrimSpace(userAnswer)))
	h.Write([]byte{0})
	h.Write([]byte(strings.TrimSpace(correctAnswer)))
	return GenerateCacheKey("evaluation", "judgment", hex.EncodeToString(h.Sum(nil)))
}

// SessionResultKey addresses the scored result of a finished session.
func SessionResultKey(sessionID string) string {
	return GenerateCacheKey("session", "result", sessionID)
}
