package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// ApiKeyPrefix marks personal access keys so they are recognisable in
// headers and logs.
const ApiKeyPrefix = "cc_"

// RandomString returns n random bytes encoded as unpadded URL-safe base64.
func RandomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// NewApiKey returns a fresh key together with the hash to persist and a short
// hint for listing it later.
func NewApiKey() (key, hash, hint string, err error) {
	secret, err := RandomString(24)
	if err != nil {
		return "", "", "", err
	}
	key = ApiKeyPrefix + secret
	return key, HashApiKey(key), key[len(key)-4:], nil
}

func HashApiKey(key string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(key)))
	return hex.EncodeToString(sum[:])
}
