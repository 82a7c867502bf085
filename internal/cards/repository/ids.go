package repository

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// NewPublicID generates a human-readable ID with a prefix.
// Format: "prefix-12345-6789" (e.g., "card-48210-3317").
func NewPublicID(prefix string) (string, error) {
	a, err := randInt(10000, 99999)
	if err != nil {
		return "", err
	}
	b, err := randInt(1000, 9999)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%05d-%04d", prefix, a, b), nil
}

// NewSlug generates the share-link key for a profile. Short uuid tail keeps
// it unguessable while staying URL-friendly.
func NewSlug() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}

func randInt(min, max int64) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(max-min+1))
	if err != nil {
		return 0, err
	}
	return min + n.Int64(), nil
}
