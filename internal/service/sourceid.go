package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/parsecv/blueprint/internal/domain"
)

// SourceID derives the content-addressed identifier of an extraction:
// the SHA-256 of its canonical JSON encoding. Two byte-identical
// extractions always share a source ID, which is what makes repeated
// submissions of the same CV parse idempotent.
func SourceID(e domain.Extraction) (string, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
