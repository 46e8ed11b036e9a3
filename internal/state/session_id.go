package state

import (
	"crypto/sha256"
	"encoding/hex"
)

// ComputeSessionID computes a stable file name for a session. Session names are
// user input, so they are hashed rather than used as paths directly.
func ComputeSessionID(session string) string {
	hash := sha256.Sum256([]byte(session))
	return hex.EncodeToString(hash[:])
}
