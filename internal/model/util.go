package model

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// sessionTokenBytes gives 384 bits of entropy, well above the minimum
// required for an unguessable bearer token.
const sessionTokenBytes = 48

func generateID() string {
	return uuid.New().String()
}

// GenerateSessionToken creates a secure random opaque token string.
func GenerateSessionToken() string {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms; refusing to
		// continue beats issuing a guessable token.
		panic(err)
	}
	return hex.EncodeToString(b)
}
