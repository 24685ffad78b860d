package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
)

const secretBytes = 32

// ResolveSecret returns configured when set, otherwise the secret stored at
// path, generating and persisting one on first use.
func ResolveSecret(configured, path string) ([]byte, error) {
	if configured = strings.TrimSpace(configured); configured != "" {
		return []byte(configured), nil
	}
	data, err := os.ReadFile(path)
	if err == nil {
		if secret := strings.TrimSpace(string(data)); secret != "" {
			return []byte(secret), nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}

	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate secret: %w", err)
	}
	secret := hex.EncodeToString(buf)
	if err := writePrivateFile(path, []byte(secret+"\n")); err != nil {
		return nil, fmt.Errorf("failed to store secret: %w", err)
	}
	return []byte(secret), nil
}
