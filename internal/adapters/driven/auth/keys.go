package auth

import (
	"crypto/rsa"
	"encoding/json"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ParsePrivateKey decodes a PEM encoded RSA key in PKCS8 or PKCS1 form.
func ParsePrivateKey(data []byte) (*rsa.PrivateKey, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return key, nil
}

// serviceAccountFile is the subset of a JSON key file the factory reads
// directly. Token signing itself is left to golang.org/x/oauth2/google.
type serviceAccountFile struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
}

func parseServiceAccountFile(data []byte) (*serviceAccountFile, error) {
	var f serviceAccountFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse JSON key: %w", err)
	}
	return &f, nil
}
