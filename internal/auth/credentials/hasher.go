package credentials

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// HashPassword hashes a plaintext passphrase using bcrypt.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is empty")
	}

	bytes, err := bcrypt.GenerateFromPassword(
		[]byte(password),
		bcrypt.DefaultCost,
	)
	if err != nil {
		return "", err
	}

	return string(bytes), nil
}

// Passphrase checks login attempts against the single shared admin secret.
// Only the bcrypt hash is kept in memory.
type Passphrase struct {
	hash []byte
}

// NewPassphrase prefers a precomputed bcrypt hash and otherwise hashes the
// plaintext once at startup. With neither configured every login fails.
func NewPassphrase(plain, hash string) (*Passphrase, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, err
		}
		return &Passphrase{hash: []byte(hash)}, nil
	}

	if plain == "" {
		return &Passphrase{}, nil
	}

	h, err := HashPassword(plain)
	if err != nil {
		return nil, err
	}
	return &Passphrase{hash: []byte(h)}, nil
}

// Configured reports whether any login can succeed.
func (p *Passphrase) Configured() bool {
	return len(p.hash) > 0
}

// Verify compares a submitted passphrase with the stored hash. Surrounding
// whitespace is ignored.
func (p *Passphrase) Verify(candidate string) error {
	candidate = strings.TrimSpace(candidate)
	if !p.Configured() || candidate == "" {
		return ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(p.hash, []byte(candidate)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
