package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pickup-service/internal/apperr"
)

// TTL is how long an issued admin session stays valid.
const TTL = 30 * 24 * time.Hour

var ErrMissingSecret = apperr.Config("session: signing secret is not configured")

var encoding = base64.RawURLEncoding

type claims struct {
	Exp int64 `json:"exp"`
}

// Authenticator issues and verifies stateless admin session tokens.
//
// A token is base64url(JSON{"exp":<epoch ms>}) "." base64url(HMAC-SHA256),
// with the MAC computed over the encoded payload. Nothing is stored server
// side, so a token stays valid until it expires or the secret rotates.
type Authenticator struct {
	secret []byte
	now    func() time.Time
}

type Option func(*Authenticator)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) {
		a.now = now
	}
}

func NewAuthenticator(secret string, opts ...Option) *Authenticator {
	a := &Authenticator{
		secret: []byte(secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Issue returns a token that expires at expiresAt.
func (a *Authenticator) Issue(expiresAt time.Time) (string, error) {
	if len(a.secret) == 0 {
		return "", ErrMissingSecret
	}

	raw, err := json.Marshal(claims{Exp: expiresAt.UnixMilli()})
	if err != nil {
		return "", fmt.Errorf("session: encode payload: %w", err)
	}

	payload := encoding.EncodeToString(raw)
	return payload + "." + a.sign(payload), nil
}

// Verify reports whether token carries a valid signature and has not
// expired. It never fails loudly: every malformed input is just invalid.
func (a *Authenticator) Verify(token string) bool {
	if token == "" || len(a.secret) == 0 {
		return false
	}

	payload, sig, ok := strings.Cut(token, ".")
	if !ok || strings.Contains(sig, ".") {
		return false
	}

	if !signatureEqual(sig, a.sign(payload)) {
		return false
	}

	raw, err := encoding.DecodeString(payload)
	if err != nil {
		return false
	}

	var c claims
	if err := json.Unmarshal(raw, &c); err != nil {
		return false
	}
	if c.Exp <= 0 {
		return false
	}

	// expiry is exclusive: exp == now is already expired
	return a.now().UnixMilli() < c.Exp
}

func (a *Authenticator) sign(payload string) string {
	mac := hmac.New(sha256.New, a.secret)
	mac.Write([]byte(payload))
	return encoding.EncodeToString(mac.Sum(nil))
}

// signatureEqual compares in constant time with respect to content. The
// length check may return early; signature length is not secret.
func signatureEqual(got, want string) bool {
	if len(got) != len(want) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
