package utils // package utils provides helpers for token creation and hashing

import (
	"crypto/rand"   // secure random generation for reset tokens
	"crypto/sha256" // SHA-256 hashing for reset tokens at rest
	"encoding/hex"  // hex encoding of random bytes and digests
	"time"          // expiry calculation

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken is a signed JWT access token along with its expiry.  Access
// tokens carry the admin id and role and are presented as a Bearer token on
// every protected endpoint.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// ResetToken is a single-use password-reset token.  The Raw value is emailed
// to the admin inside a reset link; only its SHA-256 hash is stored, so a
// leaked database row cannot be replayed as a reset link.
type ResetToken struct {
	Raw string    // raw token string embedded in the reset URL
	Exp time.Time // UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for an admin account.  The
// claims carry the admin id and role plus standard exp/iat; the default TTL
// of 1440 minutes gives the one-day sessions the dashboard expects.
func NewAccessToken(secret string, adminID uint64, role string, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"id":   adminID,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// NewResetToken returns a cryptographically secure random token and its
// expiration time.  Reset tokens are short-lived; ttlMin controls the window
// during which the emailed link remains valid.
func NewResetToken(ttlMin int) (ResetToken, error) {
	raw, err := randomHex(32) // 32 bytes -> 64 hex chars
	if err != nil {
		return ResetToken{}, err
	}
	return ResetToken{
		Raw: raw,
		Exp: time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute),
	}, nil
}

// HashResetRaw returns the SHA-256 hash of a raw reset token as a hex string.
func HashResetRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
