package utils // package utils provides helper functions for token creation and hashing

import (
    "crypto/rand"  // secure random number generation
    "encoding/hex" // hex encoding for session identifiers
    "time"         // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// SessionToken represents a signed JWT session token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp as a time.Time.  Session tokens identify both registered users
// and anonymous guests and are sent in the Authorization header.
type SessionToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// NewSessionToken builds and signs an HS256 JWT for a session.  It takes the
// signing secret, the session identifier, the session role ("user" or
// "guest"), and a TTL in minutes.  The JWT includes standard claims:
// subject (sub), role, expiration (exp) and issued at (iat).  The subject
// doubles as the key under which the session's seat selection and pending
// reservation live.
func NewSessionToken(secret, sessionID, role string, ttlMin int) (SessionToken, error) {
    // Calculate the expiration time by adding the TTL to the current UTC time.
    exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":  sessionID,
        "role": role,
        "exp":  exp.Unix(),
        "iat":  time.Now().UTC().Unix(),
    }
    // Create a new token object specifying the signing method (HS256) and
    // include the claims.
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return SessionToken{}, err
    }
    return SessionToken{Token: signed, Exp: exp}, nil
}

// NewGuestSessionID returns a random identifier for an anonymous browsing
// session.  Guests receive one before they start picking seats so that
// their selection survives across requests without an account.
func NewGuestSessionID() (string, error) {
    raw, err := randomHex(16) // 16 bytes -> 32 hex chars
    if err != nil {
        return "", err
    }
    return "guest-" + raw, nil
}

// randomHex returns a hex‑encoded string generated from n bytes of
// cryptographically secure random data.  If the random number generator
// fails, an error is returned.
func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
