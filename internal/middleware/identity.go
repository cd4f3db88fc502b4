package middleware

// identity.go defines helper functions shared across middleware files and
// handlers. It provides a session identifier extraction function that reads
// the value stored by SessionAuth, falling back to the JWT in context when a
// handler runs behind Echo's own jwt middleware. When no session can be
// resolved, "anon" is returned.

import (
    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
)

// SessionID extracts the caller's session identifier from the Echo context.
// It returns "anon" when no session token was presented or the claims are
// missing.
func SessionID(c echo.Context) string {
    if v := c.Get("session_id"); v != nil {
        if s, ok := v.(string); ok && s != "" {
            return s
        }
    }
    if u := c.Get("user"); u != nil {
        if tok, ok := u.(*jwt.Token); ok {
            if cl, ok := tok.Claims.(jwt.MapClaims); ok {
                if v, ok := cl["sub"].(string); ok && v != "" {
                    return v
                }
            }
        }
    }
    return "anon"
}
