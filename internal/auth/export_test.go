package auth

import "time"

// NewTokenManagerWithTTL is a test helper to issue tokens with a custom TTL.
func NewTokenManagerWithTTL(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}
