package utils

import (
	"sync"
	"time"
)

const revokedKeyPrefix = "meow:jwt:revoked:"

var (
	revoked   = map[string]time.Time{}
	revokedMu sync.RWMutex
)

// BlacklistToken revokes a token until its natural expiration, so logout
// takes effect before the JWT expires. Redis-first with an in-memory
// fallback when Redis is down.
func BlacklistToken(token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}

	ctx, cancel := redisCtx()
	defer cancel()
	if err := GetRedis().Set(ctx, revokedKeyPrefix+token, "1", ttl).Err(); err == nil {
		return
	}

	revokedMu.Lock()
	revoked[token] = expiresAt
	revokedMu.Unlock()
}

// IsTokenBlacklisted reports whether a token was revoked before its natural
// expiration. Redis errors fall through to the memory map so a logout done
// during an outage still holds.
func IsTokenBlacklisted(token string) bool {
	ctx, cancel := redisCtx()
	defer cancel()
	if n, err := GetRedis().Exists(ctx, revokedKeyPrefix+token).Result(); err == nil && n > 0 {
		return true
	}

	revokedMu.RLock()
	expiresAt, ok := revoked[token]
	revokedMu.RUnlock()
	if !ok {
		return false
	}
	if time.Now().After(expiresAt) {
		revokedMu.Lock()
		delete(revoked, token)
		revokedMu.Unlock()
		return false
	}
	return true
}
