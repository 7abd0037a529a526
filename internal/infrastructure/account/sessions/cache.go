package sessions

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/premhub/premier-hub/internal/domain/user"
)

// Verifier turns a bearer token into a Principal.
type Verifier interface {
	VerifyAccessToken(ctx context.Context, token string) (user.Principal, error)
}

type cacheEntry struct {
	principal user.Principal
	expiresAt time.Time
}

// CachingVerifier wraps a Verifier with a bounded TTL cache keyed by token
// hash. Only successful verifications are cached; failures always go back
// to the account service.
type CachingVerifier struct {
	inner      Verifier
	ttl        time.Duration
	maxEntries int

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func NewCachingVerifier(inner Verifier, ttl time.Duration, maxEntries int) *CachingVerifier {
	if maxEntries <= 0 {
		maxEntries = 10_000
	}

	return &CachingVerifier{
		inner:      inner,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]cacheEntry),
	}
}

func (v *CachingVerifier) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	key := hashToken(token)
	if principal, ok := v.get(key); ok {
		return principal, nil
	}

	principal, err := v.inner.VerifyAccessToken(ctx, token)
	if err != nil {
		return user.Principal{}, err
	}

	v.set(key, principal)
	return principal, nil
}

// Invalidate drops the cache entry for one token, used on logout so a
// revoked session stops verifying immediately.
func (v *CachingVerifier) Invalidate(token string) {
	key := hashToken(token)
	v.mu.Lock()
	delete(v.entries, key)
	v.mu.Unlock()
}

func (v *CachingVerifier) get(key string) (user.Principal, bool) {
	now := time.Now()

	v.mu.RLock()
	entry, ok := v.entries[key]
	v.mu.RUnlock()
	if !ok {
		return user.Principal{}, false
	}
	if !entry.expiresAt.After(now) {
		v.mu.Lock()
		delete(v.entries, key)
		v.mu.Unlock()
		return user.Principal{}, false
	}

	return entry.principal, true
}

func (v *CachingVerifier) set(key string, principal user.Principal) {
	if v.ttl <= 0 {
		return
	}

	now := time.Now()

	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.entries) >= v.maxEntries {
		v.evictExpired(now)
		if len(v.entries) >= v.maxEntries {
			v.evictOne()
		}
	}

	v.entries[key] = cacheEntry{
		principal: principal,
		expiresAt: now.Add(v.ttl),
	}
}

func (v *CachingVerifier) evictExpired(now time.Time) {
	for key, entry := range v.entries {
		if !entry.expiresAt.After(now) {
			delete(v.entries, key)
		}
	}
}

func (v *CachingVerifier) evictOne() {
	for key := range v.entries {
		delete(v.entries, key)
		return
	}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
