package sessions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/premhub/premier-hub/internal/domain/user"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	calls     int
	principal user.Principal
	err       error
}

func (s *stubVerifier) VerifyAccessToken(context.Context, string) (user.Principal, error) {
	s.calls++
	if s.err != nil {
		return user.Principal{}, s.err
	}
	return s.principal, nil
}

func TestCachingVerifier_CachesSuccesses(t *testing.T) {
	t.Parallel()

	inner := &stubVerifier{principal: user.Principal{UserID: "u-1", Role: user.RoleFan}}
	verifier := NewCachingVerifier(inner, time.Minute, 10)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		principal, err := verifier.VerifyAccessToken(ctx, "tok-1")
		require.NoError(t, err)
		require.Equal(t, "u-1", principal.UserID)
	}
	require.Equal(t, 1, inner.calls, "repeat verifications must hit the cache")

	_, err := verifier.VerifyAccessToken(ctx, "tok-other")
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls, "different token is a different entry")
}

func TestCachingVerifier_NeverCachesFailures(t *testing.T) {
	t.Parallel()

	inner := &stubVerifier{err: errors.New("inactive")}
	verifier := NewCachingVerifier(inner, time.Minute, 10)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := verifier.VerifyAccessToken(ctx, "tok-bad")
		require.Error(t, err)
	}
	require.Equal(t, 3, inner.calls)
}

func TestCachingVerifier_InvalidateForcesReverification(t *testing.T) {
	t.Parallel()

	inner := &stubVerifier{principal: user.Principal{UserID: "u-1"}}
	verifier := NewCachingVerifier(inner, time.Minute, 10)
	ctx := context.Background()

	_, err := verifier.VerifyAccessToken(ctx, "tok-1")
	require.NoError(t, err)
	verifier.Invalidate("tok-1")

	_, err = verifier.VerifyAccessToken(ctx, "tok-1")
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls)
}

func TestCachingVerifier_ZeroTTLDisablesCaching(t *testing.T) {
	t.Parallel()

	inner := &stubVerifier{principal: user.Principal{UserID: "u-1"}}
	verifier := NewCachingVerifier(inner, 0, 10)
	ctx := context.Background()

	_, err := verifier.VerifyAccessToken(ctx, "tok-1")
	require.NoError(t, err)
	_, err = verifier.VerifyAccessToken(ctx, "tok-1")
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls)
}

func TestCachingVerifier_BoundedSize(t *testing.T) {
	t.Parallel()

	inner := &stubVerifier{principal: user.Principal{UserID: "u-1"}}
	verifier := NewCachingVerifier(inner, time.Minute, 2)
	ctx := context.Background()

	for _, token := range []string{"a", "b", "c", "d"} {
		_, err := verifier.VerifyAccessToken(ctx, token)
		require.NoError(t, err)
	}

	verifier.mu.RLock()
	defer verifier.mu.RUnlock()
	require.LessOrEqual(t, len(verifier.entries), 2)
}
