package sessions

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/premhub/premier-hub/internal/domain/user"
	"github.com/premhub/premier-hub/internal/platform/logging"
	"github.com/premhub/premier-hub/internal/usecase"
	"github.com/stretchr/testify/require"
)

func TestClient_VerifyAccessToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/auth/introspect", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Contains(t, string(body), `"token":"tok-1"`)

		_, _ = w.Write([]byte(`{"active":true,"user_id":"u-1","email":"fan@example.com","role":"ADMIN"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "/v1/auth/introspect", logging.NewNop())

	principal, err := client.VerifyAccessToken(context.Background(), "tok-1")
	require.NoError(t, err)
	require.Equal(t, "u-1", principal.UserID)
	require.Equal(t, "fan@example.com", principal.Email)
	require.Equal(t, user.RoleAdmin, principal.Role, "role is lowercased")
}

func TestClient_VerifyAccessToken_DefaultsRoleToFan(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"active":true,"user_id":"u-1"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "/v1/auth/introspect", logging.NewNop())

	principal, err := client.VerifyAccessToken(context.Background(), "tok-1")
	require.NoError(t, err)
	require.Equal(t, user.RoleFan, principal.Role)
}

func TestClient_VerifyAccessToken_Failures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"denied", http.StatusUnauthorized, ``, usecase.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ``, usecase.ErrUnauthorized},
		{"inactive token", http.StatusOK, `{"active":false}`, usecase.ErrUnauthorized},
		{"service error", http.StatusInternalServerError, ``, usecase.ErrDependencyUnavailable},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := NewClient(srv.Client(), srv.URL, "/v1/auth/introspect", logging.NewNop())

			_, err := client.VerifyAccessToken(context.Background(), "tok-1")
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestClient_VerifyAccessToken_EmptyToken(t *testing.T) {
	t.Parallel()

	client := NewClient(nil, "http://localhost:0", "/introspect", logging.NewNop())
	_, err := client.VerifyAccessToken(context.Background(), "   ")
	require.ErrorIs(t, err, usecase.ErrUnauthorized)
}

func TestClient_VerifyAccessToken_EmptyUserIDRejected(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"active":true,"user_id":"  "}`))
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, "/v1/auth/introspect", logging.NewNop())

	_, err := client.VerifyAccessToken(context.Background(), "tok-1")
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "user_id"))
}

func TestBuildURL(t *testing.T) {
	t.Parallel()

	require.Equal(t, "http://acc/v1/introspect", buildURL("http://acc/", "v1/introspect"))
	require.Equal(t, "http://acc/v1/introspect", buildURL("http://acc", "/v1/introspect"))
	require.Equal(t, "http://acc", buildURL("http://acc/", ""))
	require.Equal(t, "https://other/introspect", buildURL("http://acc", "https://other/introspect"))
}
