package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestSessionIssueAndValidate(t *testing.T) {
	m := NewSessionManager([]byte("secret"), time.Hour)

	session, err := m.Issue(Identity{ID: "u1", Email: "admin@county.gov", Name: "admin"})
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	require.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, 2*time.Second)

	claims, err := m.Validate(session.Token)
	require.NoError(t, err)
	require.Equal(t, Identity{ID: "u1", Email: "admin@county.gov", Name: "admin"}, claims.Identity())
}

func TestSessionRejectsExpiredToken(t *testing.T) {
	m := NewSessionManager([]byte("secret"), time.Minute)
	session, err := m.Issue(Identity{ID: "u1", Email: "a@county.gov"})
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = m.Validate(session.Token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionRejectsForeignTokens(t *testing.T) {
	m := NewSessionManager([]byte("secret"), time.Hour)

	other, err := NewSessionManager([]byte("other"), time.Hour).Issue(Identity{ID: "u1"})
	require.NoError(t, err)
	_, err = m.Validate(other.Token)
	require.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1", Issuer: issuer},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Validate(none)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Validate("garbage")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssueRequiresSecret(t *testing.T) {
	_, err := NewSessionManager(nil, time.Hour).Issue(Identity{ID: "u1"})
	require.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	token, ok := BearerToken("Bearer abc")
	require.True(t, ok)
	require.Equal(t, "abc", token)

	_, ok = BearerToken("Basic abc")
	require.False(t, ok)
	_, ok = BearerToken("")
	require.False(t, ok)
}

func newIdentityProvider(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Query().Get("key") != "api-key" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		var req signInRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch {
		case req.Email == "admin@county.gov" && req.Password == "hunter2":
			_ = json.NewEncoder(w).Encode(signInResponse{LocalID: "uid-1", Email: req.Email})
		case req.Email == "broken@county.gov":
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"INVALID_PASSWORD"}}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestIdentityToolkitVerifier(t *testing.T) {
	srv := newIdentityProvider(t)
	v := NewIdentityToolkitVerifier(srv.URL+"/v1/accounts:signInWithPassword", "api-key", time.Second)
	ctx := context.Background()

	identity, err := v.Verify(ctx, "admin@county.gov", "hunter2")
	require.NoError(t, err)
	require.Equal(t, Identity{ID: "uid-1", Email: "admin@county.gov", Name: "admin"}, identity)

	_, err = v.Verify(ctx, "admin@county.gov", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = v.Verify(ctx, "admin@county.gov", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = v.Verify(ctx, "broken@county.gov", "x")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidCredentials)
}
