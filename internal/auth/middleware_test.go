package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type jwtAuthenticator struct{ j *JWT }

func (a jwtAuthenticator) Authenticate(token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrMissingToken
	}
	id, err := a.j.Verify(token)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	return id, nil
}

func TestRequireAuth(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	h := RequireAuth(jwtAuthenticator{j})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(id.Email))
	}))

	tok, err := j.Sign(Identity{UserID: 9, Email: "a@x.com"})
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing", "", http.StatusUnauthorized, `"No token"`},
		{"scheme only", "Bearer", http.StatusUnauthorized, `"No token"`},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized, `"Invalid token"`},
		{"other scheme", "Basic " + tok, http.StatusUnauthorized, `"No token"`},
		{"valid", "Bearer " + tok, http.StatusOK, "a@x.com"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/watchlist", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, tc.status, rec.Code)
			require.Contains(t, rec.Body.String(), tc.body)
		})
	}
}

func TestBearerToken(t *testing.T) {
	require.Equal(t, "abc", BearerToken("Bearer abc"))
	require.Equal(t, "abc", BearerToken("  Bearer   abc "))
	require.Equal(t, "abc", BearerToken("bearer abc"))
	require.Equal(t, "abc", BearerToken("BEARER abc"))
	require.Equal(t, "", BearerToken("abc"))
	require.Equal(t, "", BearerToken(""))
	require.Equal(t, "", BearerToken("Basic xyz"))
	require.Equal(t, "", BearerToken("Token abc"))
}
