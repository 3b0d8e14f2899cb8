package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewVerifier_RequiresSecret(t *testing.T) {
	_, err := NewVerifier(" ")
	require.ErrorIs(t, err, ErrMissingSecret)
}

func TestVerifier_RoundTripsSubject(t *testing.T) {
	v, err := NewVerifier("secret")
	require.NoError(t, err)
	token, err := v.Issue("owner-1", time.Minute)
	require.NoError(t, err)

	principal, err := v.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "owner-1", principal)
}

func TestVerifier_RejectsExpiredAndForeignTokens(t *testing.T) {
	v, err := NewVerifier("secret")
	require.NoError(t, err)

	expired, err := v.Issue("owner-1", -time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(expired)
	require.ErrorIs(t, err, ErrInvalidToken)

	other, err := NewVerifier("other")
	require.NoError(t, err)
	foreign, err := other.Issue("owner-1", time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(foreign)
	require.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "owner-1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = v.Verify(unsigned)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddleware_SetsPrincipalOnlyForValidTokens(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v, err := NewVerifier("secret")
	require.NoError(t, err)
	token, err := v.Issue("owner-1", time.Minute)
	require.NoError(t, err)

	router := gin.New()
	router.Use(Middleware(v))
	router.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, PrincipalFrom(c)+"|"+PrincipalFromContext(c.Request.Context()))
	})

	cases := map[string]string{
		"Bearer " + token: "owner-1|owner-1",
		"Bearer garbage":  "|",
		"":                "|",
	}
	for header, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, want, rec.Body.String(), header)
	}
}

func TestPrincipalFrom_ReadsRequestContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	require.Empty(t, PrincipalFrom(c))

	c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), "owner-1"))
	require.Equal(t, "owner-1", PrincipalFrom(c))
	require.Empty(t, PrincipalFrom(nil))
}
