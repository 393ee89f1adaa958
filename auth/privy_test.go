package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAppID = "test-app-id"

func newTestKeys(t *testing.T) (*ecdsa.PrivateKey, []byte) {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return priv, pemBytes
}

func signToken(t *testing.T, priv *ecdsa.PrivateKey, claims PrivyClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(priv)
	require.NoError(t, err)
	return token
}

func validClaims() PrivyClaims {
	return PrivyClaims{
		SessionID: "session-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "did:privy:user-123",
			Issuer:    "privy.io",
			Audience:  jwt.ClaimStrings{testAppID},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestVerifyValidToken(t *testing.T) {
	priv, pemBytes := newTestKeys(t)
	v, err := NewVerifier(testAppID, pemBytes)
	require.NoError(t, err)

	privyID, err := v.Verify(signToken(t, priv, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "did:privy:user-123", privyID)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	priv, pemBytes := newTestKeys(t)
	v, err := NewVerifier(testAppID, pemBytes)
	require.NoError(t, err)

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	wrongAudience := validClaims()
	wrongAudience.Audience = jwt.ClaimStrings{"other-app"}

	wrongIssuer := validClaims()
	wrongIssuer.Issuer = "evil.example"

	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil

	for name, claims := range map[string]PrivyClaims{
		"expired":        expired,
		"wrong audience": wrongAudience,
		"wrong issuer":   wrongIssuer,
		"missing expiry": noExpiry,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(signToken(t, priv, claims))
			assert.Error(t, err)
		})
	}
}

func TestVerifyRejectsWrongSigningKey(t *testing.T) {
	_, pemBytes := newTestKeys(t)
	otherPriv, _ := newTestKeys(t)
	v, err := NewVerifier(testAppID, pemBytes)
	require.NoError(t, err)

	_, err = v.Verify(signToken(t, otherPriv, validClaims()))
	assert.Error(t, err)
}

func TestNewVerifierRejectsGarbagePEM(t *testing.T) {
	_, err := NewVerifier(testAppID, []byte("not a pem"))
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	priv, pemBytes := newTestKeys(t)
	v, err := NewVerifier(testAppID, pemBytes)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/me", v.Middleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"privy_id": CallerID(c)})
	})

	t.Run("valid token passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, priv, validClaims()))
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "did:privy:user-123")
	})

	t.Run("missing header rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed token rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
