package auth

import (
	"crypto/ecdsa"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextKeyPrivyID ist der gin-Context-Schlüssel, unter dem die
// Middleware die verifizierte Privy-ID des Aufrufers ablegt.
const ContextKeyPrivyID = "privy_id"

// PrivyClaims sind die Claims eines Privy-Access-Tokens. sub trägt die
// Privy-DID des Nutzers, sid die Session.
type PrivyClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Verifier prüft Privy-Access-Tokens (ES256) gegen den App-eigenen
// Verifikationsschlüssel aus dem Privy-Dashboard.
type Verifier struct {
	appID string
	key   *ecdsa.PublicKey
}

// NewVerifier parst den PEM-kodierten EC-Public-Key.
func NewVerifier(appID string, keyPEM []byte) (*Verifier, error) {
	key, err := jwt.ParseECPublicKeyFromPEM(keyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse privy verification key: %w", err)
	}
	return &Verifier{appID: appID, key: key}, nil
}

// Verify prüft Signatur, Issuer, Audience und Ablauf und gibt die
// Privy-ID (sub) zurück.
func (v *Verifier) Verify(token string) (string, error) {
	claims := &PrivyClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) { return v.key, nil },
		jwt.WithValidMethods([]string{"ES256"}),
		jwt.WithIssuer("privy.io"),
		jwt.WithAudience(v.appID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", err
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return claims.Subject, nil
}

// Middleware verlangt einen gültigen Bearer-Token und hinterlegt die
// Privy-ID im Request-Context.
func (v *Verifier) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Missing bearer token"})
			return
		}
		privyID, err := v.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid token"})
			return
		}
		c.Set(ContextKeyPrivyID, privyID)
		c.Next()
	}
}

// CallerID liest die von der Middleware hinterlegte Privy-ID.
func CallerID(c *gin.Context) string {
	return c.GetString(ContextKeyPrivyID)
}
