package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/deedhub/land-registry/internal/logger"
)

// Gin context keys set by Auth and read by the request logger.
const (
	AuthTypeKey    = "auth_type"
	AuthSubjectKey = "auth_subject"
)

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string // RSA public key in PEM format
	APIKeys      []string
}

// AuthResult holds the result of authentication
type AuthResult struct {
	Success     bool
	AuthType    string // "jwt" or "apikey"
	AuthSubject string
	Error       error
}

// Authenticate checks an Authorization header against the configured
// credentials. Two schemes are accepted: "APIKey <key>" for
// service-to-service callers and "Bearer <jwt>" for tokens signed with the
// configured RSA key.
func Authenticate(authHeader string, cfg AuthConfig) AuthResult {
	if authHeader == "" {
		return AuthResult{Error: errors.New("missing Authorization header")}
	}

	scheme, credentials, found := strings.Cut(authHeader, " ")
	if !found {
		return AuthResult{Error: errors.New("invalid Authorization header format")}
	}

	switch strings.ToLower(scheme) {
	case "bearer":
		claims, err := validateJWT(credentials, cfg.JWTPublicKey)
		if err != nil {
			return AuthResult{Error: err}
		}
		return AuthResult{
			Success:     true,
			AuthType:    "jwt",
			AuthSubject: claims.Subject,
		}

	case "apikey":
		if err := validateAPIKey(credentials, cfg.APIKeys); err != nil {
			return AuthResult{Error: err}
		}
		return AuthResult{Success: true, AuthType: "apikey"}

	default:
		return AuthResult{Error: fmt.Errorf("unsupported authorization type: %s", scheme)}
	}
}

// Auth returns a gin middleware enforcing Authenticate on every request.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := Authenticate(c.GetHeader("Authorization"), cfg)

		if !result.Success {
			logger.Warn("Authentication failed",
				zap.Error(result.Error),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "unauthorized",
				"message": "Authentication failed",
			})
			return
		}

		c.Set(AuthTypeKey, result.AuthType)
		if result.AuthSubject != "" {
			c.Set(AuthSubjectKey, result.AuthSubject)
		}

		c.Next()
	}
}

// validateJWT verifies an RSA-signed token and returns its claims. Expiry
// and not-before are enforced by the jwt/v5 parser itself.
func validateJWT(tokenString string, publicKeyPEM string) (*jwt.RegisteredClaims, error) {
	if publicKeyPEM == "" {
		return nil, errors.New("JWT public key not configured")
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return publicKey, nil },
		jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// validateAPIKey matches a presented key against the configured set
func validateAPIKey(apiKey string, configured []string) error {
	if len(configured) == 0 {
		return errors.New("no API keys configured")
	}

	for _, key := range configured {
		if key != "" && key == apiKey {
			return nil
		}
	}
	return errors.New("invalid API key")
}
