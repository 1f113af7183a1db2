// internal/handlers/middleware/auth.go
package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/ammerola/warehouse-be/internal/pkg/logger"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims are the token claims the API reads
type Claims struct {
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager signs and validates HS256 bearer tokens
type JWTManager struct {
	secretKey []byte
	issuer    string
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secretKey, issuer string) *JWTManager {
	return &JWTManager{
		secretKey: []byte(secretKey),
		issuer:    issuer,
	}
}

// GenerateToken issues a token for subject that expires after ttl
func (j *JWTManager) GenerateToken(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    j.issuer,
			Subject:   subject,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
}

// ValidateToken validates a token and returns its claims
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return j.secretKey, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Authenticate attributes requests to the token subject. A present but
// invalid token is always rejected. When requireWrites is set, requests
// other than GET, HEAD and OPTIONS must carry a valid token.
func Authenticate(manager *JWTManager, requireWrites bool, slogger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			header := r.Header.Get("Authorization")

			if header == "" {
				if requireWrites && !isReadOnly(r.Method) {
					writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Authorization header is required")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Authorization header must be a bearer token")
				return
			}

			claims, err := manager.ValidateToken(tokenString)
			if err != nil {
				slogger.WarnContext(ctx, "rejected bearer token",
					slog.String("error", err.Error()))
				message := "Invalid token"
				if errors.Is(err, ErrExpiredToken) {
					message = "Token expired"
				}
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", message)
				return
			}

			subject := claims.Subject
			if subject == "" {
				subject = claims.Username
			}
			ctx = logger.WithContextValue(ctx, logger.ContextKeyUserID, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func isReadOnly(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}
