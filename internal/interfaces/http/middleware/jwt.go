package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kiylo/backend/internal/infrastructure/auth"
	"github.com/kiylo/backend/internal/infrastructure/logger"
	"github.com/kiylo/backend/internal/interfaces/http/dto"
)

const (
	// ClaimsKey is the gin context key holding the validated token claims
	ClaimsKey = "jwt_claims"
	// UserIDKey is the gin context key holding the authenticated user ID
	UserIDKey = "jwt_user_id"
)

// JWTConfig configures the JWT authentication middleware
type JWTConfig struct {
	JWTService *auth.JWTService
	// Blacklist is consulted for revoked tokens. Optional; when nil
	// no revocation checks are performed.
	Blacklist auth.TokenBlacklist
	// SkipPaths are exact request paths that bypass authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that bypass authentication
	SkipPathPrefixes []string
	// OptionalPathPrefixes are path prefixes where a token is validated
	// when present, but anonymous requests pass through. Used for guest
	// carts.
	OptionalPathPrefixes []string
	Logger               *zap.Logger
}

// JWTAuth returns a middleware that validates Bearer tokens, rejects
// revoked tokens and stores the claims in the gin context. Blacklist
// lookups fail open: a storage error is logged but does not reject
// otherwise valid tokens.
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skip[path] {
			c.Next()
			return
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		optional := false
		for _, prefix := range cfg.OptionalPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				optional = true
				break
			}
		}

		token, ok := extractBearerToken(c)
		if !ok {
			if optional {
				c.Next()
				return
			}
			unauthorized(c, dto.ErrCodeUnauthorized, "Missing or malformed Authorization header")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				unauthorized(c, dto.ErrCodeTokenExpired, "Access token has expired")
			case errors.Is(err, auth.ErrWrongTokenType):
				unauthorized(c, dto.ErrCodeTokenInvalid, "Token is not an access token")
			default:
				unauthorized(c, dto.ErrCodeTokenInvalid, "Invalid access token")
			}
			return
		}

		if cfg.Blacklist != nil {
			revoked, err := cfg.Blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				log.Warn("Token blacklist lookup failed", zap.Error(err))
			} else if revoked {
				unauthorized(c, dto.ErrCodeTokenInvalid, "Token has been revoked")
				return
			}

			if claims.IssuedAt != nil {
				invalidated, err := cfg.Blacklist.IsUserTokenInvalidated(c.Request.Context(), claims.UserID, claims.IssuedAt.Time)
				if err != nil {
					log.Warn("Token invalidation lookup failed", zap.Error(err))
				} else if invalidated {
					unauthorized(c, dto.ErrCodeTokenInvalid, "Session has been invalidated")
					return
				}
			}
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, claims.UserID)

		ctx, _ := logger.WithUserID(c.Request.Context(), logger.FromContext(c.Request.Context()), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func extractBearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func unauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message, GetRequestID(c)))
}

// GetClaims returns the validated token claims set by JWTAuth
func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
