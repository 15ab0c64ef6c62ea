package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kiylo/backend/internal/infrastructure/config"
)

var (
	// ErrInvalidToken indicates the token could not be parsed or verified
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("token expired")
	// ErrWrongTokenType indicates an access token was used where a refresh
	// token was expected, or vice versa
	ErrWrongTokenType = errors.New("wrong token type")
	// ErrRefreshLimitReached indicates the refresh chain has been extended
	// too many times and the user must log in again
	ErrRefreshLimitReached = errors.New("refresh limit reached")
)

const (
	// TokenTypeAccess marks short-lived tokens used to authorize requests
	TokenTypeAccess = "access"
	// TokenTypeRefresh marks long-lived tokens used to obtain new pairs
	TokenTypeRefresh = "refresh"
)

// Claims carries the identity payload embedded in both token types.
type Claims struct {
	UserID       string   `json:"user_id"`
	Email        string   `json:"email"`
	Roles        []string `json:"roles"`
	TokenType    string   `json:"token_type"`
	RefreshCount int      `json:"refresh_count,omitempty"`
	jwt.RegisteredClaims
}

// GetUserUUID parses the user ID claim
func (c *Claims) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

// TokenPair bundles an access token with its refresh counterpart.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// JWTService issues and validates signed tokens.
type JWTService struct {
	accessSecret    []byte
	refreshSecret   []byte
	accessTTL       time.Duration
	refreshTTL      time.Duration
	issuer          string
	maxRefreshCount int
}

// NewJWTService creates a token service from configuration. When no
// dedicated refresh secret is configured the access secret is reused.
func NewJWTService(cfg config.JWTConfig) *JWTService {
	refreshSecret := cfg.RefreshSecret
	if refreshSecret == "" {
		refreshSecret = cfg.Secret
	}
	return &JWTService{
		accessSecret:    []byte(cfg.Secret),
		refreshSecret:   []byte(refreshSecret),
		accessTTL:       cfg.AccessTokenExpiration,
		refreshTTL:      cfg.RefreshTokenExpiration,
		issuer:          cfg.Issuer,
		maxRefreshCount: cfg.MaxRefreshCount,
	}
}

// GenerateTokenPair issues a fresh access/refresh pair for a user.
func (s *JWTService) GenerateTokenPair(userID uuid.UUID, email string, roles []string) (*TokenPair, error) {
	return s.generatePair(userID, email, roles, 0)
}

func (s *JWTService) generatePair(userID uuid.UUID, email string, roles []string, refreshCount int) (*TokenPair, error) {
	now := time.Now()

	accessToken, err := s.sign(Claims{
		UserID:    userID.String(),
		Email:     email,
		Roles:     roles,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}, s.accessSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err := s.sign(Claims{
		UserID:       userID.String(),
		Email:        email,
		Roles:        roles,
		TokenType:    TokenTypeRefresh,
		RefreshCount: refreshCount,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
		},
	}, s.refreshSecret)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

func (s *JWTService) sign(claims Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateAccessToken verifies an access token and returns its claims.
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, TokenTypeAccess, s.accessSecret)
}

// ValidateRefreshToken verifies a refresh token and returns its claims.
func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, TokenTypeRefresh, s.refreshSecret)
}

func (s *JWTService) validate(tokenString, tokenType string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != tokenType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// RefreshTokenPair exchanges a valid refresh token for a new pair. The
// refresh count is carried forward so stolen tokens cannot be refreshed
// indefinitely.
func (s *JWTService) RefreshTokenPair(refreshToken string) (*TokenPair, error) {
	claims, err := s.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if s.maxRefreshCount > 0 && claims.RefreshCount >= s.maxRefreshCount {
		return nil, ErrRefreshLimitReached
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, ErrInvalidToken
	}
	return s.generatePair(userID, claims.Email, claims.Roles, claims.RefreshCount+1)
}
