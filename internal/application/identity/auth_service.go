package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kiylo/backend/internal/domain/identity"
	"github.com/kiylo/backend/internal/domain/shared"
	"github.com/kiylo/backend/internal/infrastructure/auth"
	"github.com/kiylo/backend/internal/infrastructure/logger"
)

var errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")

// AuthService handles registration, login and token lifecycle.
type AuthService struct {
	users     identity.UserRepository
	tokens    *auth.JWTService
	blacklist auth.TokenBlacklist
}

// NewAuthService creates an auth service
func NewAuthService(users identity.UserRepository, tokens *auth.JWTService, blacklist auth.TokenBlacklist) *AuthService {
	return &AuthService{users: users, tokens: tokens, blacklist: blacklist}
}

// Register creates a new user account with the default role.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	user, err := identity.NewUser(email, hash, identity.RoleUser)
	if err != nil {
		return nil, err
	}
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Phone = req.Phone

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return ToUserResponse(user), nil
}

// Login verifies credentials and issues a token pair. Failures do not
// reveal whether the email exists.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		logger.L(ctx).Warn("Login failed", zap.String("email", email))
		return nil, errInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "This account has been deactivated")
	}

	pair, err := s.tokens.GenerateTokenPair(user.ID, user.Email, user.Roles)
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("User logged in", zap.String("user_id", user.ID.String()))

	return &LoginResponse{Tokens: pair, User: ToUserResponse(user)}, nil
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*auth.TokenPair, error) {
	claims, err := s.tokens.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid refresh token")
	}

	blocked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Refresh token has been revoked")
	}
	if claims.IssuedAt != nil {
		invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.IssuedAt.Time)
		if err != nil {
			return nil, err
		}
		if invalidated {
			return nil, shared.NewDomainError("UNAUTHORIZED", "Refresh token has been revoked")
		}
	}

	pair, err := s.tokens.RefreshTokenPair(req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrRefreshLimitReached) {
			return nil, shared.NewDomainError("UNAUTHORIZED", "Session expired, please log in again")
		}
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid refresh token")
	}
	return pair, nil
}

// Logout revokes both tokens of the current session.
func (s *AuthService) Logout(ctx context.Context, accessClaims *auth.Claims, refreshToken string) error {
	if err := s.blacklist.AddToBlacklist(ctx, accessClaims.ID, remainingTTL(accessClaims)); err != nil {
		return err
	}

	if refreshToken != "" {
		if claims, err := s.tokens.ValidateRefreshToken(refreshToken); err == nil {
			if err := s.blacklist.AddToBlacklist(ctx, claims.ID, remainingTTL(claims)); err != nil {
				return err
			}
		}
	}

	logger.L(ctx).Info("User logged out", zap.String("user_id", accessClaims.UserID))
	return nil
}

// ChangePassword rotates the password and revokes all outstanding tokens.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.VerifyPassword(user.PasswordHash, req.CurrentPassword) {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Current password is incorrect")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	user.PasswordHash = hash

	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	// existing sessions must not survive a password change
	return s.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), 168*time.Hour)
}

func remainingTTL(claims *auth.Claims) time.Duration {
	if claims.ExpiresAt == nil {
		return 0
	}
	return time.Until(claims.ExpiresAt.Time)
}
