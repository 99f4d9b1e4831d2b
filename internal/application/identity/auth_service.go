package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/d8nd8/python-final-diplom/internal/domain/identity"
	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/auth"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/logger"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Auth error codes
const (
	ErrCodePasswordMismatch     = "PASSWORD_MISMATCH"
	ErrCodeEmailExists          = "EMAIL_ALREADY_EXISTS"
	ErrCodeInvalidCredentials   = "INVALID_CREDENTIALS"
	ErrCodeAccountInactive      = "ACCOUNT_INACTIVE"
	ErrCodeInvalidConfirmToken  = "INVALID_CONFIRM_TOKEN"
	ErrCodeConfirmTokenExpired  = "CONFIRM_TOKEN_EXPIRED"
	ErrCodeUserNotFound         = "USER_NOT_FOUND"
	ErrCodeTokenExpired         = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid         = "TOKEN_INVALID"
	ErrCodeTokenRevoked         = "TOKEN_REVOKED"
	ErrCodeTokenMaxRefresh      = "TOKEN_MAX_REFRESH"
	ErrCodeInvalidUserType      = "INVALID_USER_TYPE"
)

// ConfirmationSender delivers the email confirmation token to a new user
type ConfirmationSender interface {
	SendEmailConfirmation(ctx context.Context, email, token string) error
}

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	ConfirmTokenTTL    time.Duration
	ExposeConfirmToken bool // return the token in the register response instead of relying on delivery
}

// AuthService handles registration, email confirmation and token issuance
type AuthService struct {
	users     identity.UserRepository
	tokens    identity.EmailConfirmTokenRepository
	jwt       *auth.JWTService
	blacklist auth.TokenBlacklist
	sender    ConfirmationSender
	config    AuthServiceConfig
	logger    *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users identity.UserRepository,
	tokens identity.EmailConfirmTokenRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	sender ConfirmationSender,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.ConfirmTokenTTL <= 0 {
		config.ConfirmTokenTTL = identity.EmailConfirmTokenTTL
	}
	return &AuthService{
		users:     users,
		tokens:    tokens,
		jwt:       jwtService,
		blacklist: blacklist,
		sender:    sender,
		config:    config,
		logger:    logger,
	}
}

// Register creates an inactive buyer or shop account and issues an email confirmation token
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "register")
	defer span.End()
	log := logger.Enrich(ctx, s.logger)

	if req.Password != req.PasswordConfirm {
		err := shared.NewDomainError(ErrCodePasswordMismatch, "Passwords do not match")
		telemetry.RecordError(span, err)
		return nil, err
	}
	userType := identity.UserType(req.Type)
	if userType == identity.UserTypeAdmin {
		err := shared.NewDomainError(ErrCodeInvalidUserType, "Admin accounts cannot be registered")
		telemetry.RecordError(span, err)
		return nil, err
	}

	email := identity.NormalizeEmail(req.Email)
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		err := shared.NewDomainError(ErrCodeEmailExists, "A user with this email already exists")
		telemetry.RecordError(span, err)
		return nil, err
	}

	user, err := identity.NewUser(email, req.Password, userType)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := user.SetProfile(req.FirstName, req.LastName, req.Company, req.Position); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			err = shared.NewDomainError(ErrCodeEmailExists, "A user with this email already exists")
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	token, err := identity.NewEmailConfirmToken(user.ID, s.config.ConfirmTokenTTL)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to store confirmation token: %w", err)
	}
	if s.sender != nil {
		if err := s.sender.SendEmailConfirmation(ctx, user.Email, token.Token); err != nil {
			log.Error("Email confirmation delivery failed", zap.Int64("user_id", user.ID), zap.Error(err))
		}
	}

	span.SetAttributes(telemetry.AttrUserID.Int64(user.ID))
	telemetry.SetOK(span)
	log.Info("User registered", zap.Int64("user_id", user.ID), zap.String("type", user.Type.String()))

	result := &RegisterResult{User: ToUserResponse(user)}
	if s.config.ExposeConfirmToken {
		result.ConfirmToken = token.Token
	}
	return result, nil
}

// ConfirmEmail activates the token's user. The token is single use; an expired token is removed and rejected.
func (s *AuthService) ConfirmEmail(ctx context.Context, value string) (*UserResponse, error) {
	log := logger.Enrich(ctx, s.logger)

	token, err := s.tokens.FindByToken(ctx, value)
	if errors.Is(err, shared.ErrNotFound) || value == "" {
		return nil, shared.NewDomainError(ErrCodeInvalidConfirmToken, "Confirmation token is invalid")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load confirmation token: %w", err)
	}

	if token.IsExpired() {
		if err := s.tokens.Delete(ctx, token.ID); err != nil {
			log.Warn("Failed to delete expired confirmation token", zap.Int64("token_id", token.ID), zap.Error(err))
		}
		return nil, shared.NewDomainError(ErrCodeConfirmTokenExpired, "Confirmation token has expired")
	}

	user, err := s.users.FindByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(ErrCodeInvalidConfirmToken, "Confirmation token is invalid")
		}
		return nil, err
	}
	user.Activate()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to activate user: %w", err)
	}
	if err := s.tokens.Delete(ctx, token.ID); err != nil {
		log.Warn("Failed to delete used confirmation token", zap.Int64("token_id", token.ID), zap.Error(err))
	}

	log.Info("Email confirmed", zap.Int64("user_id", user.ID))
	resp := ToUserResponse(user)
	return &resp, nil
}

// Login checks credentials and returns a fresh token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "login")
	defer span.End()
	log := logger.Enrich(ctx, s.logger)

	email := identity.NormalizeEmail(req.Email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			telemetry.RecordError(span, err)
			return nil, err
		}
		log.Warn("Login for unknown email", zap.String("email", email))
		err = invalidCredentials()
		telemetry.RecordError(span, err)
		return nil, err
	}
	if !user.VerifyPassword(req.Password) {
		log.Warn("Invalid password attempt", zap.Int64("user_id", user.ID))
		err := invalidCredentials()
		telemetry.RecordError(span, err)
		return nil, err
	}
	if !user.IsActive {
		err := shared.NewDomainError(ErrCodeAccountInactive, "Account is not active, confirm your email first")
		telemetry.RecordError(span, err)
		return nil, err
	}

	pair, err := s.jwt.GenerateTokenPair(tokenInput(user))
	if err != nil {
		log.Error("Failed to generate token pair", zap.Error(err))
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	span.SetAttributes(telemetry.AttrUserID.Int64(user.ID))
	telemetry.SetOK(span)
	log.Info("User logged in", zap.Int64("user_id", user.ID))
	return toTokenResponse(pair, user), nil
}

// Refresh exchanges a refresh token for a new pair. The used refresh token is revoked.
func (s *AuthService) Refresh(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error) {
	log := logger.Enrich(ctx, s.logger)

	claims, err := s.jwt.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		log.Warn("Refresh token validation failed", zap.Error(err))
		return nil, tokenError(err)
	}
	if s.blacklist != nil {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check token revocation: %w", err)
		}
		if revoked {
			return nil, tokenError(auth.ErrTokenBlacklisted)
		}
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError(ErrCodeUserNotFound, "User")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, shared.NewDomainError(ErrCodeAccountInactive, "Account is no longer active")
	}

	pair, err := s.jwt.RotateTokenPair(claims, tokenInput(user))
	if err != nil {
		log.Warn("Token rotation failed", zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, tokenError(err)
	}
	s.revoke(ctx, claims)

	log.Info("Token refreshed", zap.Int64("user_id", user.ID))
	return toTokenResponse(pair, nil), nil
}

// Logout revokes the access token until it would have expired anyway
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return shared.NewDomainError(ErrCodeTokenInvalid, "Missing token claims")
	}
	s.revoke(ctx, claims)
	logger.Enrich(ctx, s.logger).Info("User logged out", zap.Int64("user_id", claims.UserID))
	return nil
}

// Me returns the user's profile
func (s *AuthService) Me(ctx context.Context, userID int64) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError(ErrCodeUserNotFound, "User")
		}
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

func (s *AuthService) revoke(ctx context.Context, claims *auth.Claims) {
	if s.blacklist == nil || claims.ID == "" {
		return
	}
	ttl := claims.GetRemainingTTL()
	if ttl <= 0 {
		return
	}
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, ttl); err != nil {
		logger.Enrich(ctx, s.logger).Error("Failed to revoke token",
			zap.Int64("user_id", claims.UserID), zap.Error(err))
	}
}

func tokenInput(u *identity.User) auth.GenerateTokenInput {
	return auth.GenerateTokenInput{UserID: u.ID, Email: u.Email, UserType: u.Type.String()}
}

func invalidCredentials() error {
	return shared.NewDomainError(ErrCodeInvalidCredentials, "Invalid email or password")
}

// tokenError maps JWT failures to domain errors
func tokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError(ErrCodeTokenExpired, "Refresh token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError(ErrCodeTokenMaxRefresh, "Maximum token refresh count exceeded. Please log in again")
	case errors.Is(err, auth.ErrTokenBlacklisted):
		return shared.NewDomainError(ErrCodeTokenRevoked, "Refresh token has been revoked")
	default:
		return shared.NewDomainError(ErrCodeTokenInvalid, "Invalid refresh token")
	}
}
