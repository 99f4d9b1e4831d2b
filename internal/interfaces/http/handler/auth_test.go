package handler

import (
	"net/http"
	"testing"
	"time"

	appidentity "github.com/d8nd8/python-final-diplom/internal/application/identity"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/auth"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/config"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/notify"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/persistence"
	"github.com/d8nd8/python-final-diplom/internal/interfaces/http/dto"
	"github.com/d8nd8/python-final-diplom/internal/interfaces/http/middleware"
	"github.com/d8nd8/python-final-diplom/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newAuthServer(t *testing.T) *gin.Engine {
	db := testutil.NewSQLiteDB(t)
	log := zaptest.NewLogger(t)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "handler-test-access-secret-32-chars",
		RefreshSecret:          "handler-test-refresh-secret-32-char",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "market-test",
		MaxRefreshCount:        5,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	svc := appidentity.NewAuthService(
		persistence.NewGormUserRepository(db),
		persistence.NewGormEmailConfirmTokenRepository(db),
		jwtService,
		blacklist,
		notify.NewLogNotifier(log),
		appidentity.AuthServiceConfig{ConfirmTokenTTL: time.Hour, ExposeConfirmToken: true},
		log,
	)
	h := NewAuthHandler(svc)

	jwtCfg := middleware.DefaultJWTConfig(jwtService)
	jwtCfg.TokenBlacklist = blacklist

	engine := gin.New()
	engine.Use(middleware.RequestID())
	public := engine.Group("/auth")
	public.POST("/register", h.Register)
	public.GET("/confirm-email", h.ConfirmEmail)
	public.POST("/login", h.Login)
	public.POST("/refresh", h.Refresh)
	private := engine.Group("", middleware.JWTAuthMiddlewareWithConfig(jwtCfg))
	private.POST("/auth/logout", h.Logout)
	private.GET("/users/me", h.Me)
	return engine
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestAuthHandler_RegisterConfirmLoginLogout(t *testing.T) {
	engine := newAuthServer(t)
	register := appidentity.RegisterRequest{
		Email:           "Shop@Example.com",
		Password:        "secret-pass",
		PasswordConfirm: "secret-pass",
		Company:         "Acme",
		Type:            "shop",
	}
	login := appidentity.LoginRequest{Email: "shop@example.com", Password: "secret-pass"}

	w := testutil.PerformRequest(t, engine, http.MethodPost, "/auth/register", register, nil)
	testutil.AssertSuccessResponse(t, w, http.StatusCreated)
	registered := testutil.DecodeData[appidentity.RegisterResult](t, w)
	assert.Equal(t, "shop@example.com", registered.User.Email)
	assert.False(t, registered.User.IsActive)
	require.NotEmpty(t, registered.ConfirmToken)

	w = testutil.PerformRequest(t, engine, http.MethodPost, "/auth/register", register, nil)
	testutil.AssertErrorResponse(t, w, http.StatusConflict, "EMAIL_ALREADY_EXISTS")

	w = testutil.PerformRequest(t, engine, http.MethodPost, "/auth/login", login, nil)
	testutil.AssertErrorResponse(t, w, http.StatusForbidden, "ACCOUNT_INACTIVE")

	w = testutil.PerformRequest(t, engine, http.MethodGet, "/auth/confirm-email?token="+registered.ConfirmToken, nil, nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	assert.True(t, testutil.DecodeData[appidentity.UserResponse](t, w).IsActive)

	w = testutil.PerformRequest(t, engine, http.MethodPost, "/auth/login", login, nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	tokens := testutil.DecodeData[appidentity.TokenResponse](t, w)
	require.NotEmpty(t, tokens.AccessToken)

	w = testutil.PerformRequest(t, engine, http.MethodGet, "/users/me", nil, bearer(tokens.AccessToken))
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	me := testutil.DecodeData[appidentity.UserResponse](t, w)
	assert.Equal(t, "shop", me.Type)
	assert.Equal(t, "Acme", me.Company)

	w = testutil.PerformRequest(t, engine, http.MethodPost, "/auth/refresh", appidentity.RefreshTokenRequest{RefreshToken: tokens.RefreshToken}, nil)
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	rotated := testutil.DecodeData[appidentity.TokenResponse](t, w)

	w = testutil.PerformRequest(t, engine, http.MethodPost, "/auth/refresh", appidentity.RefreshTokenRequest{RefreshToken: tokens.RefreshToken}, nil)
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, "TOKEN_REVOKED")

	w = testutil.PerformRequest(t, engine, http.MethodPost, "/auth/logout", nil, bearer(rotated.AccessToken))
	testutil.AssertSuccessResponse(t, w, http.StatusOK)
	assert.Equal(t, "Logged out", testutil.DecodeData[dto.MessageResponse](t, w).Message)

	w = testutil.PerformRequest(t, engine, http.MethodGet, "/users/me", nil, bearer(rotated.AccessToken))
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, "TOKEN_REVOKED")
}

func TestAuthHandler_Rejections(t *testing.T) {
	engine := newAuthServer(t)

	w := testutil.PerformRequest(t, engine, http.MethodPost, "/auth/register", appidentity.RegisterRequest{
		Email: "a@example.com", Password: "secret-pass", PasswordConfirm: "other-pass",
	}, nil)
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "PASSWORD_MISMATCH")

	w = testutil.PerformRequest(t, engine, http.MethodPost, "/auth/register", map[string]string{
		"email": "a@example.com", "password": "short", "password_confirm": "short",
	}, nil)
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "VALIDATION_ERROR")

	w = testutil.PerformRequest(t, engine, http.MethodPost, "/auth/login", appidentity.LoginRequest{
		Email: "nobody@example.com", Password: "secret-pass",
	}, nil)
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, "INVALID_CREDENTIALS")

	w = testutil.PerformRequest(t, engine, http.MethodGet, "/auth/confirm-email", nil, nil)
	testutil.AssertErrorResponse(t, w, http.StatusBadRequest, "BAD_REQUEST")

	w = testutil.PerformRequest(t, engine, http.MethodPost, "/auth/logout", nil, nil)
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, "UNAUTHORIZED")
}
