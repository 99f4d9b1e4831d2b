package identity_test

import (
	"context"
	"testing"
	"time"

	appidentity "github.com/d8nd8/python-final-diplom/internal/application/identity"
	"github.com/d8nd8/python-final-diplom/internal/domain/identity"
	"github.com/d8nd8/python-final-diplom/internal/domain/shared"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/auth"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/config"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/notify"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/persistence"
	"github.com/d8nd8/python-final-diplom/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

type authFixture struct {
	db        *gorm.DB
	svc       *appidentity.AuthService
	jwt       *auth.JWTService
	blacklist *auth.InMemoryTokenBlacklist
	tokens    identity.EmailConfirmTokenRepository
	logs      *observer.ObservedLogs
}

func newAuthFixture(t *testing.T, expose bool) *authFixture {
	db := testutil.NewSQLiteDB(t)
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret-with-enough-length",
		RefreshSecret:          "test-refresh-secret-with-enough-length",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "market-test",
		MaxRefreshCount:        2,
	})
	f := &authFixture{
		db:        db,
		jwt:       jwtService,
		blacklist: auth.NewInMemoryTokenBlacklist(),
		tokens:    persistence.NewGormEmailConfirmTokenRepository(db),
		logs:      logs,
	}
	f.svc = appidentity.NewAuthService(
		persistence.NewGormUserRepository(db),
		f.tokens,
		jwtService,
		f.blacklist,
		notify.NewLogNotifier(log),
		appidentity.AuthServiceConfig{ConfirmTokenTTL: time.Hour, ExposeConfirmToken: expose},
		log,
	)
	return f
}

func registerRequest(email string) appidentity.RegisterRequest {
	return appidentity.RegisterRequest{
		Email:           email,
		Password:        "s3cret-pass",
		PasswordConfirm: "s3cret-pass",
		FirstName:       "Ivan",
		LastName:        "Petrov",
		Company:         "Acme",
		Position:        "Manager",
		Type:            "shop",
	}
}

// registerActive creates a user and confirms the email
func (f *authFixture) registerActive(t *testing.T, email string) *appidentity.RegisterResult {
	t.Helper()
	result, err := f.svc.Register(context.Background(), registerRequest(email))
	require.NoError(t, err)
	require.NotEmpty(t, result.ConfirmToken)
	_, err = f.svc.ConfirmEmail(context.Background(), result.ConfirmToken)
	require.NoError(t, err)
	return result
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	return de.Code
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an inactive user and issues a token", func(t *testing.T) {
		f := newAuthFixture(t, false)

		result, err := f.svc.Register(ctx, registerRequest("  Ivan@Example.COM "))
		require.NoError(t, err)
		assert.Equal(t, "ivan@example.com", result.User.Email)
		assert.Equal(t, "shop", result.User.Type)
		assert.False(t, result.User.IsActive)
		assert.Equal(t, "Acme", result.User.Company)
		assert.Empty(t, result.ConfirmToken, "token is only delivered through the notifier")

		issued := f.logs.FilterMessage("Email confirmation issued").All()
		require.Len(t, issued, 1)
		assert.Equal(t, "ivan@example.com", issued[0].ContextMap()["email"])

		var count int64
		require.NoError(t, f.db.Table("email_confirm_tokens").Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("buyer is the default type", func(t *testing.T) {
		f := newAuthFixture(t, true)
		req := registerRequest("buyer@example.com")
		req.Type = ""

		result, err := f.svc.Register(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "buyer", result.User.Type)
	})

	t.Run("rejections", func(t *testing.T) {
		f := newAuthFixture(t, true)
		f.registerActive(t, "taken@example.com")

		mismatch := registerRequest("new@example.com")
		mismatch.PasswordConfirm = "other-pass"
		admin := registerRequest("root@example.com")
		admin.Type = "admin"
		short := registerRequest("short@example.com")
		short.Password, short.PasswordConfirm = "abc", "abc"

		tests := []struct {
			name string
			req  appidentity.RegisterRequest
			code string
		}{
			{"password mismatch", mismatch, appidentity.ErrCodePasswordMismatch},
			{"admin self-registration", admin, appidentity.ErrCodeInvalidUserType},
			{"duplicate email ignores case", registerRequest("TAKEN@example.com"), appidentity.ErrCodeEmailExists},
			{"short password", short, "INVALID_PASSWORD"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := f.svc.Register(ctx, tt.req)
				assert.Equal(t, tt.code, codeOf(t, err))
			})
		}
	})
}

func TestAuthService_ConfirmEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("activates the user and consumes the token", func(t *testing.T) {
		f := newAuthFixture(t, true)
		result, err := f.svc.Register(ctx, registerRequest("ivan@example.com"))
		require.NoError(t, err)

		user, err := f.svc.ConfirmEmail(ctx, result.ConfirmToken)
		require.NoError(t, err)
		assert.True(t, user.IsActive)

		_, err = f.svc.ConfirmEmail(ctx, result.ConfirmToken)
		assert.Equal(t, appidentity.ErrCodeInvalidConfirmToken, codeOf(t, err), "token is single use")
	})

	t.Run("expired token is deleted and rejected", func(t *testing.T) {
		f := newAuthFixture(t, true)
		result, err := f.svc.Register(ctx, registerRequest("late@example.com"))
		require.NoError(t, err)
		require.NoError(t, f.db.Table("email_confirm_tokens").
			Where("token = ?", result.ConfirmToken).
			Update("expires_at", time.Now().Add(-time.Minute)).Error)

		_, err = f.svc.ConfirmEmail(ctx, result.ConfirmToken)
		assert.Equal(t, appidentity.ErrCodeConfirmTokenExpired, codeOf(t, err))

		_, err = f.tokens.FindByToken(ctx, result.ConfirmToken)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		me, err := f.svc.Me(ctx, result.User.ID)
		require.NoError(t, err)
		assert.False(t, me.IsActive)
	})

	t.Run("unknown and empty tokens", func(t *testing.T) {
		f := newAuthFixture(t, true)
		for _, token := range []string{"", "nope"} {
			_, err := f.svc.ConfirmEmail(ctx, token)
			assert.Equal(t, appidentity.ErrCodeInvalidConfirmToken, codeOf(t, err))
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, true)
	f.registerActive(t, "ivan@example.com")

	pending, err := f.svc.Register(ctx, registerRequest("pending@example.com"))
	require.NoError(t, err)

	t.Run("issues a token pair", func(t *testing.T) {
		resp, err := f.svc.Login(ctx, appidentity.LoginRequest{Email: "IVAN@example.com", Password: "s3cret-pass"})
		require.NoError(t, err)
		require.NotNil(t, resp.User)
		assert.Equal(t, "ivan@example.com", resp.User.Email)
		assert.Equal(t, "Bearer", resp.TokenType)

		claims, err := f.jwt.ValidateAccessToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, claims.UserID)
		assert.Equal(t, "shop", claims.UserType)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		_, err := f.svc.Login(ctx, appidentity.LoginRequest{Email: "ivan@example.com", Password: "wrong-pass"})
		assert.Equal(t, appidentity.ErrCodeInvalidCredentials, codeOf(t, err))
		_, err = f.svc.Login(ctx, appidentity.LoginRequest{Email: "ghost@example.com", Password: "s3cret-pass"})
		assert.Equal(t, appidentity.ErrCodeInvalidCredentials, codeOf(t, err))
	})

	t.Run("inactive account", func(t *testing.T) {
		_, err := f.svc.Login(ctx, appidentity.LoginRequest{Email: pending.User.Email, Password: "s3cret-pass"})
		assert.Equal(t, appidentity.ErrCodeAccountInactive, codeOf(t, err))
	})
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, true)
	f.registerActive(t, "ivan@example.com")

	login, err := f.svc.Login(ctx, appidentity.LoginRequest{Email: "ivan@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	t.Run("rotation revokes the used refresh token", func(t *testing.T) {
		rotated, err := f.svc.Refresh(ctx, appidentity.RefreshTokenRequest{RefreshToken: login.RefreshToken})
		require.NoError(t, err)
		assert.NotEqual(t, login.RefreshToken, rotated.RefreshToken)

		_, err = f.svc.Refresh(ctx, appidentity.RefreshTokenRequest{RefreshToken: login.RefreshToken})
		assert.Equal(t, appidentity.ErrCodeTokenRevoked, codeOf(t, err))

		second, err := f.svc.Refresh(ctx, appidentity.RefreshTokenRequest{RefreshToken: rotated.RefreshToken})
		require.NoError(t, err)
		_, err = f.svc.Refresh(ctx, appidentity.RefreshTokenRequest{RefreshToken: second.RefreshToken})
		assert.Equal(t, appidentity.ErrCodeTokenMaxRefresh, codeOf(t, err))
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := f.svc.Refresh(ctx, appidentity.RefreshTokenRequest{RefreshToken: login.AccessToken})
		assert.Equal(t, appidentity.ErrCodeTokenInvalid, codeOf(t, err))
	})

	t.Run("logout blacklists the access token", func(t *testing.T) {
		claims, err := f.jwt.ValidateAccessToken(login.AccessToken)
		require.NoError(t, err)

		require.NoError(t, f.svc.Logout(ctx, claims))
		revoked, err := f.blacklist.IsBlacklisted(ctx, claims.ID)
		require.NoError(t, err)
		assert.True(t, revoked)
		assert.Equal(t, 1, f.logs.FilterMessage("User logged out").Len())
	})
}

func TestAuthService_Me(t *testing.T) {
	f := newAuthFixture(t, true)
	result := f.registerActive(t, "ivan@example.com")

	me, err := f.svc.Me(context.Background(), result.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ivan", me.FirstName)
	assert.True(t, me.IsActive)

	_, err = f.svc.Me(context.Background(), 9999)
	assert.Equal(t, appidentity.ErrCodeUserNotFound, codeOf(t, err))
}
