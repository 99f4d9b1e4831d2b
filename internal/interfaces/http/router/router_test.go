package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/d8nd8/python-final-diplom/internal/infrastructure/auth"
	"github.com/d8nd8/python-final-diplom/internal/infrastructure/config"
	"github.com/d8nd8/python-final-diplom/internal/interfaces/http/handler"
	"github.com/d8nd8/python-final-diplom/internal/interfaces/http/middleware"
	"github.com/d8nd8/python-final-diplom/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/test/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	t.Run("applies middleware to subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("admin", "/admin").Use(func(c *gin.Context) {
			c.Header("X-Guard", "applied")
			c.Next()
		})
		g.Group("models", "/models").GET("", func(c *gin.Context) {
			c.String(http.StatusOK, "models")
		})
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/models", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "applied", w.Header().Get("X-Guard"))
	})

	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		ok := func(c *gin.Context) { c.Status(http.StatusOK) }
		g := NewDomainGroup("items", "/items").
			GET("", ok).
			POST("", ok).
			PUT("/:id", ok).
			DELETE("/:id", ok)
		g.RegisterRoutes(engine.Group(""))

		for _, route := range g.Routes() {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(route.Method, route.Path, nil))
			assert.Equal(t, http.StatusOK, w.Code, "%s %s", route.Method, route.Path)
		}
	})

	t.Run("lists routes with prefixes", func(t *testing.T) {
		g := NewDomainGroup("admin", "/admin")
		g.GET("/ping")
		g.Group("orders", "/orders").POST("/:id/status")

		assert.Equal(t, []Route{
			{Method: http.MethodGet, Path: "/admin/ping"},
			{Method: http.MethodPost, Path: "/admin/orders/:id/status"},
		}, g.Routes())
	})
}

func newMarketEngine(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "router-test-access-secret-32-chars",
		RefreshSecret:          "router-test-refresh-secret-32-char",
		AccessTokenExpiration:  time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "router-test",
	})
	// Services are never reached: every request below stops in a guard.
	handlers := Handlers{
		Auth:    handler.NewAuthHandler(nil),
		Product: handler.NewProductHandler(nil),
		Partner: handler.NewPartnerHandler(nil, nil),
		Contact: handler.NewContactHandler(nil),
		Cart:    handler.NewCartHandler(nil, nil),
		Order:   handler.NewOrderHandler(nil),
		Avatar:  handler.NewAvatarHandler(nil, 1024),
		Admin:   handler.NewAdminHandler(nil, nil),
	}

	engine := gin.New()
	r := NewRouter(engine)
	for _, g := range MarketGroups(handlers, Guards{Authenticate: middleware.JWTAuthMiddleware(jwtService)}) {
		r.Register(g)
	}
	r.Setup()
	return engine, jwtService
}

func TestMarketGroups_RouteTable(t *testing.T) {
	engine, _ := newMarketEngine(t)

	registered := map[string]bool{}
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",
		"POST /api/v1/auth/refresh",
		"GET /api/v1/auth/confirm-email",
		"POST /api/v1/auth/logout",
		"GET /api/v1/users/me",
		"POST /api/v1/users/me/avatar",
		"GET /api/v1/users/me/avatar/:task_id",
		"GET /api/v1/products",
		"GET /api/v1/products/:id",
		"POST /api/v1/partner/update",
		"GET /api/v1/partner/shops",
		"GET /api/v1/contacts",
		"POST /api/v1/contacts",
		"PUT /api/v1/contacts/:id",
		"DELETE /api/v1/contacts/:id",
		"GET /api/v1/cart",
		"POST /api/v1/cart/items",
		"DELETE /api/v1/cart/items/:id",
		"POST /api/v1/cart/confirm",
		"GET /api/v1/orders",
		"GET /api/v1/orders/:id",
		"POST /api/v1/orders/:id/confirm",
		"GET /api/v1/admin/models",
		"GET /api/v1/admin/models/:model",
		"POST /api/v1/admin/orders/:id/status",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestMarketGroups_Guards(t *testing.T) {
	engine, jwtService := newMarketEngine(t)
	token := func(userType string) map[string]string {
		pair, err := jwtService.GenerateTokenPair(auth.GenerateTokenInput{UserID: 7, Email: "u@example.com", UserType: userType})
		require.NoError(t, err)
		return map[string]string{"Authorization": "Bearer " + pair.AccessToken}
	}

	for _, path := range []string{"/api/v1/cart", "/api/v1/orders", "/api/v1/contacts", "/api/v1/users/me", "/api/v1/admin/models"} {
		w := testutil.PerformRequest(t, engine, http.MethodGet, path, nil, nil)
		testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, "UNAUTHORIZED")
	}

	w := testutil.PerformRequest(t, engine, http.MethodGet, "/api/v1/partner/shops", nil, token("buyer"))
	testutil.AssertErrorResponse(t, w, http.StatusForbidden, "NOT_SHOP_USER")

	w = testutil.PerformRequest(t, engine, http.MethodGet, "/api/v1/admin/models", nil, token("shop"))
	testutil.AssertErrorResponse(t, w, http.StatusForbidden, "NOT_ADMIN")
}
