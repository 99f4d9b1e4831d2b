package router

import (
	"github.com/d8nd8/python-final-diplom/internal/interfaces/http/handler"
	"github.com/d8nd8/python-final-diplom/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the marketplace HTTP handlers
type Handlers struct {
	Auth    *handler.AuthHandler
	Product *handler.ProductHandler
	Partner *handler.PartnerHandler
	Contact *handler.ContactHandler
	Cart    *handler.CartHandler
	Order   *handler.OrderHandler
	Avatar  *handler.AvatarHandler
	Admin   *handler.AdminHandler
}

// Guards are the access middleware applied per area
type Guards struct {
	// Authenticate validates the bearer token
	Authenticate gin.HandlerFunc
	// LoginLimit throttles credential endpoints; optional
	LoginLimit gin.HandlerFunc
	// Authenticated runs after Authenticate, e.g. to tag spans with the user; optional
	Authenticated gin.HandlerFunc
}

func (g Guards) authChain(extra ...gin.HandlerFunc) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{g.Authenticate}
	if g.Authenticated != nil {
		chain = append(chain, g.Authenticated)
	}
	return append(chain, extra...)
}

// MarketGroups builds the /api/v{n} route groups of the marketplace
func MarketGroups(h Handlers, g Guards) []*DomainGroup {
	shopOnly := middleware.RequireUserType("NOT_SHOP_USER", "Only shop accounts can manage a catalog", "shop")
	adminOnly := middleware.RequireUserType("NOT_ADMIN", "Administrator access required", "admin")

	limited := func(next gin.HandlerFunc) []gin.HandlerFunc {
		if g.LoginLimit == nil {
			return []gin.HandlerFunc{next}
		}
		return []gin.HandlerFunc{g.LoginLimit, next}
	}

	authGroup := NewDomainGroup("auth", "/auth").
		POST("/register", limited(h.Auth.Register)...).
		POST("/login", limited(h.Auth.Login)...).
		POST("/refresh", limited(h.Auth.Refresh)...).
		GET("/confirm-email", h.Auth.ConfirmEmail).
		POST("/logout", g.authChain(h.Auth.Logout)...)

	users := NewDomainGroup("users", "/users").Use(g.authChain()...).
		GET("/me", h.Auth.Me).
		POST("/me/avatar", h.Avatar.Upload).
		GET("/me/avatar/:task_id", h.Avatar.Status)

	products := NewDomainGroup("products", "/products").
		GET("", h.Product.List).
		GET("/:id", h.Product.Get)

	partner := NewDomainGroup("partner", "/partner").Use(g.authChain(shopOnly)...).
		POST("/update", h.Partner.Update).
		GET("/shops", h.Partner.Shops)

	contacts := NewDomainGroup("contacts", "/contacts").Use(g.authChain()...).
		GET("", h.Contact.List).
		POST("", h.Contact.Create).
		PUT("/:id", h.Contact.Update).
		DELETE("/:id", h.Contact.Delete)

	cart := NewDomainGroup("cart", "/cart").Use(g.authChain()...).
		GET("", h.Cart.Get).
		POST("/items", h.Cart.AddItem).
		DELETE("/items/:id", h.Cart.RemoveItem).
		POST("/confirm", h.Cart.Confirm)

	orders := NewDomainGroup("orders", "/orders").Use(g.authChain()...).
		GET("", h.Order.List).
		GET("/:id", h.Order.Get).
		POST("/:id/confirm", h.Order.Confirm)

	adminGroup := NewDomainGroup("admin", "/admin").Use(g.authChain(adminOnly)...)
	adminGroup.Group("models", "/models").
		GET("", h.Admin.Models).
		GET("/:model", h.Admin.ListRows)
	adminGroup.Group("orders", "/orders").
		POST("/:id/status", h.Admin.ChangeOrderStatus)

	return []*DomainGroup{authGroup, users, products, partner, contacts, cart, orders, adminGroup}
}
