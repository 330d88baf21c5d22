package httpserver

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"legato/internal/cart"
	"legato/internal/checkout"
	"legato/internal/domain"
	productsvc "legato/internal/service/product"
)

type ProductService interface {
	Search(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Submit(ctx context.Context, in productsvc.SubmitInput) (*domain.Product, error)
	SearchAll(ctx context.Context, query, kind string) (*productsvc.SearchResults, error)
	Categories(ctx context.Context) ([]domain.CategorySummary, error)
}

type CartService interface {
	Summary(ctx context.Context, session string) (*cart.Summary, error)
	Add(ctx context.Context, session, productID string, quantity int) (*cart.Summary, error)
	UpdateQuantity(ctx context.Context, session, id string, n int) (*cart.Summary, error)
	Remove(ctx context.Context, session, id string) (*cart.Summary, error)
	Clear(ctx context.Context, session string) error
}

type CheckoutService interface {
	Place(ctx context.Context, session string, req checkout.Request) (*checkout.Confirmation, error)
}

type WishlistService interface {
	List(ctx context.Context, session string) ([]domain.WishlistEntry, error)
	Add(ctx context.Context, session string, entry domain.WishlistEntry) ([]domain.WishlistEntry, error)
	Remove(ctx context.Context, session, id string) ([]domain.WishlistEntry, error)
	Clear(ctx context.Context, session string) error
}

type AdminService interface {
	ListPending(ctx context.Context) ([]domain.Product, error)
	Approve(ctx context.Context, id string) (*domain.Product, error)
	Reject(ctx context.Context, id, reason string) (*domain.Product, error)
	Stats(ctx context.Context) (*domain.DashboardStats, error)
	RecentListings(ctx context.Context, limit int) ([]domain.Product, error)
	Users(ctx context.Context) ([]domain.User, error)
	Revenue(ctx context.Context, months int) ([]domain.RevenuePoint, error)
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, token string) error
	TokenTTLSeconds() int
}

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Deps groups the services the router dispatches to.
type Deps struct {
	ProductSvc  ProductService
	CartSvc     CartService
	CheckoutSvc CheckoutService
	WishlistSvc WishlistService
	AdminSvc    AdminService
	AuthSvc     AuthService

	Database Pinger
	Services map[string]Pinger

	SampleFallback bool
	CORSOrigins    []string
}

func (d Deps) validate() error {
	switch {
	case d.ProductSvc == nil:
		return errors.New("httpserver: product service is required")
	case d.CartSvc == nil:
		return errors.New("httpserver: cart service is required")
	case d.CheckoutSvc == nil:
		return errors.New("httpserver: checkout service is required")
	case d.WishlistSvc == nil:
		return errors.New("httpserver: wishlist service is required")
	case d.AdminSvc == nil:
		return errors.New("httpserver: admin service is required")
	case d.AuthSvc == nil:
		return errors.New("httpserver: auth service is required")
	}
	return nil
}

type handlers struct {
	deps   Deps
	logger *log.Logger
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	h := &handlers{deps: deps, logger: logger}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", sessionHeader},
			ExposeHeaders:    []string{sessionHeader, dataSourceHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	api := router.Group("/api")
	api.GET("/health", h.health)

	api.GET("/products", h.listProducts)
	api.GET("/products/:id", h.getProduct)
	api.POST("/products/submit", h.submitProduct)
	api.GET("/categories", h.listCategories)
	api.GET("/search", h.search)

	shopper := api.Group("", sessionMiddleware())
	shopper.GET("/cart", h.getCart)
	shopper.DELETE("/cart", h.clearCart)
	shopper.POST("/cart/items", h.addCartItem)
	shopper.PATCH("/cart/items/:id", h.updateCartItem)
	shopper.DELETE("/cart/items/:id", h.removeCartItem)
	shopper.POST("/checkout", h.checkout)
	shopper.GET("/wishlist", h.getWishlist)
	shopper.POST("/wishlist", h.addWishlistItem)
	shopper.DELETE("/wishlist", h.clearWishlist)
	shopper.DELETE("/wishlist/:id", h.removeWishlistItem)

	api.POST("/admin/login", h.adminLogin)
	admin := api.Group("/admin", adminAuthMiddleware(deps.AuthSvc))
	admin.POST("/logout", h.adminLogout)
	admin.GET("/stats", h.adminStats)
	admin.GET("/products/pending", h.adminPending)
	admin.POST("/products/:id/approve", h.adminApprove)
	admin.POST("/products/:id/reject", h.adminReject)
	admin.GET("/listings/recent", h.adminRecentListings)
	admin.GET("/users", h.adminUsers)
	admin.GET("/revenue", h.adminRevenue)

	return router, nil
}
