package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"storefront/internal/handlers"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
)

type Deps struct {
	Catalog     handlers.ProductCatalog
	Carts       handlers.CartStore
	Checkout    handlers.CheckoutStager
	Orders      handlers.OrderPlacer
	OrderStore  handlers.OrderStore
	Profiles    handlers.ProfileStore
	Sessions    sessions.Store
	JWTSecret   string
	CORSOrigins []string
	Metrics     *metrics.Metrics
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
	HealthChecks   map[string]handlers.HealthCheck
}

func Register(r *gin.Engine, d Deps) {
	if len(d.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(middleware.Metrics(d.Metrics))

	r.GET("/health", handlers.Health(d.HealthChecks))
	if d.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(d.MetricsHandler))
	}

	api := r.Group("/")
	api.Use(middleware.Session(d.Sessions), middleware.Identity(d.JWTSecret))

	shop := api.Group("/")
	shop.Use(middleware.Require(middleware.CapShop))
	{
		shop.GET("/products", handlers.GetProducts(d.Catalog))
		shop.GET("/products/:id", handlers.GetProduct(d.Catalog))
		shop.GET("/categories", handlers.GetCategories(d.Catalog))

		shop.GET("/cart", handlers.GetCart(d.Carts, d.Catalog))
		shop.POST("/cart/items/:productId", handlers.AddCartItem(d.Carts))
		shop.PATCH("/cart/items/:productId", handlers.AdjustCartItem(d.Carts))
		shop.DELETE("/cart/items/:productId", handlers.RemoveCartItem(d.Carts))
		shop.DELETE("/cart", handlers.ClearCart(d.Carts))

		shop.POST("/checkout/delivery", handlers.StageDelivery(d.Checkout))
		shop.GET("/checkout/summary", handlers.CheckoutSummary(d.Checkout, d.Carts, d.Catalog))
		shop.POST("/checkout/confirm", handlers.ConfirmCheckout(d.Orders))
		shop.DELETE("/checkout", handlers.AbandonCheckout(d.Checkout))
	}

	orders := api.Group("/orders")
	orders.Use(middleware.Require(middleware.CapViewOrder))
	{
		orders.GET("/:id", handlers.GetOrder(d.OrderStore))
	}

	user := api.Group("/user")
	user.Use(middleware.Require(middleware.CapOwnAccount))
	{
		user.GET("/orders", handlers.GetMyOrders(d.OrderStore))
		user.GET("/profile", handlers.GetProfile(d.Profiles))
		user.PUT("/profile", handlers.UpdateProfile(d.Profiles))
	}

	admin := api.Group("/admin/api")
	admin.Use(middleware.Require(middleware.CapManageOrders))
	{
		admin.GET("/orders", handlers.AdminListOrders(d.OrderStore))
		admin.DELETE("/orders/:id", handlers.AdminDeleteOrder(d.OrderStore))
	}
}
