package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yashrajoria/storefront-service/controllers"
	"github.com/yashrajoria/storefront-service/middleware"
)

// Controllers bundles every HTTP handler set the router serves.
type Controllers struct {
	Catalog  *controllers.CatalogController
	Cart     *controllers.CartController
	Checkout *controllers.CheckoutController
	Orders   *controllers.OrderController
	Wishlist *controllers.WishlistController
	Admin    *controllers.AdminController
}

// RegisterRoutes sets up the public catalog routes and the authenticated
// shopping routes.
func RegisterRoutes(r *gin.Engine, h Controllers, auth gin.HandlerFunc) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	// Public catalog
	r.GET("/products", h.Catalog.ListProducts)
	r.GET("/products/:id/:slug", h.Catalog.GetProduct)
	r.GET("/slides", h.Catalog.ListSlides)

	authed := r.Group("")
	authed.Use(auth)

	cart := authed.Group("/cart")
	cart.GET("", h.Cart.GetCart)
	cart.POST("/add/:product_id", h.Cart.AddToCart)
	cart.POST("/remove/:product_id", h.Cart.RemoveFromCart)
	cart.POST("/update/:product_id", h.Cart.UpdateQuantity)

	authed.GET("/checkout", h.Checkout.Preview)
	authed.POST("/checkout", h.Checkout.PlaceOrder)

	orders := authed.Group("/orders")
	orders.GET("", h.Orders.GetOrders)
	orders.GET("/:id", h.Orders.GetOrderByID)

	wishlist := authed.Group("/wishlist")
	wishlist.GET("", h.Wishlist.GetWishlist)
	wishlist.POST("/add/:product_id", h.Wishlist.AddToWishlist)
	wishlist.POST("/remove/:product_id", h.Wishlist.RemoveFromWishlist)

	// Admin-only routes
	admin := authed.Group("/admin")
	admin.Use(middleware.AdminOnly())
	admin.POST("/categories", h.Admin.CreateCategory)
	admin.POST("/products", h.Admin.CreateProduct)
	admin.PATCH("/products/:id", h.Admin.UpdateProduct)
	admin.POST("/slides", h.Admin.CreateSlide)
}
