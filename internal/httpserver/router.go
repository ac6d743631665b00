package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sneakershub/storefront/internal/adminauth"
	"github.com/sneakershub/storefront/internal/auth"
	"github.com/sneakershub/storefront/internal/cart"
	"github.com/sneakershub/storefront/internal/checkout"
	"github.com/sneakershub/storefront/internal/events"
	"github.com/sneakershub/storefront/internal/orders"
	"github.com/sneakershub/storefront/internal/products"
	"github.com/sneakershub/storefront/internal/search"
)

type Deps struct {
	Cart     *cart.Store
	Orders   *orders.Store
	Products *products.Store
	Auth     *auth.Store
	Checkout *checkout.Service
	Admin    *adminauth.Service
	Producer *events.Producer
	Search   *search.Index
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	productsHTTP := &ProductsHTTP{Products: d.Products, Search: d.Search}
	cartHTTP := &CartHTTP{Cart: d.Cart, Products: d.Products}
	authHTTP := &AuthHTTP{Auth: d.Auth, Cart: d.Cart}
	checkoutHTTP := &CheckoutHTTP{Checkout: d.Checkout}
	ordersHTTP := &OrdersHTTP{Orders: d.Orders, Auth: d.Auth}
	adminHTTP := &AdminHTTP{
		Admin:    d.Admin,
		Products: d.Products,
		Orders:   d.Orders,
		Auth:     d.Auth,
		Producer: d.Producer,
		Search:   d.Search,
	}

	api := e.Group("/api")

	api.GET("/products", productsHTTP.List)
	api.GET("/products/search", productsHTTP.SearchProducts)
	api.GET("/products/:id", productsHTTP.Get)

	api.GET("/cart", cartHTTP.Get)
	api.POST("/cart/items", cartHTTP.AddItem)
	api.PATCH("/cart/items", cartHTTP.UpdateQuantity)
	api.DELETE("/cart/items", cartHTTP.RemoveItem)
	api.DELETE("/cart", cartHTTP.Clear)

	api.POST("/auth/signup", authHTTP.Signup)
	api.POST("/auth/login", authHTTP.Login)
	api.POST("/auth/logout", authHTTP.Logout)
	api.GET("/auth/me", authHTTP.Me)

	api.POST("/checkout", checkoutHTTP.Submit)
	api.GET("/checkout/quote", checkoutHTTP.Quote)
	api.GET("/orders", ordersHTTP.Mine)

	admin := e.Group("/admin")
	admin.POST("/login", adminHTTP.Login)

	priv := admin.Group("", d.Admin.RequireAdmin)
	priv.GET("/products", adminHTTP.ListProducts)
	priv.POST("/products", adminHTTP.CreateProduct)
	priv.PATCH("/products/:id", adminHTTP.PatchProduct)
	priv.DELETE("/products/:id", adminHTTP.DeleteProduct)
	priv.GET("/orders", adminHTTP.ListOrders)
	priv.PATCH("/orders/:id/status", adminHTTP.UpdateOrderStatus)
	priv.GET("/users", adminHTTP.ListUsers)
}
