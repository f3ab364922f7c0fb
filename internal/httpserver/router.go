package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"smartcart/internal/middleware"
	"smartcart/internal/models"
)

type Deps struct {
	Auth    *middleware.Auth
	AuthH   *AuthHTTP
	Product *ProductHTTP
	Cart    *CartHTTP
	Order   *OrderHTTP
	Admin   *AdminHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")

	api.POST("/auth/register", d.AuthH.Register)
	api.POST("/auth/login", d.AuthH.Login)

	// Catalog reads are public.
	api.GET("/products", d.Product.GetProducts)
	api.GET("/products/search", d.Product.SearchProducts)
	api.GET("/products/:id", d.Product.GetProduct)

	// Catalog mutations are gated to privileged roles.
	manage := api.Group("/products", d.Auth.RequireAuth, d.Auth.RequireRole(models.RoleAdmin, models.RoleManager))
	manage.POST("", d.Product.CreateProduct)
	manage.PUT("/:id", d.Product.UpdateProduct)
	manage.DELETE("/:id", d.Product.DeleteProduct)

	// Cart and orders require a valid token; the user id always comes from
	// the token, never from the request.
	cart := api.Group("/cart", d.Auth.RequireAuth)
	cart.GET("", d.Cart.GetCart)
	cart.POST("", d.Cart.AddToCart)
	cart.DELETE("", d.Cart.ClearCart)
	cart.PUT("/:productId", d.Cart.UpdateCartItem)
	cart.DELETE("/:productId", d.Cart.RemoveFromCart)

	orders := api.Group("/orders", d.Auth.RequireAuth)
	orders.POST("", d.Order.CreateOrder)
	orders.GET("", d.Order.GetOrders)
	orders.GET("/:id", d.Order.GetOrder)

	admin := api.Group("/admin", d.Auth.RequireAuth, d.Auth.RequireRole(models.RoleAdmin, models.RoleManager))
	admin.GET("/users", d.Admin.GetUsers)
	admin.PUT("/users/:id/role", d.Admin.UpdateUserRole)
	admin.PUT("/orders/:id/status", d.Admin.UpdateOrderStatus)
	admin.GET("/statistics", d.Admin.GetStatistics)
}
