package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/dmunteanu/shop-orders/internal/handlers"
	"github.com/dmunteanu/shop-orders/internal/jwtmiddleware"
)

type Deps struct {
	OrderHandler   *handlers.OrderHandler
	ProductHandler *handlers.ProductHandler
	SearchHandler  *handlers.SearchHandler
	JWTSecret      []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	auth := jwtmiddleware.RequireAuth(d.JWTSecret)
	admin := jwtmiddleware.RequireAdmin(d.JWTSecret)

	orders := e.Group("/orders")
	orders.GET("", d.OrderHandler.ListOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.POST("/add-product/:productId", d.OrderHandler.AddProduct, auth)
	orders.POST("", d.OrderHandler.CreateOrder, auth)
	orders.PUT("/:id", d.OrderHandler.UpdateOrder, auth)
	orders.DELETE("/:id", d.OrderHandler.DeleteOrder, auth)

	products := e.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/search", d.SearchHandler.Search)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.POST("", d.ProductHandler.CreateProduct, admin)
	products.PATCH("/:id", d.ProductHandler.PatchProduct, admin)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, admin)
}
