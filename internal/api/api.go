// Package api exposes the store over HTTP. Handlers stay thin: bind, call a
// domain service, map the error.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/furnistore/api/internal/domain/cart"
	"github.com/furnistore/api/internal/domain/catalog"
	"github.com/furnistore/api/internal/domain/order"
)

// Server holds the domain services the handlers delegate to.
type Server struct {
	carts    *cart.Service
	orders   *order.Service
	products catalog.Repository
}

// NewServer creates an API server.
func NewServer(carts *cart.Service, orders *order.Service, products catalog.Repository) *Server {
	registerValidations()
	return &Server{
		carts:    carts,
		orders:   orders,
		products: products,
	}
}

// Routes registers all API routes on the engine under /api/v1.
func (s *Server) Routes(e *gin.Engine) {
	v1 := e.Group("/api/v1")

	products := v1.Group("/products")
	products.GET("", s.listProducts)
	products.POST("", s.createProduct)
	products.GET("/:id", s.getProduct)
	products.PUT("/:id", s.updateProduct)
	products.DELETE("/:id", s.deleteProduct)
	products.POST("/:id/discount", s.productDiscount)

	users := v1.Group("/users/:user_id")
	users.GET("/cart", s.getCart)
	users.POST("/cart/items", s.addCartItem)
	users.PUT("/cart/items/:product_id", s.updateCartItem)
	users.DELETE("/cart/items/:product_id", s.removeCartItem)
	users.DELETE("/cart", s.clearCart)
	users.POST("/cart/discount", s.cartDiscount)
	users.POST("/checkout", s.checkout)
	users.GET("/orders", s.listOrders)

	orders := v1.Group("/orders/:id")
	orders.GET("", s.getOrder)
	orders.GET("/items", s.orderItems)
	orders.PATCH("/status", s.updateOrderStatus)
	orders.POST("/payment", s.processPayment)
	orders.DELETE("", s.deleteOrder)
}

// registerValidations adds the furniture kind validator to gin's binding
// engine so request structs can tag fields with `binding:"furniturekind"`.
func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("furniturekind", func(fl validator.FieldLevel) bool {
		_, err := catalog.ParseKind(fl.Field().String())
		return err == nil
	})
}
