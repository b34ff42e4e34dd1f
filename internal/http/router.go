package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ohalko/inventory-api/internal/auth"
	"github.com/ohalko/inventory-api/internal/http/controller"
	"github.com/ohalko/inventory-api/internal/http/middleware"
)

// InitRouter wires the middleware chain and the API routes. Listing and
// single-product reads are public; every mutation goes through the auth gate.
func InitRouter(server *gin.Engine, tokens *auth.TokenManager, ctr *controller.Controller, authCtr *controller.AuthController, productCtr *controller.ProductController) *gin.Engine {
	// Apply recovery middleware globally to prevent panics from crashing the server
	server.Use(middleware.Recovery())
	server.Use(middleware.RequestLogger())
	server.Use(cors.Default())

	server.GET("/ping", ctr.Ping)

	requireAdmin := middleware.RequireAdmin(tokens)

	api := server.Group("/api")

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/login", authCtr.Login)
		authRoutes.GET("/verify", requireAdmin, authCtr.Verify)
	}

	products := api.Group("/products")
	{
		products.GET("", productCtr.ListProducts)
		products.GET("/:id", productCtr.GetProduct)
		products.POST("", requireAdmin, productCtr.CreateProduct)
		products.PUT("/:id", requireAdmin, productCtr.UpdateProduct)
		products.DELETE("/:id", requireAdmin, productCtr.DeleteProduct)
	}

	return server
}
