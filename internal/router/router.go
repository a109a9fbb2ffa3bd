// Package router assembles the HTTP engine: middleware, docs, health check
// and the versioned API routes.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"easyenglish/internal/config"
	_ "easyenglish/internal/docs" // Register swagger docs
	apperrors "easyenglish/internal/errors"
	"easyenglish/internal/handlers"
	"easyenglish/internal/middleware"
	"easyenglish/internal/services"
)

// New builds the Gin engine backed by db.
func New(db *gorm.DB, cfg *config.Config) *gin.Engine {
	categoryService := services.NewCategoryService(db)
	categoryHandler := handlers.NewCategoryHandler(categoryService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	categoryHandler.RegisterRoutes(v1)

	router.NoRoute(func(c *gin.Context) {
		middleware.WriteError(c, apperrors.ErrNotFound)
	})

	return router
}
