// Package api provides HTTP routing for the MQ Native HA toolkit.
// It wires together handlers, middleware, and services to create the application's API endpoints.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/robcowart/mqha/internal/api/handlers"
	"github.com/robcowart/mqha/internal/api/middleware"
	"github.com/robcowart/mqha/internal/config"
	"github.com/robcowart/mqha/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, logger *zap.Logger, version string) *gin.Engine {
	// Set Gin mode
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware(logger))
	router.Use(middleware.LoggerMiddleware(logger))
	router.Use(middleware.CORSMiddleware(cfg))

	// Initialize services
	bundleService := service.NewBundleService(cfg, logger)

	// Initialize handlers
	metaHandler := handlers.NewMetaHandler(cfg, version)
	tlsHandler := handlers.NewTLSHandler(bundleService, logger)
	manifestHandler := handlers.NewManifestHandler(logger)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", metaHandler.Health)
		v1.GET("/defaults", metaHandler.Defaults)
		v1.GET("/cipher-specs", metaHandler.CipherSpecs)

		// TLS bundles
		v1.POST("/tls", tlsHandler.GenerateTLS)
		v1.POST("/tls/verify", tlsHandler.VerifyTLS)
		v1.POST("/tls/export", tlsHandler.ExportTLS)

		// Deployment artifacts
		v1.POST("/manifests", manifestHandler.Manifests)
		v1.POST("/ccdt", manifestHandler.CCDT)
		v1.POST("/verification-commands", manifestHandler.VerificationCommands)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router
}
