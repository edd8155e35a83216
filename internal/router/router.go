// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/config"
	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/handlers"
	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/i18n"
	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/middleware"
	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/services"
	"github.com/Tonybsilva-dev/ecoleta-reform-sub000/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	storageService, _ := services.NewStorageService(cfg)
	authService := services.NewAuthService(db, cfg)
	itemService := services.NewItemService(db, cfg.Geo)
	materialService := services.NewMaterialService(db)
	organizationService := services.NewOrganizationService(db)
	checkoutService := services.NewCheckoutService(db, cfg)
	adminService := services.NewAdminService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	itemHandler := handlers.NewItemHandler(itemService, storageService, cfg.Geo)
	materialHandler := handlers.NewMaterialHandler(materialService)
	organizationHandler := handlers.NewOrganizationHandler(organizationService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"version":   "1.0.0",
			"languages": i18n.GetSupportedLanguages(),
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
			auth.PUT("/me", middleware.AuthRequired(), authHandler.UpdateProfile)
		}

		// Item routes
		items := v1.Group("/items")
		{
			// The map endpoint carries its own rate tier: panning a map
			// fires bursts of requests the general tier would throttle.
			items.GET("/map", middleware.MapRateLimit(), itemHandler.GetMapItems)
			items.GET("", middleware.OptionalAuth(), itemHandler.GetItems)

			// Authenticated routes
			protected := items.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.GET("/mine", itemHandler.GetMyItems)
				protected.POST("", itemHandler.CreateItem)
				protected.PUT("/:id", itemHandler.UpdateItem)
				protected.PATCH("/:id/status", itemHandler.UpdateItemStatus)
				protected.PUT("/:id/location", itemHandler.SetItemLocation)
				protected.DELETE("/:id/location", itemHandler.RemoveItemLocation)
				protected.DELETE("/:id", itemHandler.DeleteItem)
				protected.POST("/:id/images", middleware.UploadRateLimit(), itemHandler.UploadItemImage)
				protected.PATCH("/:id/images/:imageId/primary", itemHandler.SetPrimaryImage)
				protected.DELETE("/:id/images/:imageId", itemHandler.DeleteItemImage)
			}

			items.GET("/:id", middleware.OptionalAuth(), itemHandler.GetItem)
		}

		// Material catalog
		materials := v1.Group("/materials")
		{
			materials.GET("", middleware.OptionalAuth(), materialHandler.GetMaterials)
			materials.GET("/categories", materialHandler.GetCategories)
		}

		// Organizations
		organizations := v1.Group("/organizations")
		{
			organizations.GET("", organizationHandler.GetOrganizations)
			organizations.GET("/:id", organizationHandler.GetOrganization)
		}

		// Checkout routes
		checkout := v1.Group("/checkout")
		checkout.Use(middleware.AuthRequired())
		{
			checkout.POST("", checkoutHandler.CreateCheckout)
			checkout.POST("/confirm", checkoutHandler.ConfirmCheckout)
			checkout.GET("/history", checkoutHandler.GetTransactionHistory)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.GetDashboard)

			adminUsers := admin.Group("/users")
			{
				adminUsers.GET("", adminHandler.GetUsers)
				adminUsers.PATCH("/:id/status", adminHandler.UpdateUserStatus)
			}

			adminItems := admin.Group("/items")
			{
				adminItems.GET("", adminHandler.GetItems)
			}

			adminMaterials := admin.Group("/materials")
			{
				adminMaterials.POST("", materialHandler.CreateMaterial)
				adminMaterials.PUT("/:id", materialHandler.UpdateMaterial)
				adminMaterials.DELETE("/:id", materialHandler.DeleteMaterial)
				adminMaterials.POST("/categories", materialHandler.CreateCategory)
			}

			adminOrganizations := admin.Group("/organizations")
			{
				adminOrganizations.POST("", organizationHandler.CreateOrganization)
				adminOrganizations.PUT("/:id", organizationHandler.UpdateOrganization)
				adminOrganizations.DELETE("/:id", organizationHandler.DeleteOrganization)
			}

			admin.GET("/audit-logs", adminHandler.GetAuditLogs)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
