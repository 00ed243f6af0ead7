package main

import (
	"fmt"
	"net/http"
	"os"

	"gescom/internal/config"
	"gescom/internal/database"
	"gescom/internal/handlers"
	"gescom/internal/logger"
	"gescom/internal/middleware"
	"gescom/internal/services"
	"gescom/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "gescom/internal/docs" // Import swagger docs
)

// @title           Gescom API
// @version         1.0
// @description     Gescom is a project-accounting backend for commesse: budgets, orders, invoices and monthly margin forecasts with EAC/ETC projections.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	commessaService := services.NewCommessaService(db)
	budgetService := services.NewBudgetService(db)
	ordineService := services.NewOrdineService(db)
	fatturaService := services.NewFatturaService(db)
	margineService := services.NewMargineService(db)
	dashboardService := services.NewDashboardService(db)

	// Initialize handlers
	authHandler, err := handlers.NewAuthHandler()
	if err != nil {
		return fmt.Errorf("failed to create auth handler: %w", err)
	}
	commessaHandler := handlers.NewCommessaHandler(commessaService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	ordineHandler := handlers.NewOrdineHandler(ordineService)
	fatturaHandler := handlers.NewFatturaHandler(fatturaService)
	margineHandler := handlers.NewMargineHandler(margineService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	configHandler := handlers.NewConfigHandler()

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// Commessa routes, with nested collections
	commesse := protected.Group("/commesse")
	commesse.POST("", commessaHandler.CreateCommessa)
	commesse.GET("", commessaHandler.GetCommesse)
	commesse.GET("/:id", commessaHandler.GetCommessa)
	commesse.PUT("/:id", commessaHandler.UpdateCommessa)
	commesse.DELETE("/:id", commessaHandler.DeleteCommessa)
	commesse.GET("/:id/summary", commessaHandler.GetCommessaSummary)
	commesse.POST("/:id/budgets", budgetHandler.CreateBudget)
	commesse.GET("/:id/budgets", budgetHandler.GetCommessaBudgets)
	commesse.POST("/:id/ordini", ordineHandler.CreateOrdine)
	commesse.GET("/:id/ordini", ordineHandler.GetCommessaOrdini)
	commesse.GET("/:id/ordini/totale", ordineHandler.GetTotaleOrdini)
	commesse.POST("/:id/fatture", fatturaHandler.CreateFattura)
	commesse.GET("/:id/fatture", fatturaHandler.GetCommessaFatture)
	commesse.POST("/:id/margini", margineHandler.CreateMargine)
	commesse.GET("/:id/margini", margineHandler.GetCommessaMargini)
	commesse.GET("/:id/margini/latest", margineHandler.GetLatestMetrics)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.POST("/:id/duplicate", budgetHandler.DuplicateBudget)
	budgets.POST("/:id/details", budgetHandler.AddBudgetDetail)

	budgetDetails := protected.Group("/budget-details")
	budgetDetails.PUT("/:id", budgetHandler.UpdateBudgetDetail)
	budgetDetails.DELETE("/:id", budgetHandler.DeleteBudgetDetail)

	// Ordine routes
	ordini := protected.Group("/ordini")
	ordini.PUT("/:id", ordineHandler.UpdateOrdine)
	ordini.DELETE("/:id", ordineHandler.DeleteOrdine)

	// Fattura routes
	fatture := protected.Group("/fatture")
	fatture.PUT("/:id", fatturaHandler.UpdateFattura)
	fatture.DELETE("/:id", fatturaHandler.DeleteFattura)

	// Margine routes
	margini := protected.Group("/margini")
	margini.PUT("/:id", margineHandler.UpdateMargine)
	margini.DELETE("/:id", margineHandler.DeleteMargine)

	// Dashboard routes
	dashboard := protected.Group("/dashboard")
	dashboard.GET("/summary", dashboardHandler.GetSummary)
	dashboard.GET("/trend", dashboardHandler.GetMonthlyTrend)
	dashboard.GET("/budget-vs-actual", dashboardHandler.GetBudgetVsActual)
	dashboard.GET("/margin-distribution", dashboardHandler.GetMarginDistribution)

	// Config routes
	protected.GET("/config/margin-thresholds", configHandler.GetMarginThresholds)

	log.Infof("Starting Gescom backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
