package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"spendwatch/internal/config"
	"spendwatch/internal/database"
	"spendwatch/internal/handlers"
	"spendwatch/internal/logger"
	"spendwatch/internal/mail"
	"spendwatch/internal/middleware"
	"spendwatch/internal/services"
	"spendwatch/internal/validator"
)

// @title           Spendwatch API
// @version         1.0
// @description     Spendwatch is a personal expense tracker with per-category monthly budgets and email alerts when spending crosses them.
// @termsOfService  http://swagger.io/terms/

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
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	metrics := services.NewMetrics(prometheus.DefaultRegisterer)
	categoryService := services.NewCategoryService(db)
	userService := services.NewUserService(db, categoryService)
	expenseService := services.NewExpenseService(db, categoryService)
	budgetService := services.NewBudgetService(db, categoryService)
	alertService := services.NewAlertService(db)
	reportService := services.NewReportService(db)
	auditService := services.NewAuditService(db)

	sender := mail.NewSMTPSender(appConfig)
	notifier := services.NewEmailNotifier(alertService, sender, appConfig.NotifyTimeout, metrics)
	evaluator := services.NewAlertEvaluator(userService, categoryService, budgetService, expenseService, alertService, notifier, metrics)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, evaluator, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, evaluator, auditService)
	alertHandler := handlers.NewAlertHandler(alertService)
	reportHandler := handlers.NewReportHandler(reportService)
	settingsHandler := handlers.NewSettingsHandler(userService, auditService)

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

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes, rate limited against credential stuffing
	auth := v1.Group("/auth")
	auth.Use(middleware.RateLimiter(5, 10))
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Expense routes
	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.PUT("", budgetHandler.UpsertBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategory)

	// Alert routes
	alerts := protected.Group("/alerts")
	alerts.GET("", alertHandler.GetAlerts)
	alerts.POST("/:id/mark_read", alertHandler.MarkRead)

	// Report routes
	protected.GET("/reports", reportHandler.GetMonthlyReport)

	// Settings routes
	settings := protected.Group("/settings")
	settings.GET("", settingsHandler.GetSettings)
	settings.PUT("", settingsHandler.UpdateSettings)
	settings.PUT("/password", settingsHandler.ChangePassword)

	log.Infof("Starting Spendwatch backend server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
