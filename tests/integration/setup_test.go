package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"spendwatch/internal/handlers"
	"spendwatch/internal/logger"
	"spendwatch/internal/middleware"
	"spendwatch/internal/models"
	"spendwatch/internal/services"
	"spendwatch/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	Mail   *capturingSender
}

// capturingSender collects outbound mail instead of talking to a relay.
type capturingSender struct {
	mu   sync.Mutex
	sent []capturedMail
}

type capturedMail struct {
	To      string
	Subject string
	Body    string
}

func (s *capturingSender) Send(to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, capturedMail{To: to, Subject: subject, Body: body})
	return nil
}

func (s *capturingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Category{},
		&models.Expense{},
		&models.Budget{},
		&models.Alert{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	sender := &capturingSender{}

	// Services
	metrics := services.NewMetrics(prometheus.NewRegistry())
	categoryService := services.NewCategoryService(db)
	userService := services.NewUserService(db, categoryService)
	expenseService := services.NewExpenseService(db, categoryService)
	budgetService := services.NewBudgetService(db, categoryService)
	alertService := services.NewAlertService(db)
	reportService := services.NewReportService(db)
	auditService := services.NewAuditService(db)

	notifier := services.NewEmailNotifier(alertService, sender, 2*time.Second, metrics)
	evaluator := services.NewAlertEvaluator(userService, categoryService, budgetService, expenseService, alertService, notifier, metrics)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, evaluator, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, evaluator, auditService)
	alertHandler := handlers.NewAlertHandler(alertService)
	reportHandler := handlers.NewReportHandler(reportService)
	settingsHandler := handlers.NewSettingsHandler(userService, auditService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	budgets := protected.Group("/budgets")
	budgets.PUT("", budgetHandler.UpsertBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategory)

	alerts := protected.Group("/alerts")
	alerts.GET("", alertHandler.GetAlerts)
	alerts.POST("/:id/mark_read", alertHandler.MarkRead)

	protected.GET("/reports", reportHandler.GetMonthlyReport)

	settings := protected.Group("/settings")
	settings.GET("", settingsHandler.GetSettings)
	settings.PUT("", settingsHandler.UpdateSettings)
	settings.PUT("/password", settingsHandler.ChangePassword)

	return &testApp{DB: db, Router: router, Mail: sender}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the token and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (token string, userID float64) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"first_name":"Test","last_name":"User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(float64)
}

// loginUser logs in and returns the token.
func (app *testApp) loginUser(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["token"].(string)
}

// findCategoryID returns the ID of the named seeded category for the user.
func (app *testApp) findCategoryID(t *testing.T, token, name string) float64 {
	t.Helper()
	rec := app.request("GET", "/api/v1/categories?page_size=100", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list categories failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	for _, item := range result["data"].([]interface{}) {
		cat := item.(map[string]interface{})
		if cat["name"] == name {
			return cat["id"].(float64)
		}
	}
	t.Fatalf("category %q not found", name)
	return 0
}
