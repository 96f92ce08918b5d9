package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/artmarket/backend/internal/models"
	"github.com/artmarket/backend/pkg/logger"
	"github.com/artmarket/backend/pkg/utils"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var authTestOnce sync.Once

func setupAuthTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	authTestOnce.Do(func() {
		logger.Init()
		utils.ConfigureJWT("middleware-test-secret", 24)
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed automigrating users: %v", err)
	}

	auth := NewAuthMiddleware(db)
	app := fiber.New()
	app.Get("/protected", auth.RequireAuth, func(c *fiber.Ctx) error {
		user := GetCurrentUser(c)
		if user == nil {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"email": user.Email})
	})

	return app, db
}

func authTestRequest(t *testing.T, app *fiber.App, header string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	app, db := setupAuthTestApp(t)

	user := &models.User{
		Name:         "Auth User",
		Email:        "auth@example.com",
		PasswordHash: "irrelevant",
		Role:         models.UserRoleBuyer,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating user: %v", err)
	}
	token, err := utils.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed generating token: %v", err)
	}

	resp := authTestRequest(t, app, "Bearer "+token)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestRequireAuthRejectsMissingHeader(t *testing.T) {
	app, _ := setupAuthTestApp(t)

	resp := authTestRequest(t, app, "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestRequireAuthRejectsMalformedHeader(t *testing.T) {
	app, _ := setupAuthTestApp(t)

	for _, header := range []string{"Token abc", "Bearer", "Bearer   "} {
		resp := authTestRequest(t, app, header)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestRequireAuthRejectsTokenForDeletedUser(t *testing.T) {
	app, db := setupAuthTestApp(t)

	user := &models.User{
		Name:         "Ghost User",
		Email:        "ghost@example.com",
		PasswordHash: "irrelevant",
		Role:         models.UserRoleBuyer,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating user: %v", err)
	}
	token, err := utils.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed generating token: %v", err)
	}
	if err := db.Delete(user).Error; err != nil {
		t.Fatalf("failed deleting user: %v", err)
	}

	resp := authTestRequest(t, app, "Bearer "+token)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for deleted user, got %d", resp.StatusCode)
	}
}
