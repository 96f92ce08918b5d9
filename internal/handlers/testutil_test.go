package handlers

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/artmarket/backend/internal/config"
	"github.com/artmarket/backend/internal/middleware"
	"github.com/artmarket/backend/internal/models"
	"github.com/artmarket/backend/pkg/logger"
	"github.com/artmarket/backend/pkg/utils"
	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
}

var testSetupOnce sync.Once

// testUploadConfig keeps the size ceiling small so oversize rejection tests
// do not need multi-megabyte fixtures.
func testUploadConfig() config.UploadConfig {
	return config.UploadConfig{
		MaxFileSize:  1024,
		AllowedTypes: []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
	}
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	testSetupOnce.Do(func() {
		gosqlite.MustRegisterScalarFunction("NOW", 0, func(ctx *gosqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			return time.Now().UTC(), nil
		})
		logger.Init()
		utils.ConfigureJWT("test-secret", 24)
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

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	err = db.AutoMigrate(
		&models.User{},
		&models.Artwork{},
		&models.Purchase{},
	)
	if err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}

	securityCfg := config.SecurityConfig{
		AllowedOrigins:  "http://localhost:3000",
		RateLimitWindow: 15 * time.Minute,
	}
	uploadCfg := testUploadConfig()

	authHandler := NewAuthHandler(db)
	artworksHandler := NewArtworksHandler(db, nil, uploadCfg)
	purchasesHandler := NewPurchasesHandler(db)
	usersHandler := NewUsersHandler(db, nil, uploadCfg)
	healthHandler := NewHealthHandler(db, "test")
	authMiddleware := middleware.NewAuthMiddleware(db)

	app := fiber.New(fiber.Config{
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: ErrorHandler(false),
	})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.Helmet())
	app.Use(middleware.CORS(securityCfg))
	app.Use(middleware.Sanitize())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityLogger())

	api := app.Group("/api")

	api.Get("/health", healthHandler.Check)

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)

	artworkRoutes := api.Group("/artworks")
	artworkRoutes.Post("/create", authMiddleware.RequireAuth, artworksHandler.Create)
	artworkRoutes.Get("/", artworksHandler.List)
	artworkRoutes.Get("/:id", artworksHandler.Get)
	artworkRoutes.Put("/:id", authMiddleware.RequireAuth, artworksHandler.Update)
	artworkRoutes.Delete("/:id", authMiddleware.RequireAuth, artworksHandler.Delete)

	purchaseRoutes := api.Group("/purchases")
	purchaseRoutes.Post("/", purchasesHandler.Create)
	purchaseRoutes.Get("/history", authMiddleware.RequireAuth, purchasesHandler.History)
	purchaseRoutes.Get("/:id", authMiddleware.RequireAuth, purchasesHandler.Get)

	userRoutes := api.Group("/users", authMiddleware.RequireAuth)
	userRoutes.Get("/:userId", usersHandler.GetProfile)
	userRoutes.Put("/:userId/education", usersHandler.UpdateEducation)
	userRoutes.Put("/:userId/skills", usersHandler.UpdateSkills)
	userRoutes.Put("/:userId/contact", usersHandler.UpdateContact)
	userRoutes.Put("/:userId/profile", usersHandler.UpdateProfile)

	app.Use(NotFoundHandler)

	return &testEnv{app: app, db: db}
}

func createTestUser(t *testing.T, db *gorm.DB, email, password string, role models.UserRole) (*models.User, string) {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("failed hashing password: %v", err)
	}

	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating test user: %v", err)
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed generating auth token: %v", err)
	}

	return user, token
}

func createTestArtwork(t *testing.T, db *gorm.DB, artistID uuid.UUID, title string, price float64) *models.Artwork {
	t.Helper()

	artwork := &models.Artwork{
		Title:       title,
		Description: "A study in color and texture.",
		ImageURL:    "http://localhost:9000/artmarket/artworks/test/image.jpg",
		Price:       price,
		ArtistID:    artistID,
		Medium:      "Canvas",
		Size:        "Medium",
		Style:       "Abstract",
		Technique:   "Oil Painting",
		Status:      models.ArtworkStatusAvailable,
	}
	if err := db.Create(artwork).Error; err != nil {
		t.Fatalf("failed creating test artwork: %v", err)
	}
	return artwork
}

func authHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func performRequest(t *testing.T, app *fiber.App, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req, int((10 * time.Second).Milliseconds()))
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}

	return resp
}

func performJSONRequest(t *testing.T, app *fiber.App, method, path string, payload any, headers map[string]string) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	requestHeaders := map[string]string{}
	for key, value := range headers {
		requestHeaders[key] = value
	}
	if payload != nil {
		requestHeaders["Content-Type"] = "application/json"
	}

	return performRequest(t, app, method, path, body, requestHeaders)
}

// performMultipartRequest submits form fields plus optional files. Each file
// is a field/filename/contentType/content tuple.
type multipartFile struct {
	Field       string
	Filename    string
	ContentType string
	Content     []byte
}

func performMultipartRequest(t *testing.T, app *fiber.App, method, path string, fields map[string]string, files []multipartFile, headers map[string]string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed writing form field %s: %v", key, err)
		}
	}
	for _, file := range files {
		header := make(map[string][]string)
		header["Content-Disposition"] = []string{`form-data; name="` + file.Field + `"; filename="` + file.Filename + `"`}
		header["Content-Type"] = []string{file.ContentType}
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("failed creating multipart file part: %v", err)
		}
		if _, err := part.Write(file.Content); err != nil {
			t.Fatalf("failed writing multipart file content: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed closing multipart writer: %v", err)
	}

	requestHeaders := map[string]string{}
	for key, value := range headers {
		requestHeaders[key] = value
	}
	requestHeaders["Content-Type"] = writer.FormDataContentType()

	return performRequest(t, app, method, path, &buf, requestHeaders)
}

func decodeJSONMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("failed decoding JSON response: %v body=%q", err, string(raw))
	}

	return payload
}

func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

func assertEnvelopeError(t *testing.T, body map[string]any, expectedCode string) {
	t.Helper()
	if success, _ := body["success"].(bool); success {
		t.Fatalf("expected success=false, got %+v", body)
	}
	if got, _ := body["error"].(string); got != expectedCode {
		t.Fatalf("expected error code %q, got %q", expectedCode, got)
	}
}

func envelopeData(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	if success, _ := body["success"].(bool); !success {
		t.Fatalf("expected success=true, got %+v", body)
	}
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %+v", body["data"])
	}
	return data
}

func envelopeList(t *testing.T, body map[string]any) []any {
	t.Helper()
	if success, _ := body["success"].(bool); !success {
		t.Fatalf("expected success=true, got %+v", body)
	}
	list, ok := body["data"].([]any)
	if !ok {
		t.Fatalf("expected data array, got %+v", body["data"])
	}
	return list
}

// validationDetails flattens the details list into field->message for easy
// assertions.
func validationDetails(t *testing.T, body map[string]any) map[string]string {
	t.Helper()

	details, ok := body["details"].([]any)
	if !ok {
		t.Fatalf("expected details array, got %+v", body)
	}

	out := map[string]string{}
	for _, entry := range details {
		item, ok := entry.(map[string]any)
		if !ok {
			t.Fatalf("expected detail object, got %+v", entry)
		}
		field, _ := item["field"].(string)
		message, _ := item["message"].(string)
		out[field] = message
	}
	return out
}
