package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/artmarket/backend/internal/config"
	"github.com/artmarket/backend/internal/database"
	"github.com/artmarket/backend/internal/handlers"
	"github.com/artmarket/backend/internal/middleware"
	"github.com/artmarket/backend/internal/storage"
	"github.com/artmarket/backend/pkg/logger"
	"github.com/artmarket/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	logger.Init()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	utils.ConfigureJWT(cfg.JWT.Secret, cfg.JWT.ExpirationHours)

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("minio initialization failed: %v", err)
	}
	if err := storageClient.EnsureBucket(context.Background()); err != nil {
		log.Fatalf("failed ensuring minio bucket: %v", err)
	}

	authHandler := handlers.NewAuthHandler(db)
	artworksHandler := handlers.NewArtworksHandler(db, storageClient, cfg.Upload)
	purchasesHandler := handlers.NewPurchasesHandler(db)
	usersHandler := handlers.NewUsersHandler(db, storageClient, cfg.Upload)
	healthHandler := handlers.NewHealthHandler(db, cfg.Server.Env)

	authMiddleware := middleware.NewAuthMiddleware(db)

	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.Security.BodyLimit,
		ErrorHandler: handlers.ErrorHandler(cfg.Server.IsProduction()),
	})
	app.Use(recover.New(recover.Config{EnableStackTrace: !cfg.Server.IsProduction()}))
	app.Use(middleware.Helmet())
	app.Use(middleware.CORS(cfg.Security))
	app.Use(middleware.Sanitize())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityLogger())

	api := app.Group("/api", middleware.RateLimiter(cfg.Security.APIRateLimitMax, cfg.Security.RateLimitWindow))

	api.Get("/health", healthHandler.Check)

	authRoutes := api.Group("/auth", middleware.RateLimiter(cfg.Security.AuthRateLimitMax, cfg.Security.RateLimitWindow))
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)

	artworkRoutes := api.Group("/artworks")
	artworkRoutes.Post("/create",
		middleware.RateLimiter(cfg.Security.UploadRateLimitMax, cfg.Security.RateLimitWindow),
		authMiddleware.RequireAuth, artworksHandler.Create)
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

	app.Use(handlers.NotFoundHandler)

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"port":        cfg.Server.Port,
		"address":     listenAddr,
		"environment": cfg.Server.Env,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		shutdownDone := make(chan struct{})
		go func() {
			_ = app.Shutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(10 * time.Second):
			log.Print("forced shutdown timeout reached")
		}
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}
