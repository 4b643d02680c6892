package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"civic_app_go/config"
	"civic_app_go/db"
	"civic_app_go/handlers"
	"civic_app_go/middleware"
	"civic_app_go/models"
	"civic_app_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	conn, err := db.Initialize(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close(conn)

	// Run migrations
	if err := db.AutoMigrate(conn, &models.User{}, &models.Staff{}, &models.Session{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Storage and geography catalog; a failed dataset load still starts the server
	store := services.InitializeStorage(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	catalog := services.LoadGeographyCatalog(ctx, cfg.GeographySource, store)
	cancel()

	h := handlers.New(conn, catalog, cfg)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	registrationLimiter := middleware.NewRateLimiter(middleware.RegistrationRateLimit)
	loginLimiter := middleware.NewRateLimiter(middleware.LoginRateLimit)
	geographyLimiter := middleware.NewRateLimiter(middleware.GeographyRateLimit)
	defer registrationLimiter.Stop()
	defer loginLimiter.Stop()
	defer geographyLimiter.Stop()

	// Public routes
	e.GET("/health", h.HealthHandler)
	e.GET("/login", h.LoginHandler)
	e.POST("/login", h.LoginPostHandler, loginLimiter.Middleware())
	e.POST("/logout", h.LogoutHandler)

	// Mobile app registration
	e.POST("/api/users", h.CreateUserHandler, registrationLimiter.Middleware())

	// Geography lookups
	geo := e.Group("/api/geography")
	geo.Use(geographyLimiter.Middleware())
	{
		geo.GET("/regions", h.ListRegionsHandler)
		geo.GET("/cities", h.ListCitiesHandler)
		geo.GET("/barangays", h.ListBarangaysHandler)
		geo.POST("/selection", h.ResolveSelectionHandler)
	}

	// Dashboard (staff session required)
	dashboard := e.Group("/dashboard")
	dashboard.Use(middleware.RequireAuth(conn, cfg.SecureCookies))
	dashboard.Use(middleware.AuditContext())
	{
		dashboard.GET("/me", h.GetCurrentStaffHandler)
		dashboard.GET("/users", h.ListUsersHandler)
		dashboard.GET("/users/:id", h.GetUserHandler)
		dashboard.GET("/geography", h.GeographySummaryHandler)

		// Admin-only routes
		adminRoutes := dashboard.Group("")
		adminRoutes.Use(middleware.RequireRole(models.RoleAdmin))
		{
			adminRoutes.DELETE("/users/:id", h.DeleteUserHandler)
		}
	}

	// Clean up expired sessions every hour
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if err := services.CleanupExpiredSessions(conn); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			}
		}
	}()

	// Start server
	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARNING] Graceful shutdown failed: %v", err)
	}
}
