package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"intervue/database"
	"intervue/handlers"
	"intervue/jobs"
	"intervue/mailer"
	"intervue/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("Starting Intervue API server...")

	// Load .env if present; real deployments set env vars directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	// ===== REQUIRED ENV VARIABLES =====
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// ===== CONNECT TO MONGODB WITH RETRY =====
	log.Println("Connecting to MongoDB...")

	var dbErr error
	for i := 1; i <= 3; i++ {
		if err := database.ConnectDB(); err != nil {
			dbErr = err
			log.Printf("MongoDB connection attempt %d failed: %v", i, err)
			time.Sleep(2 * time.Second)
			continue
		}
		dbErr = nil
		break
	}

	if dbErr != nil {
		log.Fatal("Failed to connect to MongoDB:", dbErr)
	}

	// ===== GIN MODE =====
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// ===== ROUTER =====
	router := routes.SetupRouter()

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// ===== MAIL + SWEEPER =====
	notifier := mailer.NewFromEnv()
	handlers.SetNotifier(notifier)
	handlers.SetAppBaseURL(os.Getenv("APP_BASE_URL"))

	sweeper := jobs.NewSweeper(
		database.ExperienceStore{},
		database.JobStore{},
		notifier,
		os.Getenv("APP_BASE_URL"),
	)
	cronRunner := sweeper.Start()

	// ===== SERVER CONFIG =====
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Printf("Server running on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error:", err)
		}
	}()

	// ===== GRACEFUL SHUTDOWN =====
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	cronRunner.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("Forced shutdown:", err)
	}

	if err := database.DisconnectDB(); err != nil {
		log.Println("MongoDB disconnect error:", err)
	}

	log.Println("Server stopped gracefully")
}
