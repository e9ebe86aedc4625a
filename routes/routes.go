package routes

import (
	"intervue/handlers"
	"intervue/middleware"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	router := gin.Default()

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Public routes (no auth required)
	router.POST("/api/signup", handlers.Signup)
	router.POST("/api/login", handlers.Login)
	router.GET("/api/experience", handlers.ListExperiences)
	router.GET("/api/experience/:id", handlers.GetExperience)
	router.GET("/api/jobs", handlers.ListJobs)

	// Protected routes group
	protected := router.Group("/api")
	protected.Use(middleware.JWTAuthMiddleware())

	// Experiences
	protected.POST("/experience", handlers.CreateExperience)
	protected.GET("/experience/mine", handlers.GetMyExperiences)
	protected.PUT("/experience/:id", handlers.UpdateExperience)
	protected.DELETE("/experience/:id", handlers.DeleteExperience)
	protected.POST("/experience/:id/helpful", handlers.ToggleHelpful)
	protected.POST("/experience/:id/comment", handlers.AddComment)

	// Reporting, rate limited per IP
	reportLimiter := middleware.NewIPRateLimiter(10, time.Minute)
	protected.POST("/experience/:id/report",
		middleware.RateLimitMiddleware(reportLimiter), handlers.ReportExperience)

	// Jobs
	protected.POST("/job", handlers.CreateJob)
	protected.DELETE("/job/:id", handlers.DeleteJob)

	// Moderation dashboard, admin only
	admin := protected.Group("")
	admin.Use(middleware.RequireAdmin())
	admin.GET("/experience/reported", handlers.GetReportedExperiences)
	admin.POST("/experience/list/:id", handlers.RelistExperience)

	// Add a catch-all for undefined API routes
	router.NoRoute(func(c *gin.Context) {
		if len(c.Request.URL.Path) >= 4 && c.Request.URL.Path[:4] == "/api" {
			c.JSON(404, gin.H{
				"success": false,
				"message": "Endpoint not found",
			})
			return
		}
		c.Next()
	})

	return router
}
