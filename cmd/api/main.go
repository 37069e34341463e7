// Command api serves the CRUD/auth surface the core pipeline treats as an
// external collaborator: streams, SOPs, models, and analyses, backed by
// Postgres via gorm.
package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"gridwatch/internal/config"
	"gridwatch/internal/database"
	"gridwatch/internal/handlers"
	"gridwatch/internal/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadAPI()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	authHandler := handlers.NewAuthHandler(db, cfg.JWT)
	streamHandler := handlers.NewStreamHandler(db)
	sopHandler := handlers.NewSOPHandler(db, "logs")
	modelHandler := handlers.NewModelHandler(db)
	analysisHandler := handlers.NewAnalysisHandler(db)

	router := setupRouter(cfg, authHandler, streamHandler, sopHandler, modelHandler, analysisHandler)

	port := cfg.Server.Port
	if port == "" {
		port = "8000"
	}

	log.Printf("API server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter(
	cfg *config.APIConfig,
	authHandler *handlers.AuthHandler,
	streamHandler *handlers.StreamHandler,
	sopHandler *handlers.SOPHandler,
	modelHandler *handlers.ModelHandler,
	analysisHandler *handlers.AnalysisHandler,
) *gin.Engine {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			if origin == "" {
				return true
			}
			return origin == "http://localhost:8080" ||
				origin == "http://localhost:5173" ||
				origin == "http://localhost:3000" ||
				origin == "http://127.0.0.1:8080" ||
				origin == "http://127.0.0.1:5173" ||
				origin == "http://127.0.0.1:3000"
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Consumed by the core pipeline — unauthenticated, narrow.
	api := router.Group("/api")
	{
		api.GET("/streams", streamHandler.ListStreams)
		api.GET("/stream/:id", streamHandler.GetStream)
		api.GET("/sops/:id", sopHandler.GetSOP)
		api.POST("/analysis", analysisHandler.CreateAnalysis)
	}

	auth := router.Group("/api/auth")
	{
		auth.POST("/login", authHandler.Login)
	}

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		protected.GET("/auth/me", authHandler.GetMe)
		protected.POST("/auth/logout", authHandler.Logout)

		protected.POST("/streams", streamHandler.CreateStream)
		protected.PUT("/streams/:id", streamHandler.UpdateStream)
		protected.DELETE("/streams/:id", streamHandler.DeleteStream)

		protected.GET("/sops", sopHandler.ListSOPs)
		protected.POST("/sops", sopHandler.CreateSOP)
		protected.PUT("/sops/:id", sopHandler.UpdateSOP)
		protected.DELETE("/sops/:id", sopHandler.DeleteSOP)

		protected.GET("/models", modelHandler.ListModels)
		protected.POST("/models", modelHandler.CreateModel)
		protected.PUT("/models/:id", modelHandler.UpdateModel)
		protected.DELETE("/models/:id", modelHandler.DeleteModel)

		protected.GET("/analyses", analysisHandler.ListAnalyses)
		protected.GET("/analysis/:id", analysisHandler.GetAnalysis)
	}

	return router
}
