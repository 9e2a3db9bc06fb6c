package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"homematch/internal/config"
	"homematch/internal/handler"
	"homematch/internal/repository"
	"homematch/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Print version info
	log.Printf("HomeMatch Recommendation Service")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize database connection
	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	log.Println("✅ Connected to PostgreSQL database")

	// Initialize OpenAI-compatible assistant client
	aiClient := service.NewOpenAIClient(&cfg.OpenAI)
	if cfg.OpenAI.Enabled {
		log.Printf("✅ Assistant client initialized")
		log.Printf("   - API Base: %s", cfg.OpenAI.APIBase)
		log.Printf("   - Chat model: %s", cfg.OpenAI.ChatModel)
		log.Printf("   - Chat Temperature: %.2f", cfg.OpenAI.ChatTemperature)
		log.Printf("   - Chat TopP: %.2f", cfg.OpenAI.ChatTopP)
		log.Printf("   - Chat MaxTokens: %d", cfg.OpenAI.ChatMaxTokens)
	} else {
		log.Println("⚠️  Assistant is disabled - conversational recommendations will not work")
		log.Println("   Set OPENAI_API_KEY environment variable to enable chat")
	}

	// Initialize services
	recommender := service.NewRecommender(repo, repo, cfg.Recommend)
	chatService := service.NewChatService(aiClient, recommender, repo, cfg.Chat)

	log.Println("✅ Services initialized")

	// Initialize handlers
	chatHandler := handler.NewChatHandler(chatService)
	recommendHandler := handler.NewRecommendHandler(recommender)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "homematch-recommendation-service",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		// Chat endpoints
		apiV1.POST("/chat", chatHandler.Chat)
		apiV1.POST("/chat/stream", chatHandler.ChatStream) // Streaming chat
		apiV1.POST("/chat/reset", chatHandler.Reset)
		apiV1.GET("/chat/history", chatHandler.History)

		// Recommendation endpoints
		apiV1.POST("/recommendations", recommendHandler.Recommend)
		apiV1.GET("/properties/:id", recommendHandler.GetProperty)
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🚀 Starting server on %s", addr)
	log.Printf("📝 API: http://localhost:%d/api/v1", cfg.Server.Port)

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	log.Println("✅ Server stopped")
}
