package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gmaddy200516-hash/melodyboxd/internal/config"
	"github.com/gmaddy200516-hash/melodyboxd/internal/database"
	"github.com/gmaddy200516-hash/melodyboxd/internal/handlers"
	"github.com/gmaddy200516-hash/melodyboxd/internal/repository"
	"github.com/gmaddy200516-hash/melodyboxd/internal/routes"
	"github.com/gmaddy200516-hash/melodyboxd/internal/services"
)

func main() {
	if err := config.LoadConfig(); err != nil {
		log.Println("⚠️ Config load warning:", err)
	}
	cfg := config.GlobalConfig

	if err := database.ConnectDB(); err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}
	database.RunMigrations()

	// Repositories
	userRepo := repository.NewUserRepository()
	songRepo := repository.NewSongRepository()
	reviewRepo := repository.NewReviewRepository()
	followRepo := repository.NewFollowRepository()
	compatRepo := repository.NewCompatibilityRepository()

	// Engine services
	socialWeights := services.NewSocialWeightService(followRepo, compatRepo, cfg)
	communityService := services.NewCommunityScoreService(reviewRepo, socialWeights, cfg)
	cfService := services.NewCollaborativeService(reviewRepo)
	coldStartService := services.NewColdStartService(userRepo, songRepo, cfg)
	recommendationService := services.NewRecommendationService(
		userRepo, songRepo, reviewRepo,
		coldStartService, cfService, communityService,
		cfg,
	)
	trendingService := services.NewTrendingService(reviewRepo, songRepo, cfg)
	compatibilityService := services.NewCompatibilityService(
		userRepo, reviewRepo, songRepo, compatRepo, cfg,
	)

	// Support services
	metadataService := services.NewMusicMetadataService(songRepo, cfg)
	uploadService, err := services.NewUploadService(songRepo, cfg)
	if err != nil {
		log.Println("⚠️ Cover upload disabled:", err)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, cfg)
	songHandler := handlers.NewSongHandler(songRepo, metadataService, uploadService)
	reviewHandler := handlers.NewReviewHandler(reviewRepo, songRepo)
	profileHandler := handlers.NewProfileHandler(userRepo, reviewRepo, songRepo, cfg)
	socialHandler := handlers.NewSocialHandler(followRepo)
	recommendationHandler := handlers.NewRecommendationHandler(
		recommendationService, trendingService, compatibilityService,
	)

	router := routes.SetupRoutes(
		authHandler,
		songHandler,
		reviewHandler,
		profileHandler,
		socialHandler,
		recommendationHandler,
		userRepo,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.ServerPort
	}
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🎵 Melodyboxd API running on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Println("❌ Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Println("❌ Forced shutdown:", err)
	}

	log.Println("✅ Server exited properly")
}
