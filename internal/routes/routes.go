package routes

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gmaddy200516-hash/melodyboxd/internal/handlers"
	"github.com/gmaddy200516-hash/melodyboxd/internal/middleware"
	"github.com/gmaddy200516-hash/melodyboxd/internal/repository"
)

func SetupRoutes(
	authHandler *handlers.AuthHandler,
	songHandler *handlers.SongHandler,
	reviewHandler *handlers.ReviewHandler,
	profileHandler *handlers.ProfileHandler,
	socialHandler *handlers.SocialHandler,
	recommendationHandler *handlers.RecommendationHandler,
	userRepo repository.UserRepository,
) *gin.Engine {

	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	env := os.Getenv("ENV")
	frontendURL := os.Getenv("CORS_ORIGIN")

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if env == "production" {
		if frontendURL == "" {
			log.Fatal("❌ CORS_ORIGIN environment variable is NOT set in production!")
		}
		corsConfig.AllowOrigins = []string{frontendURL}
	} else {
		allowedOrigins := []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:5173",
		}
		if frontendURL != "" {
			allowedOrigins = append(allowedOrigins, frontendURL)
		}
		corsConfig.AllowOriginFunc = func(origin string) bool {
			for _, allowed := range allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return strings.HasPrefix(origin, "http://192.168.") || strings.HasPrefix(origin, "http://10.")
		}
	}

	router.Use(cors.New(corsConfig))

	router.Use(func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Next()
	})

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)

			authProtected := auth.Group("/")
			authProtected.Use(middleware.JWTMiddleware())
			{
				authProtected.GET("/me", authHandler.Me)
			}
		}

		songs := api.Group("/songs")
		songs.Use(middleware.OptionalJWTMiddleware())
		{
			songs.GET("/search", songHandler.SearchSongs)
			songs.GET("/popular", songHandler.GetPopularSongs)
			songs.GET("/:id", songHandler.GetSongByID)
		}

		protected := api.Group("/")
		protected.Use(middleware.JWTMiddleware())
		{
			reviews := protected.Group("/reviews")
			{
				reviews.PUT("", reviewHandler.UpsertReview)
				reviews.GET("/mine", reviewHandler.GetMyReviews)
				reviews.DELETE("/:song_id", reviewHandler.DeleteReview)
			}

			profile := protected.Group("/profile")
			{
				profile.GET("", profileHandler.GetProfile)
				profile.PUT("", profileHandler.UpdateProfile)
				profile.GET("/taste-genres", profileHandler.GetTasteGenres)
			}

			social := protected.Group("/social")
			{
				social.POST("/follow/:user_id", socialHandler.Follow)
				social.DELETE("/follow/:user_id", socialHandler.Unfollow)
				social.GET("/edges", socialHandler.GetEdges)
			}

			recommendations := protected.Group("/recommendations")
			{
				recommendations.GET("", recommendationHandler.GetRecommendations)
				recommendations.GET("/trending", recommendationHandler.GetTrending)
			}

			protected.GET("/users/:user_id/compatibility", recommendationHandler.GetCompatibility)

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminMiddleware(userRepo))
			{
				admin.POST("/songs/refresh-popularity", songHandler.RefreshPopularity)
				admin.POST("/songs/:id/cover", songHandler.UploadCoverArt)
			}
		}

		// Annotator callback; runs inside the trusted network, behind the
		// same JWT as regular traffic.
		internal := api.Group("/internal")
		internal.Use(middleware.JWTMiddleware())
		{
			internal.POST("/sentiment", reviewHandler.UpsertSentiment)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "success",
			"message": "Server is running",
		})
	})

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "success",
			"message": "Melodyboxd API",
			"version": "1.0.0",
		})
	})

	return router
}
