package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// HybridWeights blends the six per-song signals of the hybrid engine.
// Overridable from env so weight experiments never touch engine code.
type HybridWeights struct {
	Genre     float64
	CF        float64
	Community float64
	Artist    float64
	Language  float64
	Era       float64
}

// CompatibilityWeights blends the five pairwise taste signals.
type CompatibilityWeights struct {
	CF       float64
	Genre    float64
	Artist   float64
	Language float64
	Era      float64
}

type Config struct {
	MetadataClientID     string
	MetadataClientSecret string
	CloudinaryURL        string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	ServerPort string
	JWTSecret  string

	HybridWeights        HybridWeights
	CompatibilityWeights CompatibilityWeights

	// Engine tunables.
	ColdStartThreshold     int           // below this many reviews a user gets cold-start scoring
	CandidatePoolCap       int           // max candidates scored per hybrid request
	CompatibilityCacheTTL  time.Duration // cache entries older than this are recomputed
	CommunityDecayRate     float64       // per-day exponential decay of review influence
	TrendingDecayRate      float64       // per-day exponential decay of trending engagement
	TrendingWindowDays     int
	MinRatingForGenreTaste float64 // ratings at or above this feed the user's genre set
}

var GlobalConfig *Config

func LoadConfig() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	env := getEnv("ENV", "development")

	var dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode string
	if env == "production" {
		dbHost = getEnv("DB_HOST", "")
		dbPort = getEnv("DB_PORT", "5432")
		dbUser = getEnv("DB_USER", "")
		dbPassword = getEnv("DB_PASSWORD", "")
		dbName = getEnv("DB_NAME", "")
		dbSSLMode = getEnv("DB_SSLMODE", "require")
	} else {
		dbHost = getEnv("DB_HOST", "localhost")
		dbPort = getEnv("DB_PORT", "5432")
		dbUser = getEnv("DB_USER", "postgres")
		dbPassword = getEnv("DB_PASSWORD", "password")
		dbName = getEnv("DB_NAME", "melodyboxd")
		dbSSLMode = getEnv("DB_SSLMODE", "disable")
	}

	cfg := DefaultEngineConfig()

	cfg.MetadataClientID = getEnv("METADATA_CLIENT_ID", "")
	cfg.MetadataClientSecret = getEnv("METADATA_CLIENT_SECRET", "")
	cfg.CloudinaryURL = getEnv("CLOUDINARY_URL", "")

	cfg.DBHost = dbHost
	cfg.DBPort = dbPort
	cfg.DBUser = dbUser
	cfg.DBPassword = dbPassword
	cfg.DBName = dbName
	cfg.DBSSLMode = dbSSLMode

	cfg.ServerPort = getEnv("SERVER_PORT", "8080")
	cfg.JWTSecret = getEnv("JWT_SECRET", "default-jwt-secret-change-in-production")

	cfg.ColdStartThreshold = getEnvInt("COLD_START_THRESHOLD", cfg.ColdStartThreshold)
	cfg.CandidatePoolCap = getEnvInt("CANDIDATE_POOL_CAP", cfg.CandidatePoolCap)
	cfg.CompatibilityCacheTTL = time.Duration(getEnvInt("COMPATIBILITY_CACHE_TTL_MINUTES", 60)) * time.Minute
	cfg.CommunityDecayRate = getEnvFloat("COMMUNITY_DECAY_RATE", cfg.CommunityDecayRate)
	cfg.TrendingDecayRate = getEnvFloat("TRENDING_DECAY_RATE", cfg.TrendingDecayRate)
	cfg.TrendingWindowDays = getEnvInt("TRENDING_WINDOW_DAYS", cfg.TrendingWindowDays)
	cfg.MinRatingForGenreTaste = getEnvFloat("MIN_RATING_FOR_GENRE_TASTE", cfg.MinRatingForGenreTaste)

	cfg.HybridWeights = HybridWeights{
		Genre:     getEnvFloat("WEIGHT_GENRE", cfg.HybridWeights.Genre),
		CF:        getEnvFloat("WEIGHT_CF", cfg.HybridWeights.CF),
		Community: getEnvFloat("WEIGHT_COMMUNITY", cfg.HybridWeights.Community),
		Artist:    getEnvFloat("WEIGHT_ARTIST", cfg.HybridWeights.Artist),
		Language:  getEnvFloat("WEIGHT_LANGUAGE", cfg.HybridWeights.Language),
		Era:       getEnvFloat("WEIGHT_ERA", cfg.HybridWeights.Era),
	}
	cfg.CompatibilityWeights = CompatibilityWeights{
		CF:       getEnvFloat("COMPAT_WEIGHT_CF", cfg.CompatibilityWeights.CF),
		Genre:    getEnvFloat("COMPAT_WEIGHT_GENRE", cfg.CompatibilityWeights.Genre),
		Artist:   getEnvFloat("COMPAT_WEIGHT_ARTIST", cfg.CompatibilityWeights.Artist),
		Language: getEnvFloat("COMPAT_WEIGHT_LANGUAGE", cfg.CompatibilityWeights.Language),
		Era:      getEnvFloat("COMPAT_WEIGHT_ERA", cfg.CompatibilityWeights.Era),
	}

	GlobalConfig = cfg

	if cfg.MetadataClientID == "" || cfg.MetadataClientSecret == "" {
		log.Println("⚠️ Metadata API credentials not set, catalog search disabled")
	}

	return nil
}

func DefaultHybridWeights() HybridWeights {
	return HybridWeights{
		Genre:     0.25,
		CF:        0.30,
		Community: 0.20,
		Artist:    0.10,
		Language:  0.10,
		Era:       0.05,
	}
}

func DefaultCompatibilityWeights() CompatibilityWeights {
	return CompatibilityWeights{
		CF:       0.35,
		Genre:    0.25,
		Artist:   0.15,
		Language: 0.15,
		Era:      0.10,
	}
}

// DefaultEngineConfig returns a Config carrying the engine tunables and
// weight defaults only. Tests and experiments build on this instead of env
// state.
func DefaultEngineConfig() *Config {
	return &Config{
		HybridWeights:          DefaultHybridWeights(),
		CompatibilityWeights:   DefaultCompatibilityWeights(),
		ColdStartThreshold:     5,
		CandidatePoolCap:       1000,
		CompatibilityCacheTTL:  time.Hour,
		CommunityDecayRate:     0.1,
		TrendingDecayRate:      0.2,
		TrendingWindowDays:     7,
		MinRatingForGenreTaste: 4.0,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
