package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers selectable with STORE_DRIVER.
const (
	StoreDriverPostgres  = "postgres"
	StoreDriverFirestore = "firestore"
	StoreDriverMemory    = "memory"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	StoreDriver    string
	MigrationsPath string

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Bootstrap super admin, created on serve when no user with that name exists.
	AdminUsername string
	AdminPassword string

	// External OAuth Providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	FrontendBaseURL    string `mapstructure:"FRONTEND_BASE_URL"`

	// Firebase
	FirebaseProjectID       string
	FirebaseCredentialsFile string
	FirebaseStorageBucket   string

	OverdueSweepSchedule string
	LoginRateLimit       string // ulule/limiter format, e.g. "10-M"
	APIRateLimit         string
	MaxUploadBytes       int
	PublicBaseURL        string

	PosthogAPIKey      string
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_EXPIRY_DURATION", "12h")
	viper.SetDefault("JWT_ISSUER", "fieldops-backend")
	viper.SetDefault("ADMIN_USERNAME", "")
	viper.SetDefault("ADMIN_PASSWORD", "")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("FIREBASE_PROJECT_ID", "")
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	viper.SetDefault("FIREBASE_STORAGE_BUCKET", "")
	viper.SetDefault("OVERDUE_SWEEP_SCHEDULE", "0 1 * * *")
	viper.SetDefault("LOGIN_RATE_LIMIT", "10-M")
	viper.SetDefault("API_RATE_LIMIT", "300-M")
	viper.SetDefault("MAX_UPLOAD_BYTES", 5<<20)
	viper.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:    viper.GetString("PGSQL_URL"),
		Port:           viper.GetString("PORT"),
		IsProduction:   viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:  viper.GetBool("ENABLE_DB_CHECK"),
		StoreDriver:    strings.ToLower(strings.TrimSpace(viper.GetString("STORE_DRIVER"))),
		MigrationsPath: viper.GetString("MIGRATIONS_PATH"),

		JWTSecret: viper.GetString("JWT_SECRET"),
		JWTIssuer: viper.GetString("JWT_ISSUER"),

		AdminUsername: viper.GetString("ADMIN_USERNAME"),
		AdminPassword: viper.GetString("ADMIN_PASSWORD"),

		GoogleClientID:     viper.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: viper.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  viper.GetString("GOOGLE_REDIRECT_URL"),
		FrontendBaseURL:    viper.GetString("FRONTEND_BASE_URL"),

		FirebaseProjectID:       viper.GetString("FIREBASE_PROJECT_ID"),
		FirebaseCredentialsFile: viper.GetString("FIREBASE_CREDENTIALS_FILE"),
		FirebaseStorageBucket:   viper.GetString("FIREBASE_STORAGE_BUCKET"),

		OverdueSweepSchedule: viper.GetString("OVERDUE_SWEEP_SCHEDULE"),
		LoginRateLimit:       viper.GetString("LOGIN_RATE_LIMIT"),
		APIRateLimit:         viper.GetString("API_RATE_LIMIT"),
		MaxUploadBytes:       viper.GetInt("MAX_UPLOAD_BYTES"),
		PublicBaseURL:        strings.TrimRight(viper.GetString("PUBLIC_BASE_URL"), "/"),

		PosthogAPIKey:      viper.GetString("POSTHOG_API_KEY"),
		CORSAllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	// Load JWT Expiry Duration (e.g., "60m", "12h")
	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil || jwtExpiryDuration <= 0 {
		jwtExpiryDuration = 12 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration)
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = defaultJWTSecret
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 5 << 20
	}

	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			log.Println("Warning: PGSQL_URL environment variable not set.")
		}
	case StoreDriverFirestore:
		if cfg.FirebaseProjectID == "" {
			return nil, fmt.Errorf("FIREBASE_PROJECT_ID is required when STORE_DRIVER=%s", StoreDriverFirestore)
		}
	case StoreDriverMemory:
		log.Println("Warning: STORE_DRIVER=memory keeps all data in process memory.")
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q (want %s, %s or %s)",
			cfg.StoreDriver, StoreDriverPostgres, StoreDriverFirestore, StoreDriverMemory)
	}

	// Log warnings for missing critical OAuth ENV variables
	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google OAuth will not function.")
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
