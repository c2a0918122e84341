package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env      string
	HTTPPort string

	// Session scoping
	SessionSigningKey string
	SessionIssuer     string
	SessionTTL        time.Duration

	// Roster + queue backends
	RosterBackend string // memory | redis
	QueueBackend  string // memory | redis
	RedisAddr     string

	// Notification dispatch
	DispatchMode    string // sync | queue
	NotifyChannel   string // email | proxy | deeplink
	EmailAPIBaseURL string
	EmailAPIKey     string
	EmailFrom       string
	EmailTo         string
	NotifyProxyURL  string
	DeepLinkBaseURL string
	DispatchTimeout time.Duration

	// Location gate
	GeofenceEnabled   bool
	AllowedPostalCode string
	GeocodeBaseURL    string
	GeocodeTimeout    time.Duration

	RateLimitPerMin int
}

// Load returns application config populated from environment variables with
// sensible defaults. A .env file is honored when present.
func Load() App {
	_ = godotenv.Load()

	return App{
		Env:      getEnv("APP_ENV", "dev"),
		HTTPPort: getEnv("HTTP_PORT", "8081"),

		SessionSigningKey: getEnv("SESSION_SIGNING_KEY", "dev-signing-secret-change"),
		SessionIssuer:     getEnv("SESSION_ISSUER", "chamada-online"),
		SessionTTL:        durationEnv("SESSION_TTL", time.Hour),

		RosterBackend: getEnv("ROSTER_BACKEND", "memory"),
		QueueBackend:  getEnv("QUEUE_BACKEND", "memory"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),

		DispatchMode:    getEnv("DISPATCH_MODE", "sync"),
		NotifyChannel:   getEnv("NOTIFY_CHANNEL", "email"),
		EmailAPIBaseURL: getEnv("EMAIL_API_BASE_URL", "https://api.resend.com"),
		EmailAPIKey:     getEnv("EMAIL_API_KEY", ""),
		EmailFrom:       getEnv("EMAIL_FROM", "Escola Teológica <onboarding@resend.dev>"),
		EmailTo:         getEnv("EMAIL_TO", "elpisescolateologica@gmail.com"),
		NotifyProxyURL:  getEnv("NOTIFY_PROXY_URL", ""),
		DeepLinkBaseURL: getEnv("DEEPLINK_BASE_URL", "https://wa.me/5511999999999"),
		DispatchTimeout: durationEnv("DISPATCH_TIMEOUT", 10*time.Second),

		GeofenceEnabled:   boolEnv("GEOFENCE_ENABLED", false),
		AllowedPostalCode: getEnv("ALLOWED_POSTAL_CODE", ""),
		GeocodeBaseURL:    getEnv("GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocodeTimeout:    durationEnv("GEOCODE_TIMEOUT", 20*time.Second),

		RateLimitPerMin: intEnv("RATE_LIMIT_PER_MIN", 120),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func boolEnv(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if val == "1" || val == "true" || val == "TRUE" {
			return true
		}
		if val == "0" || val == "false" || val == "FALSE" {
			return false
		}
		log.Printf("invalid bool for %s, using fallback %v", key, fallback)
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Printf("invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}
