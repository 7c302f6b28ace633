package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the kiosk.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NewRelic NewRelicConfig
	Printer  PrinterConfig
	Coins    CoinConfig
	Upload   UploadConfig
	Portal   PortalConfig
	Notify   NotifyConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// PrinterConfig holds CUPS printer and pricing configuration.
type PrinterConfig struct {
	Name           string
	PricePerPageBW float64
	PricePerPageC  float64
	JobTimeout     time.Duration
}

// CoinConfig holds coin acceptor configuration.
type CoinConfig struct {
	// Values is the set of accepted denominations, in pesos.
	Values []float64

	// DebounceWindow is the minimum gap between two distinct pulses;
	// anything tighter is electrical noise.
	DebounceWindow time.Duration

	// GroupWindow is how long the acceptor waits after the last pulse
	// before resolving the group into a denomination.
	GroupWindow time.Duration

	// Device is the pulse line to read edges from. Empty disables the
	// hardware path; manual credits still work.
	Device string

	// ConfirmMode holds hardware-detected coins as pending until a
	// confirmation call credits them, instead of crediting on detection.
	ConfirmMode bool
}

// UploadConfig holds file upload constraints.
type UploadConfig struct {
	Dir        string
	MaxBytes   int64
	Extensions []string
}

// PortalConfig holds captive portal configuration.
type PortalConfig struct {
	RedirectPort string
	BaseURL      string
}

// NotifyConfig holds owner notification configuration.
type NotifyConfig struct {
	WebhookURL string
	Enabled    bool
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "5000"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "vendoprint"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "vendoprint-kiosk"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Printer: PrinterConfig{
			Name:           getEnv("PRINTER_NAME", "Brother"),
			PricePerPageBW: getFloatEnv("PRICE_PER_PAGE_BW", 5.0),
			PricePerPageC:  getFloatEnv("PRICE_PER_PAGE_COLOR", 10.0),
			JobTimeout:     getDurationEnv("PRINT_JOB_TIMEOUT", 5*time.Minute),
		},
		Coins: CoinConfig{
			Values:         getFloatsEnv("COIN_VALUES", []float64{1, 5, 10, 20}),
			DebounceWindow: getDurationEnv("COIN_DEBOUNCE_WINDOW", 10*time.Millisecond),
			GroupWindow:    getDurationEnv("COIN_GROUP_WINDOW", 500*time.Millisecond),
			Device:         getEnv("COIN_DEVICE", ""),
			ConfirmMode:    getBoolEnv("COIN_CONFIRM_MODE", false),
		},
		Upload: UploadConfig{
			Dir:        getEnv("UPLOAD_DIR", "uploads"),
			MaxBytes:   getInt64Env("UPLOAD_MAX_BYTES", 50*1024*1024),
			Extensions: getStringsEnv("UPLOAD_EXTENSIONS", []string{"pdf", "png", "jpg", "jpeg", "docx", "doc"}),
		},
		Portal: PortalConfig{
			RedirectPort: getEnv("PORTAL_REDIRECT_PORT", "80"),
			BaseURL:      getEnv("PORTAL_BASE_URL", "http://192.168.4.1:5000"),
		},
		Notify: NotifyConfig{
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
			Enabled:    getBoolEnv("NOTIFY_ENABLED", true),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatsEnv parses a comma-separated list of numbers, e.g. "1,5,10,20".
func getFloatsEnv(key string, defaultValue []float64) []float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return defaultValue
		}
		out = append(out, f)
	}
	return out
}

func getStringsEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(strings.ToLower(p)))
	}
	return out
}
