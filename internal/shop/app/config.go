package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Provider connection. All five are required for real deployments; the
	// service refuses to start without them unless SHOP_PROVIDER_OPTIONAL
	// is set (useful for local catalog-only runs).
	ProviderAuthBaseURL string // OAuth2 host, e.g. https://auth.pingone.eu
	ProviderAPIBaseURL  string // API host, e.g. https://api.pingone.eu/v1
	EnvironmentID       string // Provider environment id
	ClientID            string
	ClientSecret        string
	WalletApplicationID string // Digital wallet app that presents credentials
	CredentialType      string // Optional: verifiable credential type requested from the wallet
	ProviderOptional    bool   // Optional: allow startup without provider credentials

	WalletBankDetails bool          // Optional: request bank details from the wallet (default: true)
	PollInterval      time.Duration // Optional: verification poll interval (default: 3s)
	MaxPollFailures   int           // Optional: consecutive poll failures before giving up (default: 5)
	SafetyTimeout     time.Duration // Optional: hard cap on one verification run (default: 10m)
	SessionTTL        time.Duration // Optional: idle wizard session lifetime (default: 1h)

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./shop.db)
	MasterKeyPath        string        // Optional: path to master encryption key file for payment details
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 15m)
	AuditRetention       time.Duration // Verification audit row retention (default: 7 days)
}

func LoadConfig() Config {
	return Config{
		ProviderAuthBaseURL: getEnvOrDefault("PING_AUTH_BASE_URL", "https://auth.pingone.eu"),
		ProviderAPIBaseURL:  getEnvOrDefault("PING_API_BASE_URL", "https://api.pingone.eu/v1"),
		EnvironmentID:       os.Getenv("PING_ENVIRONMENT_ID"),
		ClientID:            os.Getenv("PING_CLIENT_ID"),
		ClientSecret:        os.Getenv("PING_CLIENT_SECRET"),
		WalletApplicationID: os.Getenv("PING_WALLET_APP_ID"),
		CredentialType:      os.Getenv("PING_CREDENTIAL_TYPE"),
		ProviderOptional:    getEnvBoolOrDefault("SHOP_PROVIDER_OPTIONAL", false),

		WalletBankDetails: getEnvBoolOrDefault("SHOP_WALLET_BANK_DETAILS", true),
		PollInterval:      getEnvDurationOrDefault("SHOP_POLL_INTERVAL", 3*time.Second),
		MaxPollFailures:   getEnvIntOrDefault("SHOP_MAX_POLL_FAILURES", 5),
		SafetyTimeout:     getEnvDurationOrDefault("SHOP_SAFETY_TIMEOUT", 10*time.Minute),
		SessionTTL:        getEnvDurationOrDefault("SHOP_SESSION_TTL", 1*time.Hour),

		DatabaseFile:  getEnvOrDefault("SHOP_DATABASE_FILE", "shop.db"),
		MasterKeyPath: os.Getenv("SHOP_MASTER_KEY_PATH"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 15*time.Minute),
		AuditRetention:       getEnvDurationOrDefault("SHOP_AUDIT_RETENTION", 7*24*time.Hour),
	}
}

// HasProviderCredentials reports whether enough provider settings are present
// to run real verifications.
func (c Config) HasProviderCredentials() bool {
	return c.EnvironmentID != "" && c.ClientID != "" && c.ClientSecret != "" &&
		c.WalletApplicationID != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
