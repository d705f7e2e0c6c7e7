package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration holds the static settings required to run the server,
// loaded from config/env/<GO_ENV>.env plus the process environment.
type Configuration struct {
	Address               string `env:"ADDRESS" envDefault:":8080"`                // Server listen address
	JwtSecret             string `env:"JWT_SECRET,required"`                       // HS256 secret for bearer tokens
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`           // Database connection URL
	MongoDB_DBName        string `env:"MONGODB_DBNAME,required"`                   // Database name
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Allowed origins, comma separated, * = all
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Allow cookies/credentials
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`           // Max requests per window
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`         // Window size in seconds
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`

	// Admin access: comma-separated list of email addresses allowed to
	// use the review dashboard endpoints.
	AdminEmails string `env:"ADMIN_EMAILS" envDefault:""`

	// Outbound email for decision notifications (optional; when the host
	// is empty notifications are skipped).
	SMTP_Host     string `env:"SMTP_HOST"`
	SMTP_Port     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTP_Username string `env:"SMTP_USERNAME"`
	SMTP_Password string `env:"SMTP_PASSWORD"`
	SMTP_From     string `env:"SMTP_FROM"`

	// Frontend URL, used in notification emails and CORS defaults.
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	// TLS/HTTPS
	EnableTLS   bool   `env:"ENABLE_TLS" envDefault:"false"`
	TLSCertFile string `env:"TLS_CERT_FILE"`
	TLSKeyFile  string `env:"TLS_KEY_FILE"`
}

// getEnvPath returns the env file path for the current environment by
// walking up from the working directory until a config/env folder is found.
func getEnvPath() string {
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" {
		goEnv = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		// fmt here: the logger is not initialised yet at config time.
		fmt.Printf("Could not determine working directory: %v\n", err)
		return ""
	}

	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", goEnv))
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig reads the configuration from the environment file and the
// process environment. Returns nil when loading or parsing fails.
func NewConfig() *Configuration {
	envPath := getEnvPath()
	if envPath == "" {
		fmt.Printf("Could not find the config/env directory\n")
		return nil
	}

	if err := godotenv.Load(envPath); err != nil {
		fmt.Printf("Could not load env file at %s: %v\n", envPath, err)
		return nil
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		fmt.Printf("Failed to parse config: %+v\n", err)
		return nil
	}

	return &cfg
}
