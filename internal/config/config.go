package config

import (
	"fmt"
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL  string `env:"DATABASE_URL,required"`
	GeminiAPIKey string `env:"GEMINI_API_KEY,required"`
	JWTSecret    string `env:"JWT_SECRET,required"`

	GeminiModel string `env:"GEMINI_MODEL,default=gemini-2.5-flash"`
	Port        string `env:"PORT,default=8080"`
	GinMode     string `env:"GIN_MODE,default=release"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=text"`
	CORSOrigins string `env:"CORS_ORIGINS,default=*"`

	// Optional: the inbox lookup is disabled unless both files are set.
	GmailCredentialsFile string `env:"GMAIL_CREDENTIALS_FILE"`
	GmailTokenFile       string `env:"GMAIL_TOKEN_FILE"`
}

// Load reads an optional .env file and decodes the environment. A missing
// required variable is an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// AllowedOrigins splits CORS_ORIGINS on commas. nil means every origin.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			return nil
		}
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c *Config) GmailEnabled() bool {
	return c.GmailCredentialsFile != "" && c.GmailTokenFile != ""
}
