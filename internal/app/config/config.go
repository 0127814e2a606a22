package config

import (
	"fmt"
	"net"
	"strings"
)

// Config holds everything the service reads from the environment.
// It is populated once at startup and never mutated afterwards.
type Config struct {
	ServerAddress string `env:"SERVER_ADDRESS" envDefault:"0.0.0.0:8080"`

	DBHost     string `env:"DB_HOST"`
	DBPort     string `env:"DB_PORT"`
	DBName     string `env:"DB_NAME"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	AdminKey string `env:"ADMIN_KEY"`

	EmailHost string `env:"EMAIL_HOST"`
	EmailPort string `env:"EMAIL_PORT"`
	EmailUser string `env:"EMAIL_USER"`
	EmailPass string `env:"EMAIL_PASS"`
	EmailFrom string `env:"EMAIL_FROM"`
	EmailTo   string `env:"EMAIL_TO"`
}

// Validate checks that every required variable is set and non-empty.
// An empty value set in the environment is as fatal as a missing one.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"DB_HOST", c.DBHost},
		{"DB_PORT", c.DBPort},
		{"DB_NAME", c.DBName},
		{"DB_USER", c.DBUser},
		{"DB_PASSWORD", c.DBPassword},
		{"ADMIN_KEY", c.AdminKey},
		{"EMAIL_HOST", c.EmailHost},
		{"EMAIL_PORT", c.EmailPort},
		{"EMAIL_USER", c.EmailUser},
		{"EMAIL_PASS", c.EmailPass},
		{"EMAIL_FROM", c.EmailFrom},
		{"EMAIL_TO", c.EmailTo},
	}

	for _, v := range required {
		if v.value == "" {
			return fmt.Errorf("missing required environment variable %s", v.name)
		}
	}
	return nil
}

// DSN builds a lib/pq key=value connection string.
func (c *Config) DSN() string {
	parts := []string{
		"host=" + c.DBHost,
		"port=" + c.DBPort,
		"user=" + c.DBUser,
		"password=" + c.DBPassword,
		"dbname=" + c.DBName,
		"sslmode=" + c.DBSSLMode,
	}
	return strings.Join(parts, " ")
}

func (c *Config) SMTPAddr() string {
	return net.JoinHostPort(c.EmailHost, c.EmailPort)
}
