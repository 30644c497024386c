package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort           string
	DbHost            string
	DbPort            string
	DbUser            string
	DbPassword        string
	DbName            string
	DbParams          string
	DbMaxOpenConns    int
	DbMaxIdleConns    int
	DbConnMaxLifetime time.Duration
	TrustedProxies    []string
}

func LoadConfig() *Config {
	_ = godotenv.Load(".env")

	return &Config{
		AppPort:           getEnv("APP_PORT", "8080"),
		DbHost:            getEnv("MYSQL_HOST", "db"),
		DbPort:            getEnv("MYSQL_PORT", "3306"),
		DbUser:            getEnv("MYSQL_USER", "crewdesk"),
		DbPassword:        getEnv("MYSQL_PASSWORD", "crewdesk"),
		DbName:            getEnv("MYSQL_DATABASE", "crewdesk"),
		DbParams:          getEnv("MYSQL_PARAMS", "parseTime=true&multiStatements=true"),
		DbMaxOpenConns:    getEnvInt("MYSQL_MAX_OPEN_CONNS", 25),
		DbMaxIdleConns:    getEnvInt("MYSQL_MAX_IDLE_CONNS", 5),
		DbConnMaxLifetime: getEnvDuration("MYSQL_CONN_MAX_LIFETIME", 5*time.Minute),
		TrustedProxies:    parseTrustedProxies(os.Getenv("TRUSTED_PROXIES")),
	}
}

// DSN assembles the MySQL data source name for the configured database.
func (c *Config) DSN() string {
	params := c.DbParams
	if params == "" {
		params = "parseTime=true&multiStatements=true"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s",
		c.DbUser, c.DbPassword, c.DbHost, c.DbPort, c.DbName, params)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseTrustedProxies(value string) []string {
	parts := strings.Split(value, ",")
	proxies := make([]string, 0, len(parts))
	for _, part := range parts {
		if proxy := strings.TrimSpace(part); proxy != "" {
			proxies = append(proxies, proxy)
		}
	}
	if len(proxies) == 0 {
		return nil
	}
	return proxies
}
