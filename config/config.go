package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/woorical/apiserver/types"
)

type Config struct {
	ServerPort int
	JWTSecret  string
	Database   DatabaseConfig
	Calendar   CalendarConfig
	Roster     []RosterEntry
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	UseSSL   bool
}

// CalendarConfig bounds the days events may fall on. Both ends inclusive.
type CalendarConfig struct {
	From types.Date
	To   types.Date
}

// RosterEntry describes one known user. The passcode itself is never part
// of the roster; it arrives through the named env var and is hashed at seed
// time.
type RosterEntry struct {
	Key         string
	Name        string
	Color       string
	PasscodeEnv string
}

// DefaultRoster returns the fixed set of known users.
func DefaultRoster() []RosterEntry {
	return []RosterEntry{
		{Key: "HJ", Name: "조현준", Color: "#ff2d2d", PasscodeEnv: "PASS_HJ"},
		{Key: "SK", Name: "김수겸", Color: "#2d6bff", PasscodeEnv: "PASS_SK"},
		{Key: "JH", Name: "장준호", Color: "#ff4dbe", PasscodeEnv: "PASS_JH"},
	}
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "woorical"),
		Password: getEnv("DB_PASSWORD", "password"),
		DBName:   getEnv("DB_NAME", "woorical_db"),
		UseSSL:   getEnvBool("DB_SSL", false),
	}

	calendar := CalendarConfig{
		From: getEnvDate("CAL_FROM", types.NewDate(2025, 12, 1)),
		To:   getEnvDate("CAL_TO", types.NewDate(2026, 12, 31)),
	}

	return Config{
		ServerPort: getEnvInt("SERVER_PORT", 8080),
		JWTSecret:  getEnv("JWT_SECRET", ""),
		Database:   dbConfig,
		Calendar:   calendar,
		Roster:     DefaultRoster(),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		return valueStr == "true" || valueStr == "1"
	}
	return defaultValue
}

func getEnvDate(key string, defaultValue types.Date) types.Date {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := types.ParseDate(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
