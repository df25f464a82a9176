// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values. Each field corresponds to an
// environment variable; required variables are enforced by must() and missing
// values abort startup.
type Config struct {
	Env             string        // application environment (dev/test/prod)
	Port            string        // HTTP port to listen on
	DBUser          string        // database username
	DBPass          string        // database password (optional)
	DBHost          string        // database host address
	DBPort          string        // database port number
	DBName          string        // database name
	DBMaxOpen       int           // connection pool ceiling
	DBMaxIdle       int           // idle connections kept around
	DBConnLifetime  time.Duration // max age of a pooled connection
	BcryptCost      int           // bcrypt cost for password hashing
	ExportSecret    string        // bearer secret for the export endpoint
	SessionTTL      time.Duration // session and cookie lifetime
	EditPackTTL     time.Duration // default edit-pack validity
	ListDegrade     bool          // return empty lists instead of 5xx on read errors
	AuditQueueName  string        // RabbitMQ queue for audit events
	ConsumerEnabled bool          // run the in-process audit log consumer
}

// Load reads configuration from the environment. Optional values fall back
// to defaults suitable for development.
func Load() Config {
	return Config{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		DBUser:          must("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"),
		DBHost:          must("DB_HOST"),
		DBPort:          must("DB_PORT"),
		DBName:          must("DB_NAME"),
		DBMaxOpen:       envInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdle:       envInt("DB_MAX_IDLE_CONNS", 25),
		DBConnLifetime:  envDur("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		BcryptCost:      envInt("BCRYPT_COST", 12),
		ExportSecret:    must("EXPORT_SECRET"),
		SessionTTL:      envDur("SESSION_TTL", 7*24*time.Hour),
		EditPackTTL:     envDur("EDIT_PACK_TTL", 72*time.Hour),
		ListDegrade:     envBool("LIST_DEGRADE_ENABLED", true),
		AuditQueueName:  envStr("AUDIT_QUEUE", "audit.events"),
		ConsumerEnabled: envBool("AUDIT_CONSUMER_ENABLED", true),
	}
}

// IsProd reports whether the deployment should hide internal error details.
func (c Config) IsProd() bool { return c.Env == "prod" }

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
