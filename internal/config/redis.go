package config

// Redis backs the session store. If no server is reachable at startup the
// constructor returns nil and main falls back to the in-memory store, so the
// service stays usable on a developer machine without Redis.

import (
	"context"
	"crypto/tls"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a Redis client from REDIS_HOST/REDIS_PORT (or
// REDIS_ADDR), REDIS_PASSWORD, REDIS_DB and REDIS_TLS. It pings the server
// with a short timeout and returns nil on failure.
func NewRedisClient() *redis.Client {
	host := os.Getenv("REDIS_HOST")
	port := os.Getenv("REDIS_PORT")
	addr := os.Getenv("REDIS_ADDR")
	if host != "" && port != "" {
		addr = host + ":" + port
	}
	if addr == "" {
		addr = "localhost:6379"
	}
	dbNum := 0
	if s := os.Getenv("REDIS_DB"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			dbNum = n
		}
	}
	var tlsConf *tls.Config
	if v := os.Getenv("REDIS_TLS"); strings.EqualFold(v, "true") || v == "1" {
		tlsConf = &tls.Config{InsecureSkipVerify: true}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      addr,
		Password:  os.Getenv("REDIS_PASSWORD"),
		DB:        dbNum,
		TLSConfig: tlsConf,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}
