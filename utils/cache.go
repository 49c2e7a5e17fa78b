// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"clinicflow/config"

	"github.com/go-redis/redis/v8"
)

// SessionCacheClient holds booking sessions between the slot query and
// the patient's pick.
var SessionCacheClient *redis.Client

// InitSessionCache initializes the Redis client for booking session caching.
func InitSessionCache() {
	SessionCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSessionDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := SessionCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Session Cache): %v", err)
	}
}

// GetSessionCacheClient returns the booking session cache client.
func GetSessionCacheClient() *redis.Client {
	if SessionCacheClient == nil {
		InitSessionCache()
	}
	return SessionCacheClient
}
