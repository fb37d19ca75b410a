package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "urbarber"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultAllowedOrigin = "*"

	DefaultShopName        = "Urbarber"
	DefaultShopLocation    = "Urbarber Barbershop"
	DefaultCalendarID      = "urbarber-shop"
	DefaultEventLinkBase   = ""
	DefaultBookingTimezone = "America/Toronto"

	DefaultSlotPadding       = 0 * time.Minute
	DefaultLockWaitTimeout   = 5 * time.Second
	DefaultLockTTL           = 10 * time.Second
	DefaultLockRetryInterval = 100 * time.Millisecond
	DefaultOverlapScanWindow = 12 * time.Hour

	DefaultBasePrice          = 25.0
	DefaultHomeServicePremium = 10.0

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)
