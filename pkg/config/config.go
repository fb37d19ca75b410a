package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"urbarber/pkg/client"
	"urbarber/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	// Shared-secret check for the booking endpoint. Empty disables the check.
	BookingSecret string
	AllowedOrigin string

	ShopName      string
	ShopLocation  string
	CalendarID    string
	EventLinkBase string
	Timezone      *time.Location

	SlotPadding       time.Duration
	LockWaitTimeout   time.Duration
	LockTTL           time.Duration
	LockRetryInterval time.Duration
	OverlapScanWindow time.Duration

	BasePrice          float64
	HomeServicePremium float64

	SendGridAPIKey string
	EmailFrom      string
	EmailFromName  string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	KafkaBrokers []string
	KafkaTopic   string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		BookingSecret: getEnvStr(EnvBookingSecret, ""),
		AllowedOrigin: getEnvStr(EnvAllowedOrigin, DefaultAllowedOrigin),

		ShopName:      getEnvStr(EnvShopName, DefaultShopName),
		ShopLocation:  getEnvStr(EnvShopLocation, DefaultShopLocation),
		CalendarID:    getEnvStr(EnvCalendarID, DefaultCalendarID),
		EventLinkBase: getEnvStr(EnvEventLinkBase, DefaultEventLinkBase),

		SlotPadding:       getEnvDuration(EnvSlotPadding, DefaultSlotPadding),
		LockWaitTimeout:   getEnvDuration(EnvLockWaitTimeout, DefaultLockWaitTimeout),
		LockTTL:           getEnvDuration(EnvLockTTL, DefaultLockTTL),
		LockRetryInterval: getEnvDuration(EnvLockRetryInterval, DefaultLockRetryInterval),
		OverlapScanWindow: getEnvDuration(EnvOverlapScanWindow, DefaultOverlapScanWindow),

		BasePrice:          getEnvFloat(EnvBasePrice, DefaultBasePrice),
		HomeServicePremium: getEnvFloat(EnvHomeServicePremium, DefaultHomeServicePremium),

		SendGridAPIKey: getEnvStr(EnvSendGridAPIKey, ""),
		EmailFrom:      getEnvStr(EnvEmailFrom, ""),
		EmailFromName:  getEnvStr(EnvEmailFromName, DefaultShopName),

		TwilioAccountSID: getEnvStr(EnvTwilioAccountSID, ""),
		TwilioAuthToken:  getEnvStr(EnvTwilioAuthToken, ""),
		TwilioFromNumber: getEnvStr(EnvTwilioFromNumber, ""),

		KafkaBrokers: getEnvList(EnvKafkaBrokers, nil),
		KafkaTopic:   getEnvStr(EnvKafkaTopic, "urbarber.bookings"),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	tz := getEnvStr(EnvBookingTimezone, DefaultBookingTimezone)
	loc, err := time.LoadLocation(tz)
	if err != nil {
		cfg.Log.Fatal("Invalid booking timezone", "timezone", tz, "error", err)
	}
	cfg.Timezone = loc

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	return cfg
}

var portRegex = regexp.MustCompile(`^\d{2,5}$`)

func (cfg *Config) Validate() error {
	var problems []string

	if cfg.MongoURI == "" {
		problems = append(problems, "MongoURI cannot be empty")
	}
	if cfg.MongoDatabaseName == "" {
		problems = append(problems, "MongoDatabaseName cannot be empty")
	}
	if !portRegex.MatchString(cfg.Port) {
		problems = append(problems, fmt.Sprintf("Port must be numeric, got: %s", cfg.Port))
	}
	if cfg.CalendarID == "" {
		problems = append(problems, "CalendarID cannot be empty")
	}
	if cfg.SlotPadding < 0 {
		problems = append(problems, fmt.Sprintf("SlotPadding cannot be negative, got: %s", cfg.SlotPadding))
	}
	if cfg.LockWaitTimeout <= 0 {
		problems = append(problems, fmt.Sprintf("LockWaitTimeout must be positive, got: %s", cfg.LockWaitTimeout))
	}
	if cfg.LockTTL <= 0 {
		problems = append(problems, fmt.Sprintf("LockTTL must be positive, got: %s", cfg.LockTTL))
	}
	if cfg.LockRetryInterval <= 0 {
		problems = append(problems, fmt.Sprintf("LockRetryInterval must be positive, got: %s", cfg.LockRetryInterval))
	}
	if cfg.OverlapScanWindow <= 0 {
		problems = append(problems, fmt.Sprintf("OverlapScanWindow must be positive, got: %s", cfg.OverlapScanWindow))
	}
	if cfg.BasePrice < 0 || cfg.HomeServicePremium < 0 {
		problems = append(problems, "prices cannot be negative")
	}
	if cfg.SendGridAPIKey != "" && cfg.EmailFrom == "" {
		problems = append(problems, "EmailFrom is required when SendGridAPIKey is set")
	}
	if cfg.TwilioAccountSID != "" && (cfg.TwilioAuthToken == "" || cfg.TwilioFromNumber == "") {
		problems = append(problems, "TwilioAuthToken and TwilioFromNumber are required when TwilioAccountSID is set")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded",
		"mongo_database", cfg.MongoDatabaseName,
		"port", cfg.Port,
		"shop_name", cfg.ShopName,
		"calendar_id", cfg.CalendarID,
		"timezone", cfg.Timezone.String(),
		"slot_padding", cfg.SlotPadding,
		"lock_wait_timeout", cfg.LockWaitTimeout,
		"lock_ttl", cfg.LockTTL,
		"overlap_scan_window", cfg.OverlapScanWindow,
		"booking_secret_set", cfg.BookingSecret != "",
		"allowed_origin", cfg.AllowedOrigin,
		"email_enabled", cfg.SendGridAPIKey != "",
		"sms_enabled", cfg.TwilioAccountSID != "",
		"kafka_enabled", len(cfg.KafkaBrokers) > 0,
	)
}

func getEnvStr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvNum(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
