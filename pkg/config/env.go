package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvBookingSecret = "BOOKING_SECRET"
	EnvAllowedOrigin = "ALLOWED_ORIGIN"

	EnvShopName        = "SHOP_NAME"
	EnvShopLocation    = "SHOP_LOCATION"
	EnvCalendarID      = "CALENDAR_ID"
	EnvEventLinkBase   = "EVENT_LINK_BASE"
	EnvBookingTimezone = "BOOKING_TIMEZONE"

	EnvSlotPadding       = "SLOT_PADDING"
	EnvLockWaitTimeout   = "LOCK_WAIT_TIMEOUT"
	EnvLockTTL           = "LOCK_TTL"
	EnvLockRetryInterval = "LOCK_RETRY_INTERVAL"
	EnvOverlapScanWindow = "OVERLAP_SCAN_WINDOW"

	EnvBasePrice          = "BASE_PRICE"
	EnvHomeServicePremium = "HOME_SERVICE_PREMIUM"

	EnvSendGridAPIKey = "SENDGRID_API_KEY"
	EnvEmailFrom      = "EMAIL_FROM"
	EnvEmailFromName  = "EMAIL_FROM_NAME"

	EnvTwilioAccountSID = "TWILIO_ACCOUNT_SID"
	EnvTwilioAuthToken  = "TWILIO_AUTH_TOKEN"
	EnvTwilioFromNumber = "TWILIO_FROM_NUMBER"

	EnvKafkaBrokers = "KAFKA_BROKERS"
	EnvKafkaTopic   = "KAFKA_BOOKING_TOPIC"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
