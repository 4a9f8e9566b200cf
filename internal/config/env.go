package config

const (
	EnvPort           = "PORT"
	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvCORSOrigins    = "CORS_ORIGINS"
	EnvLogLevel       = "LOG_LEVEL"
	EnvLogFormat      = "LOG_FORMAT"

	EnvStoreDriver   = "STORE_DRIVER"
	EnvDatabaseURL   = "DATABASE_URL"
	EnvMongoURI      = "MONGO_URI"
	EnvMongoDatabase = "MONGO_DATABASE"
	EnvStoreTimeout  = "STORE_TIMEOUT"

	EnvBusinessTimezone = "BUSINESS_TIMEZONE"
	EnvOpenHour         = "OPEN_HOUR"
	EnvCloseHour        = "CLOSE_HOUR"
	EnvSlotMinutes      = "SLOT_MINUTES"
	EnvBufferMinutes    = "BUFFER_MINUTES"
	EnvLeadHours        = "LEAD_HOURS"
	EnvLookaheadDays    = "LOOKAHEAD_DAYS"

	EnvAdminViewKey     = "ADMIN_VIEW_KEY"
	EnvAdminViewKeyHash = "ADMIN_VIEW_KEY_HASH"
	EnvJWTSecret        = "JWT_SECRET"
	EnvAdminTokenTTL    = "ADMIN_TOKEN_TTL"

	EnvStripeSecretKey      = "STRIPE_SECRET_KEY"
	EnvSiteURL              = "SITE_URL"
	EnvAssessmentPriceCents = "ASSESSMENT_PRICE_CENTS"
	EnvAssessmentCurrency   = "ASSESSMENT_CURRENCY"

	EnvSendGridAPIKey    = "SENDGRID_API_KEY"
	EnvSendGridFromEmail = "SENDGRID_FROM_EMAIL"
	EnvSendGridFromName  = "SENDGRID_FROM_NAME"
	EnvAssessmentToEmail = "ASSESSMENT_TO_EMAIL"
	EnvFitToEmail        = "FIT_TO_EMAIL"

	EnvTwilioAccountSID = "TWILIO_ACCOUNT_SID"
	EnvTwilioAuthToken  = "TWILIO_AUTH_TOKEN"
	EnvTwilioFromNumber = "TWILIO_FROM_NUMBER"
	EnvOperatorPhone    = "OPERATOR_PHONE"

	EnvKafkaBrokers = "KAFKA_BROKERS"
	EnvKafkaTopic   = "KAFKA_TOPIC"

	EnvRepairCron = "REPAIR_CRON"
	EnvDigestCron = "DIGEST_CRON"
)
