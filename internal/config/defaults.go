package config

import "time"

const (
	DefaultPort           = "8080"
	DefaultRequestTimeout = 20 * time.Second
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"

	DefaultStoreDriver   = DriverMemory
	DefaultMongoURI      = "mongodb://localhost:27017/?replicaSet=rs0"
	DefaultMongoDatabase = "assessments"
	DefaultStoreTimeout  = 5 * time.Second

	DefaultBusinessTimezone = "America/New_York"
	DefaultOpenHour         = 10
	DefaultCloseHour        = 18
	DefaultSlotMinutes      = 45
	DefaultBufferMinutes    = 15
	DefaultLeadHours        = 12
	DefaultLookaheadDays    = 14

	DefaultAdminTokenTTL = time.Hour

	DefaultAssessmentPriceCents = 100
	DefaultAssessmentCurrency   = "usd"

	DefaultSendGridFromEmail = "noreply@cel3interactive.com"
	DefaultSendGridFromName  = "CEL3 Interactive"
	DefaultAssessmentToEmail = "info@cel3interactive.com"

	DefaultKafkaTopic = "assessment-bookings"

	DefaultRepairCron = "*/15 * * * *"
	DefaultDigestCron = "0 7 * * 1-5"
)
