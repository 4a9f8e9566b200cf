package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"assessments/internal/utils"
	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	Port           string
	RequestTimeout time.Duration
	CORSOrigins    []string
	LogLevel       string
	LogFormat      string

	StoreDriver   string
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string
	StoreTimeout  time.Duration

	Hours utils.BusinessHours

	AdminViewKey     string
	AdminViewKeyHash string
	JWTSecret        string
	AdminTokenTTL    time.Duration

	StripeSecretKey      string
	SiteURL              string
	AssessmentPriceCents int64
	AssessmentCurrency   string

	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	AssessmentToEmail string
	FitToEmail        string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	OperatorPhone    string

	KafkaBrokers []string
	KafkaTopic   string

	RepairCron string
	DigestCron string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:           getEnvStr(EnvPort, DefaultPort),
		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		CORSOrigins:    getEnvList(EnvCORSOrigins),
		LogLevel:       getEnvStr(EnvLogLevel, DefaultLogLevel),
		LogFormat:      getEnvStr(EnvLogFormat, DefaultLogFormat),

		StoreDriver:   strings.ToLower(getEnvStr(EnvStoreDriver, DefaultStoreDriver)),
		DatabaseURL:   getEnvStr(EnvDatabaseURL, ""),
		MongoURI:      getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabase: getEnvStr(EnvMongoDatabase, DefaultMongoDatabase),
		StoreTimeout:  getEnvDuration(EnvStoreTimeout, DefaultStoreTimeout),

		AdminViewKey:     getEnvStr(EnvAdminViewKey, ""),
		AdminViewKeyHash: getEnvStr(EnvAdminViewKeyHash, ""),
		JWTSecret:        getEnvStr(EnvJWTSecret, ""),
		AdminTokenTTL:    getEnvDuration(EnvAdminTokenTTL, DefaultAdminTokenTTL),

		StripeSecretKey:      getEnvStr(EnvStripeSecretKey, ""),
		SiteURL:              strings.TrimRight(getEnvStr(EnvSiteURL, ""), "/"),
		AssessmentPriceCents: int64(getEnvNum(EnvAssessmentPriceCents, DefaultAssessmentPriceCents)),
		AssessmentCurrency:   getEnvStr(EnvAssessmentCurrency, DefaultAssessmentCurrency),

		SendGridAPIKey:    getEnvStr(EnvSendGridAPIKey, ""),
		SendGridFromEmail: getEnvStr(EnvSendGridFromEmail, DefaultSendGridFromEmail),
		SendGridFromName:  getEnvStr(EnvSendGridFromName, DefaultSendGridFromName),
		AssessmentToEmail: getEnvStr(EnvAssessmentToEmail, DefaultAssessmentToEmail),
		FitToEmail:        getEnvStr(EnvFitToEmail, ""),

		TwilioAccountSID: getEnvStr(EnvTwilioAccountSID, ""),
		TwilioAuthToken:  getEnvStr(EnvTwilioAuthToken, ""),
		TwilioFromNumber: getEnvStr(EnvTwilioFromNumber, ""),
		OperatorPhone:    getEnvStr(EnvOperatorPhone, ""),

		KafkaBrokers: getEnvList(EnvKafkaBrokers),
		KafkaTopic:   getEnvStr(EnvKafkaTopic, DefaultKafkaTopic),

		RepairCron: getEnvStr(EnvRepairCron, DefaultRepairCron),
		DigestCron: getEnvStr(EnvDigestCron, DefaultDigestCron),
	}

	hours, err := utils.NewBusinessHours(
		getEnvStr(EnvBusinessTimezone, DefaultBusinessTimezone),
		getEnvNum(EnvOpenHour, DefaultOpenHour),
		getEnvNum(EnvCloseHour, DefaultCloseHour),
		time.Duration(getEnvNum(EnvSlotMinutes, DefaultSlotMinutes))*time.Minute,
		time.Duration(getEnvNum(EnvBufferMinutes, DefaultBufferMinutes))*time.Minute,
		time.Duration(getEnvNum(EnvLeadHours, DefaultLeadHours))*time.Hour,
		getEnvNum(EnvLookaheadDays, DefaultLookaheadDays),
	)
	if err != nil {
		return nil, err
	}
	cfg.Hours = hours

	switch cfg.StoreDriver {
	case DriverMemory, DriverMongo:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("%s is required for the postgres store", EnvDatabaseURL)
		}
	default:
		return nil, fmt.Errorf("unknown %s %q", EnvStoreDriver, cfg.StoreDriver)
	}

	return cfg, nil
}

func getEnvStr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvNum(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getEnvList(key string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
