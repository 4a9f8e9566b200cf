package config

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv(EnvStoreDriver, "")
	t.Setenv(EnvBusinessTimezone, "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, "America/New_York", cfg.Hours.Location.String())
	assert.Equal(t, 45*time.Minute, cfg.Hours.SlotLength)
	assert.Equal(t, 15*time.Minute, cfg.Hours.Buffer)
	assert.Equal(t, 12*time.Hour, cfg.Hours.LeadTime)
	assert.Equal(t, 14, cfg.Hours.LookaheadDays)
	assert.Equal(t, int64(100), cfg.AssessmentPriceCents)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv(EnvSlotMinutes, "30")
	t.Setenv(EnvKafkaBrokers, "k1:9092, k2:9092,")
	t.Setenv(EnvRequestTimeout, "3s")
	t.Setenv(EnvSiteURL, "https://example.com/")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.Hours.SlotLength)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "https://example.com", cfg.SiteURL)
}

func TestFromEnv_Errors(t *testing.T) {
	t.Run("postgres without url", func(t *testing.T) {
		t.Setenv(EnvStoreDriver, DriverPostgres)
		t.Setenv(EnvDatabaseURL, "")
		_, err := FromEnv()
		assert.Error(t, err)
	})
	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv(EnvStoreDriver, "sqlite")
		_, err := FromEnv()
		assert.Error(t, err)
	})
	t.Run("bad timezone", func(t *testing.T) {
		t.Setenv(EnvBusinessTimezone, "Nowhere/Land")
		_, err := FromEnv()
		assert.Error(t, err)
	})
}
