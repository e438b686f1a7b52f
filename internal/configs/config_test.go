package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/property-intel/acumidata"
)

// Load falls back to godotenv only for unset variables, so t.Setenv gives
// each test a hermetic environment.
func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ACUMIDATA_ENV", "uat")
	t.Setenv("ACUMIDATA_UAT_KEY", "uat-key")
	t.Setenv("ACUMIDATA_PROD_KEY", "prod-key")
	t.Setenv("SESSION_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)
	cfg, err := Load("nonexistent.env")
	require.NoError(t, err)

	assert.Equal(t, 4010, cfg.Port)
	assert.Equal(t, acumidata.EnvUAT, cfg.Environment)
	assert.Equal(t, "uat-key", cfg.Credentials.UAT)
	assert.Equal(t, 1, cfg.BatchWorkers)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
}

func TestLoadProdEnvironment(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ACUMIDATA_ENV", "production")
	cfg, err := Load("nonexistent.env")
	require.NoError(t, err)

	assert.Equal(t, acumidata.EnvProd, cfg.Environment)
	key, err := cfg.Credentials.For(cfg.Environment)
	require.NoError(t, err)
	assert.Equal(t, "prod-key", key)
}

func TestLoadFailsOnMissingDefaultEnvKey(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ACUMIDATA_ENV", "prod")
	t.Setenv("ACUMIDATA_PROD_KEY", "")
	_, err := Load("nonexistent.env")
	require.Error(t, err)
	assert.ErrorIs(t, err, acumidata.ErrMissingCredential)
}

func TestLoadFailsOnMissingSessionSecret(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SESSION_SECRET", "")
	_, err := Load("nonexistent.env")
	assert.ErrorContains(t, err, "SESSION_SECRET")
}

func TestLoadRejectsBadEnvironment(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ACUMIDATA_ENV", "sandbox")
	_, err := Load("nonexistent.env")
	assert.Error(t, err)
}
