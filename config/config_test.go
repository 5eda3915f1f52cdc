package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "API_PREFIX", "DB_DRIVER", "VERIFICATION_CACHE_TTL", "ALLOWED_ORIGINS", "CRON_ENABLED", "ISSUER_JWT_SECRET"} {
		// restored by t.Setenv's cleanup
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	env, err := Get()
	require.NoError(t, err)

	assert.Equal(t, 8001, env.Port)
	assert.Equal(t, "/api", env.APIPrefix)
	assert.Equal(t, DriverGORM, env.DBDriver)
	assert.Equal(t, 5*time.Minute, env.VerificationCacheTTL)
	assert.Equal(t, "*", env.AllowedOrigins)
	assert.True(t, env.CronEnabled)
	assert.Empty(t, env.IssuerJWTSecret)
	assert.False(t, env.SpacesEnabled())
}

func TestGetOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", DriverMemory)
	t.Setenv("VERIFICATION_CACHE_TTL", "30s")
	t.Setenv("CRON_ENABLED", "false")
	t.Setenv("GO_ENV", "production")

	env, err := Get()
	require.NoError(t, err)

	assert.Equal(t, 9090, env.Port)
	assert.Equal(t, DriverMemory, env.DBDriver)
	assert.Equal(t, 30*time.Second, env.VerificationCacheTTL)
	assert.False(t, env.CronEnabled)
	assert.True(t, env.IsProduction())
}

func TestGetRejectsBadValues(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "mongo")
		_, err := Get()
		assert.ErrorContains(t, err, "unknown DB_DRIVER")
	})

	t.Run("malformed duration", func(t *testing.T) {
		t.Setenv("DB_DRIVER", DriverMemory)
		t.Setenv("VERIFICATION_CACHE_TTL", "soon")
		_, err := Get()
		assert.Error(t, err)
	})
}

func TestPostgresDSN(t *testing.T) {
	env := &EnvironmentVariable{
		DBHost: "db", DBUserName: "app", DBPassword: "pw", DBName: "shikshachain", DBPort: "5432", DBSSLMode: "disable",
	}
	assert.Equal(t,
		"host=db user=app password=pw dbname=shikshachain port=5432 sslmode=disable TimeZone=UTC",
		env.PostgresDSN())
}

func TestSpacesEnabled(t *testing.T) {
	env := &EnvironmentVariable{
		SpacesKey: "k", SpacesSecret: "s", SpacesBucket: "b", SpacesRegion: "blr1", SpacesEndpoint: "blr1.digitaloceanspaces.com",
	}
	assert.True(t, env.SpacesEnabled())

	env.SpacesSecret = ""
	assert.False(t, env.SpacesEnabled())
}
