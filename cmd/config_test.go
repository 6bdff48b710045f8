package cmd

import (
	"testing"

	"blogjobs/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		DBHost:            "localhost",
		DBPort:            "5432",
		DBUser:            "blog",
		DBPassword:        "secret",
		DBName:            "blog",
		DBSslMode:         "disable",
		SiteDomain:        "blog.example.com",
		UnsubscribeSecret: "s3cret",
		JobWorkers:        4,
		InterceptLogSize:  500,
		DeadJobsLogSize:   1000,
	}
}

func TestConfig_DSN(t *testing.T) {
	assert.Equal(t,
		"host=localhost port=5432 user=blog password=secret dbname=blog sslmode=disable",
		validConfig().DSN(),
	)
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.SiteDomain = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.Contains(t, err.Error(), "SITE_DOMAIN")

	cfg = validConfig()
	cfg.JobWorkers = 0
	assert.ErrorIs(t, cfg.Validate(), errs.ErrValueIsOutOfRange)
}

func TestUnresolved_AlwaysMisses(t *testing.T) {
	addr, err := unresolved{}.Resolve(t.Context(), "203.0.113.9")
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.True(t, addr.IsZero())
}
