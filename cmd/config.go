package cmd

import (
	"errors"
	"fmt"
	"time"

	"blogjobs/internal/pkg/errs"
)

type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	LogLevel string

	SiteTitle         string
	SiteDomain        string
	SiteURL           string
	AdminEmail        string
	UnsubscribeSecret string

	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPassword   string
	SMTPFrom       string
	MailRatePerSec int

	GeoAPIURL  string
	GeoAPIKey  string
	IPRegionDB string

	LinkCheckConcurrency int
	LinkCheckTimeout     time.Duration
	BroadcastStagger     time.Duration
	BroadcastRetryDelay  time.Duration
	AbuseThreshold       int64
	SearchRankLimit      int
	JobWorkers           int
	InterceptLogSize     int
	DeadJobsLogSize      int

	CronCheckLinks   string
	CronRebuildIndex string
	CronEveryday     string
	CronSearchStats  string
}

// DSN is the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}

// Validate checks the settings the host cannot start without. Component
// constructors check the rest.
func (c Config) Validate() error {
	var problems []error
	for name, v := range map[string]string{
		"DB_HOST":            c.DBHost,
		"DB_PORT":            c.DBPort,
		"DB_NAME":            c.DBName,
		"SITE_DOMAIN":        c.SiteDomain,
		"UNSUBSCRIBE_SECRET": c.UnsubscribeSecret,
	} {
		if v == "" {
			problems = append(problems, errs.NewValueIsRequiredError(name))
		}
	}
	if c.JobWorkers < 1 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("JOB_WORKERS", c.JobWorkers, 1, "max int"))
	}
	if c.InterceptLogSize < 1 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("INTERCEPT_LOG_SIZE", c.InterceptLogSize, 1, "max int"))
	}
	if c.DeadJobsLogSize < 1 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("DEAD_JOBS_LOG_SIZE", c.DeadJobsLogSize, 1, "max int"))
	}
	return errors.Join(problems...)
}
