package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		Database
		Tasks
		Cleanup
		Global
	}

	Database struct {
		Path string
	}

	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}

	Cleanup struct {
		Enabled   bool
		Schedule  string // Cron format: "0 3 * * *" = daily at 03:00
		Retention time.Duration
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Batch retention defaults
	v.SetDefault("batch_cleanup_enabled", true)
	v.SetDefault("batch_cleanup_schedule", "0 3 * * *")
	v.SetDefault("batch_cleanup_retention", "720h") // 30 days

	return &Config{
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Cleanup: Cleanup{
			Enabled:   v.GetBool("BATCH_CLEANUP_ENABLED"),
			Schedule:  v.GetString("BATCH_CLEANUP_SCHEDULE"),
			Retention: v.GetDuration("BATCH_CLEANUP_RETENTION"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
