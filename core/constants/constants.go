package constants

import "time"

// Context keys
const (
	ContextTokenData = "token_data"
)

// External call limits
const (
	DefaultTimeout         = 30 * time.Second
	CalendarRequestTimeout = 30 * time.Second
)

// Database pool settings
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
)

// Scheduling defaults
const (
	DefaultShootDurationMinutes   = 240
	DefaultSessionDurationMinutes = 60
	DefaultStudioTimezone         = "Europe/Amsterdam"
)

// Retention
const (
	DefaultRetentionDays = 14
	DefaultCleanupCron   = "0 3 * * *"
)

// Cache keys
const (
	CacheKeyCalendarToken = "calendar:access_token"
)

// Login throttling
const (
	MaxLoginAttempts = 5
	BlockDuration    = 15 * time.Minute
)
