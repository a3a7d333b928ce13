package constants

import "time"

// Server
const (
	DefaultRequestTimeout = 30 * time.Second
	DefaultTimeout        = 10 * time.Second
	ShutdownTimeout       = 15 * time.Second
)

// Database
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 10
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Token scopes
const (
	ScopeTokenAccess  = "access"
	ScopeTokenRefresh = "refresh"
)

// Context keys
const (
	ContextTokenData = "token_data"
)

// Redis keys
const (
	RedisKeyTokenBlacklist = "auth:blacklist:"
	RedisKeyLoginAttempt   = "auth:login_attempt:"
	RedisKeyQueueSnapshot  = "queue:snapshot:"
)

// Login throttling
const (
	MaxLoginAttempts = 5
	BlockDuration    = 15 * time.Minute
)

// Queue engine
const (
	// Round-robin interleave quotas per cycle (committee / external / internal).
	QueueQuotaCommittee = 3
	QueueQuotaExternal  = 2
	QueueQuotaInternal  = 2

	// Default per-interview duration used for wait estimates when a company
	// has none configured, in minutes.
	DefaultInterviewDurationMinutes = 30

	// Queue position at or below which a student gets a "your turn is near"
	// notification.
	NotifyPositionThreshold = 3

	QueueSnapshotTTL = 5 * time.Second
)

// Asynq task types
const (
	TaskTypeQueueNotification = "notification:queue_position"
)
