package constants

import "time"

// Context keys
const (
	ContextTokenData = "token_data"
)

// Token scopes
const (
	ScopeTokenAccess  = "access"
	ScopeTokenRefresh = "refresh"
)

// Timeouts
const (
	DefaultTimeout        = 5 * time.Second
	DefaultRequestTimeout = 10 * time.Second
)

// Login attempt blocking
const (
	MaxLoginAttempts = 5
	BlockDuration    = 15 * time.Minute
)

// Redis key prefixes
const (
	RedisKeyTokenBlacklist  = "blacklist:"
	RedisKeyLoginAttempt    = "login:"
	RedisKeyWellnessSummary = "wellness:summary:"
)

// Cache TTLs
const (
	TokenBlacklistTTL  = 24 * time.Hour
	WellnessSummaryTTL = 10 * time.Minute
)

// Database pool settings
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Mood ratings
const (
	MoodRatingMin = 1
	MoodRatingMax = 5
)

// Pagination defaults
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 20
	MaxPageSize       = 100
)
