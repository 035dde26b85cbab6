package constants

// Application Information
const (
	AppName    = "Projecthub Service"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Default Application Settings
const (
	DefaultPort        = "8080"
	DefaultEnvironment = EnvDevelopment
)

// User Roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Project Statuses
const (
	ProjectStatusPending    = "pending"
	ProjectStatusInProgress = "in-progress"
	ProjectStatusCompleted  = "completed"
)

// Cache Key Prefixes
const (
	CacheKeyPrefix   = "projecthub:"
	CacheKeyUser     = CacheKeyPrefix + "user:"
	CacheKeyProjects = CacheKeyPrefix + "projects:"
)

// Log Levels
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
	LogLevelFatal = "fatal"
)
