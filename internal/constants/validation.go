package constants

// Field Length Limits
const (
	MinPasswordLength = 6
	MaxPasswordLength = 100
	MinNameLength     = 2
	MaxNameLength     = 50
	MaxEmailLength    = 255
	MaxDescLength     = 500
)

// Age Limits
const (
	DefaultAge = 18
	MinAge     = 1
	MaxAge     = 150
)
