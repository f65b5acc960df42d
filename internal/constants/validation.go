package constants

// Field Length Limits
const (
	MinTitleLength    = 1
	MaxTitleLength    = 255
	MaxSlugLength     = 255
	MaxHostnameLength = 255
	MaxDescLength     = 500
)

// Token Settings (in seconds)
const (
	AdminTokenExpiry = 60 * 60 // 1 hour
)

// Validation Patterns
const (
	SlugPattern     = `^[a-z0-9]+(?:-[a-z0-9]+)*$`
	HostnamePattern = `^[a-zA-Z0-9.-]+$`
)

// Boolean query value vocabulary
var (
	BooleanTrueValues  = []string{"true", "1"}
	BooleanFalseValues = []string{"false", "0"}
)
