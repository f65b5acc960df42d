package constants

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// Context Keys for request tracking and metadata
const (
	CtxKeyRequestID ContextKey = "request_id"
	CtxKeyClientIP  ContextKey = "client_ip"
	CtxKeyUserAgent ContextKey = "user_agent"
	CtxKeyStartTime ContextKey = "start_time"
	CtxKeyModule    ContextKey = "module"
	CtxKeyFunction  ContextKey = "function"
	CtxKeySiteID    ContextKey = "site_id"
	CtxKeyHostname  ContextKey = "hostname"
)

// Gin context keys, set by middleware and read by handlers
const (
	GinKeySite        = "site"
	GinKeyRequestBody = "request_body"
)
