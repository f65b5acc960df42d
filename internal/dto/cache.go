package dto

// CacheInvalidateRequest selects which cached data to drop. The zero
// value means the page listings, which is what content edits require.
type CacheInvalidateRequest struct {
	Scope string `json:"scope" validate:"omitempty,oneof=pages all"`
}

// CacheInvalidateResponse reports a cache invalidation
type CacheInvalidateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Deleted int64  `json:"deleted,omitempty"`
}
