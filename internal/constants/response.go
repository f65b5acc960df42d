package constants

// Standard Response Field Keys
const (
	// Listing envelope fields
	ResponseFieldMeta       = "meta"
	ResponseFieldTotalCount = "total_count"
	ResponseFieldItems      = "items"

	// Common response fields
	ResponseFieldMessage = "message"
	ResponseFieldDetails = "details"
	ResponseFieldError   = "error"
)

// BuildErrorResponse builds the error payload returned by all endpoints
func BuildErrorResponse(message string, details any) map[string]any {
	response := map[string]any{
		ResponseFieldMessage: message,
	}

	if details != nil {
		response[ResponseFieldDetails] = details
	}

	return response
}

// BuildSuccessResponse builds a plain acknowledgement payload
func BuildSuccessResponse(message string) map[string]any {
	return map[string]any{
		ResponseFieldMessage: message,
	}
}
