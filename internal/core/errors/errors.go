package errors

const (
	HttpInternalError    = "internal_error"
	HttpInvalidJsonError = "invalid_json"
	HttpEmptyBatchError  = "empty_insight_batch"
	HttpNotFoundError    = "not_found"
	HttpUpstreamError    = "upstream_unavailable"
)

// ErrorResponse is the JSON error body returned by every API endpoint.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
