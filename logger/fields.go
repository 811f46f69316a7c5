package logger

// Standard field names for consistent structured logging across GraphPress.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldRequestID = "request_id"
	FieldUserID    = "user_id"
	FieldPostID    = "post_id"
	FieldCommentID = "comment_id"

	// Components
	FieldComponent = "component"
	FieldStore     = "store"

	// Operations
	FieldOperation = "operation"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldQuery     = "query"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts
	FieldCount = "count"

	// Subscriptions
	FieldSubscribers = "subscribers"
	FieldEventKind   = "event_kind"
	FieldEventAction = "event_action"
)
