package constants

// Assignment status labels
const (
	StatusNotStarted = "notStarted"
	StatusInProgress = "inProgress"
	StatusCompleted  = "completed"
)

// TeamMemberStatusActive is the only team member status eligible for auto-assignment
const TeamMemberStatusActive = "active"

// Task importance labels
const (
	ImportanceLow      = "low"
	ImportanceMedium   = "medium"
	ImportanceHigh     = "high"
	ImportanceCritical = "critical"
)

// DefaultTimezone is used when a caller does not name one
const DefaultTimezone = "UTC"

// Context keys
const (
	ContextKeySubject   = "subject"
	ContextKeyRequestID = "request_id"
)

// HeaderRequestID carries the per-request correlation id
const HeaderRequestID = "X-Request-ID"
