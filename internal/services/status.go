package services

import (
	"time"

	"github.com/yukikurage/team-task-api/internal/constants"
)

// AssignmentDates are the progress timestamps currently stored on an assignment
type AssignmentDates struct {
	StartedDate    *time.Time
	CompletionDate *time.Time
}

// TimestampOverrides are the timestamps a status transition adds. Nil means no change.
type TimestampOverrides struct {
	StartedDate    *time.Time
	CompletionDate *time.Time
}

// DeriveTimestamps decides which progress timestamps a status change sets.
//
// Moving into inProgress stamps startedDate. Moving to completed stamps completionDate,
// and also startedDate when the assignment never started. Any other requested status,
// including none, stamps nothing.
func DeriveTimestamps(currentStatus string, current AssignmentDates, requestedStatus string, now time.Time) TimestampOverrides {
	var out TimestampOverrides

	switch requestedStatus {
	case constants.StatusInProgress:
		if currentStatus != constants.StatusInProgress {
			out.StartedDate = &now
		}
	case constants.StatusCompleted:
		if current.StartedDate == nil {
			out.StartedDate = &now
		}
		if currentStatus != constants.StatusCompleted {
			out.CompletionDate = &now
		}
	}

	return out
}
