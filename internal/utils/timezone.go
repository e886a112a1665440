package utils

import (
	"time"

	"github.com/yukikurage/team-task-api/internal/constants"
	apierrors "github.com/yukikurage/team-task-api/internal/errors"
)

// DisplayLayout is the format dates are presented in after timezone conversion
const DisplayLayout = time.RFC3339

// LoadTimezone resolves an IANA timezone identifier. An empty identifier means UTC.
func LoadTimezone(id string) (*time.Location, error) {
	if id == "" {
		id = constants.DefaultTimezone
	}
	if id == "Local" {
		return nil, apierrors.InvalidTimezone(id, nil)
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		return nil, apierrors.InvalidTimezone(id, err)
	}
	return loc, nil
}

// ConvertToTimezone renders a stored timestamp in loc. A nil timestamp stays nil.
// It must be applied to the raw stored value only, never to its own output.
func ConvertToTimezone(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().In(loc).Format(DisplayLayout)
	return &s
}

// FormatInTimezone is ConvertToTimezone for non-optional timestamps.
func FormatInTimezone(t time.Time, loc *time.Location) string {
	return t.UTC().In(loc).Format(DisplayLayout)
}
