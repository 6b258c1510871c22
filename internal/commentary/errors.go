package commentary

import "errors"

var (
	// ErrMissingValue is returned for a placeholder whose value is not available.
	ErrMissingValue = errors.New("placeholder value not available")

	// ErrInvalidDate is returned when a timeline release date is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("release date must be YYYY-MM-DD")
)
