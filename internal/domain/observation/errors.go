package observation

import "errors"

var (
	// ErrEntryNotFound is returned when an entry ID is not in the log.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrTimestampParse is returned for a malformed hh:mm:ss timestamp.
	ErrTimestampParse = errors.New("malformed timestamp")

	// ErrInvalidTrack is returned for a track outside 0..5.
	ErrInvalidTrack = errors.New("invalid track")
)
