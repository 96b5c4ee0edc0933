package study

import (
	"errors"

	"github.com/rpggio/timestudy/internal/domain/timeline"
)

var (
	// ErrNoMedia is returned when an operation needs a loaded video.
	ErrNoMedia = timeline.ErrNoMedia

	// ErrMediaOpen is returned when a video cannot be probed or loaded.
	ErrMediaOpen = timeline.ErrMediaOpen

	// ErrInvalidInput is returned for missing or out-of-range arguments.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConfigured is returned when an optional collaborator is absent.
	ErrNotConfigured = errors.New("collaborator not configured")
)
