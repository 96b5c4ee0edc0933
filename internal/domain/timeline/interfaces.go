package timeline

// Player is the media playback collaborator. Positions are local to the
// currently loaded source file. Media-opened and media-failed
// notifications are delivered by the player's owner calling back into
// the session.
type Player interface {
	LoadSource(path string) error
	Play()
	Pause()
	Seek(local float64)
	Position() float64
	NaturalDuration() float64
	SetSpeed(ratio float64)
}

// DurationHinter is implemented by players that can take a source's
// duration from the index instead of opening the file to measure it.
// The navigator hints before every LoadSource.
type DurationHinter interface {
	HintDuration(path string, seconds float64)
}
