package observation

import (
	"fmt"

	"github.com/google/uuid"
)

// Log is the time-ordered collection of observation entries. Each
// entry's duration is the distance to the next entry on the whole log,
// regardless of track; the last entry runs to the end of the media.
type Log struct {
	entries []Entry
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{}
}

// Len returns the number of entries.
func (l *Log) Len() int { return len(l.entries) }

// Entries returns a copy of the entries in timestamp order.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// At returns the entry at index i.
func (l *Log) At(i int) Entry { return l.entries[i] }

// IndexOf returns the position of the entry with the given ID, or -1.
func (l *Log) IndexOf(id string) int {
	for i := range l.entries {
		if l.entries[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns the entry with the given ID.
func (l *Log) Get(id string) (Entry, error) {
	i := l.IndexOf(id)
	if i < 0 {
		return Entry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	return l.entries[i], nil
}

// InsertSorted places e after the last entry whose timestamp is not
// later than e's, so equal timestamps keep insertion order. An empty ID
// is filled in. It returns the index used.
func (l *Log) InsertSorted(e Entry) int {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	i := len(l.entries)
	for i > 0 && l.entries[i-1].Timestamp > e.Timestamp {
		i--
	}
	l.entries = append(l.entries, Entry{})
	copy(l.entries[i+1:], l.entries[i:])
	l.entries[i] = e
	return i
}

// RecalculateAll recomputes every duration. total is the media length in
// seconds, or 0 when no media is loaded.
func (l *Log) RecalculateAll(total float64) {
	for i := range l.entries {
		l.entries[i].DurationSeconds = l.durationAt(i, total)
	}
}

// RecalculateAround recomputes the entry at index and its predecessor,
// the only two durations a single insert can change.
func (l *Log) RecalculateAround(index int, total float64) {
	if index < 0 || index >= len(l.entries) {
		return
	}
	if index > 0 {
		l.entries[index-1].DurationSeconds = l.durationAt(index-1, total)
	}
	l.entries[index].DurationSeconds = l.durationAt(index, total)
}

func (l *Log) durationAt(i int, total float64) float64 {
	var d float64
	if i < len(l.entries)-1 {
		d = l.entries[i+1].Seconds() - l.entries[i].Seconds()
	} else if total > 0 {
		d = total - l.entries[i].Seconds()
	}
	if d < 0 {
		return 0
	}
	return RoundSeconds(d)
}

// Delete removes the entry with the given ID. Callers follow up with
// RecalculateAll.
func (l *Log) Delete(id string) error {
	i := l.IndexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	return nil
}

// Clear removes every entry.
func (l *Log) Clear() {
	l.entries = nil
}

// Update applies fn to the entry with the given ID. The entry's ID and
// timestamp are kept as they were so ordering is unaffected.
func (l *Log) Update(id string, fn func(*Entry)) (Entry, error) {
	i := l.IndexOf(id)
	if i < 0 {
		return Entry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	e := l.entries[i]
	fn(&e)
	e.ID = l.entries[i].ID
	e.Timestamp = l.entries[i].Timestamp
	l.entries[i] = e
	return e, nil
}

// SetThumbnail attaches captured frame bytes to an entry. It reports
// false when the entry no longer exists.
func (l *Log) SetThumbnail(id string, thumb []byte) bool {
	i := l.IndexOf(id)
	if i < 0 {
		return false
	}
	l.entries[i].Thumbnail = thumb
	return true
}

// Restore discards the current entries and inserts the given ones in
// order, keeping their stored durations.
func (l *Log) Restore(entries []Entry) {
	l.entries = make([]Entry, 0, len(entries))
	for _, e := range entries {
		l.InsertSorted(e)
	}
}

// Replace is Restore followed by RecalculateAll.
func (l *Log) Replace(entries []Entry, total float64) {
	l.Restore(entries)
	l.RecalculateAll(total)
}
