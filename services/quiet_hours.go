package services

import "time"

// QuietWindow is a do-not-disturb window on the server-local clock.
// StartHour < EndHour covers the contiguous [start,end) interval;
// otherwise the window wraps midnight.
type QuietWindow struct {
	StartHour int
	EndHour   int
}

// DefaultQuietWindow suppresses sends between 23:00 and 06:00.
var DefaultQuietWindow = QuietWindow{StartHour: 23, EndHour: 6}

func (w QuietWindow) Contains(now time.Time) bool {
	h := now.Hour()
	if w.StartHour < w.EndHour {
		return h >= w.StartHour && h < w.EndHour
	}
	return h >= w.StartHour || h < w.EndHour
}
