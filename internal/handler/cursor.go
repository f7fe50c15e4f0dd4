package handler

import "time"

// parseCursor interprets an optional history cursor. Absent means "latest
// page" (nil). A malformed value is replaced with the current time rather
// than failing the request.
func parseCursor(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		now := time.Now().UTC()
		return &now
	}
	return &t
}
