package timex

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// LocalDateTime decodes the two shapes the backend uses for timestamps:
// an ISO-8601 string without zone ("2024-05-01T10:20:30") or an array
// [year, month, day, hour, minute, second, nanos] with optional trailing parts.
// It always encodes as an ISO string.
type LocalDateTime struct {
	time.Time
}

const localLayout = "2006-01-02T15:04:05"

func (t LocalDateTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(localLayout))
}

func (t *LocalDateTime) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	if b[0] == '[' {
		var parts []int
		if err := json.Unmarshal(b, &parts); err != nil {
			return err
		}
		if len(parts) < 3 {
			return fmt.Errorf("local date-time array needs at least 3 parts, got %d", len(parts))
		}
		p := make([]int, 7)
		copy(p, parts)
		t.Time = time.Date(p[0], time.Month(p[1]), p[2], p[3], p[4], p[5], p[6], time.UTC)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", localLayout, time.DateOnly} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognised date-time %q", s)
}

// FormatDate renders the date part the way listings show it ("May 1, 2024").
// A zero value renders as an empty string.
func (t LocalDateTime) FormatDate() string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}
