package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// timestampLayouts lists accepted wire formats. The backend emits both
// zoned (RFC 3339) and local date-times without an offset; the latter are
// read as UTC. Fractional seconds are accepted by both layouts.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// Timestamp is a time.Time with lenient JSON decoding.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" || s == `""` {
		t.Time = time.Time{}
		return nil
	}

	raw, err := strconv.Unquote(s)
	if err != nil {
		return fmt.Errorf("timestamp %s: %w", s, err)
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp %q: unsupported format", raw)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
