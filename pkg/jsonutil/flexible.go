package jsonutil

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FlexibleStringValue converts a json.RawMessage to a string, handling cases where
// models return numbers or booleans instead of strings. Returns empty string for null/empty.
func FlexibleStringValue(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		return strVal
	}

	var numVal json.Number
	if err := json.Unmarshal(raw, &numVal); err == nil {
		return numVal.String()
	}

	var boolVal bool
	if err := json.Unmarshal(raw, &boolVal); err == nil {
		return strconv.FormatBool(boolVal)
	}

	return string(raw)
}

// Timestamp is a position in a video in seconds. Models emit it as a number
// (83.5), a numeric string ("83"), or clock notation ("1:23", "0:01:23").
// A null or empty value leaves Valid false.
type Timestamp struct {
	Seconds float64
	Valid   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	*t = Timestamp{}
	s := FlexibleStringValue(data)
	if s == "" {
		return nil
	}
	secs, err := ParseClock(s)
	if err != nil {
		return err
	}
	t.Seconds = secs
	t.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Seconds)
}

// Ptr returns the seconds as a pointer, nil when absent.
func (t Timestamp) Ptr() *float64 {
	if !t.Valid {
		return nil
	}
	v := t.Seconds
	return &v
}

// ParseClock parses "83", "83.5", "1:23" or "1:02:03" into seconds.
func ParseClock(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "s"))
	if s == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	if !strings.Contains(s, ":") {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
		return v, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}
	var total float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
		if i > 0 && v >= 60 {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
		total = total*60 + v
	}
	return total, nil
}

// FormatClock renders seconds as m:ss, or h:mm:ss past the hour.
func FormatClock(seconds float64) string {
	total := int(math.Round(seconds))
	if total < 0 {
		total = 0
	}
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Confidence is a 0-100 score. Models return 85, 0.85, "85" or "85%";
// fractions are scaled and the result is clamped. Absent values stay zero
// with Valid false so callers can apply their own default.
type Confidence struct {
	Value int
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Confidence) UnmarshalJSON(data []byte) error {
	*c = Confidence{}
	s := strings.TrimSpace(strings.TrimSuffix(FlexibleStringValue(data), "%"))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid confidence %q", s)
	}
	if v > 0 && v <= 1 && strings.Contains(s, ".") {
		v *= 100
	}
	c.Value = int(math.Round(math.Max(0, math.Min(100, v))))
	c.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c Confidence) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.Value)
}

// Or returns the value, or def when absent.
func (c Confidence) Or(def int) int {
	if !c.Valid {
		return def
	}
	return c.Value
}

// FlexString is a string field that tolerates numbers and booleans, e.g. a
// jersey number sent as 23 instead of "23".
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	*s = FlexString(strings.TrimSpace(FlexibleStringValue(data)))
	return nil
}

// String returns the value as a plain string.
func (s FlexString) String() string {
	return string(s)
}
