package jsonutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleStringValue(t *testing.T) {
	tests := []struct {
		name  string
		input json.RawMessage
		want  string
	}{
		{"string value", json.RawMessage(`"hello"`), "hello"},
		{"integer value", json.RawMessage(`42`), "42"},
		{"float value", json.RawMessage(`3.14`), "3.14"},
		{"boolean", json.RawMessage(`true`), "true"},
		{"null value", json.RawMessage(`null`), ""},
		{"nil raw message", nil, ""},
		{"large integer preserves precision", json.RawMessage(`9007199254740993`), "9007199254740993"},
		{"object falls back to raw", json.RawMessage(`{"a":1}`), `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FlexibleStringValue(tt.input))
		})
	}
}

func TestTimestamp_Unmarshal(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		valid bool
	}{
		{`83.5`, 83.5, true},
		{`"83"`, 83, true},
		{`"1:23"`, 83, true},
		{`"0:01:23"`, 83, true},
		{`"12s"`, 12, true},
		{`null`, 0, false},
		{`""`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.input), &ts))
			assert.Equal(t, tt.valid, ts.Valid)
			assert.InDelta(t, tt.want, ts.Seconds, 0.001)
		})
	}
}

func TestTimestamp_RejectsGarbage(t *testing.T) {
	for _, input := range []string{`"soon"`, `"1:75"`, `"-4"`, `"1:2:3:4"`} {
		var ts Timestamp
		assert.Error(t, json.Unmarshal([]byte(input), &ts), input)
	}
}

func TestTimestamp_InsideStruct(t *testing.T) {
	var v struct {
		At Timestamp `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &v))
	assert.Nil(t, v.At.Ptr())

	out, err := json.Marshal(struct {
		At Timestamp `json:"timestamp"`
	}{At: Timestamp{Seconds: 12.5, Valid: true}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"timestamp":12.5}`, string(out))
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "0:00", FormatClock(0))
	assert.Equal(t, "2:15", FormatClock(135))
	assert.Equal(t, "1:02:03", FormatClock(3723))
	assert.Equal(t, "0:00", FormatClock(-3))
}

func TestConfidence_Unmarshal(t *testing.T) {
	tests := []struct {
		input string
		want  int
		valid bool
	}{
		{`85`, 85, true},
		{`0.9`, 90, true},
		{`"72%"`, 72, true},
		{`140`, 100, true},
		{`1`, 1, true},
		{`null`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var c Confidence
			require.NoError(t, json.Unmarshal([]byte(tt.input), &c))
			assert.Equal(t, tt.valid, c.Valid)
			assert.Equal(t, tt.want, c.Value)
		})
	}

	assert.Equal(t, 85, Confidence{}.Or(85))
	assert.Equal(t, 60, Confidence{Value: 60, Valid: true}.Or(85))
}

func TestFlexString_Unmarshal(t *testing.T) {
	var v struct {
		Jersey FlexString `json:"jersey"`
		Team   FlexString `json:"team"`
		Empty  FlexString `json:"empty"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"jersey": 23, "team": " white ", "empty": null}`), &v))
	assert.Equal(t, "23", v.Jersey.String())
	assert.Equal(t, "white", v.Team.String())
	assert.Equal(t, "", v.Empty.String())
}
