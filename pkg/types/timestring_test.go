package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "short form", input: "06:00", want: "06:00"},
		{name: "canonical form", input: "14:30:00", want: "14:30"},
		{name: "end of day", input: "24:00", want: "24:00"},
		{name: "non zero seconds", input: "10:00:30", wantErr: true},
		{name: "minutes overflow", input: "10:60", wantErr: true},
		{name: "past end of day", input: "24:30", wantErr: true},
		{name: "single digit hour", input: "6:00", wantErr: true},
		{name: "garbage", input: "noon", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	start := TimeString("22:30")

	next, err := start.AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), next)

	_, err = start.AddMinutes(91)
	assert.ErrorIs(t, err, ErrOutOfDay)
}

func TestTimeString_Comparisons(t *testing.T) {
	a := TimeString("10:00")
	b := TimeString("10:30")

	assert.True(t, a.IsBefore(b))
	assert.False(t, b.IsBefore(a))
	assert.True(t, b.IsAfter(a))
	assert.True(t, a.Equal("10:00"))
	assert.False(t, a.IsBefore(a))
}

func TestTimeString_Forms(t *testing.T) {
	ts := TimeString("09:05")
	assert.Equal(t, "09:05", ts.String())
	assert.Equal(t, "09:05:00", ts.Canonical())
	m, err := ts.Minutes()
	require.NoError(t, err)
	assert.Equal(t, 545, m)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 18, 45, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("18:45"), ts)

	require.NoError(t, ts.Scan([]byte("07:15:00")))
	assert.Equal(t, TimeString("07:15"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	// lib/pq: TIME '24:00:00' приходит как полночь следующего дня
	require.NoError(t, ts.Scan(time.Date(0, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, EndOfDay, ts)
	m, err := ts.Minutes()
	require.NoError(t, err)
	assert.Equal(t, MinutesPerDay, m)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("00:00"), ts)

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_JSON(t *testing.T) {
	data, err := json.Marshal(TimeString("14:00"))
	require.NoError(t, err)
	assert.JSONEq(t, `"14:00:00"`, string(data))

	var ts TimeString
	require.NoError(t, json.Unmarshal([]byte(`"16:00:00"`), &ts))
	assert.Equal(t, TimeString("16:00"), ts)
}
