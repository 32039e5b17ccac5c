package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2024-02-29", want: "2024-02-29"},
		{in: "2024-02-29T23:59:59Z", want: "2024-02-29"},
		{in: "2024-03-01T01:00:00+02:00", want: "2024-02-29"},
		{in: "2023-02-29", wantErr: true},
		{in: "yesterday", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-07-04", d.String())

	require.NoError(t, d.Scan([]byte("2024-07-05")))
	assert.Equal(t, "2024-07-05", d.String())

	assert.Error(t, d.Scan(42))
}

func TestStuckToPlan(t *testing.T) {
	v, err := ParseStuckToPlan("")
	require.NoError(t, err)
	assert.Equal(t, StuckToPlanMostly, v)

	for _, want := range StuckToPlanValues() {
		got, err := ParseStuckToPlan(want.String())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	var s StuckToPlan
	assert.Error(t, json.Unmarshal([]byte(`"maybe"`), &s))
	assert.Error(t, s.Scan(1))

	val, err := StuckToPlanYes.Value()
	require.NoError(t, err)
	assert.Equal(t, "Yes, full focus", val)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
}

func TestNormalizeFocusAreas(t *testing.T) {
	got := NormalizeFocusAreas([]string{"b", " a ", "", "b", "  "})
	assert.Equal(t, []string{"b", "a"}, got)
	assert.NotNil(t, NormalizeFocusAreas(nil))
}

func TestParseFocusAreaMode(t *testing.T) {
	m, err := ParseFocusAreaMode("")
	require.NoError(t, err)
	assert.Equal(t, FocusAreaModeFixed, m)

	m, err = ParseFocusAreaMode("account")
	require.NoError(t, err)
	assert.Equal(t, "account", m.String())

	_, err = ParseFocusAreaMode("global")
	assert.Error(t, err)
}
