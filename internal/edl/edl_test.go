package edl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFileName(t *testing.T) {
	start := time.Date(2026, 3, 7, 9, 4, 5, 0, time.Local)
	assert.Equal(t, "timestamps_2026-03-07_09-04-05.edl", FileName(start))
}

func TestFileName_DistinctSeconds(t *testing.T) {
	start := time.Date(2026, 3, 7, 9, 4, 5, 0, time.Local)
	assert.NotEqual(t, FileName(start), FileName(start.Add(time.Second)))
	// Same second collapses to one name.
	assert.Equal(t, FileName(start), FileName(start.Add(900*time.Millisecond)))
}

func TestFormatHeader(t *testing.T) {
	want := "TITLE: " + DefaultTitle + "\nFCM: NON-DROP FRAME\n\n"
	assert.Equal(t, want, FormatHeader(""))
	assert.Equal(t, "TITLE: Shoot day 2\nFCM: NON-DROP FRAME\n\n", FormatHeader("Shoot day 2"))
}

func TestFormatMarker(t *testing.T) {
	tests := []struct {
		name   string
		marker Marker
		want   string
	}{
		{
			name:   "defaults",
			marker: Marker{Ordinal: 1, In: "00:00:05:00", Out: "00:00:05:01"},
			want: "001  001      V     C        00:00:05:00 00:00:05:01 00:00:05:00 00:00:05:01\n" +
				" |C:ResolveColorBlue |M:Marker 1 |D:1\n\n",
		},
		{
			name:   "custom color",
			marker: Marker{Ordinal: 12, In: "01:01:01:00", Out: "01:01:01:01", Color: "ResolveColorRed", Duration: 1},
			want: "012  001      V     C        01:01:01:00 01:01:01:01 01:01:01:00 01:01:01:01\n" +
				" |C:ResolveColorRed |M:Marker 12 |D:1\n\n",
		},
		{
			name:   "ordinal wider than three digits",
			marker: Marker{Ordinal: 1234, In: "00:00:00:00", Out: "00:00:00:01"},
			want: "1234  001      V     C        00:00:00:00 00:00:00:01 00:00:00:00 00:00:00:01\n" +
				" |C:ResolveColorBlue |M:Marker 1234 |D:1\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMarker(tt.marker))
		})
	}
}
