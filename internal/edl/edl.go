// Package edl writes CMX-style edit decision lists containing one-frame
// markers, in the layout editing suites accept for marker import.
package edl

import (
	"fmt"
	"time"
)

const (
	// DefaultTitle is written on the TITLE line of every new list.
	DefaultTitle = "Timestamp Markers - github.com/cla7997/Easy-EDL-Timestamps-with-Shortcut"

	// FrameCodeMode is the only frame code mode emitted.
	FrameCodeMode = "NON-DROP FRAME"

	// DefaultColor tags markers blue in DaVinci Resolve.
	DefaultColor = "ResolveColorBlue"

	fileNameLayout = "2006-01-02_15-04-05"
)

// Marker is one marker event. In and Out are timecodes; Out is one frame
// after In.
type Marker struct {
	Ordinal  uint
	In       string
	Out      string
	Color    string
	Duration int
}

// FileName returns the output file name for a session started at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("timestamps_%s.edl", t.Format(fileNameLayout))
}

// FormatHeader renders the title line, the frame code mode line and a
// blank separator.
func FormatHeader(title string) string {
	if title == "" {
		title = DefaultTitle
	}
	return fmt.Sprintf("TITLE: %s\nFCM: %s\n\n", title, FrameCodeMode)
}

// FormatMarker renders the event line, the metadata line and a blank
// separator for m.
func FormatMarker(m Marker) string {
	color := m.Color
	if color == "" {
		color = DefaultColor
	}
	duration := m.Duration
	if duration <= 0 {
		duration = 1
	}

	return fmt.Sprintf(
		"%03d  001      V     C        %s %s %s %s\n |C:%s |M:Marker %d |D:%d\n\n",
		m.Ordinal, m.In, m.Out, m.In, m.Out,
		color, m.Ordinal, duration,
	)
}
