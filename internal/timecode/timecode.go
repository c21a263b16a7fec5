// Package timecode converts elapsed session time into HH:MM:SS:FF strings.
//
// The frame field is symbolic. There is no project frame rate, so a
// timecode only ever carries frame 00 (marker in) or frame 01 (marker out).
package timecode

import (
	"fmt"
	"math"
	"time"
)

// maxSeconds is 2^63, the first float64 that no longer fits in an int64.
const maxSeconds = float64(1 << 63)

// Frame selects the frame field of a timecode.
type Frame uint8

const (
	FrameIn  Frame = 0
	FrameOut Frame = 1
)

// String returns the two-digit frame field.
func (f Frame) String() string {
	if f == FrameIn {
		return "00"
	}
	return "01"
}

// Format renders elapsedSeconds as HH:MM:SS:FF.
// Fractional seconds are truncated. The hour field is never wrapped at 24
// or clamped at 99; it widens to as many digits as needed.
// Negative, NaN and infinite input is treated as zero. Values beyond
// maxSeconds are clamped to it.
func Format(elapsedSeconds float64, frame Frame) string {
	var total int64
	switch {
	case elapsedSeconds < 0, math.IsNaN(elapsedSeconds), math.IsInf(elapsedSeconds, 0):
		total = 0
	case elapsedSeconds >= maxSeconds:
		total = math.MaxInt64
	default:
		total = int64(math.Floor(elapsedSeconds))
	}

	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	return fmt.Sprintf("%02d:%02d:%02d:%s", hours, minutes, secs, frame)
}

// FromDuration is Format for a time.Duration.
func FromDuration(d time.Duration, frame Frame) string {
	return Format(d.Seconds(), frame)
}
