// Package timecode encodes and decodes the fixed time strings used by the
// chapter formats.
//
// Two encodings are supported:
//
//	m4b-tool  HH:MM:SS.mmm  hours and minutes zero padded, milliseconds
//	cue       M:SS:ff       unpadded minutes, hundredths after a colon
//
// Each decoder accepts the output of its encoder and nothing more general.
package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Error reports a time string that does not match the expected encoding.
type Error struct {
	Input  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid time code %q: %s", e.Input, e.Reason)
}

// FormatM4B encodes seconds as HH:MM:SS.mmm.
//
// Example:
//
//	FormatM4B(0)       // "00:00:00.000"
//	FormatM4B(65.25)   // "00:01:05.250"
//	FormatM4B(3661.5)  // "01:01:01.500"
func FormatM4B(seconds float64) string {
	ms := roundUnits(seconds, 1000)
	hours := ms / 3_600_000
	minutes := ms / 60_000 % 60
	secs := ms / 1000 % 60
	frac := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, secs, frac)
}

// ParseM4B decodes an HH:MM:SS.mmm string into seconds. The seconds field
// may omit or shorten the fraction.
func ParseM4B(s string) (float64, error) {
	fields := strings.Split(s, ":")
	if len(fields) != 3 {
		return 0, &Error{Input: s, Reason: "expected HH:MM:SS.mmm"}
	}

	hours, err := parseUint(fields[0])
	if err != nil {
		return 0, &Error{Input: s, Reason: "hours: " + err.Error()}
	}
	minutes, err := parseUint(fields[1])
	if err != nil {
		return 0, &Error{Input: s, Reason: "minutes: " + err.Error()}
	}
	secs, err := parseSeconds(fields[2])
	if err != nil {
		return 0, &Error{Input: s, Reason: "seconds: " + err.Error()}
	}

	return float64(hours)*3600 + float64(minutes)*60 + secs, nil
}

// FormatCue encodes seconds as M:SS:ff, the cue sheet INDEX convention where
// the last colon stands in for a decimal point.
//
// Example:
//
//	FormatCue(0)      // "0:00:00"
//	FormatCue(65.25)  // "1:05:25"
//	FormatCue(3600)   // "60:00:00"
func FormatCue(seconds float64) string {
	cs := roundUnits(seconds, 100)
	minutes := cs / 6000
	secs := cs / 100 % 60
	frac := cs % 100
	return fmt.Sprintf("%d:%02d:%02d", minutes, secs, frac)
}

// ParseCue decodes an M:SS:ff string into seconds.
func ParseCue(s string) (float64, error) {
	mm, rest, ok := strings.Cut(s, ":")
	if !ok {
		return 0, &Error{Input: s, Reason: "expected M:SS:ff"}
	}

	minutes, err := parseUint(mm)
	if err != nil {
		return 0, &Error{Input: s, Reason: "minutes: " + err.Error()}
	}
	secs, err := parseSeconds(strings.ReplaceAll(rest, ":", "."))
	if err != nil {
		return 0, &Error{Input: s, Reason: "seconds: " + err.Error()}
	}

	return float64(minutes)*60 + secs, nil
}

// roundUnits rounds seconds to the nearest 1/perSecond and returns the count.
// Negative and NaN input clamp to zero, values too large for int64 clamp to
// math.MaxInt64.
func roundUnits(seconds float64, perSecond float64) int64 {
	if seconds <= 0 || math.IsNaN(seconds) {
		return 0
	}
	units := math.Round(seconds * perSecond)
	if units >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(units)
}

func parseUint(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty field")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%q is not a number", s)
		}
	}
	return strconv.ParseInt(s, 10, 64)
}

// parseSeconds accepts digits with at most one decimal point.
func parseSeconds(s string) (float64, error) {
	whole, frac, hasFrac := strings.Cut(s, ".")
	if _, err := parseUint(whole); err != nil {
		return 0, err
	}
	if hasFrac {
		if _, err := parseUint(frac); err != nil {
			return 0, err
		}
	}
	return strconv.ParseFloat(s, 64)
}
