package sim

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Input validation failures. Reported synchronously to the caller before
// any model evaluation; an invalid value is never silently defaulted.
var (
	ErrEmptyInput       = errors.New("empty input field")
	ErrNonPositiveInput = errors.New("value must be positive")
)

// ParseHz parses an operator frequency entry. It accepts either a direct
// Hz value ("40.00") or a display value in centi-Hz ("4000"), auto-detected
// by magnitude, and tolerates a comma decimal separator.
func ParseHz(raw string) (float64, error) {
	text := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if text == "" {
		return 0, ErrEmptyInput
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid frequency %q: %w", raw, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("frequency %q: %w", raw, ErrNonPositiveInput)
	}
	if v > ihmThreshold {
		v /= 100.0
	}
	return v, nil
}

// DefaultEntryThicknessCm is the fallback entry layer height.
const DefaultEntryThicknessCm = 2.0

// ParseThickness parses an entry thickness in cm. An empty field yields
// the default; an explicit non-positive value is rejected.
func ParseThickness(raw string) (float64, error) {
	text := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if text == "" {
		return DefaultEntryThicknessCm, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid thickness %q: %w", raw, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("thickness %q: %w", raw, ErrNonPositiveInput)
	}
	return v, nil
}

// FmtMinutes renders a minute count as "2h 36min 00s" (or "36min 00s"
// below one hour). Non-finite values render as "?".
func FmtMinutes(minutes float64) string {
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return "?"
	}
	if minutes < 0 {
		minutes = 0
	}
	totalSeconds := int(math.Round(minutes * 60))
	hours := totalSeconds / 3600
	totalSeconds %= 3600
	mins := totalSeconds / 60
	secs := totalSeconds % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %02dmin %02ds", hours, mins, secs)
	}
	return fmt.Sprintf("%dmin %02ds", mins, secs)
}

// FmtHMS renders a second count as "hh:mm:ss".
func FmtHMS(seconds float64) string {
	s := int(seconds + 0.5)
	if s < 0 {
		s = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}
