package session

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// FormState is the visibility of the workout form.
type FormState int

const (
	FormHidden FormState = iota
	FormShown
)

func (s FormState) String() string {
	if s == FormShown {
		return "shown"
	}
	return "hidden"
}

// FormValues are the raw strings of the five form inputs.
type FormValues struct {
	Type      string `json:"type"`
	Distance  string `json:"distance"`
	Duration  string `json:"duration"`
	Cadence   string `json:"cadence"`
	Elevation string `json:"elevation"`
}

// parseNumber converts an input value the way the browser coerces it to a
// number: surrounding space is ignored, an empty value is 0, 0x/0o/0b
// prefixes select a base, and anything unparsable is NaN.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	// strconv accepts digit separators; browsers do not.
	if strings.Contains(s, "_") {
		return math.NaN()
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(n)
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return f // ±Inf or 0
		}
		return math.NaN()
	}
	return f
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func positive(values ...float64) bool {
	for _, v := range values {
		if !(v > 0) {
			return false
		}
	}
	return true
}
