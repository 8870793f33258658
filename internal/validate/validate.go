// Package validate holds the text checks that gate the console's apply
// actions. Every function here is pure.
package validate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// floatGrammar is the fixed decimal grammar accepted after normalization.
// Hex, NaN and Inf forms that strconv would otherwise accept are excluded.
var floatGrammar = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParseError reports text that was parsed without passing validation first.
type ParseError struct {
	Text string
	Kind string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: invalid text %q", e.Kind, e.Text)
}

// IsValidIPv4 reports whether text is four dot-separated integers in [0,255].
// Surrounding whitespace is ignored, as in every other editor check.
func IsValidIPv4(text string) bool {
	parts := strings.Split(strings.TrimSpace(text), ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return false
		}
		if n < 0 || n > 255 {
			return false
		}
	}
	return true
}

// IsValidPort reports whether text is a TCP port number.
func IsValidPort(text string) bool {
	_, err := ParsePort(text)
	return err == nil
}

// ParsePort parses a port in [1,65535].
func ParsePort(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 1 || n > 65535 {
		return 0, &ParseError{Text: text, Kind: "port"}
	}
	return n, nil
}

// IsValidFloat reports whether text is a finite decimal number, accepting ','
// as the decimal separator. It holds exactly when ParseFloat succeeds.
func IsValidFloat(text string) bool {
	_, err := ParseFloat(text)
	return err == nil
}

// ParseFloat parses text accepted by IsValidFloat.
func ParseFloat(text string) (float64, error) {
	s := normalizeFloat(text)
	if !floatGrammar.MatchString(s) {
		return 0, &ParseError{Text: text, Kind: "float"}
	}
	// out-of-range exponents come back as ErrRange with ±Inf
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, &ParseError{Text: text, Kind: "float"}
	}
	return f, nil
}

func normalizeFloat(text string) string {
	return strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
}
