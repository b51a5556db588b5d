package sheet

import (
	"fmt"
	"strings"
)

// OptionCode is the decision for one question. The zero value is None.
type OptionCode uint8

const (
	// None means no mark was detected, or the question could not be read.
	None OptionCode = iota
	A
	B
	C
	D
)

// MaxOptions is the number of markable options per question.
const MaxOptions = 4

// OptionFromIndex maps a 0-based left-to-right bubble index to A-D.
// Indexes outside 0-3 map to None.
func OptionFromIndex(i int) OptionCode {
	if i < 0 || i >= MaxOptions {
		return None
	}
	return A + OptionCode(i)
}

// Index returns the 0-based option index, or -1 for None and invalid codes.
func (o OptionCode) Index() int {
	if !o.Valid() || o == None {
		return -1
	}
	return int(o - A)
}

// Valid reports whether o is one of A, B, C, D or None.
func (o OptionCode) Valid() bool {
	return o <= D
}

// String returns "A".."D", "" for None.
func (o OptionCode) String() string {
	switch o {
	case None:
		return ""
	case A, B, C, D:
		return string(rune('A' + o - A))
	default:
		return fmt.Sprintf("OptionCode(%d)", uint8(o))
	}
}

// ParseOption parses "A".."D" (any case). "", "-", "_" and "." parse as None.
func ParseOption(s string) (OptionCode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "-", "_", ".":
		return None, nil
	case "A":
		return A, nil
	case "B":
		return B, nil
	case "C":
		return C, nil
	case "D":
		return D, nil
	default:
		return None, fmt.Errorf("invalid option %q", s)
	}
}

// MarshalText encodes the option as its letter; None encodes as "".
func (o OptionCode) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("invalid option code %d", uint8(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText accepts the forms ParseOption accepts.
func (o *OptionCode) UnmarshalText(text []byte) error {
	v, err := ParseOption(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Provenance records where an answer sheet came from.
type Provenance string

const (
	// ProvenanceDetected means the answers were read from detected bubbles.
	ProvenanceDetected Provenance = "detected"

	// ProvenanceFallback means no bubble was found and the answers were guessed.
	ProvenanceFallback Provenance = "fallback"
)
