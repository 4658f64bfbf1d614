package core

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownPairingMode  = errors.New("unknown pairing mode")
	ErrUnknownFloatingMode = errors.New("unknown floating mode")
)

// The PairingMode decides who is paired with whom
// inside of a score group.
type PairingMode int

const (
	// Split the group in half and pair position i with i+N/2
	PairingCross PairingMode = iota
	// Pair position i with position N-1-i
	PairingFold
	// Pair neighbouring positions
	PairingAdjacent
)

var pairingModeNames = map[PairingMode]string{
	PairingCross:    "cross",
	PairingFold:     "fold",
	PairingAdjacent: "adjacent",
}

func ParsePairingMode(s string) (PairingMode, error) {
	for mode, name := range pairingModeNames {
		if strings.EqualFold(s, name) {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPairingMode, s)
}

func (m PairingMode) valid() bool {
	_, ok := pairingModeNames[m]
	return ok
}

func (m PairingMode) String() string {
	if name, ok := pairingModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("PairingMode(%d)", int(m))
}

func (m PairingMode) MarshalText() ([]byte, error) {
	if !m.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPairingMode, m)
	}
	return []byte(m.String()), nil
}

func (m *PairingMode) UnmarshalText(text []byte) error {
	mode, err := ParsePairingMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

func (m *PairingMode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return m.UnmarshalText([]byte(s))
}

// Returns a coefficient in [0, 1] for pairing the positions i and j
// of a score group with n members. The coefficient is 1 for the
// pairing that the mode considers ideal.
func (m PairingMode) coefficient(i, j, n int) float64 {
	if n < 2 {
		return 1
	}
	d := math.Abs(float64(i - j))

	switch m {
	case PairingCross:
		half := float64(n) / 2
		return 1 - math.Abs(d-half)/half
	case PairingFold:
		last := float64(n - 1)
		return 1 - math.Abs(float64(i+j)-last)/last
	case PairingAdjacent:
		return 1 - (d-1)/float64(n-1)
	}

	panic("pairing mode coefficient: unknown pairing mode")
}

// The FloatingMode decides which member of a score group
// is preferred when someone has to be drawn up or down
// into another group.
type FloatingMode int

const (
	FloatingTop FloatingMode = iota
	FloatingMiddle
	FloatingBottom
)

var floatingModeNames = map[FloatingMode]string{
	FloatingTop:    "top",
	FloatingMiddle: "middle",
	FloatingBottom: "bottom",
}

func ParseFloatingMode(s string) (FloatingMode, error) {
	for mode, name := range floatingModeNames {
		if strings.EqualFold(s, name) {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFloatingMode, s)
}

func (m FloatingMode) valid() bool {
	_, ok := floatingModeNames[m]
	return ok
}

func (m FloatingMode) String() string {
	if name, ok := floatingModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("FloatingMode(%d)", int(m))
}

func (m FloatingMode) MarshalText() ([]byte, error) {
	if !m.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFloatingMode, m)
	}
	return []byte(m.String()), nil
}

func (m *FloatingMode) UnmarshalText(text []byte) error {
	mode, err := ParseFloatingMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

func (m *FloatingMode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return m.UnmarshalText([]byte(s))
}

// Returns a coefficient in [0, 1] for floating the member at
// position pos (0 is the top) of a group with n members.
func (m FloatingMode) coefficient(pos, n int) float64 {
	if n < 2 {
		return 1
	}
	last := float64(n - 1)
	p := float64(pos)

	switch m {
	case FloatingTop:
		return 1 - p/last
	case FloatingMiddle:
		center := last / 2
		return 1 - math.Abs(p-center)/center
	case FloatingBottom:
		return p / last
	}

	panic("floating mode coefficient: unknown floating mode")
}
