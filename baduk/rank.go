package baduk

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidRank = errors.New("invalid rank")
)

const (
	// The weakest kyu rank
	MaxKyu = 50
	// The strongest dan rank
	MaxDan = 9
)

// ParseRank converts a kyu or dan rank to the rank
// integer of a participant. 30k = -30, 1k = -1, 1d = 0, 2d = 1.
func ParseRank(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRank, s)
	}

	grade, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || grade < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRank, s)
	}

	switch s[len(s)-1] {
	case 'k':
		if grade > MaxKyu {
			return 0, fmt.Errorf("%w: %q", ErrInvalidRank, s)
		}
		return -grade, nil
	case 'd':
		if grade > MaxDan {
			return 0, fmt.Errorf("%w: %q", ErrInvalidRank, s)
		}
		return grade - 1, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidRank, s)
}

// FormatRank is the inverse of ParseRank
func FormatRank(rank int) string {
	if rank < 0 {
		return strconv.Itoa(-rank) + "k"
	}
	return strconv.Itoa(rank+1) + "d"
}
