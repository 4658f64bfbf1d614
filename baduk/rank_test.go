package baduk

import (
	"errors"
	"strings"
	"testing"
)

func TestParseRank(t *testing.T) {
	ranks := map[string]int{
		"30k": -30,
		"1k":  -1,
		"1d":  0,
		"2D":  1,
		"9d":  8,
		"50k": -50,
	}
	for s, expected := range ranks {
		rank, err := ParseRank(s)
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", s, err)
		}
		if rank != expected {
			t.Fatalf("%v was parsed as %d, expected %d", s, rank, expected)
		}
		if FormatRank(rank) != strings.ToLower(s) {
			t.Fatalf("%d was formatted as %v", rank, FormatRank(rank))
		}
	}
}

func TestParseRankErrors(t *testing.T) {
	for _, s := range []string{"", "k", "0k", "51k", "10d", "3p", "-2k", "xd"} {
		_, err := ParseRank(s)
		if !errors.Is(err, ErrInvalidRank) {
			t.Fatalf("invalid rank %q did not error", s)
		}
	}
}
