package baduk

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ezBadminton/gomcmahon/core"
)

var (
	ErrEmpty         = errors.New("empty result")
	ErrUnknownResult = errors.New("unknown result notation")
	ErrUnknownColor  = errors.New("the winner is neither W nor B")
	ErrInvalidMargin = errors.New("the winning margin is not a positive multiple of 0.5")
)

// The Method by which a game was decided
type Method int

const (
	MethodUnknown Method = iota
	MethodPoints
	MethodResignation
	MethodTime
	MethodForfeit
)

// An Outcome is a game result in the usual go notation
// such as B+R or W+6.5
type Outcome struct {
	Result core.Result
	Method Method
	// The winning margin in points. Zero when the game
	// was not counted.
	Margin float64
}

// Returns true when the game was not decided over the board
func (o *Outcome) ByDefault() bool {
	return o.Method == MethodForfeit
}

// Records the outcome as the result of the game
func (o *Outcome) Record(tournament *core.Tournament, game *core.Game) error {
	return tournament.SetResult(game, o.Result, o.ByDefault())
}

// ParseResult parses the notations W+R, B+3.5, W+T, B+F and W+
// as well as Jigo/Draw/0.5-0.5, 1-0, 0-1, 1-1, 0-0 and ?.
// Numeric notations give white's points first.
func ParseResult(s string) (*Outcome, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmpty
	}

	switch strings.ToLower(s) {
	case "?":
		return &Outcome{Result: core.ResultUnknown}, nil
	case "jigo", "draw", "0.5-0.5", "½-½":
		return &Outcome{Result: core.ResultDraw, Method: MethodPoints}, nil
	case "1-0":
		return &Outcome{Result: core.ResultWhiteWins}, nil
	case "0-1":
		return &Outcome{Result: core.ResultBlackWins}, nil
	case "1-1":
		return &Outcome{Result: core.ResultBothWin}, nil
	case "0-0":
		return &Outcome{Result: core.ResultBothLose}, nil
	}

	color, reason, found := strings.Cut(s, "+")
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResult, s)
	}

	outcome := &Outcome{}
	switch strings.ToUpper(color) {
	case "W":
		outcome.Result = core.ResultWhiteWins
	case "B":
		outcome.Result = core.ResultBlackWins
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownColor, s)
	}

	switch strings.ToUpper(reason) {
	case "":
		outcome.Method = MethodPoints
	case "R", "RESIGN":
		outcome.Method = MethodResignation
	case "T", "TIME":
		outcome.Method = MethodTime
	case "F", "FORFEIT":
		outcome.Method = MethodForfeit
	default:
		margin, err := strconv.ParseFloat(reason, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownResult, s)
		}
		if margin <= 0 || math.IsInf(margin, 0) || math.Mod(margin*2, 1) != 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidMargin, s)
		}
		outcome.Method = MethodPoints
		outcome.Margin = margin
	}

	return outcome, nil
}

// FormatResult renders the outcome in the short notation
// that ParseResult accepts
func FormatResult(o *Outcome) string {
	var color string
	switch o.Result {
	case core.ResultWhiteWins:
		color = "W"
	case core.ResultBlackWins:
		color = "B"
	case core.ResultDraw:
		return "Jigo"
	default:
		return o.Result.String()
	}

	switch o.Method {
	case MethodResignation:
		return color + "+R"
	case MethodTime:
		return color + "+T"
	case MethodForfeit:
		return color + "+F"
	case MethodPoints:
		if o.Margin > 0 {
			return color + "+" + strconv.FormatFloat(o.Margin, 'f', -1, 64)
		}
		return color + "+"
	}

	if o.Result == core.ResultWhiteWins {
		return "1-0"
	}
	return "0-1"
}
