package core

import (
	"fmt"
	"strings"
)

// The Result of a game
type Result int

const (
	// The game is not played yet or the result is not entered
	ResultUnknown Result = iota
	ResultWhiteWins
	ResultBlackWins
	// Jigo
	ResultDraw
	// Both players are awarded a win
	ResultBothWin
	// Both players are awarded a loss
	ResultBothLose
)

func (r Result) valid() bool {
	return r >= ResultUnknown && r <= ResultBothLose
}

// Returns the doubled points of white and black
func (r Result) pointsX2() (white, black int) {
	switch r {
	case ResultWhiteWins:
		return 2, 0
	case ResultBlackWins:
		return 0, 2
	case ResultDraw:
		return 1, 1
	case ResultBothWin:
		return 2, 2
	}
	return 0, 0
}

func (r Result) String() string {
	switch r {
	case ResultWhiteWins:
		return "1-0"
	case ResultBlackWins:
		return "0-1"
	case ResultDraw:
		return "½-½"
	case ResultBothWin:
		return "1-1"
	case ResultBothLose:
		return "0-0"
	}
	return "?"
}

// The Color of a participant in a game
type Color int

const (
	Black Color = -1
	White Color = 1
)

// A Game is the pairing of two participants in a round.
//
// The pairing itself (participants, colors, handicap, round)
// is immutable. The result is recorded through the tournament.
type Game struct {
	white    *Participant
	black    *Participant
	handicap int
	round    int

	result    Result
	byDefault bool
}

func (g *Game) White() *Participant {
	return g.white
}

func (g *Game) Black() *Participant {
	return g.black
}

func (g *Game) Handicap() int {
	return g.handicap
}

func (g *Game) Round() int {
	return g.round
}

func (g *Game) Result() Result {
	return g.result
}

// Returns true when the result was not decided over the board
// (e.g. forfeit)
func (g *Game) ByDefault() bool {
	return g.byDefault
}

func (g *Game) Contains(p *Participant) bool {
	return g.white == p || g.black == p
}

// Returns the opponent of p
func (g *Game) Opponent(p *Participant) *Participant {
	if p == g.white {
		return g.black
	}
	if p == g.black {
		return g.white
	}

	panic("Participant is not in the Game")
}

func (g *Game) ColorOf(p *Participant) Color {
	if p == g.white {
		return White
	}
	if p == g.black {
		return Black
	}

	panic("Participant is not in the Game")
}

// Returns the doubled points that p scored in this game
func (g *Game) PointsX2(p *Participant) int {
	white, black := g.result.pointsX2()
	if g.ColorOf(p) == White {
		return white
	}
	return black
}

// Returns true when p won the game
func (g *Game) Won(p *Participant) bool {
	white, black := g.result.pointsX2()
	if g.ColorOf(p) == White {
		return white == 2
	}
	return black == 2
}

func (g *Game) String() string {
	var sb strings.Builder
	sb.WriteString(g.white.Id())
	sb.WriteString(" - ")
	sb.WriteString(g.black.Id())
	if g.handicap > 0 {
		fmt.Fprintf(&sb, " h%d", g.handicap)
	}
	sb.WriteRune('\t')
	sb.WriteString(g.result.String())
	return sb.String()
}

// The games of a single round
type Round struct {
	Number int
	Games  []*Game
}

// Returns the game of p in this round or nil
func (r *Round) GameOf(p *Participant) *Game {
	for _, g := range r.Games {
		if g.Contains(p) {
			return g
		}
	}
	return nil
}

// A slice of games and a slice of rounds containing all
// games.
type gameList struct {
	Games  []*Game
	Rounds []*Round
}

func newGameList(numberOfRounds int) *gameList {
	rounds := make([]*Round, numberOfRounds)
	for i := range rounds {
		rounds[i] = &Round{Number: i + 1}
	}
	return &gameList{Rounds: rounds}
}

// Returns the games of p up to and including the given round
func (l *gameList) GamesOf(p *Participant, round int) []*Game {
	if round <= 0 {
		return nil
	}
	games := make([]*Game, 0, round)
	for _, r := range l.Rounds[:min(round, len(l.Rounds))] {
		if g := r.GameOf(p); g != nil {
			games = append(games, g)
		}
	}
	return games
}

// Returns true when p has played or is paired in any round
func (l *gameList) HasGames(p *Participant) bool {
	for _, g := range l.Games {
		if g.Contains(p) {
			return true
		}
	}
	return false
}

func (l *gameList) add(g *Game) {
	l.Games = append(l.Games, g)
	round := l.Rounds[g.round-1]
	round.Games = append(round.Games, g)
}

func (l *gameList) remove(g *Game) {
	l.Games = deleteElement(l.Games, g)
	round := l.Rounds[g.round-1]
	round.Games = deleteElement(round.Games, g)
}
