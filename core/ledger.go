package core

import (
	"fmt"

	"github.com/samber/lo"
)

type scoreKey struct {
	id    string
	round int
}

// ScoreX2 returns the doubled McMahon score of p after the
// given round. Round 0 is the start score.
//
// Panics when p is not registered.
func (t *Tournament) ScoreX2(p *Participant, round int) int {
	t.mustBeRegistered(p)
	return t.scoreX2(p, round)
}

func (t *Tournament) scoreX2(p *Participant, round int) int {
	if round <= 0 {
		return p.startMMS
	}
	round = min(round, t.settings.NumberOfRounds)

	key := scoreKey{id: p.Id(), round: round}
	if score, ok := t.scores[key]; ok {
		return score
	}

	score := t.scoreX2(p, round-1) + t.roundPointsX2(p, round)
	t.scores[key] = score

	return score
}

// Returns the doubled points that p got in the given round
func (t *Tournament) roundPointsX2(p *Participant, round int) int {
	if g := t.Rounds[round-1].GameOf(p); g != nil {
		return g.PointsX2(p)
	}

	switch p.Participation(round) {
	case ParticipationBye:
		return t.settings.ByePointsX2
	case ParticipationAbsent:
		return t.settings.AbsentPointsX2
	}
	return 0
}

// SOSX2 returns the sum of the doubled scores of p's
// opponents up to the given round
func (t *Tournament) SOSX2(p *Participant, round int) int {
	t.mustBeRegistered(p)
	return lo.SumBy(t.GamesOf(p, round), func(g *Game) int {
		return t.scoreX2(g.Opponent(p), round)
	})
}

// SODOSX2 returns the sum of the doubled scores of the
// opponents that p defeated up to the given round
func (t *Tournament) SODOSX2(p *Participant, round int) int {
	t.mustBeRegistered(p)
	won := lo.Filter(t.GamesOf(p, round), func(g *Game, _ int) bool {
		return g.Won(p)
	})
	return lo.SumBy(won, func(g *Game) int {
		return t.scoreX2(g.Opponent(p), round)
	})
}

// SOSOSX2 returns the sum of the SOS of p's opponents
// up to the given round
func (t *Tournament) SOSOSX2(p *Participant, round int) int {
	t.mustBeRegistered(p)
	return lo.SumBy(t.GamesOf(p, round), func(g *Game) int {
		return t.SOSX2(g.Opponent(p), round)
	})
}

// ColorBalance returns the number of white games minus the
// number of black games that p played before the given round
func (t *Tournament) ColorBalance(p *Participant, round int) int {
	t.mustBeRegistered(p)
	return lo.SumBy(t.GamesOf(p, round-1), func(g *Game) int {
		return int(g.ColorOf(p))
	})
}

// DrawUps returns how often p played against an opponent
// with a higher score before the given round.
// The scores are compared as they were when the game was paired.
func (t *Tournament) DrawUps(p *Participant, round int) int {
	t.mustBeRegistered(p)
	return lo.CountBy(t.GamesOf(p, round-1), func(g *Game) bool {
		before := g.round - 1
		return t.scoreX2(g.Opponent(p), before) > t.scoreX2(p, before)
	})
}

// DrawDowns returns how often p played against an opponent
// with a lower score before the given round
func (t *Tournament) DrawDowns(p *Participant, round int) int {
	t.mustBeRegistered(p)
	return lo.CountBy(t.GamesOf(p, round-1), func(g *Game) bool {
		before := g.round - 1
		return t.scoreX2(g.Opponent(p), before) < t.scoreX2(p, before)
	})
}

// Removes all cached scores from the given round on
func (t *Tournament) invalidate(round int) {
	for key := range t.scores {
		if key.round >= round {
			delete(t.scores, key)
		}
	}
}

func (t *Tournament) invalidateParticipant(p *Participant) {
	for key := range t.scores {
		if key.id == p.Id() {
			delete(t.scores, key)
		}
	}
}

func (t *Tournament) mustBeRegistered(p *Participant) {
	if err := t.checkParticipant(p); err != nil {
		panic(fmt.Sprintf("score query: %v", err))
	}
}
