package core

import (
	"cmp"
	"slices"

	"github.com/samber/lo"
)

// The roundContext holds the score groups of a round as they are
// before the round is played. Scores are taken after the previous round.
type roundContext struct {
	round int

	scores map[string]int
	// The distinct scores in ascending order
	groups []int
	// The members of each score group ordered by rank descending
	members map[int][]*Participant
	// The position of each participant within its score group
	positions map[string]int
}

// Returns the participants that take part in the given round
func (t *Tournament) playing(round int) []*Participant {
	return lo.Filter(t.roster, func(p *Participant, _ int) bool {
		return p.Participation(round).pairable()
	})
}

func (t *Tournament) newRoundContext(round int, extra ...*Participant) *roundContext {
	participants := t.playing(round)
	for _, p := range extra {
		if !slices.Contains(participants, p) {
			participants = append(participants, p)
		}
	}

	rc := &roundContext{
		round:     round,
		scores:    make(map[string]int, len(participants)),
		positions: make(map[string]int, len(participants)),
	}

	for _, p := range participants {
		rc.scores[p.Id()] = t.scoreX2(p, round-1)
	}

	rc.groups = lo.Uniq(lo.Values(rc.scores))
	slices.Sort(rc.groups)

	rc.members = lo.GroupBy(participants, func(p *Participant) int {
		return rc.scores[p.Id()]
	})
	for _, members := range rc.members {
		slices.SortFunc(members, compareByRank)
		for i, p := range members {
			rc.positions[p.Id()] = i
		}
	}

	return rc
}

func (c *roundContext) groupIndex(p *Participant) int {
	i, _ := slices.BinarySearch(c.groups, c.scores[p.Id()])
	return i
}

// Orders p1 and p2 by their score. Equal scores fall back
// to the rank order.
func (c *roundContext) orderByScore(p1, p2 *Participant) (upper, lower *Participant) {
	s1, s2 := c.scores[p1.Id()], c.scores[p2.Id()]
	if s1 == s2 {
		return orderByRank(p1, p2)
	}
	if s1 > s2 {
		return p1, p2
	}
	return p2, p1
}

// CostValue returns the weight of pairing p1 and p2 in the given
// round. The pairing maximizes the sum of the weights.
//
// Panics when p1 or p2 is not registered.
func (t *Tournament) CostValue(p1, p2 *Participant, round int) float64 {
	t.mustBeRegistered(p1)
	t.mustBeRegistered(p2)
	return t.costValue(t.newRoundContext(round, p1, p2), p1, p2)
}

func (t *Tournament) costValue(rc *roundContext, p1, p2 *Participant) float64 {
	return t.avoidDuplicateGameCost(rc, p1, p2) +
		t.balanceColorsCost(rc, p1, p2) +
		t.minimizeScoreDifferenceCost(rc, p1, p2) +
		t.balanceFloatingCost(rc, p1, p2) +
		t.maximizeSeedingCost(rc, p1, p2)
}

func (t *Tournament) avoidDuplicateGameCost(rc *roundContext, p1, p2 *Participant) float64 {
	if t.opponents.playedBefore(p1, p2, rc.round) {
		return 0
	}
	return t.settings.Weights.AvoidDuplicateGame
}

func (t *Tournament) balanceColorsCost(rc *roundContext, p1, p2 *Participant) float64 {
	if t.handicapOf(orderByRank(p1, p2)) > 0 {
		return 0
	}

	b1 := t.ColorBalance(p1, rc.round)
	b2 := t.ColorBalance(p2, rc.round)

	coefficient := 0.
	switch {
	case b1*b2 < 0:
		coefficient = 2
	case b1 == 0 && abs(b2) > 1, b2 == 0 && abs(b1) > 1:
		coefficient = 1
	}

	return t.settings.Weights.BalanceColors * coefficient
}

func (t *Tournament) minimizeScoreDifferenceCost(rc *roundContext, p1, p2 *Participant) float64 {
	distance := abs(rc.groupIndex(p1) - rc.groupIndex(p2))
	x := float64(distance) / float64(len(rc.groups))

	return t.settings.Weights.MinimizeScoreDifference * (1 - x) * (1 + x/2)
}

func (t *Tournament) balanceFloatingCost(rc *roundContext, p1, p2 *Participant) float64 {
	upper, lower := rc.orderByScore(p1, p2)

	scenario := 4
	if rc.scores[upper.Id()] != rc.scores[lower.Id()] {
		lowerUps := t.DrawUps(lower, rc.round)
		lowerDowns := t.DrawDowns(lower, rc.round)
		upperUps := t.DrawUps(upper, rc.round)
		upperDowns := t.DrawDowns(upper, rc.round)

		scenario = 2
		if lowerUps > 0 {
			scenario--
		}
		if upperDowns > 0 {
			scenario--
		}
		if scenario > 0 {
			if lowerUps < lowerDowns {
				scenario++
			}
			if upperDowns < upperUps {
				scenario++
			}
		}
	}

	return t.settings.Weights.BalanceFloating * float64(scenario)
}

func (t *Tournament) maximizeSeedingCost(rc *roundContext, p1, p2 *Participant) float64 {
	upper, lower := rc.orderByScore(p1, p2)
	upperScore, lowerScore := rc.scores[upper.Id()], rc.scores[lower.Id()]

	var coefficient float64
	if upperScore == lowerScore {
		n := len(rc.members[upperScore])
		coefficient = t.settings.PairingMode.coefficient(
			rc.positions[upper.Id()],
			rc.positions[lower.Id()],
			n,
		)
	} else {
		down := t.settings.DrawDownMode.coefficient(
			rc.positions[upper.Id()],
			len(rc.members[upperScore]),
		)
		up := t.settings.DrawUpMode.coefficient(
			rc.positions[lower.Id()],
			len(rc.members[lowerScore]),
		)
		coefficient = (down + up) / 2
	}

	return t.settings.Weights.MaximizeSeeding * coefficient
}

// Orders participants by rank descending and then by id
func compareByRank(p1, p2 *Participant) int {
	if c := cmp.Compare(p2.Rank, p1.Rank); c != 0 {
		return c
	}
	return cmp.Compare(p1.Id(), p2.Id())
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
