package core

import (
	"cmp"
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strconv"

	"github.com/samber/lo"
	"github.com/twmb/murmur3"
	"go.uber.org/zap"
)

var (
	ErrOddParticipants    = errors.New("odd number of participants to pair")
	ErrIncompleteMatching = errors.New("the matching does not cover all participants")
	ErrRoundHasResults    = errors.New("round already has results")
)

// MakePairing pairs the given round and records the new games.
//
// All participants whose participation allows it and who are not
// already in a game of the round are paired. Rounds have to be
// paired in order. With zero or one participant to pair the round
// is marked as paired without creating games.
func (t *Tournament) MakePairing(round int) ([]*Game, error) {
	if err := t.checkRound(round); err != nil {
		return nil, err
	}
	if round <= t.pairedRounds {
		return nil, fmt.Errorf("%w: %d", ErrRoundAlreadyPaired, round)
	}
	if round != t.pairedRounds+1 {
		return nil, fmt.Errorf("%w: round %d after round %d", ErrRoundOutOfOrder, round, t.pairedRounds)
	}
	t.prepareRound(round)

	rc := t.newRoundContext(round)
	eligible := t.eligible(rc)
	n := len(eligible)

	t.logger.Debug("Pairing round", zap.Int("round", round), zap.Int("eligible", n))

	if n <= 1 {
		t.pairedRounds = round
		return nil, nil
	}
	if n%2 != 0 {
		return nil, fmt.Errorf("%w: %d in round %d", ErrOddParticipants, n, round)
	}

	weights := make([][]float64, n)
	for i := range weights {
		weights[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			cost := t.costValue(rc, eligible[i], eligible[j])
			weights[i][j] = cost
			weights[j][i] = cost
		}
	}

	pairs, err := t.solver.Solve(weights)
	if err != nil {
		return nil, fmt.Errorf("pairing round %d: %w", round, err)
	}

	games := make([]*Game, 0, n/2)
	consumed := make([]bool, n)
	for _, pair := range pairs {
		i, j := pair[0], pair[1]
		if i == j || i < 0 || j < 0 || i >= n || j >= n {
			return nil, fmt.Errorf("%w: invalid pair %v", ErrIncompleteMatching, pair)
		}
		if consumed[i] || consumed[j] {
			continue
		}
		consumed[i], consumed[j] = true, true
		games = append(games, t.makeGame(eligible[i], eligible[j], round))
	}
	if len(games) != n/2 {
		return nil, fmt.Errorf("%w: %d games for %d participants", ErrIncompleteMatching, len(games), n)
	}

	if err := t.addGames(games); err != nil {
		return nil, err
	}
	for _, g := range games {
		if t.opponents.playedBefore(g.white, g.black, round) {
			t.logger.Warn("Pairing contains a rematch", zap.Int("round", round), zap.Stringer("game", g))
		}
	}

	t.pairedRounds = round
	t.logger.Debug("Paired round", zap.Int("round", round), zap.Int("games", len(games)))

	return games, nil
}

// UnpairRound removes all games of the last paired round.
// Fails when a game of the round already has a result.
func (t *Tournament) UnpairRound(round int) error {
	if round < 1 || round != t.pairedRounds {
		return fmt.Errorf("%w: %d is not the last paired round", ErrRoundOutOfOrder, round)
	}

	games := t.RoundGames(round)
	if slices.ContainsFunc(games, func(g *Game) bool { return g.result != ResultUnknown }) {
		return fmt.Errorf("%w: %d", ErrRoundHasResults, round)
	}

	for _, g := range games {
		if err := t.removeGame(g); err != nil {
			return err
		}
	}
	t.pairedRounds = round - 1

	t.logger.Debug("Unpaired round", zap.Int("round", round))

	return nil
}

// AssignBye gives the bye of a round with an odd number of
// participants to pair. The bye goes to the participant with the
// lowest score. Ties prefer fewer previous byes and then the lower rank.
//
// Returns nil when the number of participants to pair is even.
func (t *Tournament) AssignBye(round int) (*Participant, error) {
	if err := t.checkRound(round); err != nil {
		return nil, err
	}
	if round <= t.pairedRounds {
		return nil, fmt.Errorf("%w: %d", ErrRoundAlreadyPaired, round)
	}
	t.prepareRound(round)

	rc := t.newRoundContext(round)
	eligible := t.eligible(rc)
	if len(eligible)%2 == 0 {
		return nil, nil
	}

	byes := func(p *Participant) int {
		return lo.Count(p.participation[:round-1], ParticipationBye)
	}
	candidate := slices.MinFunc(eligible, func(p1, p2 *Participant) int {
		if c := cmp.Compare(rc.scores[p1.Id()], rc.scores[p2.Id()]); c != 0 {
			return c
		}
		if c := cmp.Compare(byes(p1), byes(p2)); c != 0 {
			return c
		}
		if c := cmp.Compare(p1.Rank, p2.Rank); c != 0 {
			return c
		}
		return cmp.Compare(p1.Id(), p2.Id())
	})
	if err := t.SetParticipation(candidate, round, ParticipationBye); err != nil {
		return nil, err
	}

	t.logger.Debug("Assigned bye", zap.Int("round", round), zap.String("id", candidate.Id()))

	return candidate, nil
}

// Records all games or none of them. A failed rollback is
// joined into the returned error.
func (t *Tournament) addGames(games []*Game) error {
	for i, g := range games {
		if err := t.AddGame(g); err != nil {
			for _, added := range games[:i] {
				err = errors.Join(err, t.removeGame(added))
			}
			return err
		}
	}
	return nil
}

// Resets the start scores before the first round
// when the roster changed
func (t *Tournament) prepareRound(round int) {
	if round == 1 && t.startMMSDirty {
		t.ResetStartMMS()
	}
}

// Returns the participants that still need a game in the round
// ordered by score, rank and id
func (t *Tournament) eligible(rc *roundContext) []*Participant {
	games := t.Rounds[rc.round-1]
	eligible := lo.Filter(t.playing(rc.round), func(p *Participant, _ int) bool {
		return games.GameOf(p) == nil
	})

	slices.SortFunc(eligible, func(p1, p2 *Participant) int {
		if c := cmp.Compare(rc.scores[p1.Id()], rc.scores[p2.Id()]); c != 0 {
			return c
		}
		if c := cmp.Compare(p1.Rank, p2.Rank); c != 0 {
			return c
		}
		return cmp.Compare(p1.Id(), p2.Id())
	})

	return eligible
}

// Returns true when the colors of the game between the two
// participants should be swapped. The coin does not depend on
// the argument order.
func colorCoin(p1, p2 *Participant, round int) bool {
	ids := []string{p1.Id(), p2.Id()}
	slices.Sort(ids)

	key := ids[0] + "\x00" + ids[1] + "\x00" + strconv.Itoa(round)
	seed := murmur3.Sum64([]byte(key))
	rng := rand.New(rand.NewSource(int64(seed)))

	return rng.Intn(2) == 1
}
