package core

import "fmt"

// Withdraw marks p as absent in all rounds from the given round on
// that are not paired yet. Rounds where p already has a game are
// skipped. The rounds that p was withdrawn from are returned.
func (t *Tournament) Withdraw(p *Participant, fromRound int) ([]int, error) {
	rounds, err := t.ListWithdrawRounds(p, fromRound)
	if err != nil {
		return nil, err
	}

	for _, round := range rounds {
		p.participation[round-1] = ParticipationAbsent
	}
	if len(rounds) > 0 {
		t.invalidate(rounds[0])
	}

	return rounds, nil
}

// Reenter marks p as available in all rounds from the given round
// on that are not paired yet and where p was absent. The rounds that
// p was reentered into are returned.
func (t *Tournament) Reenter(p *Participant, fromRound int) ([]int, error) {
	rounds, err := t.ListReenterRounds(p, fromRound)
	if err != nil {
		return nil, err
	}

	for _, round := range rounds {
		p.participation[round-1] = ParticipationNormal
	}
	if len(rounds) > 0 {
		t.invalidate(rounds[0])
	}

	return rounds, nil
}

// Lists the rounds that p would be withdrawn from
// if Withdraw was called
func (t *Tournament) ListWithdrawRounds(p *Participant, fromRound int) ([]int, error) {
	return t.listOpenRounds(p, fromRound, func(round int) bool {
		return p.Participation(round) != ParticipationAbsent && t.Rounds[round-1].GameOf(p) == nil
	})
}

// Lists the rounds that p would reenter into
// if Reenter was called
func (t *Tournament) ListReenterRounds(p *Participant, fromRound int) ([]int, error) {
	return t.listOpenRounds(p, fromRound, func(round int) bool {
		return p.Participation(round) == ParticipationAbsent
	})
}

func (t *Tournament) listOpenRounds(
	p *Participant,
	fromRound int,
	include func(round int) bool,
) ([]int, error) {
	if err := t.checkParticipant(p); err != nil {
		return nil, err
	}
	if err := t.checkRound(fromRound); err != nil {
		return nil, err
	}

	rounds := make([]int, 0, t.settings.NumberOfRounds)
	for round := max(fromRound, t.pairedRounds+1); round <= t.settings.NumberOfRounds; round++ {
		if include(round) {
			rounds = append(rounds, round)
		}
	}

	if len(rounds) == 0 && fromRound <= t.pairedRounds {
		return nil, fmt.Errorf("%w: %d", ErrRoundAlreadyPaired, fromRound)
	}

	return rounds, nil
}
