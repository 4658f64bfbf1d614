package core

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrUnknownParticipation = errors.New("unknown participation")
)

// A Player is either a person or a team who is
// taking part in a tournament.
type Player interface {
	// Returns an ID that is unique among the players of
	// a tournament
	Id() string
}

// The Participation of a participant in a round
type Participation int

const (
	ParticipationUnknown Participation = iota
	// The participant is available for pairing
	ParticipationNormal
	// The participant sits the round out and receives
	// the bye score
	ParticipationBye
	// The participant does not take part in the round
	ParticipationAbsent
)

func (p Participation) String() string {
	switch p {
	case ParticipationUnknown:
		return "unknown"
	case ParticipationNormal:
		return "normal"
	case ParticipationBye:
		return "bye"
	case ParticipationAbsent:
		return "absent"
	}
	return fmt.Sprintf("Participation(%d)", int(p))
}

func (p Participation) valid() bool {
	return p >= ParticipationUnknown && p <= ParticipationAbsent
}

// Returns false for participations that exclude
// the participant from the pairing
func (p Participation) pairable() bool {
	return p != ParticipationBye && p != ParticipationAbsent
}

// A Participant is a player registered to a tournament
// together with the data that the pairing needs.
type Participant struct {
	Player Player

	// The skill rank. Higher is stronger,
	// e.g. 30k = -30, 1k = -1, 1d = 0, 2d = 1.
	Rank int

	// The doubled start score
	startMMS int

	// The participation of every round, index 0 is round 1.
	// Fully populated when the participant is added to a tournament.
	participation []Participation
}

func (p *Participant) Id() string {
	return p.Player.Id()
}

// StartMMS returns the doubled McMahon start score
func (p *Participant) StartMMS() int {
	return p.startMMS
}

// Returns the participation in the given round. Rounds out
// of range are ParticipationUnknown.
func (p *Participant) Participation(round int) Participation {
	if round < 1 || round > len(p.participation) {
		return ParticipationUnknown
	}
	return p.participation[round-1]
}

// Returns the participation of all rounds. Index 0 is round 1.
func (p *Participant) Participations() []Participation {
	return slices.Clone(p.participation)
}

func (p *Participant) String() string {
	return fmt.Sprintf("%v (%v)", p.Id(), p.Rank)
}

func NewParticipant(player Player, rank int) *Participant {
	return &Participant{Player: player, Rank: rank}
}

// Orders two participants by rank descending. Equal ranks
// are ordered by id so that the result does not depend
// on the argument order.
func orderByRank(p1, p2 *Participant) (upper, lower *Participant) {
	if p1.Rank > p2.Rank || (p1.Rank == p2.Rank && p1.Id() < p2.Id()) {
		return p1, p2
	}
	return p2, p1
}
