package core

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/ezBadminton/gomcmahon/matching"
)

var (
	ErrDuplicateParticipant     = errors.New("participant is already registered")
	ErrUnknownParticipant       = errors.New("participant is not registered")
	ErrParticipantHasPlayed     = errors.New("participant has already played")
	ErrDuplicateGame            = errors.New("game is already recorded")
	ErrUnknownGame              = errors.New("game is not recorded")
	ErrSelfPairing              = errors.New("participant can not play against itself")
	ErrParticipantAlreadyPaired = errors.New("participant is already paired in this round")
	ErrNotParticipating         = errors.New("participant does not take part in this round")
	ErrRoundOutOfRange          = errors.New("round is out of range")
	ErrRoundOutOfOrder          = errors.New("previous rounds are not paired yet")
	ErrRoundAlreadyPaired       = errors.New("round is already paired")
	ErrUnknownResult            = errors.New("unknown result")
)

// A MatchingSolver finds a maximum weight perfect matching on
// the complete graph that is described by a square weight matrix.
type MatchingSolver interface {
	// Returns N/2 index pairs for an NxN matrix. The diagonal
	// is not used.
	Solve(weights [][]float64) ([][2]int, error)
}

type Option func(t *Tournament)

// Replaces the default blossom solver
func WithSolver(solver MatchingSolver) Option {
	return func(t *Tournament) {
		t.solver = solver
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(t *Tournament) {
		t.logger = logger
	}
}

// A Tournament is a McMahon tournament that is paired
// round by round.
//
// It owns the roster, the game log and the score cache.
// A Tournament is not safe for concurrent use.
type Tournament struct {
	*gameList

	settings Settings

	roster       []*Participant
	participants map[string]*Participant
	opponents    *opponentGraph

	// Doubled scores by participant and round
	scores map[scoreKey]int

	// The last round that was paired with MakePairing
	pairedRounds int
	// True when the start scores need to be reset before
	// the first round
	startMMSDirty bool

	solver MatchingSolver
	logger *zap.Logger
}

// Creates a tournament. Returns an error when the settings
// are invalid.
func NewTournament(settings Settings, options ...Option) (*Tournament, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	tournament := &Tournament{
		gameList:     newGameList(settings.NumberOfRounds),
		settings:     settings,
		participants: make(map[string]*Participant),
		opponents:    newOpponentGraph(),
		scores:       make(map[scoreKey]int),
		solver:       matching.Blossom{},
		logger:       zap.NewNop(),
	}

	for _, option := range options {
		option(tournament)
	}

	return tournament, nil
}

func (t *Tournament) Settings() Settings {
	return t.settings
}

// Returns the last round that was paired
func (t *Tournament) PairedRounds() int {
	return t.pairedRounds
}

// Registers the participant. Its participation is Normal for
// every round that is not paired yet and Absent for the others.
func (t *Tournament) AddParticipant(p *Participant) error {
	if p == nil || p.Player == nil {
		return fmt.Errorf("%w: missing player", ErrUnknownParticipant)
	}
	if _, ok := t.participants[p.Id()]; ok {
		return fmt.Errorf("%w: %v", ErrDuplicateParticipant, p.Id())
	}

	if err := t.opponents.addParticipant(p); err != nil {
		return fmt.Errorf("%v: %w", p.Id(), err)
	}

	p.participation = make([]Participation, t.settings.NumberOfRounds)
	for i := range p.participation {
		if i < t.pairedRounds {
			p.participation[i] = ParticipationAbsent
		} else {
			p.participation[i] = ParticipationNormal
		}
	}

	t.roster = append(t.roster, p)
	t.participants[p.Id()] = p

	if t.pairedRounds == 0 {
		t.startMMSDirty = true
	} else {
		// Late entries must not move everyone else's start score
		p.startMMS = t.startMMSOf(p.Rank, t.distinctClippedRanks())
	}

	t.logger.Debug("Added participant", zap.String("id", p.Id()), zap.Int("rank", p.Rank))

	return nil
}

// Removes a participant who has not played yet
func (t *Tournament) RemoveParticipant(p *Participant) error {
	if err := t.checkParticipant(p); err != nil {
		return err
	}
	if t.HasGames(p) {
		return fmt.Errorf("%w: %v", ErrParticipantHasPlayed, p.Id())
	}

	if err := t.opponents.removeParticipant(p); err != nil {
		return fmt.Errorf("%v: %w", p.Id(), err)
	}

	t.roster = deleteElement(t.roster, p)
	delete(t.participants, p.Id())
	t.invalidateParticipant(p)
	if t.pairedRounds == 0 {
		t.startMMSDirty = true
	}

	t.logger.Debug("Removed participant", zap.String("id", p.Id()))

	return nil
}

func (t *Tournament) Participant(id string) (*Participant, bool) {
	p, ok := t.participants[id]
	return p, ok
}

// Returns all participants in registration order
func (t *Tournament) Participants() []*Participant {
	return slices.Clone(t.roster)
}

// Returns the games of the given round
func (t *Tournament) RoundGames(round int) []*Game {
	if round < 1 || round > len(t.Rounds) {
		return nil
	}
	return slices.Clone(t.Rounds[round-1].Games)
}

// Returns everyone p had a game against
func (t *Tournament) Opponents(p *Participant) []*Participant {
	if t.checkParticipant(p) != nil {
		return nil
	}
	ids := t.opponents.opponentIds(p)
	opponents := make([]*Participant, 0, len(ids))
	for _, id := range ids {
		opponents = append(opponents, t.participants[id])
	}
	return opponents
}

// MakeGame decides the handicap and the colors for a game between
// p1 and p2 in the given round. The game is not recorded.
//
// The handicap is the rank difference plus the correction. Ranks
// weaker than the handicap bar count as the bar. With a handicap the
// stronger participant takes white. Otherwise white goes to the
// participant who played black more often. Equal color balances
// are decided by a coin that is seeded from both ids and the round.
func (t *Tournament) MakeGame(p1, p2 *Participant, round int) (*Game, error) {
	if err := t.checkParticipant(p1); err != nil {
		return nil, err
	}
	if err := t.checkParticipant(p2); err != nil {
		return nil, err
	}
	if p1 == p2 {
		return nil, fmt.Errorf("%w: %v", ErrSelfPairing, p1.Id())
	}
	if err := t.checkRound(round); err != nil {
		return nil, err
	}

	return t.makeGame(p1, p2, round), nil
}

func (t *Tournament) makeGame(p1, p2 *Participant, round int) *Game {
	upper, lower := orderByRank(p1, p2)
	handicap := t.handicapOf(upper, lower)

	white, black := upper, lower
	if handicap == 0 {
		upperBalance := t.ColorBalance(upper, round)
		lowerBalance := t.ColorBalance(lower, round)
		switch {
		case upperBalance > lowerBalance:
			white, black = lower, upper
		case upperBalance == lowerBalance:
			if colorCoin(upper, lower, round) {
				white, black = lower, upper
			}
		}
	}

	return &Game{
		white:    white,
		black:    black,
		handicap: handicap,
		round:    round,
	}
}

// Returns the handicap for a game between the stronger
// participant upper and the weaker participant lower
func (t *Tournament) handicapOf(upper, lower *Participant) int {
	hs := t.settings.Handicap
	upperRank := max(upper.Rank, hs.Bar)
	lowerRank := max(lower.Rank, hs.Bar)
	handicap := max(0, upperRank-lowerRank+hs.Correction)
	return min(handicap, hs.Max)
}

// Records the game. Games can be recorded for any round,
// including rounds that are not paired yet.
func (t *Tournament) AddGame(g *Game) error {
	if g == nil {
		return ErrUnknownGame
	}
	if err := t.checkParticipant(g.white); err != nil {
		return err
	}
	if err := t.checkParticipant(g.black); err != nil {
		return err
	}
	if g.white == g.black {
		return fmt.Errorf("%w: %v", ErrSelfPairing, g.white.Id())
	}
	if err := t.checkRound(g.round); err != nil {
		return err
	}
	if slices.Contains(t.Games, g) {
		return ErrDuplicateGame
	}
	round := t.Rounds[g.round-1]
	for _, p := range []*Participant{g.white, g.black} {
		if round.GameOf(p) != nil {
			return fmt.Errorf("%w: %v in round %d", ErrParticipantAlreadyPaired, p.Id(), g.round)
		}
		if !p.Participation(g.round).pairable() {
			return fmt.Errorf("%w: %v is %v in round %d", ErrNotParticipating, p.Id(), p.Participation(g.round), g.round)
		}
	}

	if err := t.opponents.addGame(g); err != nil {
		return err
	}
	t.add(g)
	t.invalidate(g.round)

	t.logger.Debug("Added game", zap.Int("round", g.round), zap.Stringer("game", g))

	return nil
}

func (t *Tournament) removeGame(g *Game) error {
	if err := t.opponents.removeGame(g); err != nil {
		return err
	}
	t.remove(g)
	t.invalidate(g.round)
	return nil
}

// Records the result of a game
func (t *Tournament) SetResult(g *Game, result Result, byDefault bool) error {
	if !slices.Contains(t.Games, g) {
		return ErrUnknownGame
	}
	if !result.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownResult, result)
	}

	g.result = result
	g.byDefault = byDefault
	t.invalidate(g.round)

	t.logger.Debug("Set result", zap.Int("round", g.round), zap.Stringer("game", g))

	return nil
}

// Sets the participation of p in a round that is not paired yet.
// A participant who has a game in the round can not be set to
// bye or absent.
func (t *Tournament) SetParticipation(p *Participant, round int, participation Participation) error {
	if err := t.checkParticipant(p); err != nil {
		return err
	}
	if err := t.checkRound(round); err != nil {
		return err
	}
	if round <= t.pairedRounds {
		return fmt.Errorf("%w: %d", ErrRoundAlreadyPaired, round)
	}
	if !participation.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownParticipation, participation)
	}
	if !participation.pairable() && t.Rounds[round-1].GameOf(p) != nil {
		return fmt.Errorf("%w: %v in round %d", ErrParticipantAlreadyPaired, p.Id(), round)
	}

	p.participation[round-1] = participation
	t.invalidate(round)

	return nil
}

// Recomputes the start scores of all participants from their
// ranks. Has to happen before the first round is paired. MakePairing
// does it automatically for round 1 when the roster changed.
func (t *Tournament) ResetStartMMS() {
	distinctRanks := t.distinctClippedRanks()
	for _, p := range t.roster {
		p.startMMS = t.startMMSOf(p.Rank, distinctRanks)
	}
	t.startMMSDirty = false
	t.invalidate(0)
}

func (t *Tournament) clipRank(rank int) int {
	mm := t.settings.McMahon
	return min(max(rank, mm.Floor), mm.Bar)
}

// Returns the distinct clipped ranks of the roster in ascending order
func (t *Tournament) distinctClippedRanks() []int {
	ranks := make([]int, 0, len(t.roster))
	for _, p := range t.roster {
		ranks = append(ranks, t.clipRank(p.Rank))
	}
	slices.Sort(ranks)
	return slices.Compact(ranks)
}

func (t *Tournament) startMMSOf(rank int, distinctRanks []int) int {
	clipped := t.clipRank(rank)
	if !t.settings.McMahon.Dense {
		return 2 * (clipped - t.settings.McMahon.Floor)
	}

	position, _ := slices.BinarySearch(distinctRanks, clipped)
	return 2 * position
}

func (t *Tournament) checkParticipant(p *Participant) error {
	if p == nil {
		return ErrUnknownParticipant
	}
	if registered, ok := t.participants[p.Id()]; !ok || registered != p {
		return fmt.Errorf("%w: %v", ErrUnknownParticipant, p.Id())
	}
	return nil
}

func (t *Tournament) checkRound(round int) error {
	if round < 1 || round > t.settings.NumberOfRounds {
		return fmt.Errorf("%w: %d", ErrRoundOutOfRange, round)
	}
	return nil
}
