package core

import (
	"errors"
	"math/rand"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Fails when the games do not pair every participant exactly once
func checkPerfectMatching(t *testing.T, games []*Game, participants []*Participant) {
	t.Helper()

	if len(games) != len(participants)/2 {
		t.Fatalf("%d games for %d participants", len(games), len(participants))
	}

	seen := make(map[*Participant]int)
	for _, g := range games {
		if g.White() == g.Black() {
			t.Fatal("a participant was paired against itself")
		}
		seen[g.White()] += 1
		seen[g.Black()] += 1
	}
	for _, p := range participants {
		if seen[p] != 1 {
			t.Fatalf("%v was paired %d times", p, seen[p])
		}
	}
}

func TestMakePairing(t *testing.T) {
	tournament, participants := newTestTournament(t, DefaultSettings(), 0, 0, 0, 0)

	games, err := tournament.MakePairing(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkPerfectMatching(t, games, participants)

	if tournament.PairedRounds() != 1 {
		t.Fatal("the round was not marked as paired")
	}
	if len(tournament.RoundGames(1)) != 2 || len(tournament.Games) != 2 {
		t.Fatal("the games were not recorded")
	}
}

func TestPairingProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	settings := DefaultSettings()
	settings.NumberOfRounds = 6

	ranks := make([]int, 14)
	for i := range ranks {
		ranks[i] = rng.Intn(38) - 32
	}
	tournament, participants := newTestTournament(t, settings, ranks...)

	results := []Result{ResultWhiteWins, ResultBlackWins, ResultDraw}
	for round := 1; round <= settings.NumberOfRounds; round++ {
		games, err := tournament.MakePairing(round)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		checkPerfectMatching(t, games, participants)

		for _, g := range games {
			if g.Handicap() < 0 || g.Handicap() > settings.Handicap.Max {
				t.Fatalf("handicap %d is out of bounds", g.Handicap())
			}
			if g.Round() != round {
				t.Fatal("game has the wrong round")
			}
			tournament.SetResult(g, results[rng.Intn(len(results))], false)
		}
	}
}

func TestNoRematches(t *testing.T) {
	tournament, participants := newTestTournament(t, flatSettings(), 0, 0, 0, 0)

	met := make(map[[2]string]bool)
	for round := 1; round <= 3; round++ {
		games, err := tournament.MakePairing(round)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		checkPerfectMatching(t, games, participants)

		for _, g := range games {
			a, b := orderByRank(g.White(), g.Black())
			key := [2]string{a.Id(), b.Id()}
			if met[key] {
				t.Fatalf("%v and %v were paired again in round %d", a, b, round)
			}
			met[key] = true
		}
	}
}

func TestScoreGroupPairing(t *testing.T) {
	settings := DefaultSettings()
	settings.McMahon.Floor = -10
	tournament, participants := newTestTournament(t, settings, 2, -5, 2, -5)

	games, err := tournament.MakePairing(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkPerfectMatching(t, games, participants)

	for _, g := range games {
		if g.White().Rank != g.Black().Rank {
			t.Fatalf("%v was not paired inside its score group", g)
		}
	}
}

func TestPrePairedGames(t *testing.T) {
	tournament, participants := newTestTournament(t, DefaultSettings(), 0, 0, 0, 0)

	game, _ := tournament.MakeGame(participants[0], participants[3], 1)
	tournament.AddGame(game)

	games, err := tournament.MakePairing(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(games) != 1 || !games[0].Contains(participants[1]) || !games[0].Contains(participants[2]) {
		t.Fatal("the pre-paired game was not respected")
	}
	if len(tournament.RoundGames(1)) != 2 {
		t.Fatal("the round does not contain both games")
	}
}

func TestPairingRoundErrors(t *testing.T) {
	tournament, _ := newTestTournament(t, DefaultSettings(), 0, 0)

	_, err := tournament.MakePairing(0)
	if !errors.Is(err, ErrRoundOutOfRange) {
		t.Fatal("round 0 did not error")
	}

	_, err = tournament.MakePairing(2)
	if !errors.Is(err, ErrRoundOutOfOrder) {
		t.Fatal("pairing round 2 before round 1 did not error")
	}

	if _, err := tournament.MakePairing(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = tournament.MakePairing(1)
	if !errors.Is(err, ErrRoundAlreadyPaired) {
		t.Fatal("pairing round 1 twice did not error")
	}
}

func TestDegenerateRound(t *testing.T) {
	tournament, _ := newTestTournament(t, DefaultSettings())

	games, err := tournament.MakePairing(1)
	if err != nil || len(games) != 0 {
		t.Fatal("pairing without participants was not a no-op")
	}

	single := ParticipantSlice(0)[0]
	tournament.AddParticipant(single)
	games, err = tournament.MakePairing(2)
	if err != nil || len(games) != 0 {
		t.Fatal("pairing a single participant was not a no-op")
	}
	if tournament.PairedRounds() != 2 {
		t.Fatal("the degenerate round was not marked as paired")
	}
}

func TestOddParticipants(t *testing.T) {
	settings := flatSettings()
	settings.ByePointsX2 = 1
	tournament, participants := newTestTournament(t, settings, 0, 1, 2)

	_, err := tournament.MakePairing(1)
	if !errors.Is(err, ErrOddParticipants) {
		t.Fatal("odd participants did not error")
	}
	if tournament.PairedRounds() != 0 || len(tournament.Games) != 0 {
		t.Fatal("a failed pairing changed the tournament")
	}

	bye, err := tournament.AssignBye(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bye != participants[0] {
		t.Fatal("the bye did not go to the lowest rank")
	}

	again, err := tournament.AssignBye(1)
	if err != nil || again != nil {
		t.Fatal("a bye was given to an even number of participants")
	}

	games, err := tournament.MakePairing(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(games) != 1 || games[0].Contains(bye) {
		t.Fatal("the participant with the bye was paired")
	}
	tournament.SetResult(games[0], ResultDraw, false)

	// Everyone has the same score now
	bye, err = tournament.AssignBye(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bye == participants[0] {
		t.Fatal("the same participant got a second bye")
	}
}

func TestUnpairRound(t *testing.T) {
	tournament, _ := newTestTournament(t, DefaultSettings(), 0, 0, 0, 0)

	tournament.MakePairing(1)
	if err := tournament.UnpairRound(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tournament.PairedRounds() != 0 || len(tournament.Games) != 0 {
		t.Fatal("the round was not unpaired")
	}

	games, _ := tournament.MakePairing(1)
	tournament.SetResult(games[0], ResultWhiteWins, false)

	err := tournament.UnpairRound(1)
	if !errors.Is(err, ErrRoundHasResults) {
		t.Fatal("unpairing a round with results did not error")
	}

	err = tournament.UnpairRound(2)
	if !errors.Is(err, ErrRoundOutOfOrder) {
		t.Fatal("unpairing an unpaired round did not error")
	}
}

type failingSolver struct {
	pairs [][2]int
	err   error
}

func (s failingSolver) Solve(weights [][]float64) ([][2]int, error) {
	return s.pairs, s.err
}

func TestSolverErrors(t *testing.T) {
	solverErr := errors.New("solver failed")
	tournament, err := NewTournament(DefaultSettings(), WithSolver(failingSolver{err: solverErr}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range ParticipantSlice(0, 0) {
		tournament.AddParticipant(p)
	}

	_, err = tournament.MakePairing(1)
	if !errors.Is(err, solverErr) {
		t.Fatal("the solver error was not returned")
	}

	tournament, _ = NewTournament(DefaultSettings(), WithSolver(failingSolver{pairs: [][2]int{{0, 1}, {1, 0}}}))
	for _, p := range ParticipantSlice(0, 0, 0, 0) {
		tournament.AddParticipant(p)
	}

	_, err = tournament.MakePairing(1)
	if !errors.Is(err, ErrIncompleteMatching) {
		t.Fatal("an incomplete matching did not error")
	}
	if len(tournament.Games) != 0 || tournament.PairedRounds() != 0 {
		t.Fatal("an incomplete matching recorded games")
	}
}

func TestRematchWarning(t *testing.T) {
	observed, logs := observer.New(zapcore.WarnLevel)
	tournament, err := NewTournament(flatSettings(), WithLogger(zap.New(observed)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range ParticipantSlice(0, 0) {
		tournament.AddParticipant(p)
	}

	tournament.MakePairing(1)
	if logs.Len() != 0 {
		t.Fatal("the first round logged a warning")
	}

	tournament.MakePairing(2)
	if logs.FilterMessage("Pairing contains a rematch").Len() != 1 {
		t.Fatal("the forced rematch was not logged")
	}
}

func TestAddGamesRollback(t *testing.T) {
	tournament, participants := newTestTournament(t, DefaultSettings(), 0, 0, 0)
	a, b, c := participants[0], participants[1], participants[2]

	g1, _ := tournament.MakeGame(a, b, 1)
	g2, _ := tournament.MakeGame(a, c, 1)

	err := tournament.addGames([]*Game{g1, g2})
	if !errors.Is(err, ErrParticipantAlreadyPaired) {
		t.Fatalf("expected the error of the failed game, got %v", err)
	}
	if len(tournament.RoundGames(1)) != 0 || len(tournament.Games) != 0 {
		t.Fatal("the first game was not rolled back")
	}
	if len(tournament.Opponents(a)) != 0 {
		t.Fatal("the opponent graph was not rolled back")
	}

	if err := tournament.addGames([]*Game{g1}); err != nil {
		t.Fatalf("a rolled back game could not be added again: %v", err)
	}
}
