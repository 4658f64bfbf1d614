package core

import (
	"errors"
	"slices"
	"testing"
)

func TestWithdrawal(t *testing.T) {
	tournament, participants := newTestTournament(t, DefaultSettings(), 0, 0, 0)
	p := participants[2]

	rounds, err := tournament.Withdraw(p, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(rounds, []int{2, 3, 4, 5}) {
		t.Fatalf("withdrawn from the rounds %v", rounds)
	}
	if p.Participation(1) != ParticipationNormal || p.Participation(2) != ParticipationAbsent {
		t.Fatal("the participation was not changed")
	}

	tournament.SetParticipation(participants[1], 1, ParticipationBye)
	games, err := tournament.MakePairing(1)
	if err != nil || len(games) != 1 || !games[0].Contains(p) {
		t.Fatal("the withdrawn participant was not paired before the withdrawal")
	}

	games, err = tournament.MakePairing(2)
	if err != nil || len(games) != 1 || games[0].Contains(p) {
		t.Fatal("the withdrawn participant was paired")
	}

	listed, err := tournament.ListReenterRounds(p, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rounds, err = tournament.Reenter(p, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(listed, []int{3, 4, 5}) || !slices.Equal(rounds, []int{4, 5}) {
		t.Fatalf("reentered into the rounds %v, listed %v", rounds, listed)
	}
	if p.Participation(3) != ParticipationAbsent || p.Participation(4) != ParticipationNormal {
		t.Fatal("the participation was not restored")
	}

	_, err = tournament.Withdraw(p, 9)
	if !errors.Is(err, ErrRoundOutOfRange) {
		t.Fatal("withdrawing from an unknown round did not error")
	}

	outsider := ParticipantSlice(0, 0, 0, 0)[3]
	_, err = tournament.Withdraw(outsider, 3)
	if !errors.Is(err, ErrUnknownParticipant) {
		t.Fatal("withdrawing an unknown participant did not error")
	}
}

func TestWithdrawFromPairedRounds(t *testing.T) {
	settings := DefaultSettings()
	settings.NumberOfRounds = 2
	tournament, participants := newTestTournament(t, settings, 0, 0)

	tournament.MakePairing(1)
	tournament.MakePairing(2)

	_, err := tournament.Withdraw(participants[0], 1)
	if !errors.Is(err, ErrRoundAlreadyPaired) {
		t.Fatal("withdrawing from paired rounds did not error")
	}
}

func TestParticipationWithGames(t *testing.T) {
	tournament, participants := newTestTournament(t, DefaultSettings(), 0, 0, 0)
	a, b, c := participants[0], participants[1], participants[2]

	addTestGame(t, tournament, a, b, a, 2)

	err := tournament.SetParticipation(a, 2, ParticipationBye)
	if !errors.Is(err, ErrParticipantAlreadyPaired) {
		t.Fatal("a participant with a game could be given a bye")
	}
	if a.Participation(2) != ParticipationNormal {
		t.Fatal("the participation was changed")
	}
	if err := tournament.SetParticipation(a, 2, ParticipationNormal); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rounds, err := tournament.Withdraw(b, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(rounds, []int{1, 3, 4, 5}) {
		t.Fatalf("withdrawn from the rounds %v", rounds)
	}
	if b.Participation(2) != ParticipationNormal || len(tournament.RoundGames(2)) != 1 {
		t.Fatal("the withdrawal contradicts the recorded game")
	}

	tournament.SetParticipation(c, 3, ParticipationAbsent)
	game, _ := tournament.MakeGame(a, c, 3)
	err = tournament.AddGame(game)
	if !errors.Is(err, ErrNotParticipating) {
		t.Fatal("a game for an absent participant was recorded")
	}

	tournament.SetParticipation(c, 4, ParticipationBye)
	game, _ = tournament.MakeGame(a, c, 4)
	err = tournament.AddGame(game)
	if !errors.Is(err, ErrNotParticipating) {
		t.Fatal("a game for a participant with a bye was recorded")
	}
	if len(tournament.RoundGames(3)) != 0 || len(tournament.RoundGames(4)) != 0 {
		t.Fatal("a rejected game was recorded")
	}
	if tournament.ScoreX2(c, 4) != c.StartMMS()+tournament.Settings().ByePointsX2 {
		t.Fatal("the bye was not scored")
	}
}
