package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type standingRow struct {
	Place int
	Id    string
}

func standingRows(standings []*Standing) []standingRow {
	rows := make([]standingRow, 0, len(standings))
	for _, s := range standings {
		rows = append(rows, standingRow{Place: s.Place, Id: s.Participant.Id()})
	}
	return rows
}

func TestStandings(t *testing.T) {
	tournament, participants := newTestTournament(t, flatSettings(), 0, 0, 0, 0)
	a, b, c, d := participants[0], participants[1], participants[2], participants[3]

	addTestGame(t, tournament, a, b, a, 1)
	addTestGame(t, tournament, c, d, nil, 1)
	addTestGame(t, tournament, a, c, a, 2)
	addTestGame(t, tournament, b, d, b, 2)

	standings := tournament.Standings(2)

	expected := []standingRow{
		{1, "p00"},
		{2, "p01"},
		{3, "p02"},
		{4, "p03"},
	}
	if diff := cmp.Diff(expected, standingRows(standings)); diff != "" {
		t.Fatalf("standings mismatch (-want +got):\n%s", diff)
	}

	expectedMetrics := &StandingMetrics{ScoreX2: 1, SOSX2: 5, SOSOSX2: 6, SODOSX2: 0, NumGames: 2, Wins: 0}
	if diff := cmp.Diff(expectedMetrics, standings[2].Metrics); diff != "" {
		t.Fatalf("metrics mismatch (-want +got):\n%s", diff)
	}

	expected = []standingRow{
		{1, "p00"},
		{2, "p02"},
		{2, "p03"},
		{4, "p01"},
	}
	if diff := cmp.Diff(expected, standingRows(tournament.Standings(1))); diff != "" {
		t.Fatalf("standings after round 1 mismatch (-want +got):\n%s", diff)
	}
}

func TestTiedStandings(t *testing.T) {
	tournament, _ := newTestTournament(t, flatSettings(), 0, 0, 0)

	expected := []standingRow{
		{1, "p00"},
		{1, "p01"},
		{1, "p02"},
	}
	if diff := cmp.Diff(expected, standingRows(tournament.Standings(0))); diff != "" {
		t.Fatalf("standings mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(expected, standingRows(tournament.Standings(99))); diff != "" {
		t.Fatalf("standings out of range mismatch (-want +got):\n%s", diff)
	}
}
