// This file contains a thin wrapper around the graph module
// for keeping track of who played whom.
package core

import (
	"errors"
	"slices"

	"github.com/dominikbraun/graph"
)

func participantHash(p *Participant) string {
	return p.Id()
}

// The opponentGraph has all participants of a tournament as
// its nodes. Two participants are connected when they have
// a game against each other. The edge data holds those games.
type opponentGraph struct {
	graph.Graph[string, *Participant]
}

func newOpponentGraph() *opponentGraph {
	return &opponentGraph{Graph: graph.New(participantHash)}
}

func (g *opponentGraph) addParticipant(p *Participant) error {
	err := g.AddVertex(p)
	if errors.Is(err, graph.ErrVertexAlreadyExists) {
		return ErrDuplicateParticipant
	}
	return err
}

func (g *opponentGraph) removeParticipant(p *Participant) error {
	err := g.RemoveVertex(p.Id())
	if errors.Is(err, graph.ErrVertexHasEdges) {
		return ErrParticipantHasPlayed
	}
	return err
}

func (g *opponentGraph) addGame(game *Game) error {
	white, black := game.white.Id(), game.black.Id()

	games := g.gamesBetween(game.white, game.black)
	if len(games) == 0 {
		return g.AddEdge(white, black, graph.EdgeData([]*Game{game}))
	}

	games = append(slices.Clone(games), game)
	return g.UpdateEdge(white, black, graph.EdgeData(games))
}

func (g *opponentGraph) removeGame(game *Game) error {
	white, black := game.white.Id(), game.black.Id()

	games := deleteElement(slices.Clone(g.gamesBetween(game.white, game.black)), game)
	if len(games) == 0 {
		return g.RemoveEdge(white, black)
	}

	return g.UpdateEdge(white, black, graph.EdgeData(games))
}

// Returns all games between p1 and p2
func (g *opponentGraph) gamesBetween(p1, p2 *Participant) []*Game {
	edge, err := g.Edge(p1.Id(), p2.Id())
	if err != nil {
		return nil
	}
	games, _ := edge.Properties.Data.([]*Game)
	return games
}

// Returns true when p1 and p2 had a game before the given round
func (g *opponentGraph) playedBefore(p1, p2 *Participant, round int) bool {
	games := g.gamesBetween(p1, p2)
	return slices.ContainsFunc(games, func(game *Game) bool { return game.round < round })
}

// Returns the ids of everyone who had a game against p
func (g *opponentGraph) opponentIds(p *Participant) []string {
	adjacencyMap, err := g.AdjacencyMap()
	if err != nil {
		return nil
	}

	ids := make([]string, 0, len(adjacencyMap[p.Id()]))
	for id := range adjacencyMap[p.Id()] {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids
}

func deleteElement[S ~[]E, E comparable](s S, e E) S {
	return slices.DeleteFunc(s, func(other E) bool { return other == e })
}
