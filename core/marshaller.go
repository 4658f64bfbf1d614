package core

import (
	"encoding/json"
)

func marshalParticipants(participants []*Participant) []map[string]any {
	result := make([]map[string]any, len(participants))
	for i, p := range participants {
		participation := make([]string, len(p.participation))
		for i, pp := range p.participation {
			participation[i] = pp.String()
		}
		result[i] = map[string]any{
			"id":            p.Id(),
			"rank":          p.Rank,
			"startMMS":      p.startMMS,
			"participation": participation,
		}
	}
	return result
}

func marshalGameList(gameList *gameList) [][]map[string]any {
	rounds := make([][]map[string]any, len(gameList.Rounds))
	for i, round := range gameList.Rounds {
		roundGames := make([]map[string]any, len(round.Games))
		for i, game := range round.Games {
			roundGames[i] = marshalGame(game)
		}
		rounds[i] = roundGames
	}
	return rounds
}

func marshalGame(game *Game) map[string]any {
	result := map[string]any{
		"white":     game.white.Id(),
		"black":     game.black.Id(),
		"handicap":  game.handicap,
		"result":    game.result.String(),
		"byDefault": game.byDefault,
	}
	return result
}

func marshalStandings(standings []*Standing) []map[string]any {
	result := make([]map[string]any, len(standings))
	for i, s := range standings {
		result[i] = map[string]any{
			"place":   s.Place,
			"id":      s.Participant.Id(),
			"metrics": s.Metrics,
		}
	}
	return result
}

func marshalTournament(tournament *Tournament) map[string]any {
	result := map[string]any{
		"type":         "McMahon",
		"settings":     tournament.settings,
		"pairedRounds": tournament.pairedRounds,
		"participants": marshalParticipants(tournament.roster),
		"rounds":       marshalGameList(tournament.gameList),
		"standings":    marshalStandings(tournament.Standings(tournament.pairedRounds)),
	}
	return result
}

func (t *Tournament) MarshalJSON() ([]byte, error) {
	anymap := marshalTournament(t)
	return json.Marshal(anymap)
}
