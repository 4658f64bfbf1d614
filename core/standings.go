package core

import (
	"cmp"
	"slices"
)

type StandingMetrics struct {
	ScoreX2 int `json:"scoreX2"`
	SOSX2   int `json:"sosX2"`
	SOSOSX2 int `json:"sososX2"`
	SODOSX2 int `json:"sodosX2"`

	NumGames int `json:"numGames"`
	Wins     int `json:"wins"`
}

// A Standing is one row of the standings table
type Standing struct {
	// The place starting at 1. Tied participants share
	// the place and the following places are skipped.
	Place       int
	Participant *Participant
	Metrics     *StandingMetrics
}

// The metrics that rank the standings in order of precedence
var standingCriteria = []func(m *StandingMetrics) int{
	func(m *StandingMetrics) int { return m.ScoreX2 },
	func(m *StandingMetrics) int { return m.SOSX2 },
	func(m *StandingMetrics) int { return m.SOSOSX2 },
	func(m *StandingMetrics) int { return m.SODOSX2 },
}

// Standings ranks all participants after the given round by
// their score. Equal scores are broken by SOS, SOSOS and SODOS.
func (t *Tournament) Standings(round int) []*Standing {
	round = min(max(round, 0), t.settings.NumberOfRounds)

	metrics := t.createMetrics(round)

	participants := slices.Clone(t.roster)
	slices.SortFunc(participants, func(p1, p2 *Participant) int { return cmp.Compare(p1.Id(), p2.Id()) })

	ranks := breakTie(participants, metrics, standingCriteria)

	standings := make([]*Standing, 0, len(participants))
	for _, tie := range ranks {
		place := len(standings) + 1
		for _, p := range tie {
			standings = append(standings, &Standing{
				Place:       place,
				Participant: p,
				Metrics:     metrics[p],
			})
		}
	}

	return standings
}

func (t *Tournament) createMetrics(round int) map[*Participant]*StandingMetrics {
	metrics := make(map[*Participant]*StandingMetrics, len(t.roster))
	for _, p := range t.roster {
		games := t.GamesOf(p, round)
		m := &StandingMetrics{
			ScoreX2:  t.scoreX2(p, round),
			SOSX2:    t.SOSX2(p, round),
			SOSOSX2:  t.SOSOSX2(p, round),
			SODOSX2:  t.SODOSX2(p, round),
			NumGames: len(games),
		}
		for _, g := range games {
			if g.Won(p) {
				m.Wins += 1
			}
		}
		metrics[p] = m
	}
	return metrics
}

// Splits the tie by the first criterion and recursively breaks
// the emerging sub-ties by the remaining criteria.
//
// The returned list is descending in rank and each nested list is a rank
// of participants. More than one participant in a rank means the tie
// could not be broken.
func breakTie(
	tie []*Participant,
	metrics map[*Participant]*StandingMetrics,
	criteria []func(m *StandingMetrics) int,
) [][]*Participant {
	if len(tie) == 1 || len(criteria) == 0 {
		return [][]*Participant{tie}
	}

	sorted := sortByMetric(tie, metrics, criteria[0])

	broken := make([][]*Participant, 0, len(tie))
	for _, subTie := range sorted {
		broken = append(broken, breakTie(subTie, metrics, criteria[1:])...)
	}

	return broken
}

// Sorts the participants in descending buckets of one of the metrics returned by the getter
func sortByMetric(
	participants []*Participant,
	metrics map[*Participant]*StandingMetrics,
	getter func(m *StandingMetrics) int,
) [][]*Participant {
	buckets := make(map[int][]*Participant)
	for _, p := range participants {
		metric := getter(metrics[p])
		bucket, ok := buckets[metric]
		if !ok {
			bucket = make([]*Participant, 0, 3)
		}
		buckets[metric] = append(bucket, p)
	}

	sortedMetrics := make([]int, 0, len(buckets))
	for k := range buckets {
		sortedMetrics = append(sortedMetrics, k)
	}
	slices.SortFunc(sortedMetrics, func(a, b int) int { return cmp.Compare(b, a) })

	sortedParticipants := make([][]*Participant, 0, len(sortedMetrics))
	for _, v := range sortedMetrics {
		sortedParticipants = append(sortedParticipants, buckets[v])
	}

	return sortedParticipants
}
