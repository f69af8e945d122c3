// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"sort"

	"github.com/danielhkuo/quickly-tally/models"
)

// phase is the state of one ranked-choice count
type phase int

const (
	phaseCounting phase = iota
	phaseEliminating
	phaseDecided
)

func (p phase) String() string {
	switch p {
	case phaseCounting:
		return "counting"
	case phaseEliminating:
		return "eliminating"
	case phaseDecided:
		return "decided"
	default:
		return "unknown"
	}
}

// cursorBallot is a ballot reduced to its valid preferences, with a cursor
// on the current one. The cursor only moves forward since candidates are
// never reinstated.
type cursorBallot struct {
	prefs  []string
	weight float64
	next   int
}

// runoff holds the working state of a single election. It is built per call
// and never shared, so concurrent elections need no locking.
type runoff struct {
	byID    map[string]models.Candidate
	order   []string // all candidate IDs, ascending
	active  map[string]bool
	ballots []cursorBallot
	state   phase
}

// RunElection runs an instant-runoff count where every ballot is worth one vote.
func RunElection(candidates []models.Candidate, ballots []models.Ballot) models.Results {
	weighted := make([]models.WeightedBallot, len(ballots))
	for i, b := range ballots {
		weighted[i] = models.WeightedBallot{Ranking: b, Weight: 1}
	}
	return RunWeightedElection(candidates, weighted)
}

// RunWeightedElection runs an instant-runoff count where each ballot
// contributes its weight to its current preference.
//
// Each round tallies the first active preference of every ballot. A candidate
// holding more than half of the continuing weight wins. Otherwise the
// candidate with the lowest tally is eliminated (ties go to the smallest ID)
// and its ballots move on to their next active preference. A round with no
// continuing weight ends the count without a winner.
func RunWeightedElection(candidates []models.Candidate, ballots []models.WeightedBallot) models.Results {
	r := newRunoff(candidates, ballots)
	return r.run()
}

func newRunoff(candidates []models.Candidate, ballots []models.WeightedBallot) *runoff {
	r := &runoff{
		byID:   make(map[string]models.Candidate, len(candidates)),
		active: make(map[string]bool, len(candidates)),
	}

	for _, c := range candidates {
		if c.ID == "" {
			continue
		}
		if _, dup := r.byID[c.ID]; dup {
			continue
		}
		r.byID[c.ID] = c
		r.active[c.ID] = true
		r.order = append(r.order, c.ID)
	}
	sort.Strings(r.order)

	r.ballots = make([]cursorBallot, len(ballots))
	for i, b := range ballots {
		r.ballots[i] = cursorBallot{
			prefs:  r.validPreferences(b.Ranking),
			weight: b.Weight,
		}
	}

	return r
}

// validPreferences drops unknown IDs and repeats of an earlier preference
func (r *runoff) validPreferences(ranking models.Ballot) []string {
	prefs := make([]string, 0, len(ranking))
	seen := make(map[string]bool, len(ranking))
	for _, id := range ranking {
		if _, known := r.byID[id]; !known || seen[id] {
			continue
		}
		seen[id] = true
		prefs = append(prefs, id)
	}
	return prefs
}

func (r *runoff) run() models.Results {
	results := models.Results{RoundDetails: []models.RoundDetail{}}
	if len(r.order) == 0 {
		r.state = phaseDecided
		return results
	}

	r.state = phaseCounting
	for round := 1; r.state != phaseDecided; round++ {
		detail := r.count(round)

		if winner, decided := r.decide(detail); decided {
			r.state = phaseDecided
			results.Winner = winner
			results.RoundDetails = append(results.RoundDetails, detail)
			break
		}

		r.state = phaseEliminating
		detail.Eliminated = r.eliminate(detail.Tallies)
		results.RoundDetails = append(results.RoundDetails, detail)
		r.state = phaseCounting
	}

	return results
}

// current advances the ballot past inactive candidates and returns its
// preference, or false if the ballot is exhausted
func (r *runoff) current(b *cursorBallot) (string, bool) {
	for b.next < len(b.prefs) && !r.active[b.prefs[b.next]] {
		b.next++
	}
	if b.next >= len(b.prefs) {
		return "", false
	}
	return b.prefs[b.next], true
}

func (r *runoff) count(round int) models.RoundDetail {
	tallies := make(map[string]float64, len(r.active))
	for id := range r.active {
		tallies[id] = 0
	}

	detail := models.RoundDetail{Round: round}
	for i := range r.ballots {
		b := &r.ballots[i]
		id, ok := r.current(b)
		if !ok {
			detail.Exhausted += b.weight
			continue
		}
		tallies[id] += b.weight
		detail.Continuing += b.weight
	}

	detail.Tallies = tallies
	return detail
}

// decide reports whether the round ends the election and who won
func (r *runoff) decide(detail models.RoundDetail) (*models.Candidate, bool) {
	if detail.Continuing <= 0 {
		return nil, true
	}

	leader, best := "", 0.0
	for _, id := range r.order {
		if !r.active[id] {
			continue
		}
		if v := detail.Tallies[id]; leader == "" || v > best {
			leader, best = id, v
		}
	}

	if best > detail.Continuing/2 || len(r.active) == 1 {
		winner := r.byID[leader]
		return &winner, true
	}
	return nil, false
}

// eliminate removes the active candidate with the lowest tally. Scanning in
// ascending ID order with a strict comparison makes the smallest ID lose ties.
func (r *runoff) eliminate(tallies map[string]float64) string {
	loser, lowest := "", 0.0
	for _, id := range r.order {
		if !r.active[id] {
			continue
		}
		if v := tallies[id]; loser == "" || v < lowest {
			loser, lowest = id, v
		}
	}

	delete(r.active, loser)
	return loser
}
