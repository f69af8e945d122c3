// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import "github.com/danielhkuo/quickly-tally/models"

// WeighBallots attaches each voter's composite weight to their ranking.
// Ballots from voters without a profile carry weight 0.
func WeighBallots(ballots []models.VoterBallot, weights Weights) []models.WeightedBallot {
	weighted := make([]models.WeightedBallot, len(ballots))
	for i, b := range ballots {
		weighted[i] = models.WeightedBallot{
			Ranking: b.Ranking,
			Weight:  weights.Of(b.VoterID),
		}
	}
	return weighted
}
