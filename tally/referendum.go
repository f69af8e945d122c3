// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"math"

	"github.com/danielhkuo/quickly-tally/models"
)

// RunWeightedYesNoElection sums composite weights on each side and passes
// the measure when the yes share strictly exceeds threshold.
//
// The yes and no lists are summed independently; a voter may appear in both,
// either, or neither. When the combined weight is zero the measure fails and
// the zero totals are reported as they are.
func RunWeightedYesNoElection(
	profiles []models.VoterProfile,
	yesVoterIDs, noVoterIDs []string,
	coeffs models.WeightCoefficients,
	threshold float64,
	bounds models.Bounds,
) models.ReferendumResult {
	weights := CalculateWeights(profiles, coeffs, bounds)
	return DecideReferendum(weights.Sum(yesVoterIDs), weights.Sum(noVoterIDs), threshold)
}

// DecideReferendum applies the pass rule to precomputed totals
func DecideReferendum(totalYes, totalNo, threshold float64) models.ReferendumResult {
	result := models.ReferendumResult{
		TotalYes: totalYes,
		TotalNo:  totalNo,
	}

	total := totalYes + totalNo
	if total == 0 {
		return result
	}

	share := totalYes / total
	if math.IsNaN(share) || math.IsInf(share, 0) {
		return result
	}

	result.YesShare = share
	result.Passed = share > threshold
	return result
}
