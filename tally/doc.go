// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tally implements the election engines: composite voter weighting,
the weighted yes/no referendum, and the instant-runoff ranked-choice count.

Every function is pure. Inputs are never modified, no state survives a call,
and identical inputs give identical outputs, so elections over separate data
can run concurrently without coordination.

# Voter Weights

Each raw attribute is min-max normalized against Bounds and the five results
are combined linearly:

	W = wE*E + wP*P + wD*D + wA*A + wS*S

A range with max <= min normalizes to 0. Values outside the range are
extrapolated, not clamped.

	weights := tally.CalculateWeights(profiles, coeffs, bounds)

# Referendum

	res := tally.RunWeightedYesNoElection(profiles, yesIDs, noIDs, coeffs, 0.5, bounds)

The measure passes when totalYes / (totalYes + totalNo) > threshold. Equality
fails, and zero combined weight fails with zero totals.

# Ranked Choice

	res := tally.RunElection(candidates, ballots)

Rounds repeat until decided:

 1. Count the first active preference of every ballot. Unknown IDs and
    repeated IDs on a ballot are skipped; a ballot with no active preference
    is exhausted.
 2. A candidate with more than half of the continuing votes wins.
 3. If nothing is continuing the count ends with no winner.
 4. Otherwise the lowest candidate is eliminated, ties broken by the
    smallest candidate ID, and its ballots transfer to their next preference.

RunWeightedElection counts each ballot with a weight instead of one vote;
WeighBallots derives those weights from voter profiles.
*/
package tally
