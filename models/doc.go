// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain, request, and response types shared by the
tally engine, the HTTP API, and the report renderers.

# Domain Types

Election inputs:

  - Candidate: id and display name
  - Ballot: candidate IDs in preference order
  - VoterBallot: a ranking tagged with the voter who cast it
  - WeightedBallot: a ranking counted with a fractional weight
  - VoterProfile: raw E, P, D, A, S attribute scores
  - WeightCoefficients: wE, wP, wD, wA, wS
  - Bounds: min/max profiles used for normalization

Election outputs:

  - RoundDetail: per-round tallies, continuing and exhausted weight, and
    the eliminated candidate (if any)
  - Results: winner (nil when nobody wins) and the round history
  - ReferendumResult: passed, total_yes, total_no, yes_share

# Request Types

  - WeightsRequest: profiles, coefficients, bounds
  - RankedChoiceRequest: label, candidates, ballots
  - WeightedRankedChoiceRequest: adds voter-tagged ballots and weighting inputs
  - ReferendumRequest: profiles, yes/no voter IDs, coefficients, threshold, bounds

# Response Types

  - WeightsResponse: weights
  - RankedChoiceResponse: run_id, admin_key, inputs_hash, results
  - ReferendumResponse: run_id, admin_key, inputs_hash, result
  - Run, RunSummary, RunListResponse: stored runs
  - ErrorResponse: error, message

# Constants

Run kinds:

	KindRankedChoice         = "ranked_choice"
	KindWeightedRankedChoice = "weighted_ranked_choice"
	KindReferendum           = "referendum"
*/
package models
