// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package scenario loads YAML election scenarios and evaluates them.

A scenario describes one electorate and what to ask it:

	label: Board seat
	candidates:
	  - {id: A, name: Alpha}
	  - {id: B, name: Bravo}
	ballots:
	  - [A, B]                                  # one ballot
	  - {count: 3, ranking: [B, A], voter: bob} # three identical ballots
	profiles:
	  - {id: bob, E: 5, P: 20, D: 6, A: 4, S: 50}
	bounds:
	  min: {E: 0, P: 0, D: 0, A: 0, S: 0}
	  max: {E: 10, P: 100, D: 10, A: 10, S: 100}
	coefficients:
	  balanced: {wE: 0.3, wP: 0.2, wD: 0.3, wA: 0.1, wS: 0.1}
	  stake:    {wS: 1}
	yes: [bob]
	no: []
	threshold: 0.5   # default 0.5
	weighted: false  # weigh ranked ballots by their voter
	election_coefficients: stake

Group counts may add up to at most MaxBallots, and threshold must lie in
[0, 1].

# Evaluation

	s, err := scenario.Load("board.yaml")
	out, err := scenario.Run(ctx, s)

Run tallies the ranked-choice election once (weighted by the
election_coefficients set, or the first set by name, when weighted is true)
and the referendum once per coefficient set. Evaluations run concurrently
on an errgroup; referendum outcomes come back sorted by scheme name so
output is deterministic.
*/
package scenario
