// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scenario

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/quickly-tally/models"
	"github.com/danielhkuo/quickly-tally/tally"
)

// Outcome collects everything a scenario computed
type Outcome struct {
	Label       string              `json:"label,omitempty"`
	Election    *ElectionOutcome    `json:"election,omitempty"`
	Referendums []ReferendumOutcome `json:"referendums,omitempty"`
}

type ElectionOutcome struct {
	Weighted bool `json:"weighted"`
	// Scheme names the coefficient set of a weighted election
	Scheme  string             `json:"scheme,omitempty"`
	Weights map[string]float64 `json:"weights,omitempty"`
	Results models.Results     `json:"results"`
}

type ReferendumOutcome struct {
	Scheme    string                  `json:"scheme"`
	Threshold float64                 `json:"threshold"`
	Weights   map[string]float64      `json:"weights"`
	Result    models.ReferendumResult `json:"result"`
}

// Run evaluates the scenario's election and one referendum per coefficient
// set. The evaluations are independent and run concurrently; referendum
// outcomes are ordered by scheme name.
func Run(ctx context.Context, s *Scenario) (*Outcome, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	out := &Outcome{Label: s.Label}
	g, ctx := errgroup.WithContext(ctx)

	if s.HasElection() {
		out.Election = &ElectionOutcome{Weighted: s.Weighted}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return runElection(s, out.Election)
		})
	}

	if s.HasReferendum() {
		schemes := s.SchemeNames()
		out.Referendums = make([]ReferendumOutcome, len(schemes))
		threshold := s.ReferendumThreshold()

		for i, name := range schemes {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				coeffs := s.Coefficients[name]
				weights := tally.CalculateWeights(s.Profiles, coeffs, s.Bounds)
				out.Referendums[i] = ReferendumOutcome{
					Scheme:    name,
					Threshold: threshold,
					Weights:   weights,
					Result:    tally.DecideReferendum(weights.Sum(s.Yes), weights.Sum(s.No), threshold),
				}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Debug("scenario evaluated",
		"label", s.Label,
		"election", out.Election != nil,
		"referendums", len(out.Referendums),
	)
	return out, nil
}

func runElection(s *Scenario, dst *ElectionOutcome) error {
	if !s.Weighted {
		dst.Results = tally.RunElection(s.Candidates, s.Rankings())
		return nil
	}

	scheme, err := s.electionScheme()
	if err != nil {
		return err
	}
	weights := tally.CalculateWeights(s.Profiles, s.Coefficients[scheme], s.Bounds)

	dst.Scheme = scheme
	dst.Weights = weights
	dst.Results = tally.RunWeightedElection(s.Candidates, tally.WeighBallots(s.VoterBallots(), weights))
	return nil
}
