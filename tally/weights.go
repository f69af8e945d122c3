// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import "github.com/danielhkuo/quickly-tally/models"

// Weights maps voter ID to composite weight. Sums over it depend only on the
// IDs asked for, never on map iteration order.
type Weights map[string]float64

// Of returns the weight for a voter, 0 for unknown voters
func (w Weights) Of(voterID string) float64 {
	return w[voterID]
}

// Sum adds the weights of the given voters in slice order.
// Unknown IDs contribute 0, and an ID listed twice is counted twice.
func (w Weights) Sum(voterIDs []string) float64 {
	total := 0.0
	for _, id := range voterIDs {
		total += w[id]
	}
	return total
}

// Normalize min-max scales x. A degenerate or inverted range (max <= min)
// yields 0. Values outside [min, max] are not clamped.
func Normalize(x, min, max float64) float64 {
	if max > min {
		return (x - min) / (max - min)
	}
	return 0
}

// CompositeWeight combines one profile's normalized attributes
func CompositeWeight(p models.VoterProfile, coeffs models.WeightCoefficients, bounds models.Bounds) float64 {
	e := Normalize(p.E, bounds.Min.E, bounds.Max.E)
	pa := Normalize(p.P, bounds.Min.P, bounds.Max.P)
	d := Normalize(p.D, bounds.Min.D, bounds.Max.D)
	a := Normalize(p.A, bounds.Min.A, bounds.Max.A)
	s := Normalize(p.S, bounds.Min.S, bounds.Max.S)

	return coeffs.WE*e +
		coeffs.WP*pa +
		coeffs.WD*d +
		coeffs.WA*a +
		coeffs.WS*s
}

// CalculateWeights computes each voter's composite weight.
// If two profiles share an ID, the later one wins.
func CalculateWeights(profiles []models.VoterProfile, coeffs models.WeightCoefficients, bounds models.Bounds) Weights {
	weights := make(Weights, len(profiles))
	for _, p := range profiles {
		weights[p.ID] = CompositeWeight(p, coeffs, bounds)
	}
	return weights
}
