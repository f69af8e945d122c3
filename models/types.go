// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"time"
)

// Run kind constants
const (
	KindRankedChoice         = "ranked_choice"
	KindWeightedRankedChoice = "weighted_ranked_choice"
	KindReferendum           = "referendum"
)

// Domain types

type Candidate struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Ballot lists candidate IDs, most preferred first
type Ballot []string

// VoterBallot ties a ranking to the voter who cast it, so the ranking can be
// counted with that voter's composite weight
type VoterBallot struct {
	VoterID string `json:"voter_id" yaml:"voter"`
	Ranking Ballot `json:"ranking" yaml:"ranking"`
}

type WeightedBallot struct {
	Ranking Ballot  `json:"ranking"`
	Weight  float64 `json:"weight"`
}

// VoterProfile holds raw attribute scores: expertise, participation,
// decision quality, alignment and stake
type VoterProfile struct {
	ID   string  `json:"id" yaml:"id"`
	Name string  `json:"name,omitempty" yaml:"name,omitempty"` // display only
	E    float64 `json:"E" yaml:"E"`
	P    float64 `json:"P" yaml:"P"`
	D    float64 `json:"D" yaml:"D"`
	A    float64 `json:"A" yaml:"A"`
	S    float64 `json:"S" yaml:"S"`
}

type WeightCoefficients struct {
	WE float64 `json:"wE" yaml:"wE"`
	WP float64 `json:"wP" yaml:"wP"`
	WD float64 `json:"wD" yaml:"wD"`
	WA float64 `json:"wA" yaml:"wA"`
	WS float64 `json:"wS" yaml:"wS"`
}

// Bounds is the per-attribute normalization range. The profile IDs are ignored.
type Bounds struct {
	Min VoterProfile `json:"min" yaml:"min"`
	Max VoterProfile `json:"max" yaml:"max"`
}

// Result types

type RoundDetail struct {
	Round      int                `json:"round"`
	Tallies    map[string]float64 `json:"tallies"`
	Continuing float64            `json:"continuing"`
	Exhausted  float64            `json:"exhausted"`
	Eliminated string             `json:"eliminated,omitempty"` // empty when nobody was eliminated
}

type Results struct {
	Winner       *Candidate    `json:"winner"`
	RoundDetails []RoundDetail `json:"round_details"`
}

type ReferendumResult struct {
	Passed   bool    `json:"passed"`
	TotalYes float64 `json:"total_yes"`
	TotalNo  float64 `json:"total_no"`
	YesShare float64 `json:"yes_share"`
}

// Request types

type WeightsRequest struct {
	Profiles     []VoterProfile     `json:"profiles"`
	Coefficients WeightCoefficients `json:"coefficients"`
	Bounds       Bounds             `json:"bounds"`
}

type RankedChoiceRequest struct {
	Label      string      `json:"label,omitempty"`
	Candidates []Candidate `json:"candidates"`
	Ballots    []Ballot    `json:"ballots"`
}

type WeightedRankedChoiceRequest struct {
	Label        string             `json:"label,omitempty"`
	Candidates   []Candidate        `json:"candidates"`
	Ballots      []VoterBallot      `json:"ballots"`
	Profiles     []VoterProfile     `json:"profiles"`
	Coefficients WeightCoefficients `json:"coefficients"`
	Bounds       Bounds             `json:"bounds"`
}

type ReferendumRequest struct {
	Label        string             `json:"label,omitempty"`
	Profiles     []VoterProfile     `json:"profiles"`
	YesVoterIDs  []string           `json:"yes_voter_ids"`
	NoVoterIDs   []string           `json:"no_voter_ids"`
	Coefficients WeightCoefficients `json:"coefficients"`
	Threshold    float64            `json:"threshold"`
	Bounds       Bounds             `json:"bounds"`
}

// Response types

type WeightsResponse struct {
	Weights map[string]float64 `json:"weights"`
}

type RankedChoiceResponse struct {
	RunID      string             `json:"run_id"`
	AdminKey   string             `json:"admin_key"`
	InputsHash string             `json:"inputs_hash"`
	Results    Results            `json:"results"`
	Weights    map[string]float64 `json:"weights,omitempty"`
}

type ReferendumResponse struct {
	RunID      string           `json:"run_id"`
	AdminKey   string           `json:"admin_key"`
	InputsHash string           `json:"inputs_hash"`
	Result     ReferendumResult `json:"result"`
}

// Stored run types

// RunPayload is the JSON document persisted for every run
type RunPayload struct {
	Inputs  any `json:"inputs"`
	Outputs any `json:"outputs"`
}

type Run struct {
	ID         string          `json:"id"`
	Kind       string          `json:"kind"`
	Label      string          `json:"label"`
	InputsHash string          `json:"inputs_hash"`
	ComputedAt time.Time       `json:"computed_at"`
	Payload    json.RawMessage `json:"payload"`
}

type RunSummary struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Label      string    `json:"label"`
	InputsHash string    `json:"inputs_hash"`
	ComputedAt time.Time `json:"computed_at"`
}

type RunListResponse struct {
	Runs []RunSummary `json:"runs"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
