// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scenario

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/danielhkuo/quickly-tally/models"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestLoad_Board(t *testing.T) {
	s, err := Load("testdata/board.yaml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if s.Label != "Board seat" {
		t.Errorf("Expected label 'Board seat', got %q", s.Label)
	}
	if len(s.Candidates) != 3 || s.Candidates[2].Name != "Charlie" {
		t.Errorf("Unexpected candidates: %+v", s.Candidates)
	}
	if got := len(s.Rankings()); got != 5 {
		t.Errorf("Expected 5 ballots, got %d", got)
	}
	if s.Profiles[0].Name != "Alice" || s.Profiles[0].S != 100 {
		t.Errorf("Unexpected first profile: %+v", s.Profiles[0])
	}
	if names := s.SchemeNames(); strings.Join(names, ",") != "balanced,stake" {
		t.Errorf("Expected sorted schemes [balanced stake], got %v", names)
	}
	if s.ReferendumThreshold() != 0.5 {
		t.Errorf("Expected threshold 0.5, got %v", s.ReferendumThreshold())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("testdata/does-not-exist.yaml"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestParse_BallotGroups(t *testing.T) {
	doc := `
candidates: [{id: a, name: A}, {id: b, name: B}]
ballots:
  - [a, b]
  - {count: 3, ranking: [b], voter: v1}
  - {ranking: [a], voter: v2}
`
	s, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	ballots := s.VoterBallots()
	if len(ballots) != 5 {
		t.Fatalf("Expected 5 expanded ballots, got %d", len(ballots))
	}

	wantVoters := []string{"", "v1", "v1", "v1", "v2"}
	wantFirst := []string{"a", "b", "b", "b", "a"}
	for i, b := range ballots {
		if b.VoterID != wantVoters[i] {
			t.Errorf("Ballot %d: voter %q, expected %q", i, b.VoterID, wantVoters[i])
		}
		if b.Ranking[0] != wantFirst[i] {
			t.Errorf("Ballot %d: first choice %q, expected %q", i, b.Ranking[0], wantFirst[i])
		}
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{"empty document", "", ErrNoElections},
		{"nothing to evaluate", "label: nothing\n", ErrNoElections},
		{
			"referendum without coefficients",
			"yes: [a]\nno: [b]\n",
			ErrNoCoefficients,
		},
		{
			"weighted election without coefficients",
			"weighted: true\ncandidates: [{id: a, name: A}]\n",
			ErrNoCoefficients,
		},
		{
			"unknown election coefficients",
			"weighted: true\nelection_coefficients: nope\ncandidates: [{id: a, name: A}]\ncoefficients: {flat: {wS: 1}}\n",
			ErrUnknownCoefficientSet,
		},
		{
			"negative group count",
			"candidates: [{id: a, name: A}]\nballots: [{count: -2, ranking: [a]}]\n",
			ErrInvalidGroup,
		},
		{
			"huge group count",
			"candidates: [{id: A, name: A}, {id: B, name: B}]\nballots: [{count: 4000000000000, ranking: [A, B]}]\n",
			ErrInvalidGroup,
		},
		{
			"group counts summing past the cap",
			"candidates: [{id: a, name: A}]\nballots: [{count: 60000, ranking: [a]}, {count: 40001, ranking: [a]}]\n",
			ErrInvalidGroup,
		},
		{
			"threshold above one",
			"yes: [a]\nthreshold: 1.5\ncoefficients: {flat: {wS: 1}}\n",
			ErrInvalidThreshold,
		},
		{
			"negative threshold",
			"yes: [a]\nthreshold: -0.1\ncoefficients: {flat: {wS: 1}}\n",
			ErrInvalidThreshold,
		},
		{
			"nan threshold",
			"yes: [a]\nthreshold: .nan\ncoefficients: {flat: {wS: 1}}\n",
			ErrInvalidThreshold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	doc := "candidates: [{id: a, name: A}]\nthreshhold: 0.6\n"
	if _, err := Parse(strings.NewReader(doc)); err == nil {
		t.Error("Expected error for misspelled field")
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	if _, err := Parse(strings.NewReader("candidates: [unclosed\n")); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

func TestParse_BallotCountAtCap(t *testing.T) {
	doc := "candidates: [{id: a, name: A}]\nballots: [{count: 60000, ranking: [a]}, {count: 40000, ranking: [a]}]\n"
	s, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if n := len(s.Rankings()); n != MaxBallots {
		t.Errorf("Expected %d ballots, got %d", MaxBallots, n)
	}
}

func TestRun_RejectsOversizedScenario(t *testing.T) {
	s := &Scenario{
		Candidates: []models.Candidate{{ID: "a", Name: "A"}},
		Ballots:    []BallotGroup{{Count: MaxBallots + 1, Ranking: models.Ballot{"a"}}},
	}
	if _, err := Run(context.Background(), s); !errors.Is(err, ErrInvalidGroup) {
		t.Errorf("Run() error = %v, want ErrInvalidGroup", err)
	}
}

func TestReferendumThreshold_Explicit(t *testing.T) {
	doc := "yes: [a]\nthreshold: 0\ncoefficients: {flat: {wS: 1}}\n"
	s, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if s.ReferendumThreshold() != 0 {
		t.Errorf("Expected explicit zero threshold to be kept, got %v", s.ReferendumThreshold())
	}
}

func TestRun_Board(t *testing.T) {
	s, err := Load("testdata/board.yaml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	out, err := Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if out.Election == nil {
		t.Fatal("Expected election outcome")
	}
	if out.Election.Weighted {
		t.Error("Expected unweighted election")
	}
	res := out.Election.Results
	if res.Winner == nil || res.Winner.ID != "A" {
		t.Fatalf("Expected winner A, got %+v", res.Winner)
	}
	if len(res.RoundDetails) != 2 || res.RoundDetails[0].Eliminated != "B" {
		t.Errorf("Expected B eliminated in round 1 of 2, got %+v", res.RoundDetails)
	}

	if len(out.Referendums) != 2 {
		t.Fatalf("Expected one referendum per scheme, got %d", len(out.Referendums))
	}

	balanced, stake := out.Referendums[0], out.Referendums[1]
	if balanced.Scheme != "balanced" || stake.Scheme != "stake" {
		t.Errorf("Expected schemes in name order, got %q, %q", balanced.Scheme, stake.Scheme)
	}
	if !approxEqual(balanced.Result.TotalYes, 1.565) || !approxEqual(balanced.Result.TotalNo, 0.46) {
		t.Errorf("Unexpected balanced totals: %+v", balanced.Result)
	}
	// stake only: alice 1.0 + carol 0.75 vs bob 0.5
	if !approxEqual(stake.Result.TotalYes, 1.75) || !approxEqual(stake.Result.TotalNo, 0.5) {
		t.Errorf("Unexpected stake totals: %+v", stake.Result)
	}
	if !balanced.Result.Passed || !stake.Result.Passed {
		t.Error("Expected the referendum to pass under both schemes")
	}
	if stake.Threshold != 0.5 {
		t.Errorf("Expected threshold 0.5, got %v", stake.Threshold)
	}
}

func TestRun_WeightedElection(t *testing.T) {
	s, err := Load("testdata/weighted.yaml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	out, err := Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if out.Referendums != nil {
		t.Errorf("Expected no referendums, got %+v", out.Referendums)
	}
	el := out.Election
	if el == nil || !el.Weighted || el.Scheme != "stake" {
		t.Fatalf("Unexpected election outcome: %+v", el)
	}

	// alice weighs 1.0 against bob's two ballots at 0.2 each
	res := el.Results
	if res.Winner == nil || res.Winner.ID != "x" {
		t.Fatalf("Expected weighted winner x, got %+v", res.Winner)
	}
	if len(res.RoundDetails) != 1 {
		t.Errorf("Expected a first-round majority, got %d rounds", len(res.RoundDetails))
	}
	if !approxEqual(res.RoundDetails[0].Tallies["y"], 0.4) {
		t.Errorf("Expected y tally 0.4, got %v", res.RoundDetails[0].Tallies["y"])
	}
}

func TestRun_WeightedDefaultsToFirstScheme(t *testing.T) {
	s, err := Load("testdata/weighted.yaml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	s.ElectionCoefficients = ""

	out, err := Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// expertise weighs alice 0.2 and each of bob's ballots 0.8
	if out.Election.Scheme != "expertise" {
		t.Errorf("Expected scheme expertise, got %q", out.Election.Scheme)
	}
	if w := out.Election.Results.Winner; w == nil || w.ID != "y" {
		t.Errorf("Expected winner y under expertise weights, got %+v", w)
	}
}

func TestRun_CanceledContext(t *testing.T) {
	s, err := Load("testdata/board.yaml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Run(ctx, s); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRun_InvalidScenario(t *testing.T) {
	if _, err := Run(context.Background(), &Scenario{}); !errors.Is(err, ErrNoElections) {
		t.Errorf("Run() error = %v, want ErrNoElections", err)
	}
}
