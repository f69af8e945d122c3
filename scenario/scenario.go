// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/quickly-tally/models"
)

// DefaultThreshold applies when a scenario has referendum voters but no
// threshold
const DefaultThreshold = 0.5

// MaxBallots caps the expanded ballot count of one scenario. Group counts are
// multiplied out before tallying, so a short document could otherwise ask for
// any number of ballots.
const MaxBallots = 100_000

var (
	ErrNoElections           = errors.New("scenario has neither candidates nor referendum voters")
	ErrNoCoefficients        = errors.New("scenario needs at least one coefficient set")
	ErrUnknownCoefficientSet = errors.New("unknown coefficient set")
	ErrInvalidGroup          = errors.New("invalid ballot group")
	ErrInvalidThreshold      = errors.New("threshold must be between 0 and 1")
)

// Scenario is one YAML document describing an election, a referendum, or
// both, evaluated against the same electorate
type Scenario struct {
	Label      string                `yaml:"label"`
	Candidates []models.Candidate    `yaml:"candidates"`
	Ballots    []BallotGroup         `yaml:"ballots"`
	Profiles   []models.VoterProfile `yaml:"profiles"`
	Bounds     models.Bounds         `yaml:"bounds"`

	// Coefficients maps a scheme name to its coefficient set
	Coefficients map[string]models.WeightCoefficients `yaml:"coefficients"`

	Yes       []string `yaml:"yes"`
	No        []string `yaml:"no"`
	Threshold *float64 `yaml:"threshold"`

	Weighted             bool   `yaml:"weighted"`
	ElectionCoefficients string `yaml:"election_coefficients"`
}

// BallotGroup is either a bare ranking or {count, ranking, voter}
type BallotGroup struct {
	Count   int           `yaml:"count"`
	Ranking models.Ballot `yaml:"ranking"`
	Voter   string        `yaml:"voter"`
}

func (g *BallotGroup) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var ranking models.Ballot
		if err := value.Decode(&ranking); err != nil {
			return err
		}
		*g = BallotGroup{Count: 1, Ranking: ranking}
		return nil
	}

	type plain BallotGroup
	var raw plain
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Count == 0 {
		raw.Count = 1
	}
	if raw.Count < 0 {
		return fmt.Errorf("%w: count %d at line %d", ErrInvalidGroup, raw.Count, value.Line)
	}
	*g = BallotGroup(raw)
	return nil
}

// Load reads and parses a scenario file
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes a single scenario document. Unknown keys are rejected so a
// misspelled field does not silently drop data.
func Parse(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoElections
		}
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the cross-field rules that YAML decoding cannot
func (s *Scenario) Validate() error {
	if !s.HasElection() && !s.HasReferendum() {
		return ErrNoElections
	}
	if s.HasReferendum() && len(s.Coefficients) == 0 {
		return fmt.Errorf("referendum: %w", ErrNoCoefficients)
	}
	if t := s.Threshold; t != nil && !(*t >= 0 && *t <= 1) {
		return fmt.Errorf("%w: got %v", ErrInvalidThreshold, *t)
	}

	total := 0
	for i, g := range s.Ballots {
		if g.Count < 0 {
			return fmt.Errorf("%w: group %d has count %d", ErrInvalidGroup, i+1, g.Count)
		}
		if g.Count > MaxBallots-total {
			return fmt.Errorf("%w: group %d takes the scenario past %d ballots", ErrInvalidGroup, i+1, MaxBallots)
		}
		total += g.Count
	}
	if s.HasElection() && s.Weighted {
		if _, err := s.electionScheme(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scenario) HasElection() bool {
	return len(s.Candidates) > 0
}

func (s *Scenario) HasReferendum() bool {
	return len(s.Yes) > 0 || len(s.No) > 0
}

// ReferendumThreshold returns the configured threshold or DefaultThreshold
func (s *Scenario) ReferendumThreshold() float64 {
	if s.Threshold == nil {
		return DefaultThreshold
	}
	return *s.Threshold
}

// SchemeNames returns the coefficient set names in sorted order
func (s *Scenario) SchemeNames() []string {
	names := make([]string, 0, len(s.Coefficients))
	for name := range s.Coefficients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Rankings expands ballot groups into one ranking per ballot, in file order
func (s *Scenario) Rankings() []models.Ballot {
	var out []models.Ballot
	for _, g := range s.Ballots {
		for i := 0; i < g.Count; i++ {
			out = append(out, g.Ranking)
		}
	}
	return out
}

// VoterBallots expands ballot groups keeping the voter of each group
func (s *Scenario) VoterBallots() []models.VoterBallot {
	var out []models.VoterBallot
	for _, g := range s.Ballots {
		for i := 0; i < g.Count; i++ {
			out = append(out, models.VoterBallot{VoterID: g.Voter, Ranking: g.Ranking})
		}
	}
	return out
}

// electionScheme resolves the coefficient set used by a weighted election:
// the named one, or the first by name when unset
func (s *Scenario) electionScheme() (string, error) {
	if len(s.Coefficients) == 0 {
		return "", fmt.Errorf("weighted election: %w", ErrNoCoefficients)
	}
	if s.ElectionCoefficients == "" {
		return s.SchemeNames()[0], nil
	}
	if _, ok := s.Coefficients[s.ElectionCoefficients]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCoefficientSet, s.ElectionCoefficients)
	}
	return s.ElectionCoefficients, nil
}
