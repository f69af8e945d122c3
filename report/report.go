// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-tally/models"
	"github.com/danielhkuo/quickly-tally/scenario"
)

const (
	weightFormat  = "#,###.###"
	percentFormat = "#,###.#"
)

func weight(v float64) string {
	return humanize.FormatFloat(weightFormat, v)
}

func percent(part, whole float64) string {
	if whole <= 0 {
		return "-"
	}
	return humanize.FormatFloat(percentFormat, 100*part/whole) + "%"
}

// names resolves candidate IDs to "Name (ID)" labels
type names map[string]string

func newNames(candidates []models.Candidate) names {
	n := make(names, len(candidates))
	for _, c := range candidates {
		if _, seen := n[c.ID]; !seen {
			n[c.ID] = c.Name
		}
	}
	return n
}

func (n names) label(id string) string {
	if name, ok := n[id]; ok && name != "" && name != id {
		return fmt.Sprintf("%s (%s)", name, id)
	}
	return id
}

// WriteResults renders a ranked-choice tally round by round
func WriteResults(w io.Writer, candidates []models.Candidate, res models.Results) error {
	bw := bufio.NewWriter(w)
	n := newNames(candidates)

	for _, rd := range res.RoundDetails {
		fmt.Fprintf(bw, "Round %d  continuing %s  exhausted %s\n",
			rd.Round, weight(rd.Continuing), weight(rd.Exhausted))

		ids := make([]string, 0, len(rd.Tallies))
		for id := range rd.Tallies {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool {
			ti, tj := rd.Tallies[ids[i]], rd.Tallies[ids[j]]
			if ti != tj {
				return ti > tj
			}
			return ids[i] < ids[j]
		})

		for _, id := range ids {
			fmt.Fprintf(bw, "  %-24s %10s  %7s\n",
				n.label(id), weight(rd.Tallies[id]), percent(rd.Tallies[id], rd.Continuing))
		}
		if rd.Eliminated != "" {
			fmt.Fprintf(bw, "  eliminated: %s\n", n.label(rd.Eliminated))
		}
	}

	if res.Winner == nil {
		fmt.Fprintln(bw, "No winner")
	} else {
		fmt.Fprintf(bw, "Winner: %s in the %s round\n",
			n.label(res.Winner.ID), humanize.Ordinal(len(res.RoundDetails)))
	}
	return bw.Flush()
}

// WriteReferendum renders a weighted yes/no outcome
func WriteReferendum(w io.Writer, res models.ReferendumResult, threshold float64) error {
	bw := bufio.NewWriter(w)
	total := res.TotalYes + res.TotalNo

	verdict := "FAILED"
	if res.Passed {
		verdict = "PASSED"
	}
	fmt.Fprintf(bw, "%s  (needs more than %s yes)\n", verdict, humanize.FormatFloat(percentFormat, 100*threshold)+"%")
	fmt.Fprintf(bw, "  yes %10s  %7s\n", weight(res.TotalYes), percent(res.TotalYes, total))
	fmt.Fprintf(bw, "  no  %10s  %7s\n", weight(res.TotalNo), percent(res.TotalNo, total))
	return bw.Flush()
}

// WriteWeights lists voter weights heaviest first
func WriteWeights(w io.Writer, weights map[string]float64) error {
	bw := bufio.NewWriter(w)

	ids := make([]string, 0, len(weights))
	for id := range weights {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if weights[ids[i]] != weights[ids[j]] {
			return weights[ids[i]] > weights[ids[j]]
		}
		return ids[i] < ids[j]
	})

	for _, id := range ids {
		fmt.Fprintf(bw, "  %-24s %10s\n", id, weight(weights[id]))
	}
	return bw.Flush()
}

// WriteOutcome renders everything a scenario computed
func WriteOutcome(w io.Writer, s *scenario.Scenario, out *scenario.Outcome) error {
	if out.Label != "" {
		if _, err := fmt.Fprintf(w, "== %s ==\n", out.Label); err != nil {
			return err
		}
	}

	if el := out.Election; el != nil {
		heading := "Ranked choice"
		if el.Weighted {
			heading = fmt.Sprintf("Weighted ranked choice (%s)", el.Scheme)
		}
		if _, err := fmt.Fprintf(w, "\n%s\n", heading); err != nil {
			return err
		}
		if err := WriteResults(w, s.Candidates, el.Results); err != nil {
			return err
		}
	}

	for _, ref := range out.Referendums {
		if _, err := fmt.Fprintf(w, "\nReferendum (%s)\n", ref.Scheme); err != nil {
			return err
		}
		if err := WriteWeights(w, ref.Weights); err != nil {
			return err
		}
		if err := WriteReferendum(w, ref.Result, ref.Threshold); err != nil {
			return err
		}
	}
	return nil
}
