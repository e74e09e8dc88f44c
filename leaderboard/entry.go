/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package leaderboard persists per-model race results and aggregates them
// into a ranked board. The race engine itself persists nothing; everything
// here is caller-side.
package leaderboard

import (
	"math"
	"time"

	"github.com/mikeb26/modelrace/internal"
	"github.com/mikeb26/modelrace/race"
)

// Entry is one model's result from one race as stored in the results file.
// Completed is kept as a string in storage; older file revisions used
// several timestamp formats, so it is parsed leniently on read.
type Entry struct {
	RaceID     string  `json:"raceId"`
	ModelID    string  `json:"modelId"`
	Model      string  `json:"model"`
	Score      float64 `json:"score"`
	Won        bool    `json:"won"`
	Failures   int     `json:"failures"`
	Eliminated bool    `json:"eliminated,omitempty"`
	Completed  string  `json:"completed"`
}

// CompletedTime parses the entry's completion timestamp leniently.
func (e *Entry) CompletedTime() (time.Time, error) {
	return internal.ParseDateOrZero(e.Completed)
}

// Valid reports whether the entry is structurally usable: it must name a
// race and a model, carry a finite score, and have a parseable timestamp.
func (e *Entry) Valid() bool {
	if e.RaceID == "" || e.ModelID == "" {
		return false
	}
	if math.IsNaN(e.Score) || math.IsInf(e.Score, 0) {
		return false
	}
	if _, err := e.CompletedTime(); err != nil {
		return false
	}
	return true
}

// EntriesFromResult flattens a race result into one entry per model. The
// first-ranked model is marked as the winner unless the race produced no
// rounds.
func EntriesFromResult(res *race.Result) []Entry {
	completed := res.Started.Add(res.Elapsed).Format(time.RFC3339)

	entries := make([]Entry, 0, len(res.Standings))
	for idx, st := range res.Standings {
		entries = append(entries, Entry{
			RaceID:     res.RaceID,
			ModelID:    string(st.Model.ID),
			Model:      st.Model.DisplayName,
			Score:      st.Score,
			Won:        idx == 0 && len(res.Rounds) > 0,
			Failures:   st.Failures,
			Eliminated: st.Eliminated,
			Completed:  completed,
		})
	}

	return entries
}
