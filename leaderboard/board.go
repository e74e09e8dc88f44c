/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package leaderboard

import (
	"fmt"
	"sort"
	"strings"
)

// Row is one model's aggregate standing across every race it has entered.
type Row struct {
	ModelID  string  `json:"modelId"`
	Model    string  `json:"model"`
	Races    int     `json:"races"`
	Wins     int     `json:"wins"`
	Failures int     `json:"failures"`
	Points   float64 `json:"points"`
}

// Build aggregates entries into ranked rows: total points descending, then
// wins descending, then fewer failures, then model id for a stable total
// order.
func Build(entries []Entry) []Row {
	byModel := make(map[string]*Row)
	for _, e := range entries {
		r, ok := byModel[e.ModelID]
		if !ok {
			r = &Row{ModelID: e.ModelID, Model: e.Model}
			byModel[e.ModelID] = r
		}
		if r.Model == "" {
			r.Model = e.Model
		}
		r.Races++
		r.Points += e.Score
		r.Failures += e.Failures
		if e.Won {
			r.Wins++
		}
	}

	rows := make([]Row, 0, len(byModel))
	for _, r := range byModel {
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		if rows[i].Wins != rows[j].Wins {
			return rows[i].Wins > rows[j].Wins
		}
		if rows[i].Failures != rows[j].Failures {
			return rows[i].Failures < rows[j].Failures
		}
		return rows[i].ModelID < rows[j].ModelID
	})

	return rows
}

// BuildBoardOutput formats rows into an aligned text table.
func BuildBoardOutput(rows []Row) string {
	if len(rows) == 0 {
		return "No leaderboard entries yet"
	}

	type outRow struct{ place, model, points, races, wins string }
	var outRows []outRow
	for idx, r := range rows {
		name := r.Model
		if name == "" {
			name = r.ModelID
		}
		outRows = append(outRows, outRow{
			place:  fmt.Sprintf("%v.", idx+1),
			model:  name,
			points: fmt.Sprintf("%.1f", r.Points),
			races:  fmt.Sprintf("%v", r.Races),
			wins:   fmt.Sprintf("%v", r.Wins),
		})
	}

	// Compute column widths
	maxP, maxM, maxPt := len("Place"), len("Model"), len("Points")
	maxR, maxW := len("Races"), len("Wins")
	for _, r := range outRows {
		if l := len(r.place); l > maxP {
			maxP = l
		}
		if l := len(r.model); l > maxM {
			maxM = l
		}
		if l := len(r.points); l > maxPt {
			maxPt = l
		}
		if l := len(r.races); l > maxR {
			maxR = l
		}
		if l := len(r.wins); l > maxW {
			maxW = l
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %-*s\n", maxP,
		"Place", maxM, "Model", maxPt, "Points", maxR, "Races", maxW, "Wins"))
	for _, r := range outRows {
		sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %-*s\n", maxP,
			r.place, maxM, r.model, maxPt, r.points, maxR, r.races, maxW,
			r.wins))
	}

	return sb.String()
}
