/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package race

import (
	"fmt"
	"strings"
)

// BuildStandingsOutput formats a race result's final standings into an
// aligned text table suitable for terminals and chat surfaces.
func BuildStandingsOutput(res *Result) string {
	if res == nil || len(res.Standings) == 0 {
		return "No standings available"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Standings after %v rounds (%v):\n\n",
		len(res.Rounds), res.State))

	type row struct{ place, model, score, fails, notes string }
	var rows []row
	priorScore := 0.0
	priorFails := -1
	for idx, st := range res.Standings {
		var place string
		if idx != 0 && st.Score == priorScore && st.Failures == priorFails {
			place = ""
		} else {
			place = fmt.Sprintf("%v.", idx+1)
			priorScore = st.Score
			priorFails = st.Failures
		}
		notes := ""
		if st.Eliminated {
			notes = "eliminated"
		}
		name := st.Model.DisplayName
		if name == "" {
			name = string(st.Model.ID)
		}
		rows = append(rows, row{
			place: place,
			model: name,
			score: fmt.Sprintf("%.1f", st.Score),
			fails: fmt.Sprintf("%v", st.Failures),
			notes: notes,
		})
	}

	// Compute column widths
	maxP, maxM, maxS, maxF := len("Place"), len("Model"), len("Score"),
		len("Fails")
	for _, r := range rows {
		if l := len(r.place); l > maxP {
			maxP = l
		}
		if l := len(r.model); l > maxM {
			maxM = l
		}
		if l := len(r.score); l > maxS {
			maxS = l
		}
		if l := len(r.fails); l > maxF {
			maxF = l
		}
	}

	sb.WriteString(fmt.Sprintf("%-*s  %-*s  %-*s  %-*s\n", maxP, "Place",
		maxM, "Model", maxS, "Score", maxF, "Fails"))
	for _, r := range rows {
		line := fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %s", maxP, r.place,
			maxM, r.model, maxS, r.score, maxF, r.fails, r.notes)
		sb.WriteString(strings.TrimRight(line, " "))
		sb.WriteString("\n")
	}

	return sb.String()
}
