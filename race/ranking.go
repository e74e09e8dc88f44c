/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package race

import (
	"sort"
)

// buildStandings produces the final ranking: descending cumulative score,
// ties broken by fewer total failures, then by original Config.Models order.
// The sort is stable and the input slice is built in config order, so the
// last tiebreak falls out of stability.
func buildStandings(models []ModelConfig, states map[ModelID]*runtimeState) []ModelStanding {
	standings := make([]ModelStanding, 0, len(models))
	for _, m := range models {
		st := states[m.ID]
		standings = append(standings, ModelStanding{
			Model:      m,
			Score:      st.score,
			Failures:   st.failures,
			Eliminated: st.eliminated,
			Elapsed:    st.elapsed,
			Rounds:     st.rounds,
		})
	}

	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Score != standings[j].Score {
			return standings[i].Score > standings[j].Score
		}
		return standings[i].Failures < standings[j].Failures
	})

	return standings
}
