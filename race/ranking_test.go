/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package race

import (
	"strings"
	"testing"
)

func TestBuildStandingsOrdering(t *testing.T) {
	models := testModels("first", "second", "third", "fourth")
	cases := []struct {
		name   string
		states map[ModelID]*runtimeState
		want   []ModelID
	}{
		{
			name: "score descending",
			states: map[ModelID]*runtimeState{
				"first":  {score: 1},
				"second": {score: 3},
				"third":  {score: 2},
				"fourth": {score: 0},
			},
			want: []ModelID{"second", "third", "first", "fourth"},
		},
		{
			name: "tie broken by fewer failures",
			states: map[ModelID]*runtimeState{
				"first":  {score: 2, failures: 3},
				"second": {score: 2, failures: 1},
				"third":  {score: 2, failures: 2},
				"fourth": {score: 5},
			},
			want: []ModelID{"fourth", "second", "third", "first"},
		},
		{
			name: "full tie falls back to config order",
			states: map[ModelID]*runtimeState{
				"first":  {score: 1, failures: 1},
				"second": {score: 1, failures: 1},
				"third":  {score: 1, failures: 1},
				"fourth": {score: 1, failures: 1},
			},
			want: []ModelID{"first", "second", "third", "fourth"},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			for id, st := range c.states {
				st.model = ModelConfig{ID: id}
			}
			standings := buildStandings(models, c.states)
			if len(standings) != len(c.want) {
				t.Fatalf("got %v standings; want %v", len(standings),
					len(c.want))
			}
			for i, id := range c.want {
				if standings[i].Model.ID != id {
					t.Errorf("standings[%v] = %v; want %v", i,
						standings[i].Model.ID, id)
				}
			}
		})
	}
}

func TestBuildStandingsOutput(t *testing.T) {
	res := &Result{
		RaceID: "race-out",
		State:  StateCompleted,
		Rounds: []RoundResult{{RoundNum: 1}},
		Standings: []ModelStanding{
			{Model: ModelConfig{ID: "a", DisplayName: "Model A"}, Score: 1},
			{Model: ModelConfig{ID: "b"}, Score: 0, Failures: 1,
				Eliminated: true},
		},
	}

	out := BuildStandingsOutput(res)
	if !strings.Contains(out, "Model A") {
		t.Errorf("output missing display name:\n%v", out)
	}
	if !strings.Contains(out, "1.") || !strings.Contains(out, "2.") {
		t.Errorf("output missing places:\n%v", out)
	}
	// models without a display name fall back to id
	if !strings.Contains(out, "b") {
		t.Errorf("output missing id fallback:\n%v", out)
	}
	if !strings.Contains(out, "eliminated") {
		t.Errorf("output missing elimination marker:\n%v", out)
	}

	if got := BuildStandingsOutput(nil); got != "No standings available" {
		t.Errorf("nil result output = %q", got)
	}
}
