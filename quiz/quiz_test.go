/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package quiz

import (
	"testing"

	"github.com/mikeb26/modelrace/race"
)

func TestAnswerMatches(t *testing.T) {
	cases := []struct {
		name     string
		response string
		answer   string
		want     bool
	}{
		{"exact", "canberra", "canberra", true},
		{"case and whitespace", "  Canberra \n", "canberra", true},
		{"trailing punctuation", "Canberra.", "canberra", true},
		{"contained in sentence", "The capital is Canberra", "canberra", true},
		{"wrong answer", "sydney", "canberra", false},
		{"empty response", "", "canberra", false},
		{"numeric", "8", "8", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := answerMatches(c.response, c.answer); got != c.want {
				t.Errorf("answerMatches(%q, %q) = %v; want %v", c.response,
					c.answer, got, c.want)
			}
		})
	}
}

func TestBuildRounds(t *testing.T) {
	rounds := BuildRounds(5, false)
	if len(rounds) != 5 {
		t.Fatalf("expected 5 rounds, got %v", len(rounds))
	}
	for i, r := range rounds {
		if r.Prompt == "" {
			t.Errorf("round %v has empty prompt", i)
		}
		if r.Score == nil {
			t.Errorf("round %v has no scoring capability", i)
		}
	}

	// more rounds than questions wraps around rather than failing
	rounds = BuildRounds(len(questions)+3, false)
	if len(rounds) != len(questions)+3 {
		t.Errorf("expected %v rounds, got %v", len(questions)+3, len(rounds))
	}

	if got := len(BuildRounds(0, false)); got != 1 {
		t.Errorf("expected count to clamp to 1 round, got %v", got)
	}
}

func TestScorer(t *testing.T) {
	score := scorer("canberra", false)
	outcomes := map[race.ModelID]race.Outcome{
		"right":   {Status: race.StatusSuccess, Response: "Canberra"},
		"wrong":   {Status: race.StatusSuccess, Response: "Sydney"},
		"broken":  {Status: race.StatusFailure, Cause: "boom"},
		"sleeper": {Status: race.StatusTimeout},
	}

	deltas := score("prompt", outcomes)
	if deltas["right"].Points != 1 {
		t.Errorf("right: %+v; want 1 point", deltas["right"])
	}
	for _, id := range []race.ModelID{"wrong", "broken", "sleeper"} {
		if d := deltas[id]; d.Points != 0 || d.Eliminate {
			t.Errorf("%v: %+v; want zero delta", id, d)
		}
	}

	// strict mode eliminates broken models but never slow or wrong ones
	deltas = scorer("canberra", true)("prompt", outcomes)
	if !deltas["broken"].Eliminate {
		t.Error("strict: expected broken model eliminated")
	}
	if deltas["wrong"].Eliminate || deltas["sleeper"].Eliminate {
		t.Error("strict: wrong/slow models must not be eliminated")
	}
}
