/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package race

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeInvoker is a test double that answers per-model via respond and counts
// every invocation. Like a real adapter it honors the supplied context.
type fakeInvoker struct {
	calls   atomic.Int64
	respond func(ctx context.Context, model ModelConfig, req Request) (string, error)
}

func (f *fakeInvoker) Invoke(ctx context.Context, model ModelConfig,
	req Request) (string, error) {

	f.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.respond(ctx, model, req)
}

func echoInvoker() *fakeInvoker {
	return &fakeInvoker{
		respond: func(ctx context.Context, model ModelConfig,
			req Request) (string, error) {

			return fmt.Sprintf("%v:%v", model.ID, req.RoundNum), nil
		},
	}
}

// sleepOrCancel waits for d unless ctx expires first.
func sleepOrCancel(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// winnerScorer awards 1 point to the named model if it responded.
func winnerScorer(winner ModelID) ScoreFunc {
	return func(prompt string, outcomes map[ModelID]Outcome) map[ModelID]Delta {
		deltas := make(map[ModelID]Delta)
		if out, ok := outcomes[winner]; ok && out.Status == StatusSuccess {
			deltas[winner] = Delta{Points: 1}
		}
		return deltas
	}
}

func zeroScorer(prompt string, outcomes map[ModelID]Outcome) map[ModelID]Delta {
	return nil
}

func testModels(ids ...ModelID) []ModelConfig {
	models := make([]ModelConfig, 0, len(ids))
	for _, id := range ids {
		models = append(models, ModelConfig{ID: id, DisplayName: string(id)})
	}
	return models
}

func TestRunConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{
			name: "no rounds",
			cfg: Config{
				Models: testModels("a"),
			},
		},
		{
			name: "no models",
			cfg: Config{
				Rounds: []Round{{Prompt: "p", Score: zeroScorer}},
			},
		},
		{
			name: "duplicate model ids",
			cfg: Config{
				Rounds: []Round{{Prompt: "p", Score: zeroScorer}},
				Models: testModels("a", "b", "a"),
			},
		},
		{
			name: "empty model id",
			cfg: Config{
				Rounds: []Round{{Prompt: "p", Score: zeroScorer}},
				Models: testModels("a", ""),
			},
		},
		{
			name: "round without scoring capability",
			cfg: Config{
				Rounds: []Round{{Prompt: "p"}},
				Models: testModels("a"),
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			inv := echoInvoker()
			res, err := Run(context.Background(), c.cfg, inv)
			if err == nil {
				t.Fatal("expected configuration error")
			}
			if !errors.Is(err, ErrBadConfig) {
				t.Errorf("expected ErrBadConfig, got %v", err)
			}
			if res != nil {
				t.Errorf("expected nil result, got %+v", res)
			}
			// no model may be contacted on a configuration error
			if n := inv.calls.Load(); n != 0 {
				t.Errorf("expected 0 adapter invocations, got %v", n)
			}
		})
	}
}

func TestRunRoundOrdering(t *testing.T) {
	const numRounds = 4
	var rounds []Round
	for i := 0; i < numRounds; i++ {
		rounds = append(rounds, Round{
			Prompt: fmt.Sprintf("round %v", i+1),
			Score:  zeroScorer,
		})
	}

	var mu sync.Mutex
	var seen []int
	inv := &fakeInvoker{
		respond: func(ctx context.Context, model ModelConfig,
			req Request) (string, error) {

			mu.Lock()
			seen = append(seen, req.RoundNum)
			mu.Unlock()
			return "ok", nil
		},
	}

	cfg := Config{
		ID:     "race-order",
		Rounds: rounds,
		Models: testModels("a", "b"),
	}
	res, err := Run(context.Background(), cfg, inv)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.State != StateCompleted {
		t.Fatalf("expected completed state, got %v", res.State)
	}
	if len(res.Rounds) != numRounds {
		t.Fatalf("expected %v round results, got %v", numRounds,
			len(res.Rounds))
	}
	for i, rr := range res.Rounds {
		if rr.RoundNum != i+1 {
			t.Errorf("round result %v has RoundNum %v", i, rr.RoundNum)
		}
		if rr.Prompt != fmt.Sprintf("round %v", i+1) {
			t.Errorf("round result %v has prompt %q", i, rr.Prompt)
		}
	}
	// rounds never overlap, so invocations for round N+1 must all come
	// after every invocation for round N
	for i := 1; i < len(seen); i++ {
		if seen[i] < seen[i-1] {
			t.Fatalf("saw round %v invocation after round %v", seen[i],
				seen[i-1])
		}
	}
}

func TestRunCumulativeRanking(t *testing.T) {
	// model a wins round 1, model b wins round 2; both end on 1 point and
	// zero failures, so original config order breaks the tie
	cfg := Config{
		ID: "race-rank",
		Rounds: []Round{
			{Prompt: "r1", Score: winnerScorer("a")},
			{Prompt: "r2", Score: winnerScorer("b")},
		},
		Models: testModels("c", "b", "a"),
	}

	res, err := Run(context.Background(), cfg, echoInvoker())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(res.Standings) != 3 {
		t.Fatalf("expected 3 standings, got %v", len(res.Standings))
	}

	want := []ModelID{"b", "a", "c"}
	for i, id := range want {
		if res.Standings[i].Model.ID != id {
			t.Errorf("standings[%v] = %v; want %v", i,
				res.Standings[i].Model.ID, id)
		}
	}
	if res.Standings[0].Score != 1 || res.Standings[1].Score != 1 {
		t.Errorf("expected both winners on 1 point, got %v and %v",
			res.Standings[0].Score, res.Standings[1].Score)
	}
	if res.Standings[2].Score != 0 {
		t.Errorf("expected c on 0 points, got %v", res.Standings[2].Score)
	}
}

func TestRunEveryModelAppearsOnce(t *testing.T) {
	cfg := Config{
		ID:     "race-once",
		Rounds: []Round{{Prompt: "p", Score: zeroScorer}},
		Models: testModels("a", "b", "c", "d"),
	}
	res, err := Run(context.Background(), cfg, echoInvoker())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	seen := make(map[ModelID]int)
	for _, st := range res.Standings {
		seen[st.Model.ID]++
	}
	for _, m := range cfg.Models {
		if seen[m.ID] != 1 {
			t.Errorf("model %v appears %v times in standings", m.ID,
				seen[m.ID])
		}
	}
	for _, rr := range res.Rounds {
		if len(rr.Outcomes) != len(cfg.Models) {
			t.Errorf("round %v has %v outcomes; want %v", rr.RoundNum,
				len(rr.Outcomes), len(cfg.Models))
		}
	}
}

func TestRunAllModelsFailEveryRound(t *testing.T) {
	inv := &fakeInvoker{
		respond: func(ctx context.Context, model ModelConfig,
			req Request) (string, error) {

			return "", fmt.Errorf("provider exploded")
		},
	}
	cfg := Config{
		ID: "race-allfail",
		Rounds: []Round{
			{Prompt: "r1", Score: zeroScorer},
			{Prompt: "r2", Score: zeroScorer},
		},
		Models: testModels("a", "b"),
	}

	res, err := Run(context.Background(), cfg, inv)
	if err != nil {
		t.Fatalf("expected no error for all-failure race, got %v", err)
	}
	if res.State != StateCompleted {
		t.Errorf("expected completed state, got %v", res.State)
	}
	if len(res.Rounds) != 2 {
		t.Fatalf("expected 2 round results, got %v", len(res.Rounds))
	}
	for _, rr := range res.Rounds {
		for id, out := range rr.Outcomes {
			if out.Status != StatusFailure {
				t.Errorf("round %v model %v: status %v; want failure",
					rr.RoundNum, id, out.Status)
			}
			if out.Cause == "" {
				t.Errorf("round %v model %v: empty failure cause",
					rr.RoundNum, id)
			}
		}
	}
	for _, st := range res.Standings {
		if st.Score != 0 {
			t.Errorf("model %v: score %v; want 0", st.Model.ID, st.Score)
		}
		if st.Failures != 2 {
			t.Errorf("model %v: failures %v; want 2", st.Model.ID,
				st.Failures)
		}
	}
}

func TestRunBudgetTruncation(t *testing.T) {
	inv := &fakeInvoker{
		respond: func(ctx context.Context, model ModelConfig,
			req Request) (string, error) {

			if err := sleepOrCancel(ctx, 30*time.Millisecond); err != nil {
				return "", err
			}
			return "ok", nil
		},
	}

	var rounds []Round
	for i := 0; i < 50; i++ {
		rounds = append(rounds, Round{Prompt: "p", Score: zeroScorer})
	}
	cfg := Config{
		ID:              "race-budget",
		Rounds:          rounds,
		Models:          testModels("a", "b"),
		Budget:          100 * time.Millisecond,
		PerModelTimeout: 50 * time.Millisecond,
	}

	start := time.Now()
	res, err := Run(context.Background(), cfg, inv)
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.State != StateTruncatedByBudget {
		t.Fatalf("expected truncated state, got %v", res.State)
	}
	if len(res.Rounds) == 0 || len(res.Rounds) >= len(cfg.Rounds) {
		t.Errorf("expected a proper prefix of rounds, got %v of %v",
			len(res.Rounds), len(cfg.Rounds))
	}
	// may overrun by at most one round's per-model deadline
	if elapsed > cfg.Budget+cfg.PerModelTimeout {
		t.Errorf("race ran %v; budget %v + one deadline %v", elapsed,
			cfg.Budget, cfg.PerModelTimeout)
	}
	// completed rounds are never discarded
	if len(res.Standings) != 2 {
		t.Errorf("expected standings despite truncation, got %v",
			len(res.Standings))
	}
}

func TestRunElimination(t *testing.T) {
	elimScorer := func(victim ModelID) ScoreFunc {
		return func(prompt string,
			outcomes map[ModelID]Outcome) map[ModelID]Delta {

			return map[ModelID]Delta{victim: {Eliminate: true}}
		}
	}

	var mu sync.Mutex
	invokedPerRound := make(map[int][]ModelID)
	inv := &fakeInvoker{
		respond: func(ctx context.Context, model ModelConfig,
			req Request) (string, error) {

			mu.Lock()
			invokedPerRound[req.RoundNum] = append(
				invokedPerRound[req.RoundNum], model.ID)
			mu.Unlock()
			return "ok", nil
		},
	}

	cfg := Config{
		ID: "race-elim",
		Rounds: []Round{
			{Prompt: "r1", Score: elimScorer("a")},
			{Prompt: "r2", Score: elimScorer("b")},
			{Prompt: "r3", Score: zeroScorer},
		},
		Models: testModels("a", "b"),
	}

	res, err := Run(context.Background(), cfg, inv)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	// a is out after round 1, b after round 2; round 3 never starts
	if res.State != StateAllEliminated {
		t.Fatalf("expected all-eliminated state, got %v", res.State)
	}
	if len(res.Rounds) != 2 {
		t.Fatalf("expected 2 round results, got %v", len(res.Rounds))
	}
	if got := invokedPerRound[2]; len(got) != 1 || got[0] != "b" {
		t.Errorf("round 2 invoked %v; want just b", got)
	}
	if len(invokedPerRound[3]) != 0 {
		t.Errorf("round 3 invoked %v; want none", invokedPerRound[3])
	}
	for _, st := range res.Standings {
		if !st.Eliminated {
			t.Errorf("model %v not marked eliminated", st.Model.ID)
		}
	}
}

func TestRunFailureCounterResetsOnSuccess(t *testing.T) {
	// model a fails in rounds 1 and 3, succeeds in round 2
	var mu sync.Mutex
	priors := make(map[int]Snapshot)
	inv := &fakeInvoker{
		respond: func(ctx context.Context, model ModelConfig,
			req Request) (string, error) {

			mu.Lock()
			priors[req.RoundNum] = req.Prior
			mu.Unlock()
			if req.RoundNum%2 == 1 {
				return "", fmt.Errorf("flaky")
			}
			return "ok", nil
		},
	}

	cfg := Config{
		ID: "race-flaky",
		Rounds: []Round{
			{Prompt: "r1", Score: zeroScorer},
			{Prompt: "r2", Score: zeroScorer},
			{Prompt: "r3", Score: zeroScorer},
		},
		Models: testModels("a"),
	}
	res, err := Run(context.Background(), cfg, inv)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.Standings[0].Failures != 2 {
		t.Errorf("expected 2 total failures, got %v",
			res.Standings[0].Failures)
	}
	// round 2 sees the round 1 failure; round 3 sees the round 2 success
	// having reset the consecutive counter but not the total
	if got := priors[2].ConsecFailures["a"]; got != 1 {
		t.Errorf("round 2 prior consecutive failures = %v; want 1", got)
	}
	if got := priors[3].ConsecFailures["a"]; got != 0 {
		t.Errorf("round 3 prior consecutive failures = %v; want 0", got)
	}
	if got := priors[3].Failures["a"]; got != 1 {
		t.Errorf("round 3 prior total failures = %v; want 1", got)
	}
}

func TestRunTiebreakFewerFailures(t *testing.T) {
	// both models score 0; b fails, a succeeds, so a ranks above b even
	// though b comes first in config order
	inv := &fakeInvoker{
		respond: func(ctx context.Context, model ModelConfig,
			req Request) (string, error) {

			if model.ID == "b" {
				return "", fmt.Errorf("broken")
			}
			return "ok", nil
		},
	}
	cfg := Config{
		ID:     "race-tiebreak",
		Rounds: []Round{{Prompt: "p", Score: zeroScorer}},
		Models: testModels("b", "a"),
	}
	res, err := Run(context.Background(), cfg, inv)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.Standings[0].Model.ID != "a" {
		t.Errorf("expected a first on fewer failures, got %v",
			res.Standings[0].Model.ID)
	}
}
