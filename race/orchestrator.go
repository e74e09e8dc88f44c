/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package race

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikeb26/modelrace/internal"
)

// runtimeState is the orchestrator-owned mutable state for one model. It is
// only ever touched between rounds, never while a round is in flight.
type runtimeState struct {
	model      ModelConfig
	score      float64
	failures   int
	consecFail int
	eliminated bool
	elapsed    time.Duration
	rounds     int
}

// Run drives cfg's rounds to completion and assembles the final Result. It
// is intended to be invoked exactly once per Config value.
//
// Run only returns an error for configuration problems (wrapped
// ErrBadConfig), detected before any model is contacted. Per-model failures,
// timeouts, and budget exhaustion are all recorded inside the Result.
func Run(ctx context.Context, cfg Config, inv Invoker) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, fmt.Errorf("%w: nil invoker", ErrBadConfig)
	}

	budget := cfg.Budget
	if budget == 0 {
		budget = internal.DefaultBudget
	}
	perModel := cfg.PerModelTimeout
	if perModel == 0 {
		perModel = internal.DefaultPerModelTimeout
	}

	states := make(map[ModelID]*runtimeState, len(cfg.Models))
	for _, m := range cfg.Models {
		states[m.ID] = &runtimeState{model: m}
	}

	start := time.Now()
	res := &Result{
		RaceID:  cfg.ID,
		Name:    cfg.Name,
		State:   StateRunning,
		Started: start,
	}

	for idx, round := range cfg.Rounds {
		active := activeModels(cfg.Models, states)
		if len(active) == 0 {
			res.State = StateAllEliminated
			break
		}
		// The budget is only checked here, at the round boundary. A round
		// needs at least one per-model deadline's worth of headroom to be
		// worth starting; anything less and we stop rather than block past
		// the ceiling.
		if ctx.Err() != nil || time.Since(start)+perModel > budget {
			log.Printf("race.run: %v: budget exhausted after %v rounds",
				cfg.ID, idx)
			res.State = StateTruncatedByBudget
			break
		}

		rr := runRound(ctx, roundInput{
			raceID:  cfg.ID,
			num:     idx + 1,
			round:   round,
			active:  active,
			prior:   snapshot(idx, states),
			timeout: perModel,
			invoker: inv,
		})
		res.Rounds = append(res.Rounds, rr)
		applyRound(states, rr)
	}

	if res.State == StateRunning {
		res.State = StateCompleted
	}
	res.Standings = buildStandings(cfg.Models, states)
	res.Elapsed = time.Since(start)

	return res, nil
}

func validateConfig(cfg Config) error {
	if len(cfg.Rounds) == 0 {
		return fmt.Errorf("%w: no rounds", ErrBadConfig)
	}
	if len(cfg.Models) == 0 {
		return fmt.Errorf("%w: no models", ErrBadConfig)
	}
	for idx, r := range cfg.Rounds {
		if r.Score == nil {
			return fmt.Errorf("%w: round %v has no scoring capability",
				ErrBadConfig, idx+1)
		}
	}
	seen := make(map[ModelID]bool, len(cfg.Models))
	for _, m := range cfg.Models {
		if m.ID == "" {
			return fmt.Errorf("%w: model with empty id", ErrBadConfig)
		}
		if seen[m.ID] {
			return fmt.Errorf("%w: duplicate model id %v", ErrBadConfig, m.ID)
		}
		seen[m.ID] = true
	}
	return nil
}

// activeModels preserves the original Config.Models ordering.
func activeModels(models []ModelConfig, states map[ModelID]*runtimeState) []ModelConfig {
	var active []ModelConfig
	for _, m := range models {
		if !states[m.ID].eliminated {
			active = append(active, m)
		}
	}
	return active
}

// snapshot builds the read-only cumulative view handed to adapters. It copies
// rather than aliases the orchestrator's maps so in-flight invocations can
// never observe a mutation.
func snapshot(roundsCompleted int, states map[ModelID]*runtimeState) Snapshot {
	snap := Snapshot{
		RoundsCompleted: roundsCompleted,
		Scores:          make(map[ModelID]float64, len(states)),
		Failures:        make(map[ModelID]int, len(states)),
		ConsecFailures:  make(map[ModelID]int, len(states)),
	}
	for id, st := range states {
		snap.Scores[id] = st.score
		snap.Failures[id] = st.failures
		snap.ConsecFailures[id] = st.consecFail
	}
	return snap
}

// applyRound folds one round's outcomes and deltas into per-model state.
// Called strictly between rounds.
func applyRound(states map[ModelID]*runtimeState, rr RoundResult) {
	for id, out := range rr.Outcomes {
		st, ok := states[id]
		if !ok {
			// outcomes only ever cover active configured models
			log.Printf("race.apply: dropping outcome for unknown model %v", id)
			continue
		}
		st.rounds++
		st.elapsed += out.Elapsed
		if out.Status == StatusSuccess {
			st.consecFail = 0
		} else {
			st.failures++
			st.consecFail++
		}
		delta := rr.Deltas[id]
		st.score += delta.Points
		if delta.Eliminate {
			st.eliminated = true
		}
	}
}
