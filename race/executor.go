/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package race

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"
)

type roundInput struct {
	raceID  string
	num     int
	round   Round
	active  []ModelConfig
	prior   Snapshot
	timeout time.Duration
	invoker Invoker
}

// runRound fans one request out to every active model concurrently and joins
// once all of them have settled. Each invocation carries its own deadline;
// one model failing or timing out never aborts or delays its siblings. The
// join is wait-for-all: the worker funcs always return nil and record their
// outcome instead, so errgroup's first-error cancellation never fires.
func runRound(ctx context.Context, in roundInput) RoundResult {
	outcomes := make([]Outcome, len(in.active))

	g, ctx := errgroup.WithContext(ctx)
	for idx, model := range in.active {
		idx, model := idx, model
		g.Go(func() error {
			outcomes[idx] = invokeOne(ctx, model, in)
			return nil
		})
	}
	// Wait can't fail; every worker returns nil.
	_ = g.Wait()

	byModel := make(map[ModelID]Outcome, len(in.active))
	for idx, model := range in.active {
		byModel[model.ID] = outcomes[idx]
	}

	deltas := in.round.Score(in.round.Prompt, byModel)
	if deltas == nil {
		deltas = map[ModelID]Delta{}
	}

	return RoundResult{
		RoundNum: in.num,
		Prompt:   in.round.Prompt,
		Outcomes: byModel,
		Deltas:   deltas,
	}
}

// invokeOne issues a single time-boxed adapter invocation and classifies its
// result into the success/failure/timeout variant.
func invokeOne(ctx context.Context, model ModelConfig, in roundInput) Outcome {
	mctx, cancel := context.WithTimeout(ctx, in.timeout)
	defer cancel()

	req := Request{
		RaceID:   in.raceID,
		RoundNum: in.num,
		Prompt:   in.round.Prompt,
		Prior:    in.prior,
		Params:   model.Params,
	}

	start := time.Now()
	resp, err := in.invoker.Invoke(mctx, model, req)
	elapsed := time.Since(start)

	if err != nil {
		status := StatusFailure
		if errors.Is(err, context.DeadlineExceeded) ||
			errors.Is(mctx.Err(), context.DeadlineExceeded) {
			status = StatusTimeout
		}
		out := Outcome{Status: status, Elapsed: elapsed}
		if status == StatusFailure {
			out.Cause = err.Error()
		}
		return out
	}

	return Outcome{Status: StatusSuccess, Response: resp, Elapsed: elapsed}
}
