/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package race

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrBadConfig is wrapped by all configuration validation failures returned
// from Run. It is the only class of error Run can return; everything that
// goes wrong after validation is recorded inside the Result instead.
var ErrBadConfig = errors.New("invalid race configuration")

// ModelID identifies one competing model within a race. IDs must be unique
// within a Config.
type ModelID string

// ModelParams holds model-specific invocation parameters forwarded to the
// adapter on every request.
type ModelParams struct {
	Reasoning   bool    `json:"reasoning,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"maxTokens,omitempty"`
}

// ModelConfig describes one model competing in a race.
type ModelConfig struct {
	ID          ModelID     `json:"id"`
	DisplayName string      `json:"displayName"`
	Provider    string      `json:"provider,omitempty"`
	Params      ModelParams `json:"params,omitempty"`
}

// Delta is the scoring capability's verdict for one model in one round.
type Delta struct {
	Points    float64 `json:"points"`
	Eliminate bool    `json:"eliminate,omitempty"`
}

// ScoreFunc maps the full set of per-model outcomes for a round onto score
// deltas and optional elimination flags. It is the single place domain
// semantics live; the engine never interprets responses itself.
//
// Implementations must treat outcomes as unordered, must handle failure and
// timeout outcomes for any subset (including all) of the models, and must not
// mutate their inputs. A model absent from the returned map receives a zero
// delta.
type ScoreFunc func(prompt string, outcomes map[ModelID]Outcome) map[ModelID]Delta

// Round is one sequential unit of work applied to all active models.
type Round struct {
	Prompt string
	Score  ScoreFunc
}

// Config describes a race. It is treated as immutable once handed to Run.
type Config struct {
	ID     string
	Name   string
	Rounds []Round
	Models []ModelConfig

	// Budget caps the wall clock time for the whole race. Zero means
	// DefaultBudget. The budget is only consulted at round boundaries; a
	// round already in flight is allowed to finish.
	Budget time.Duration

	// PerModelTimeout bounds each individual model invocation. Zero means
	// DefaultPerModelTimeout.
	PerModelTimeout time.Duration

	Created time.Time
}

// Snapshot is a read-only view of cumulative race state handed to adapters
// alongside each request. The executor never mutates it.
type Snapshot struct {
	RoundsCompleted int                 `json:"roundsCompleted"`
	Scores          map[ModelID]float64 `json:"scores"`
	Failures        map[ModelID]int     `json:"failures"`

	// ConsecFailures counts each model's failures since its last success,
	// unlike Failures which never resets.
	ConsecFailures map[ModelID]int `json:"consecFailures"`
}

// Request is the payload handed to an Invoker for one model in one round.
type Request struct {
	RaceID   string      `json:"raceId"`
	RoundNum int         `json:"roundNum"`
	Prompt   string      `json:"prompt"`
	Prior    Snapshot    `json:"prior"`
	Params   ModelParams `json:"params"`
}

// Invoker is the model client adapter capability, polymorphic over model
// identifier. Implementations must honor the deadline on ctx, must never
// block indefinitely, and must be safe to invoke concurrently for distinct
// models.
type Invoker interface {
	Invoke(ctx context.Context, model ModelConfig, req Request) (string, error)
}

// InvokerFunc adapts a plain function to the Invoker interface.
type InvokerFunc func(ctx context.Context, model ModelConfig, req Request) (string, error)

func (f InvokerFunc) Invoke(ctx context.Context, model ModelConfig,
	req Request) (string, error) {

	return f(ctx, model, req)
}

// Status tags a model's per-round outcome. Timeout is deliberately distinct
// from failure so scoring capabilities can treat a slow model differently
// from a broken one.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
	StatusTimeout
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusTimeout:
		return "timeout"
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	switch text {
	case "success":
		*s = StatusSuccess
	case "failure":
		*s = StatusFailure
	case "timeout":
		*s = StatusTimeout
	default:
		return fmt.Errorf("unknown outcome status %q", text)
	}
	return nil
}

// Outcome is the tagged result of one model's participation in one round.
// Response is only set for StatusSuccess; Cause only for StatusFailure.
type Outcome struct {
	Status   Status        `json:"status"`
	Response string        `json:"response,omitempty"`
	Cause    string        `json:"cause,omitempty"`
	Elapsed  time.Duration `json:"elapsed"`
}

// RoundResult is one completed round: an outcome and an applied delta for
// every model that was active when the round started.
type RoundResult struct {
	RoundNum int                 `json:"roundNum"`
	Prompt   string              `json:"prompt"`
	Outcomes map[ModelID]Outcome `json:"outcomes"`
	Deltas   map[ModelID]Delta   `json:"deltas"`
}

// ModelStanding is the final cumulative state of one model at race end.
type ModelStanding struct {
	Model      ModelConfig   `json:"model"`
	Score      float64       `json:"score"`
	Failures   int           `json:"failures"`
	Eliminated bool          `json:"eliminated,omitempty"`
	Elapsed    time.Duration `json:"elapsed"`
	Rounds     int           `json:"rounds"`
}

// State is the terminal disposition of a race. All three non-pending,
// non-running states produce a usable Result.
type State int

const (
	StatePending State = iota
	StateRunning
	StateCompleted
	StateTruncatedByBudget
	StateAllEliminated
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateTruncatedByBudget:
		return "truncatedByBudget"
	case StateAllEliminated:
		return "allEliminated"
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Result is the assembled outcome of one race. Rounds holds one RoundResult
// per completed round, in round order; Standings is the final ranking, best
// first.
type Result struct {
	RaceID    string          `json:"raceId"`
	Name      string          `json:"name,omitempty"`
	State     State           `json:"state"`
	Rounds    []RoundResult   `json:"rounds"`
	Standings []ModelStanding `json:"standings"`
	Started   time.Time       `json:"started"`
	Elapsed   time.Duration   `json:"elapsed"`
}
