/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import "time"

const (
	UserAgent     = "modelrace/0.2.0 (+https://github.com/mikeb26/modelrace)"
	ResultsBucket = "bopmatic-modelrace-prod-results"
	ResultsKey    = "leaderboard/entries.json"

	// DefaultBudget caps a race's total wall clock time when the caller does
	// not supply one. Chosen to fit under common serverless request ceilings.
	DefaultBudget = 300 * time.Second

	// DefaultPerModelTimeout bounds one model invocation within a round.
	DefaultPerModelTimeout = 60 * time.Second

	// MaxModelsPerRace caps how many models one request may pit against each
	// other; callers enforce this before the engine is invoked.
	MaxModelsPerRace = 8
)
