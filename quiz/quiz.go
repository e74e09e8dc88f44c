/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package quiz is the built-in demo domain: general knowledge questions with
// exact-answer scoring. The race engine knows nothing about quizzes; every
// bit of scoring semantics lives here, on the caller side of the engine's
// scoring capability boundary.
package quiz

import (
	"strings"

	"github.com/mikeb26/modelrace/race"
)

type question struct {
	prompt string
	answer string
}

var questions = []question{
	{"What is the capital of Australia?", "canberra"},
	{"How many legs does a spider have?", "8"},
	{"What chemical element has the symbol Fe?", "iron"},
	{"In what year did the Apollo 11 mission land on the moon?", "1969"},
	{"What is the largest planet in our solar system?", "jupiter"},
	{"Who composed the Brandenburg Concertos?", "bach"},
	{"What is the square root of 169?", "13"},
	{"Which ocean is the deepest?", "pacific"},
	{"What gas do plants absorb from the atmosphere?", "carbon dioxide"},
	{"How many squares are on a chess board?", "64"},
	{"What is the longest river in Africa?", "nile"},
	{"In computing, how many bits are in a byte?", "8"},
}

const instruction = "Answer with only the answer itself: a single word or " +
	"number with no punctuation or explanation. "

// BuildRounds produces count rounds cycling over the question set. Each
// round awards 1 point for a correct answer; wrong answers and timeouts earn
// nothing. With strict set, an outright failed request (as opposed to a slow
// or wrong one) eliminates the model.
func BuildRounds(count int, strict bool) []race.Round {
	if count < 1 {
		count = 1
	}
	rounds := make([]race.Round, 0, count)
	for i := 0; i < count; i++ {
		q := questions[i%len(questions)]
		rounds = append(rounds, race.Round{
			Prompt: instruction + q.prompt,
			Score:  scorer(q.answer, strict),
		})
	}
	return rounds
}

func scorer(answer string, strict bool) race.ScoreFunc {
	return func(prompt string,
		outcomes map[race.ModelID]race.Outcome) map[race.ModelID]race.Delta {

		deltas := make(map[race.ModelID]race.Delta, len(outcomes))
		for id, out := range outcomes {
			switch out.Status {
			case race.StatusSuccess:
				if answerMatches(out.Response, answer) {
					deltas[id] = race.Delta{Points: 1}
				}
			case race.StatusFailure:
				if strict {
					deltas[id] = race.Delta{Eliminate: true}
				}
			case race.StatusTimeout:
				// slow is not broken; zero points but still racing
			}
		}
		return deltas
	}
}

func answerMatches(response string, answer string) bool {
	norm := strings.ToLower(strings.TrimSpace(response))
	norm = strings.Trim(norm, ".!?\"' ")
	return norm == answer || strings.Contains(norm, answer)
}
