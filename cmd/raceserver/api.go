/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/mikeb26/modelrace/internal"
	"github.com/mikeb26/modelrace/leaderboard"
	"github.com/mikeb26/modelrace/quiz"
	"github.com/mikeb26/modelrace/race"
)

// raceRequest is the inbound race request shape. The server owns request
// validation, model list capping, and race id generation; the engine only
// ever sees a fully formed config.
type raceRequest struct {
	Name        string   `json:"name"`
	Models      []string `json:"models"`
	Rounds      int      `json:"rounds"`
	BudgetSecs  int      `json:"budgetSecs,omitempty"`
	TimeoutSecs int      `json:"timeoutSecs,omitempty"`
	Strict      bool     `json:"strict,omitempty"`
}

type apiError struct {
	Error string `json:"error"`
}

const maxRoundsPerRace = 20

func (srv *server) raceHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJson(w, http.StatusMethodNotAllowed,
			apiError{Error: "POST required"})
		return
	}

	ip := clientIp(r.RemoteAddr, r.Header.Get("X-Forwarded-For"))
	if !srv.limiter.Allow(ip, time.Now()) {
		writeJson(w, http.StatusTooManyRequests,
			apiError{Error: "rate limit exceeded; try again later"})
		return
	}

	var req raceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJson(w, http.StatusBadRequest,
			apiError{Error: fmt.Sprintf("malformed request: %v", err)})
		return
	}
	if req.Rounds < 1 || req.Rounds > maxRoundsPerRace {
		writeJson(w, http.StatusBadRequest,
			apiError{Error: fmt.Sprintf("rounds must be 1-%v",
				maxRoundsPerRace)})
		return
	}

	models, err := srv.client.Lookup(req.Models)
	if err != nil {
		writeJson(w, http.StatusBadRequest, apiError{Error: err.Error()})
		return
	}

	cfg := race.Config{
		ID:      internal.NewRaceID(),
		Name:    req.Name,
		Rounds:  quiz.BuildRounds(req.Rounds, req.Strict),
		Models:  models,
		Created: time.Now(),
	}
	if req.BudgetSecs > 0 {
		cfg.Budget = time.Duration(req.BudgetSecs) * time.Second
	}
	if req.TimeoutSecs > 0 {
		cfg.PerModelTimeout = time.Duration(req.TimeoutSecs) * time.Second
	}

	res, err := race.Run(r.Context(), cfg, srv.client)
	if err != nil {
		// only configuration errors surface here; per-model failures are
		// data inside res
		status := http.StatusInternalServerError
		if errors.Is(err, race.ErrBadConfig) {
			status = http.StatusBadRequest
		}
		writeJson(w, status, apiError{Error: err.Error()})
		return
	}
	log.Printf("raceserver.race: %v finished: state:%v rounds:%v models:%v",
		res.RaceID, res.State, len(res.Rounds), len(res.Standings))

	if srv.store != nil {
		entries := leaderboard.EntriesFromResult(res)
		if err := leaderboard.Append(r.Context(), srv.store, entries); err != nil {
			// losing one race's board entries is not worth failing the
			// request over
			log.Printf("raceserver.race: failed to persist %v results: %v",
				res.RaceID, err)
		}
	}

	writeJson(w, http.StatusOK, res)
}

func (srv *server) leaderboardHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJson(w, http.StatusMethodNotAllowed,
			apiError{Error: "GET required"})
		return
	}
	if srv.store == nil {
		writeJson(w, http.StatusServiceUnavailable,
			apiError{Error: "results store unavailable"})
		return
	}

	entries, err := srv.store.Load(r.Context())
	if err != nil {
		log.Printf("raceserver.leaderboard: load failed: %v", err)
		writeJson(w, http.StatusInternalServerError,
			apiError{Error: "unable to load leaderboard"})
		return
	}

	writeJson(w, http.StatusOK, leaderboard.Build(entries))
}

func writeJson(w http.ResponseWriter, status int, body any) {
	raw, err := json.Marshal(body)
	if err != nil {
		log.Printf("raceserver: failed to marshal response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(raw); err != nil {
		log.Printf("raceserver: failed to write response: %v", err)
	}
}
