/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/mikeb26/modelrace/internal"
	"github.com/mikeb26/modelrace/leaderboard"
	"github.com/mikeb26/modelrace/provider"
	"github.com/mikeb26/modelrace/quiz"
	"github.com/mikeb26/modelrace/race"
)

//go:embed help.txt
var helpText string

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, args []string)

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":        handleHelp,
	"models":      handleModels,
	"run":         handleRun,
	"leaderboard": handleLeaderboard,
	"result":      handleResult,
}

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	if handler, ok := commands[cmd]; ok {
		handler(ctx, os.Args[2:])
	} else {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Printf("%v", helpText)
}

func handleHelp(ctx context.Context, args []string) {
	usage()
}

func handleModels(ctx context.Context, args []string) {
	client := provider.NewClient()
	catalog := client.Catalog()

	maxID := len("Id")
	for _, m := range catalog {
		if l := len(m.ID); l > maxID {
			maxID = l
		}
	}
	fmt.Printf("%-*s  %s\n", maxID, "Id", "Name")
	for _, m := range catalog {
		fmt.Printf("%-*v  %s\n", maxID, m.ID, m.DisplayName)
	}
}

func handleRun(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	modelList := fs.String("models", "gpt-4o-mini,gpt-4.1-mini",
		"Comma separated model ids to race")
	numRounds := fs.Int("rounds", 5, "Number of quiz rounds")
	budget := fs.Duration("budget", internal.DefaultBudget,
		"Wall clock budget for the whole race")
	timeout := fs.Duration("timeout", internal.DefaultPerModelTimeout,
		"Per model request timeout")
	strict := fs.Bool("strict", false,
		"Eliminate models whose requests fail outright")
	resultsPath := fs.String("results", "",
		"Append per-model results to this file")
	jsonOut := fs.Bool("json", false, "Emit the full race result as JSON")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	client := provider.NewClient()
	models, err := client.Lookup(strings.Split(*modelList, ","))
	if err != nil {
		log.Fatalf("Error resolving models: %v", err)
	}

	cfg := race.Config{
		ID:              internal.NewRaceID(),
		Name:            "quiz race",
		Rounds:          quiz.BuildRounds(*numRounds, *strict),
		Models:          models,
		Budget:          *budget,
		PerModelTimeout: *timeout,
		Created:         time.Now(),
	}

	res, err := race.Run(ctx, cfg, client)
	if err != nil {
		log.Fatalf("Error running race: %v", err)
	}

	if *jsonOut {
		raw, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			log.Fatalf("Error marshaling result: %v", err)
		}
		fmt.Printf("%s\n", raw)
	} else {
		fmt.Printf("Race %v (%v)\n\n", res.RaceID, res.State)
		fmt.Print(race.BuildStandingsOutput(res))
	}

	if *resultsPath != "" {
		store := &leaderboard.FileStore{Path: *resultsPath}
		entries := leaderboard.EntriesFromResult(res)
		if err := leaderboard.Append(ctx, store, entries); err != nil {
			log.Fatalf("Error saving results: %v", err)
		}
	}
}

func handleLeaderboard(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("leaderboard", flag.ExitOnError)
	store := storeFlags(ctx, fs, args)

	entries, err := store.Load(ctx)
	if err != nil {
		log.Fatalf("Error loading results: %v", err)
	}

	fmt.Print(leaderboard.BuildBoardOutput(leaderboard.Build(entries)))
}

func handleResult(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("result", flag.ExitOnError)
	raceID := fs.String("id", "", "Race id to show")
	store := storeFlags(ctx, fs, args)
	if *raceID == "" {
		log.Fatalf("Specify -id <race id>")
	}

	entries, err := store.Load(ctx)
	if err != nil {
		log.Fatalf("Error loading results: %v", err)
	}

	var matched []leaderboard.Entry
	for _, e := range entries {
		if e.RaceID == *raceID {
			matched = append(matched, e)
		}
	}
	if len(matched) == 0 {
		log.Fatalf("No results found for race %v", *raceID)
	}

	fmt.Printf("Race %v (%v models):\n\n", *raceID, len(matched))
	maxID := len("Model")
	for _, e := range matched {
		if l := len(e.ModelID); l > maxID {
			maxID = l
		}
	}
	fmt.Printf("%-*s  %-7s  %-5s  %s\n", maxID, "Model", "Score", "Fails",
		"Notes")
	for _, e := range matched {
		var notes []string
		if e.Won {
			notes = append(notes, "won")
		}
		if e.Eliminated {
			notes = append(notes, "eliminated")
		}
		line := fmt.Sprintf("%-*s  %-7.1f  %-5v  %s", maxID, e.ModelID,
			e.Score, e.Failures, strings.Join(notes, ", "))
		fmt.Printf("%s\n", strings.TrimRight(line, " "))
	}
}

// storeFlags registers the shared results-store flags on fs, parses args, and
// resolves the selected store. It exits on flag misuse like the rest of the
// CLI.
func storeFlags(ctx context.Context, fs *flag.FlagSet,
	args []string) leaderboard.Store {

	resultsPath := fs.String("results", "", "Read results from this file")
	useS3 := fs.Bool("s3", false, "Read results from the shared S3 board")
	bucket := fs.String("bucket", internal.ResultsBucket, "S3 results bucket")
	key := fs.String("key", internal.ResultsKey, "S3 results object key")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *useS3 {
		s3Store := leaderboard.NewS3Store(*bucket, *key)
		if err := s3Store.Init(ctx); err != nil {
			log.Fatalf("Error initializing S3 store: %v", err)
		}
		return s3Store
	}
	if *resultsPath != "" {
		return &leaderboard.FileStore{Path: *resultsPath}
	}
	log.Fatalf("Specify either -results <file> or -s3")
	return nil
}
