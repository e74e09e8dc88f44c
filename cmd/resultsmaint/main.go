/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mikeb26/modelrace/internal"
	"github.com/mikeb26/modelrace/leaderboard"
)

// this program cleans a persisted results file: it drops malformed entries
// and entries for deprecated models, then re-ranks and prints the board

func main() {
	ctx := context.Background()

	resultsPath := flag.String("results", "", "Results file to clean")
	useS3 := flag.Bool("s3", false, "Clean the shared S3 results board instead")
	bucket := flag.String("bucket", internal.ResultsBucket, "S3 results bucket")
	key := flag.String("key", internal.ResultsKey, "S3 results object key")
	deprecationsUrl := flag.String("deprecations-url", "",
		"Also scrape this page for deprecated model ids")
	dryRun := flag.Bool("dry-run", false, "Report what would be dropped without writing")
	flag.Parse()

	var store leaderboard.Store
	if *useS3 {
		s3Store := leaderboard.NewS3Store(*bucket, *key)
		if err := s3Store.Init(ctx); err != nil {
			log.Fatalf("Error initializing S3 store: %v", err)
		}
		store = s3Store
	} else if *resultsPath != "" {
		store = &leaderboard.FileStore{Path: *resultsPath}
	} else {
		fmt.Fprintf(os.Stderr, "Specify either -results <file> or -s3\n")
		os.Exit(1)
	}

	deprecated := deprecatedModels(ctx, *deprecationsUrl)

	entries, err := store.Load(ctx)
	if err != nil {
		log.Fatalf("Error loading results: %v", err)
	}

	var kept []leaderboard.Entry
	dropped := 0
	for _, e := range entries {
		if !e.Valid() {
			log.Printf("resultsmaint: dropping malformed entry (race:%v model:%v)",
				e.RaceID, e.ModelID)
			dropped++
			continue
		}
		if deprecated[e.ModelID] {
			log.Printf("resultsmaint: dropping entry for deprecated model %v (race:%v)",
				e.ModelID, e.RaceID)
			dropped++
			continue
		}
		kept = append(kept, e)
	}

	fmt.Printf("%v entries kept, %v dropped\n\n", len(kept), dropped)
	fmt.Print(leaderboard.BuildBoardOutput(leaderboard.Build(kept)))

	if *dryRun || dropped == 0 {
		return
	}
	if err := store.Save(ctx, kept); err != nil {
		log.Fatalf("Error saving cleaned results: %v", err)
	}
}
