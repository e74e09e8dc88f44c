/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/mikeb26/modelrace/internal"
	"github.com/mikeb26/modelrace/leaderboard"
	"github.com/mikeb26/modelrace/provider"
)

type server struct {
	client  *provider.Client
	store   leaderboard.Store
	limiter *ipRateLimiter
}

func main() {
	ctx := context.Background()

	srv := &server{
		client:  provider.NewClient(),
		limiter: newIpRateLimiter(10, time.Minute),
	}

	bucket := os.Getenv("MODELRACE_RESULTS_BUCKET")
	if bucket == "" {
		bucket = internal.ResultsBucket
	}
	s3Store := leaderboard.NewS3Store(bucket, internal.ResultsKey)
	if err := s3Store.Init(ctx); err != nil {
		log.Printf("raceserver: warning failed to init S3 results store: %v; results will not persist",
			err)
	} else {
		srv.store = s3Store
	}

	http.HandleFunc("/api/race", srv.raceHandler)
	http.HandleFunc("/api/leaderboard", srv.leaderboardHandler)
	http.HandleFunc("/health", healthHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "9000"
	}
	log.Printf("raceserver: listening on :%v", port)
	log.Fatal(http.ListenAndServe(":"+port, nil))
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func init() {
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))
}
