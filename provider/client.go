/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package provider implements the model client adapter against any
// OpenAI-compatible chat completions API, plus model catalog discovery.
package provider

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mikeb26/modelrace/internal"
)

const DefaultBaseURL = "https://api.openai.com"

type Client struct {
	baseURL string
	apiKey  string

	// httpClient carries model invocations; it is uncached and carries no
	// client-side timeout of its own (per-request deadlines come from the
	// caller's context).
	httpClient *http.Client

	// catalogClient carries catalog fetches, which are cheap to cache
	httpClient1day *http.Client
}

// NewClient builds a Client from the environment. MODELRACE_API_BASE and
// MODELRACE_API_KEY take precedence; OPENAI_API_KEY is honored as a
// fallback.
func NewClient() *Client {
	baseURL := os.Getenv("MODELRACE_API_BASE")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	apiKey := os.Getenv("MODELRACE_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		apiKey:         apiKey,
		httpClient:     &http.Client{},
		httpClient1day: internal.NewCachedHttpClient(24 * time.Hour),
	}
}
