/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mikeb26/modelrace/internal"
)

// staticDeprecatedModels covers model ids we know have been withdrawn;
// entries for these are stale regardless of what any remote page says.
var staticDeprecatedModels = []string{
	"gpt-3.5-turbo-0301",
	"gpt-3.5-turbo-0613",
	"gpt-4-0314",
	"gpt-4-32k",
	"text-davinci-003",
}

// deprecatedModels merges the static list with ids scraped from the
// optional deprecations page. Scrape failures are best effort; the static
// list alone still applies.
func deprecatedModels(ctx context.Context, url string) map[string]bool {
	deprecated := make(map[string]bool)
	for _, id := range staticDeprecatedModels {
		deprecated[id] = true
	}

	if url == "" {
		return deprecated
	}
	scraped, err := scrapeDeprecations(ctx, url)
	if err != nil {
		log.Printf("resultsmaint: warning failed to scrape %v: %v", url, err)
		return deprecated
	}
	for _, id := range scraped {
		deprecated[id] = true
	}

	return deprecated
}

// scrapeDeprecations extracts model ids from a deprecations page. Provider
// deprecation pages list withdrawn model ids in <code> spans within tables;
// anything that doesn't look like a model id is skipped.
func scrapeDeprecations(ctx context.Context, url string) ([]string, error) {
	client := internal.NewCachedHttpClient(24 * time.Hour)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch deprecations (new): %w", err)
	}
	req.Header.Set("User-Agent", internal.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch deprecations (do): %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unable to fetch %v: http status: %v", url,
			resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var ids []string
	doc.Find("table code").Each(func(i int, s *goquery.Selection) {
		id := strings.TrimSpace(s.Text())
		if looksLikeModelId(id) {
			ids = append(ids, id)
		}
	})

	return ids, nil
}

func looksLikeModelId(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\n") {
		return false
	}
	// model ids are lowercase alphanumerics with separators
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '.' || r == '_' || r == ':' || r == '/':
		default:
			return false
		}
	}
	return true
}
