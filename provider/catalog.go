/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package provider

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/mikeb26/modelrace/internal"
	"github.com/mikeb26/modelrace/race"
)

// builtinCatalog is the curated set of models races can be configured with
// when remote discovery is unavailable. Display names and params are
// maintained by hand; ids must match what the provider's API accepts.
var builtinCatalog = []race.ModelConfig{
	{ID: "gpt-4o", DisplayName: "GPT-4o", Provider: "openai"},
	{ID: "gpt-4o-mini", DisplayName: "GPT-4o mini", Provider: "openai"},
	{ID: "o3-mini", DisplayName: "o3-mini", Provider: "openai",
		Params: race.ModelParams{Reasoning: true}},
	{ID: "gpt-4.1", DisplayName: "GPT-4.1", Provider: "openai"},
	{ID: "gpt-4.1-mini", DisplayName: "GPT-4.1 mini", Provider: "openai"},
}

// vended by <base>/v1/models
type apiModelsResponse struct {
	Data []struct {
		ID      string `json:"id"`
		OwnedBy string `json:"owned_by"`
	} `json:"data"`
}

// Catalog returns the curated models merged with whatever the provider's
// models endpoint reports, sorted by id. Remote discovery failing is not an
// error; the curated set alone is still a usable catalog.
func (client *Client) Catalog() []race.ModelConfig {
	merged := make(map[race.ModelID]race.ModelConfig, len(builtinCatalog))
	for _, m := range builtinCatalog {
		merged[m.ID] = m
	}

	remote, err := client.discoverModels()
	if err != nil {
		// best effort
		remote = nil
	}
	for _, m := range remote {
		if _, ok := merged[m.ID]; !ok {
			merged[m.ID] = m
		}
	}

	catalog := make([]race.ModelConfig, 0, len(merged))
	for _, m := range merged {
		catalog = append(catalog, m)
	}
	sort.Slice(catalog, func(i, j int) bool {
		return catalog[i].ID < catalog[j].ID
	})

	return catalog
}

// discoverModels queries the provider's models endpoint through the cached
// http client; the model list changes rarely and is safe to reuse for a day.
func (client *Client) discoverModels() ([]race.ModelConfig, error) {
	url := client.baseURL + "/v1/models"
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch model list (new): %w", err)
	}
	client.setCommonHeaders(req)

	resp, err := client.httpClient1day.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch model list (do): %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unable to fetch %v: http status: %v", url,
			resp.StatusCode)
	}
	rawResp, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch model list (read): %w", err)
	}

	var modelsResp apiModelsResponse
	if err := json.Unmarshal(rawResp, &modelsResp); err != nil {
		return nil, fmt.Errorf("unable to parse model list: %w", err)
	}

	models := make([]race.ModelConfig, 0, len(modelsResp.Data))
	for _, m := range modelsResp.Data {
		models = append(models, race.ModelConfig{
			ID:          race.ModelID(m.ID),
			DisplayName: m.ID,
			Provider:    m.OwnedBy,
		})
	}

	return models, nil
}

// Lookup resolves a caller-supplied list of model ids against the catalog,
// preserving the requested order. Unknown ids and requests beyond
// internal.MaxModelsPerRace are rejected.
func (client *Client) Lookup(ids []string) ([]race.ModelConfig, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("no models requested")
	}
	if len(ids) > internal.MaxModelsPerRace {
		return nil, fmt.Errorf("too many models requested (%v > %v)",
			len(ids), internal.MaxModelsPerRace)
	}

	byID := make(map[race.ModelID]race.ModelConfig)
	for _, m := range client.Catalog() {
		byID[m.ID] = m
	}

	models := make([]race.ModelConfig, 0, len(ids))
	for _, id := range ids {
		m, ok := byID[race.ModelID(id)]
		if !ok {
			return nil, fmt.Errorf("unknown model %q", id)
		}
		models = append(models, m)
	}

	return models, nil
}
