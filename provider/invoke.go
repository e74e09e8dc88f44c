/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mikeb26/modelrace/internal"
	"github.com/mikeb26/modelrace/race"
)

// chatRequest is the subset of the chat completions request body we emit.
type chatRequest struct {
	Model           string        `json:"model"`
	Messages        []chatMessage `json:"messages"`
	Temperature     *float64      `json:"temperature,omitempty"`
	MaxTokens       int           `json:"max_completion_tokens,omitempty"`
	ReasoningEffort string        `json:"reasoning_effort,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the subset of the chat completions response body we read.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Invoke implements race.Invoker via the chat completions endpoint. The
// supplied ctx carries the per-request deadline; Invoke never outlives it.
func (client *Client) Invoke(ctx context.Context, model race.ModelConfig,
	req race.Request) (string, error) {

	body := chatRequest{
		Model: string(model.ID),
		Messages: []chatMessage{
			{Role: "user", Content: req.Prompt},
		},
		MaxTokens: model.Params.MaxTokens,
	}
	if model.Params.Temperature != 0 {
		t := model.Params.Temperature
		body.Temperature = &t
	}
	if model.Params.Reasoning {
		body.ReasoningEffort = "medium"
	}

	rawBody, err := json.Marshal(&body)
	if err != nil {
		return "", fmt.Errorf("unable to marshal chat request: %w", err)
	}

	url := client.baseURL + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url,
		bytes.NewReader(rawBody))
	if err != nil {
		return "", fmt.Errorf("unable to invoke %v (new): %w", model.ID, err)
	}
	client.setCommonHeaders(httpReq)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("unable to invoke %v (do): %w", model.ID, err)
	}
	defer resp.Body.Close()

	rawResp, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("unable to invoke %v (read): %w", model.ID, err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(rawResp, &chatResp); err != nil {
		return "", fmt.Errorf("unable to parse %v response: %w", model.ID, err)
	}
	if resp.StatusCode != http.StatusOK {
		if chatResp.Error != nil {
			return "", fmt.Errorf("%v returned %v: %v", model.ID,
				resp.StatusCode, chatResp.Error.Message)
		}
		return "", fmt.Errorf("%v returned http status %v", model.ID,
			resp.StatusCode)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%v returned no choices", model.ID)
	}

	content := chatResp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("%v returned an empty response (finish: %v)",
			model.ID, chatResp.Choices[0].FinishReason)
	}

	return content, nil
}

func (client *Client) setCommonHeaders(req *http.Request) {
	req.Header.Set("User-Agent", internal.UserAgent)
	if client.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+client.apiKey)
	}
}
