package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/studyflash/studyflash/internal/errors"
)

const anthropicVersion = "2023-06-01"

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (d *Dispatcher) generateAnthropic(ctx context.Context, cfg *Config, prompt, systemPrompt string) (string, error) {
	// Anthropic takes the system prompt as a top-level field, not as a
	// message role.
	reqBody := anthropicRequest{
		Model:     cfg.Model,
		MaxTokens: 4096,
		System:    systemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	}

	resp, err := d.post(ctx, d.anthropicBase+"/v1/messages", map[string]string{
		"x-api-key":         cfg.APIKey,
		"anthropic-version": anthropicVersion,
	}, reqBody)
	if err != nil {
		return "", errors.NewProviderError(ProviderAnthropic, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body := readBody(resp.Body)
		return "", errors.NewProviderError(ProviderAnthropic,
			fmt.Sprintf("status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var out anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errors.NewProviderError(ProviderAnthropic, "failed to decode response", err)
	}
	if len(out.Content) == 0 {
		return "", errors.NewProviderError(ProviderAnthropic, "no content blocks in response", nil)
	}

	return strings.TrimSpace(out.Content[0].Text), nil
}
