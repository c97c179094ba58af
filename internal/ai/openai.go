package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/studyflash/studyflash/internal/errors"
)

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type openAIError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (d *Dispatcher) generateOpenAI(ctx context.Context, cfg *Config, prompt, systemPrompt string) (string, error) {
	messages := make([]openAIMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, openAIMessage{Role: "user", Content: prompt})

	resp, err := d.post(ctx, d.openAIBase+"/chat/completions", map[string]string{
		"Authorization": "Bearer " + cfg.APIKey,
	}, openAIRequest{Model: cfg.Model, Messages: messages})
	if err != nil {
		return "", errors.NewProviderError(ProviderOpenAI, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body := readBody(resp.Body)
		var apiErr openAIError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Code == "insufficient_quota" {
			return "", errors.NewProviderError(ProviderOpenAI,
				"API quota exhausted: check your OpenAI billing or switch to another provider in settings", nil)
		}
		return "", errors.NewProviderError(ProviderOpenAI,
			fmt.Sprintf("status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var out openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errors.NewProviderError(ProviderOpenAI, "failed to decode response", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.NewProviderError(ProviderOpenAI, "no choices in response", nil)
	}

	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
