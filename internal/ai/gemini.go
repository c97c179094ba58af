package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/studyflash/studyflash/internal/errors"
)

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMIMEType string `json:"response_mime_type,omitempty"`
}

type geminiSafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type geminiSafetyRating struct {
	Category    string `json:"category"`
	Probability string `json:"probability"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent          `json:"system_instruction,omitempty"`
	Contents          []geminiContent         `json:"contents"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
	SafetySettings    []geminiSafetySetting   `json:"safetySettings"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason  string               `json:"finishReason"`
		SafetyRatings []geminiSafetyRating `json:"safetyRatings"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason   string               `json:"blockReason"`
		SafetyRatings []geminiSafetyRating `json:"safetyRatings"`
	} `json:"promptFeedback"`
}

// Moderate thresholds across all four harm categories.
var geminiSafetySettings = []geminiSafetySetting{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
}

func (d *Dispatcher) generateGemini(ctx context.Context, cfg *Config, prompt, systemPrompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
		SafetySettings: geminiSafetySettings,
	}
	if systemPrompt != "" {
		reqBody.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}}
	}
	// Prompts that ask for JSON get the strict-JSON response mode so the
	// model cannot wrap the payload in prose.
	if strings.Contains(strings.ToLower(prompt), "json") {
		reqBody.GenerationConfig = &geminiGenerationConfig{ResponseMIMEType: "application/json"}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", d.geminiBase, cfg.Model, cfg.APIKey)
	resp, err := d.post(ctx, url, nil, reqBody)
	if err != nil {
		return "", errors.NewProviderError(ProviderGemini, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body := readBody(resp.Body)
		return "", errors.NewProviderError(ProviderGemini,
			fmt.Sprintf("status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errors.NewProviderError(ProviderGemini, "failed to decode response", err)
	}

	if out.PromptFeedback != nil && out.PromptFeedback.BlockReason != "" {
		return "", errors.NewProviderError(ProviderGemini,
			fmt.Sprintf("prompt blocked: reason=%s%s", out.PromptFeedback.BlockReason, formatSafetyRatings(out.PromptFeedback.SafetyRatings)), nil)
	}
	if len(out.Candidates) == 0 {
		return "", errors.NewProviderError(ProviderGemini, "no candidates in response", nil)
	}

	cand := out.Candidates[0]
	if cand.FinishReason == "SAFETY" {
		return "", errors.NewProviderError(ProviderGemini,
			fmt.Sprintf("response blocked: reason=SAFETY%s", formatSafetyRatings(cand.SafetyRatings)), nil)
	}
	if len(cand.Content.Parts) == 0 {
		return "", errors.NewProviderError(ProviderGemini, "candidate has no content parts", nil)
	}

	var sb strings.Builder
	for _, p := range cand.Content.Parts {
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}

func formatSafetyRatings(ratings []geminiSafetyRating) string {
	if len(ratings) == 0 {
		return ""
	}
	pairs := make([]string, 0, len(ratings))
	for _, r := range ratings {
		pairs = append(pairs, r.Category+"="+r.Probability)
	}
	return " [" + strings.Join(pairs, " ") + "]"
}
