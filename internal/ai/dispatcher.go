package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/studyflash/studyflash/internal/errors"
	"github.com/studyflash/studyflash/internal/logger"
)

// Default upstream endpoints. Overridable for tests.
const (
	defaultOpenAIBase    = "https://api.openai.com/v1"
	defaultGeminiBase    = "https://generativelanguage.googleapis.com/v1beta"
	defaultAnthropicBase = "https://api.anthropic.com"
)

// Options adjust a single Generate call. Zero values mean "use the resolved
// configuration".
type Options struct {
	SystemPrompt string
	Provider     string
	Model        string
}

// Dispatcher is the single call site for all AI text generation. It builds
// the provider-specific request body, sends it, and normalizes the textual
// response across the three supported API shapes. One attempt per call, no
// retries.
type Dispatcher struct {
	resolver   Resolver
	httpClient *http.Client
	log        *logger.Logger

	openAIBase    string
	geminiBase    string
	anthropicBase string
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithHTTPClient sets the HTTP client used for upstream calls.
func WithHTTPClient(c *http.Client) DispatcherOption {
	return func(d *Dispatcher) { d.httpClient = c }
}

// WithOpenAIBase overrides the OpenAI API base URL.
func WithOpenAIBase(base string) DispatcherOption {
	return func(d *Dispatcher) { d.openAIBase = base }
}

// WithGeminiBase overrides the Gemini API base URL.
func WithGeminiBase(base string) DispatcherOption {
	return func(d *Dispatcher) { d.geminiBase = base }
}

// WithAnthropicBase overrides the Anthropic API base URL.
func WithAnthropicBase(base string) DispatcherOption {
	return func(d *Dispatcher) { d.anthropicBase = base }
}

// NewDispatcher creates a Dispatcher using the given resolver.
func NewDispatcher(resolver Resolver, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		resolver:      resolver,
		httpClient:    &http.Client{Timeout: 90 * time.Second},
		log:           logger.Default().WithPrefix("ai"),
		openAIBase:    defaultOpenAIBase,
		geminiBase:    defaultGeminiBase,
		anthropicBase: defaultAnthropicBase,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Generate sends one chat-style request (optional system instruction plus a
// single user turn) to the active provider and returns the generated text.
// Fails with a CONFIGURATION_ERROR when no provider configuration resolves
// and a PROVIDER_ERROR when the upstream call fails or returns an
// unparseable or blocked response.
func (d *Dispatcher) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("ai")

	cfg, err := d.resolver.Resolve(ctx, opts.Provider)
	if err != nil {
		log.Error("failed to resolve provider config: %v", err)
		return "", errors.NewInternalError(err)
	}
	if cfg == nil {
		log.Warn("no AI provider configured")
		return "", errors.NewConfigurationError("no AI provider configured: add an API key in settings")
	}
	if opts.Model != "" {
		cfg.Model = opts.Model
	}

	log.Debug("dispatching request: provider=%s, model=%s, prompt_len=%d", cfg.Provider, cfg.Model, len(prompt))
	start := time.Now()

	var text string
	switch cfg.Provider {
	case ProviderOpenAI:
		text, err = d.generateOpenAI(ctx, cfg, prompt, opts.SystemPrompt)
	case ProviderGemini:
		text, err = d.generateGemini(ctx, cfg, prompt, opts.SystemPrompt)
	case ProviderAnthropic:
		text, err = d.generateAnthropic(ctx, cfg, prompt, opts.SystemPrompt)
	default:
		return "", errors.NewConfigurationError(fmt.Sprintf("unsupported provider: %s", cfg.Provider))
	}
	if err != nil {
		log.Error("request failed after %v: %v", time.Since(start), err)
		return "", err
	}

	log.Info("request completed in %v: provider=%s, response_len=%d", time.Since(start), cfg.Provider, len(text))
	return text, nil
}

// post marshals body, sends it, and returns the raw response. Callers own
// response decoding and error mapping.
func (d *Dispatcher) post(ctx context.Context, url string, headers map[string]string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return d.httpClient.Do(req)
}

// readBody captures an error-response body for diagnostics.
func readBody(r io.Reader) []byte {
	body, _ := io.ReadAll(io.LimitReader(r, 2048))
	return body
}
