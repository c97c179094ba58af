package ai

import (
	"context"
	"strings"

	"github.com/studyflash/studyflash/internal/models"
	"github.com/studyflash/studyflash/internal/repository"
)

// Supported provider names.
const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// Default models used when no per-provider override is stored.
var defaultModels = map[string]string{
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderGemini:    "gemini-2.0-flash-exp",
	ProviderAnthropic: "claude-3-5-sonnet",
}

// ValidProvider reports whether name is a supported provider.
func ValidProvider(name string) bool {
	_, ok := defaultModels[name]
	return ok
}

// Config is the resolved configuration for one provider. A config only
// exists when an API key is present; resolution yields nil otherwise.
type Config struct {
	Provider string
	APIKey   string
	Model    string
}

// Resolver resolves the active AI provider configuration. provider == ""
// means "the currently selected provider". A (nil, nil) result means no
// usable configuration exists and AI-dependent actions must be blocked.
type Resolver interface {
	Resolve(ctx context.Context, provider string) (*Config, error)
}

// SettingsResolver reads provider selection, API keys, and model overrides
// from the persisted settings store, falling back to keys supplied through
// the environment. Pure reads, no network I/O.
type SettingsResolver struct {
	settings        repository.SettingsRepository
	defaultProvider string
	envKeys         map[string]string
}

// NewSettingsResolver creates a resolver backed by the settings repository.
// envKeys maps provider name to an API key taken from the environment; a
// stored key always wins over an environment key.
func NewSettingsResolver(settings repository.SettingsRepository, defaultProvider string, envKeys map[string]string) *SettingsResolver {
	if !ValidProvider(defaultProvider) {
		defaultProvider = ProviderGemini
	}
	return &SettingsResolver{
		settings:        settings,
		defaultProvider: defaultProvider,
		envKeys:         envKeys,
	}
}

func (r *SettingsResolver) Resolve(ctx context.Context, provider string) (*Config, error) {
	if provider == "" {
		stored, err := r.settings.Get(ctx, models.SettingProvider)
		if err != nil {
			return nil, err
		}
		provider = stored
	}
	if provider == "" {
		provider = r.defaultProvider
	}
	if !ValidProvider(provider) {
		return nil, nil
	}

	key, err := r.settings.Get(ctx, models.SettingKeyPrefix+provider)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(key) == "" {
		key = r.envKeys[provider]
	}
	if strings.TrimSpace(key) == "" {
		// Not configured. Callers surface this as a configuration error.
		return nil, nil
	}

	model, err := r.settings.Get(ctx, models.SettingModelPrefix+provider)
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = defaultModels[provider]
	}

	return &Config{Provider: provider, APIKey: key, Model: model}, nil
}
