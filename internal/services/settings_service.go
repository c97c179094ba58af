package services

import (
	"context"
	"strings"

	"github.com/studyflash/studyflash/internal/ai"
	"github.com/studyflash/studyflash/internal/errors"
	"github.com/studyflash/studyflash/internal/logger"
	"github.com/studyflash/studyflash/internal/models"
	"github.com/studyflash/studyflash/internal/repository"
)

// ProviderSettings is the user-facing view of one provider's configuration.
// API keys never leave the server unmasked.
type ProviderSettings struct {
	Configured bool   `json:"configured"`
	MaskedKey  string `json:"masked_key,omitempty"`
	Model      string `json:"model,omitempty"`
}

// SettingsView is the full settings payload for the settings surface.
type SettingsView struct {
	Provider  string                      `json:"provider"`
	Providers map[string]ProviderSettings `json:"providers"`
}

// SettingsUpdate carries changed settings. Nil pointers mean "unchanged";
// a pointer to the empty string clears the value.
type SettingsUpdate struct {
	Provider *string            `json:"provider,omitempty"`
	Keys     map[string]*string `json:"keys,omitempty"`
	Models   map[string]*string `json:"models,omitempty"`
}

// SettingsService manages the persisted AI provider preferences
type SettingsService interface {
	GetSettings(ctx context.Context) (*SettingsView, error)
	UpdateSettings(ctx context.Context, update SettingsUpdate) (*SettingsView, error)
}

type settingsService struct {
	settings        repository.SettingsRepository
	defaultProvider string
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settings repository.SettingsRepository, defaultProvider string) SettingsService {
	return &settingsService{settings: settings, defaultProvider: defaultProvider}
}

func (s *settingsService) GetSettings(ctx context.Context) (*SettingsView, error) {
	all, err := s.settings.All(ctx)
	if err != nil {
		return nil, errors.NewPersistenceError("load settings", err)
	}

	view := &SettingsView{
		Provider:  all[models.SettingProvider],
		Providers: map[string]ProviderSettings{},
	}
	if view.Provider == "" {
		view.Provider = s.defaultProvider
	}
	for _, p := range []string{ai.ProviderOpenAI, ai.ProviderGemini, ai.ProviderAnthropic} {
		key := all[models.SettingKeyPrefix+p]
		view.Providers[p] = ProviderSettings{
			Configured: key != "",
			MaskedKey:  maskKey(key),
			Model:      all[models.SettingModelPrefix+p],
		}
	}
	return view, nil
}

func (s *settingsService) UpdateSettings(ctx context.Context, update SettingsUpdate) (*SettingsView, error) {
	log := logger.FromContext(ctx)

	if update.Provider != nil {
		if !ai.ValidProvider(*update.Provider) {
			return nil, errors.NewValidationError("provider", "must be one of openai, gemini, anthropic")
		}
		if err := s.settings.Set(ctx, models.SettingProvider, *update.Provider); err != nil {
			return nil, errors.NewPersistenceError("store provider selection", err)
		}
		log.Info("active provider set to %s", *update.Provider)
	}
	for p, key := range update.Keys {
		if !ai.ValidProvider(p) {
			return nil, errors.NewValidationError("keys", "unknown provider: "+p)
		}
		if key == nil {
			continue
		}
		if err := s.settings.Set(ctx, models.SettingKeyPrefix+p, strings.TrimSpace(*key)); err != nil {
			return nil, errors.NewPersistenceError("store API key", err)
		}
	}
	for p, model := range update.Models {
		if !ai.ValidProvider(p) {
			return nil, errors.NewValidationError("models", "unknown provider: "+p)
		}
		if model == nil {
			continue
		}
		if err := s.settings.Set(ctx, models.SettingModelPrefix+p, strings.TrimSpace(*model)); err != nil {
			return nil, errors.NewPersistenceError("store model override", err)
		}
	}

	return s.GetSettings(ctx)
}

func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
