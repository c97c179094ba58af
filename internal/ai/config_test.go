package ai_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/studyflash/studyflash/internal/ai"
	"github.com/studyflash/studyflash/internal/models"
	"github.com/studyflash/studyflash/internal/testutil/mocks"
)

func TestResolveUsesStoredProviderAndKey(t *testing.T) {
	repo := new(mocks.MockSettingsRepository)
	repo.On("Get", mock.Anything, models.SettingProvider).Return("openai", nil)
	repo.On("Get", mock.Anything, models.SettingKeyPrefix+"openai").Return("sk-stored", nil)
	repo.On("Get", mock.Anything, models.SettingModelPrefix+"openai").Return("", nil)

	r := ai.NewSettingsResolver(repo, "gemini", nil)
	cfg, err := r.Resolve(context.Background(), "")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "sk-stored", cfg.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
}

func TestResolveStoredKeyWinsOverEnv(t *testing.T) {
	repo := new(mocks.MockSettingsRepository)
	repo.On("Get", mock.Anything, models.SettingProvider).Return("", nil)
	repo.On("Get", mock.Anything, models.SettingKeyPrefix+"gemini").Return("stored-key", nil)
	repo.On("Get", mock.Anything, models.SettingModelPrefix+"gemini").Return("", nil)

	r := ai.NewSettingsResolver(repo, "gemini", map[string]string{"gemini": "env-key"})
	cfg, err := r.Resolve(context.Background(), "")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "stored-key", cfg.APIKey)
}

func TestResolveFallsBackToEnvKey(t *testing.T) {
	repo := new(mocks.MockSettingsRepository)
	repo.On("Get", mock.Anything, models.SettingProvider).Return("", nil)
	repo.On("Get", mock.Anything, models.SettingKeyPrefix+"gemini").Return("", nil)
	repo.On("Get", mock.Anything, models.SettingModelPrefix+"gemini").Return("", nil)

	r := ai.NewSettingsResolver(repo, "gemini", map[string]string{"gemini": "env-key"})
	cfg, err := r.Resolve(context.Background(), "")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "gemini-2.0-flash-exp", cfg.Model)
}

func TestResolveNoKeyMeansNotConfigured(t *testing.T) {
	repo := new(mocks.MockSettingsRepository)
	repo.On("Get", mock.Anything, models.SettingProvider).Return("", nil)
	repo.On("Get", mock.Anything, models.SettingKeyPrefix+"gemini").Return("", nil)

	r := ai.NewSettingsResolver(repo, "gemini", nil)
	cfg, err := r.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestResolveModelOverrideFromSettings(t *testing.T) {
	repo := new(mocks.MockSettingsRepository)
	repo.On("Get", mock.Anything, models.SettingKeyPrefix+"anthropic").Return("sk-ant", nil)
	repo.On("Get", mock.Anything, models.SettingModelPrefix+"anthropic").Return("claude-3-opus", nil)

	r := ai.NewSettingsResolver(repo, "gemini", nil)
	cfg, err := r.Resolve(context.Background(), "anthropic")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "claude-3-opus", cfg.Model)
}

func TestResolveUnknownProvider(t *testing.T) {
	repo := new(mocks.MockSettingsRepository)

	r := ai.NewSettingsResolver(repo, "gemini", nil)
	cfg, err := r.Resolve(context.Background(), "llama")
	require.NoError(t, err)
	assert.Nil(t, cfg)
}
