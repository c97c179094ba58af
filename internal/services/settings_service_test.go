package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/studyflash/studyflash/internal/ai"
	apperrors "github.com/studyflash/studyflash/internal/errors"
	"github.com/studyflash/studyflash/internal/models"
	"github.com/studyflash/studyflash/internal/services"
	"github.com/studyflash/studyflash/internal/testutil/mocks"
)

func TestGetSettingsMasksKeys(t *testing.T) {
	repo := new(mocks.MockSettingsRepository)
	repo.On("All", mock.Anything).Return(map[string]string{
		models.SettingProvider:                     "openai",
		models.SettingKeyPrefix + "openai":         "sk-proj-abcdef123456",
		models.SettingModelPrefix + "openai":       "gpt-4o",
		models.SettingKeyPrefix + ai.ProviderGemini: "",
	}, nil)

	svc := services.NewSettingsService(repo, "gemini")
	view, err := svc.GetSettings(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "openai", view.Provider)

	openai := view.Providers["openai"]
	assert.True(t, openai.Configured)
	assert.Equal(t, "****3456", openai.MaskedKey)
	assert.Equal(t, "gpt-4o", openai.Model)

	gemini := view.Providers["gemini"]
	assert.False(t, gemini.Configured)
	assert.Empty(t, gemini.MaskedKey)
}

func TestGetSettingsDefaultProvider(t *testing.T) {
	repo := new(mocks.MockSettingsRepository)
	repo.On("All", mock.Anything).Return(map[string]string{}, nil)

	svc := services.NewSettingsService(repo, "gemini")
	view, err := svc.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "gemini", view.Provider)
}

func TestUpdateSettings(t *testing.T) {
	repo := new(mocks.MockSettingsRepository)
	provider := "anthropic"
	key := " sk-ant-secret "
	model := "claude-3-opus"

	repo.On("Set", mock.Anything, models.SettingProvider, "anthropic").Return(nil)
	repo.On("Set", mock.Anything, models.SettingKeyPrefix+"anthropic", "sk-ant-secret").Return(nil)
	repo.On("Set", mock.Anything, models.SettingModelPrefix+"anthropic", "claude-3-opus").Return(nil)
	repo.On("All", mock.Anything).Return(map[string]string{
		models.SettingProvider:                "anthropic",
		models.SettingKeyPrefix + "anthropic": "sk-ant-secret",
	}, nil)

	svc := services.NewSettingsService(repo, "gemini")
	view, err := svc.UpdateSettings(context.Background(), services.SettingsUpdate{
		Provider: &provider,
		Keys:     map[string]*string{"anthropic": &key},
		Models:   map[string]*string{"anthropic": &model},
	})
	require.NoError(t, err)
	assert.Equal(t, "anthropic", view.Provider)
	repo.AssertExpectations(t)
}

func TestUpdateSettingsClearsKey(t *testing.T) {
	repo := new(mocks.MockSettingsRepository)
	empty := ""
	repo.On("Set", mock.Anything, models.SettingKeyPrefix+"openai", "").Return(nil)
	repo.On("All", mock.Anything).Return(map[string]string{}, nil)

	svc := services.NewSettingsService(repo, "gemini")
	_, err := svc.UpdateSettings(context.Background(), services.SettingsUpdate{
		Keys: map[string]*string{"openai": &empty},
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdateSettingsNilMeansUnchanged(t *testing.T) {
	repo := new(mocks.MockSettingsRepository)
	repo.On("All", mock.Anything).Return(map[string]string{}, nil)

	svc := services.NewSettingsService(repo, "gemini")
	_, err := svc.UpdateSettings(context.Background(), services.SettingsUpdate{
		Keys: map[string]*string{"openai": nil},
	})
	require.NoError(t, err)
	repo.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateSettingsRejectsUnknownProvider(t *testing.T) {
	repo := new(mocks.MockSettingsRepository)
	bad := "llama"

	svc := services.NewSettingsService(repo, "gemini")
	_, err := svc.UpdateSettings(context.Background(), services.SettingsUpdate{Provider: &bad})
	require.Error(t, err)

	var ae *apperrors.AppError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperrors.ErrCodeValidation, ae.Code)
}
