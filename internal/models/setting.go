package models

import "time"

// Setting is one row of the persisted key/value store backing user
// preferences such as the selected AI provider and per-provider keys.
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Setting keys for AI provider configuration.
const (
	SettingProvider    = "ai.provider"
	SettingKeyPrefix   = "ai.key."
	SettingModelPrefix = "ai.model."
)
