package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err, "Failed to write config file")
	return path
}

func missingConfigFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), DefaultFileName)
}

func strPtr(s string) *string {
	return &s
}

func TestResolve_Precedence(t *testing.T) {
	tests := []struct {
		name        string
		fileContent string
		overrides   Overrides
		expected    Settings
	}{
		{
			name:        "file_only",
			fileContent: `{"webhook_url": "https://discord.com/api/webhooks/X", "default_username": "FileBot", "default_avatar_url": "https://example.com/a.png"}`,
			expected: Settings{
				WebhookURL: "https://discord.com/api/webhooks/X",
				Username:   "FileBot",
				AvatarURL:  "https://example.com/a.png",
				Timeout:    30 * time.Second,
			},
		},
		{
			name:        "flag_overrides_file",
			fileContent: `{"webhook_url": "https://discord.com/api/webhooks/X", "default_username": "FileBot"}`,
			overrides: Overrides{
				WebhookURL: strPtr("https://discord.com/api/webhooks/Y"),
				Username:   strPtr("FlagBot"),
			},
			expected: Settings{
				WebhookURL: "https://discord.com/api/webhooks/Y",
				Username:   "FlagBot",
				Timeout:    30 * time.Second,
			},
		},
		{
			name:        "absent_flag_keeps_file_value",
			fileContent: `{"webhook_url": "https://discord.com/api/webhooks/X", "default_username": "FileBot"}`,
			overrides: Overrides{
				AvatarURL: strPtr("https://example.com/override.png"),
			},
			expected: Settings{
				WebhookURL: "https://discord.com/api/webhooks/X",
				Username:   "FileBot",
				AvatarURL:  "https://example.com/override.png",
				Timeout:    30 * time.Second,
			},
		},
		{
			name:        "empty_username_flag_still_overrides",
			fileContent: `{"webhook_url": "https://discord.com/api/webhooks/X", "default_username": "FileBot"}`,
			overrides: Overrides{
				Username: strPtr(""),
			},
			expected: Settings{
				WebhookURL: "https://discord.com/api/webhooks/X",
				Username:   "",
				Timeout:    30 * time.Second,
			},
		},
		{
			name:        "timeout_from_file",
			fileContent: `{"webhook_url": "https://discord.com/api/webhooks/X", "timeout": 5}`,
			expected: Settings{
				WebhookURL: "https://discord.com/api/webhooks/X",
				Timeout:    5 * time.Second,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.fileContent)

			settings, err := Resolve(path, false, tt.overrides)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, *settings)
		})
	}
}

func TestResolve_MissingFile(t *testing.T) {
	t.Run("flag_supplies_webhook_url", func(t *testing.T) {
		settings, err := Resolve(missingConfigFile(t), false, Overrides{
			WebhookURL: strPtr("https://discord.com/api/webhooks/Y"),
		})
		require.NoError(t, err)
		assert.Equal(t, "https://discord.com/api/webhooks/Y", settings.WebhookURL)
		assert.Equal(t, 30*time.Second, settings.Timeout)
	})

	t.Run("no_webhook_url_anywhere", func(t *testing.T) {
		settings, err := Resolve(missingConfigFile(t), false, Overrides{})
		assert.Nil(t, settings)
		assert.ErrorIs(t, err, ErrNoWebhookURL)
	})

	t.Run("explicit_missing_path_is_not_fatal", func(t *testing.T) {
		settings, err := Resolve(missingConfigFile(t), true, Overrides{
			WebhookURL: strPtr("https://discord.com/api/webhooks/Y"),
		})
		require.NoError(t, err)
		assert.Equal(t, "https://discord.com/api/webhooks/Y", settings.WebhookURL)
	})
}

func TestResolve_EmptyWebhookURLFlagIsNotAbsent(t *testing.T) {
	// an explicitly empty --webhook-url must override the file value and then
	// fail validation, not silently fall back to the config file
	path := writeConfigFile(t, `{"webhook_url": "https://discord.com/api/webhooks/X"}`)

	settings, err := Resolve(path, false, Overrides{WebhookURL: strPtr("")})
	assert.Nil(t, settings)
	assert.ErrorIs(t, err, ErrNoWebhookURL)
}

func TestResolve_MalformedFile(t *testing.T) {
	path := writeConfigFile(t, `{"webhook_url": `)

	settings, err := Resolve(path, false, Overrides{})
	assert.Nil(t, settings)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoWebhookURL)
}

func TestResolve_FileMissingWebhookURLKey(t *testing.T) {
	path := writeConfigFile(t, `{"default_username": "FileBot"}`)

	t.Run("flag_fills_in", func(t *testing.T) {
		settings, err := Resolve(path, false, Overrides{
			WebhookURL: strPtr("https://discord.com/api/webhooks/Y"),
		})
		require.NoError(t, err)
		assert.Equal(t, "https://discord.com/api/webhooks/Y", settings.WebhookURL)
		assert.Equal(t, "FileBot", settings.Username)
	})

	t.Run("nothing_fills_in", func(t *testing.T) {
		settings, err := Resolve(path, false, Overrides{})
		assert.Nil(t, settings)
		assert.ErrorIs(t, err, ErrNoWebhookURL)
	})
}

func TestResolve_Environment(t *testing.T) {
	t.Run("env_overrides_file", func(t *testing.T) {
		path := writeConfigFile(t, `{"webhook_url": "https://discord.com/api/webhooks/X"}`)
		t.Setenv("DISCORDHOOK__WEBHOOK_URL", "https://discord.com/api/webhooks/ENV")

		settings, err := Resolve(path, false, Overrides{})
		require.NoError(t, err)
		assert.Equal(t, "https://discord.com/api/webhooks/ENV", settings.WebhookURL)
	})

	t.Run("flag_overrides_env", func(t *testing.T) {
		t.Setenv("DISCORDHOOK__WEBHOOK_URL", "https://discord.com/api/webhooks/ENV")

		settings, err := Resolve(missingConfigFile(t), false, Overrides{
			WebhookURL: strPtr("https://discord.com/api/webhooks/FLAG"),
		})
		require.NoError(t, err)
		assert.Equal(t, "https://discord.com/api/webhooks/FLAG", settings.WebhookURL)
	})

	t.Run("env_username", func(t *testing.T) {
		t.Setenv("DISCORDHOOK__WEBHOOK_URL", "https://discord.com/api/webhooks/ENV")
		t.Setenv("DISCORDHOOK__DEFAULT_USERNAME", "EnvBot")

		settings, err := Resolve(missingConfigFile(t), false, Overrides{})
		require.NoError(t, err)
		assert.Equal(t, "EnvBot", settings.Username)
	})
}

func TestResolve_TimeoutGuard(t *testing.T) {
	path := writeConfigFile(t, `{"webhook_url": "https://discord.com/api/webhooks/X", "timeout": 0}`)

	settings, err := Resolve(path, false, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, settings.Timeout)
}
