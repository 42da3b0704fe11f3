package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load(t *testing.T) {
	t.Run("should apply defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "render.work", cfg.StreamKey)
		assert.Equal(t, "render-workers", cfg.ConsumerGroup)
		assert.Equal(t, SourceFS, cfg.TemplateSource)
		assert.Equal(t, 32, cfg.RecursionLimit)
		assert.Equal(t, "en", cfg.DefaultLocale)
	})

	t.Run("should read environment variables", func(t *testing.T) {
		t.Setenv("TEMPLATE_SOURCE", "redis")
		t.Setenv("RECURSION_LIMIT", "8")
		t.Setenv("ASYNC_WORKERS", "2")
		t.Setenv("DEFAULT_LOCALE", "de")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, SourceRedis, cfg.TemplateSource)
		assert.Equal(t, 8, cfg.RecursionLimit)
		assert.Equal(t, 2, cfg.AsyncWorkers)
		assert.Equal(t, "de", cfg.DefaultLocale)
	})

	t.Run("should reject invalid values", func(t *testing.T) {
		for key, value := range map[string]string{
			"TEMPLATE_SOURCE": "s3",
			"RECURSION_LIMIT": "0",
			"ASYNC_WORKERS":   "-1",
			"LOG_LEVEL":       "trace",
			"HEALTH_PORT":     "70000",
		} {
			t.Run(key, func(t *testing.T) {
				t.Setenv(key, value)
				_, err := Load()
				assert.Error(t, err)
			})
		}
	})
}

func Test_LoadGlobalData(t *testing.T) {
	t.Run("should return nil without a file", func(t *testing.T) {
		data, err := (&Config{}).LoadGlobalData()
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("should parse yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "global.yaml")
		require.NoError(t, os.WriteFile(path, []byte("site: example.org\nfooter:\n  year: 2026\n"), 0o644))

		data, err := (&Config{GlobalDataFile: path}).LoadGlobalData()
		require.NoError(t, err)
		assert.Equal(t, "example.org", data["site"])
		assert.Equal(t, map[string]interface{}{"year": 2026}, data["footer"])
	})

	t.Run("should fail on invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "global.yaml")
		require.NoError(t, os.WriteFile(path, []byte("site: [unclosed"), 0o644))

		_, err := (&Config{GlobalDataFile: path}).LoadGlobalData()
		assert.Error(t, err)
	})
}
