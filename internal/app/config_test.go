package app

import (
    "errors"
    "os"
    "path/filepath"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/hyperifyio/xsearch/internal/usage"
    "github.com/hyperifyio/xsearch/internal/xai"
)

func TestApplyDefaults(t *testing.T) {
    var cfg Config
    ApplyDefaults(&cfg)
    assert.Equal(t, xai.DefaultBaseURL, cfg.BaseURL)
    assert.Equal(t, xai.DefaultModel, cfg.Model)
    assert.Equal(t, DefaultMaxResults, cfg.MaxResults)
    assert.Equal(t, ReportStderr, cfg.Report)
    assert.Equal(t, usage.DefaultPricing, cfg.Pricing)
    assert.Equal(t, xai.DefaultConnectTimeout, cfg.ConnectTimeout)
    assert.Equal(t, xai.DefaultReadTimeout, cfg.ReadTimeout)
}

func TestValidateConfig(t *testing.T) {
    cfg := Config{}
    ApplyDefaults(&cfg)
    assert.True(t, errors.Is(ValidateConfig(cfg), ErrMissingAPIKey))

    cfg.APIKey = "k"
    assert.NoError(t, ValidateConfig(cfg))

    cfg.Report = "pager"
    assert.Error(t, ValidateConfig(cfg))
}

func TestNew_RejectsNegativeMax(t *testing.T) {
    _, err := New(Config{APIKey: "k", MaxResults: -5})
    require.Error(t, err)
    assert.Contains(t, err.Error(), "negative max results")

    a, err := New(Config{APIKey: "k"})
    require.NoError(t, err)
    assert.Equal(t, DefaultMaxResults, a.Config().MaxResults)
}

func TestApplyFileConfig_ReportIsLowercased(t *testing.T) {
    var fc FileConfig
    fc.Report = " JSON "
    var cfg Config
    ApplyFileConfig(&cfg, fc)
    assert.Equal(t, ReportJSON, cfg.Report)
}

func TestLoadConfigFile_YAML(t *testing.T) {
    path := filepath.Join(t.TempDir(), "xsearch.yaml")
    content := `
api:
  key: file-key
  base: http://file.example/v1
model: grok-file
proxy: socks5h://127.0.0.1:9050
maxResults: 25
analyze:
  enable: true
  model: grok-digest
report: off
pricing:
  inputPerMillion: 0.4
timeouts:
  connect: 3s
  read: 90s
`
    require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

    fc, err := LoadConfigFile(path)
    require.NoError(t, err)

    var cfg Config
    ApplyFileConfig(&cfg, fc)
    assert.Equal(t, "file-key", cfg.APIKey)
    assert.Equal(t, "http://file.example/v1", cfg.BaseURL)
    assert.Equal(t, "grok-file", cfg.Model)
    assert.Equal(t, "socks5h://127.0.0.1:9050", cfg.Proxy)
    assert.Equal(t, 25, cfg.MaxResults)
    assert.True(t, cfg.Analyze)
    assert.Equal(t, "grok-digest", cfg.AnalysisModel)
    assert.Equal(t, ReportOff, cfg.Report)
    assert.Equal(t, 0.4, cfg.Pricing.InputPerMillion)
    assert.Equal(t, 3*time.Second, cfg.ConnectTimeout)
    assert.Equal(t, 90*time.Second, cfg.ReadTimeout)
}

func TestLoadConfigFile_JSON(t *testing.T) {
    path := filepath.Join(t.TempDir(), "xsearch.json")
    require.NoError(t, os.WriteFile(path, []byte(`{"api":{"key":"j"},"maxResults":4}`), 0o600))

    fc, err := LoadConfigFile(path)
    require.NoError(t, err)
    assert.Equal(t, "j", fc.API.Key)
    assert.Equal(t, 4, fc.MaxResults)
}

// Env beats file when both are applied in order.
func TestLayering_EnvOverFile(t *testing.T) {
    t.Setenv("GROK_MODEL", "grok-env")
    t.Setenv("GROK_API_KEY", "")
    t.Setenv("XAI_API_KEY", "")

    var fc FileConfig
    fc.Model = "grok-file"
    fc.API.Key = "file-key"

    var cfg Config
    ApplyFileConfig(&cfg, fc)
    ApplyEnvOverrides(&cfg)
    assert.Equal(t, "grok-env", cfg.Model)
    assert.Equal(t, "file-key", cfg.APIKey)
}
