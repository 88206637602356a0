package app

import (
    "errors"
    "fmt"
    "strings"
    "time"

    "github.com/hyperifyio/xsearch/internal/usage"
    "github.com/hyperifyio/xsearch/internal/xai"
)

// Report destinations for the human-readable token report.
const (
    ReportStderr = "stderr"
    ReportStdout = "stdout"
    ReportJSON   = "json"
    ReportOff    = "off"
)

// DefaultMaxResults is the number of posts asked for when unset.
const DefaultMaxResults = 10

// ErrMissingAPIKey is the only fatal configuration error: nothing can be
// searched without a credential.
var ErrMissingAPIKey = errors.New("missing API key: pass -api.key or set GROK_API_KEY")

// Config holds runtime configuration for the application.
type Config struct {
    // API
    APIKey  string
    BaseURL string
    Model   string
    Proxy   string

    // Search
    MaxResults int

    // Deep analysis
    Analyze       bool
    AnalysisModel string

    // Output
    Report  string
    Pricing usage.Pricing

    // Transport
    ConnectTimeout time.Duration
    ReadTimeout    time.Duration

    Verbose bool
}

// ApplyDefaults fills every zero field with its default. A negative
// MaxResults is left for ValidateConfig to reject.
func ApplyDefaults(cfg *Config) {
    if cfg == nil { return }
    if strings.TrimSpace(cfg.BaseURL) == "" { cfg.BaseURL = xai.DefaultBaseURL }
    if strings.TrimSpace(cfg.Model) == "" { cfg.Model = xai.DefaultModel }
    if cfg.MaxResults == 0 { cfg.MaxResults = DefaultMaxResults }
    if strings.TrimSpace(cfg.Report) == "" { cfg.Report = ReportStderr }
    if cfg.Pricing.InputPerMillion <= 0 { cfg.Pricing.InputPerMillion = usage.DefaultPricing.InputPerMillion }
    if cfg.Pricing.OutputPerMillion <= 0 { cfg.Pricing.OutputPerMillion = usage.DefaultPricing.OutputPerMillion }
    if cfg.ConnectTimeout <= 0 { cfg.ConnectTimeout = xai.DefaultConnectTimeout }
    if cfg.ReadTimeout <= 0 { cfg.ReadTimeout = xai.DefaultReadTimeout }
}

// ValidateConfig checks settings after defaults were applied.
func ValidateConfig(cfg Config) error {
    if strings.TrimSpace(cfg.APIKey) == "" {
        return ErrMissingAPIKey
    }
    switch cfg.Report {
    case ReportStderr, ReportStdout, ReportJSON, ReportOff:
    default:
        return fmt.Errorf("config: unknown report destination %q", cfg.Report)
    }
    if cfg.MaxResults < 0 {
        return fmt.Errorf("config: negative max results %d", cfg.MaxResults)
    }
    return nil
}
