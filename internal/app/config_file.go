package app

import (
    "encoding/json"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "time"

    yaml "gopkg.in/yaml.v3"

    "github.com/hyperifyio/xsearch/internal/usage"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
    API struct {
        Key  string `yaml:"key" json:"key"`
        Base string `yaml:"base" json:"base"`
    } `yaml:"api" json:"api"`

    Model      string `yaml:"model" json:"model"`
    Proxy      string `yaml:"proxy" json:"proxy"`
    MaxResults int    `yaml:"maxResults" json:"maxResults"`

    Analyze struct {
        Enable bool   `yaml:"enable" json:"enable"`
        Model  string `yaml:"model" json:"model"`
    } `yaml:"analyze" json:"analyze"`

    Report  string        `yaml:"report" json:"report"`
    Pricing usage.Pricing `yaml:"pricing" json:"pricing"`

    Timeouts struct {
        Connect time.Duration `yaml:"connect" json:"connect"`
        Read    time.Duration `yaml:"read" json:"read"`
    } `yaml:"timeouts" json:"timeouts"`

    Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
    var fc FileConfig
    b, err := os.ReadFile(path)
    if err != nil {
        return fc, err
    }
    switch ext := filepath.Ext(path); ext {
    case ".yaml", ".yml":
        if err := yaml.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse yaml: %w", err)
        }
    case ".json":
        if err := json.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse json: %w", err)
        }
    default:
        // Try YAML then JSON
        if err := yaml.Unmarshal(b, &fc); err != nil {
            if jerr := json.Unmarshal(b, &fc); jerr != nil {
                return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
            }
        }
    }
    return fc, nil
}

// ApplyFileConfig copies every value set in fc into cfg. It runs first, so
// env and flags applied afterwards take precedence.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
    if cfg == nil { return }
    if fc.API.Key != "" { cfg.APIKey = fc.API.Key }
    if fc.API.Base != "" { cfg.BaseURL = fc.API.Base }
    if fc.Model != "" { cfg.Model = fc.Model }
    if fc.Proxy != "" { cfg.Proxy = fc.Proxy }
    if fc.MaxResults > 0 { cfg.MaxResults = fc.MaxResults }
    if fc.Analyze.Enable { cfg.Analyze = true }
    if fc.Analyze.Model != "" { cfg.AnalysisModel = fc.Analyze.Model }
    if r := strings.ToLower(strings.TrimSpace(fc.Report)); r != "" { cfg.Report = r }
    if fc.Pricing.InputPerMillion > 0 { cfg.Pricing.InputPerMillion = fc.Pricing.InputPerMillion }
    if fc.Pricing.OutputPerMillion > 0 { cfg.Pricing.OutputPerMillion = fc.Pricing.OutputPerMillion }
    if fc.Timeouts.Connect > 0 { cfg.ConnectTimeout = fc.Timeouts.Connect }
    if fc.Timeouts.Read > 0 { cfg.ReadTimeout = fc.Timeouts.Read }
    if fc.Verbose { cfg.Verbose = true }
}
