package app

import (
    "os"
    "strconv"
    "strings"
    "time"
)

// ApplyEnvOverrides overrides cfg fields with environment variables that are
// set. It runs after the config file so env beats file, and before flags so
// explicit flags stay highest.
func ApplyEnvOverrides(cfg *Config) {
    if cfg == nil { return }

    if v := firstEnv("GROK_API_KEY", "XAI_API_KEY"); v != "" { cfg.APIKey = v }
    if v := firstEnv("GROK_API_BASE", "XAI_BASE_URL"); v != "" { cfg.BaseURL = v }
    if v := os.Getenv("GROK_MODEL"); v != "" { cfg.Model = v }
    if v := os.Getenv("SOCKS5_PROXY"); v != "" { cfg.Proxy = v }
    if v := os.Getenv("XSEARCH_ANALYSIS_MODEL"); v != "" { cfg.AnalysisModel = v }
    if v := os.Getenv("XSEARCH_REPORT"); v != "" { cfg.Report = strings.ToLower(strings.TrimSpace(v)) }

    if v := strings.TrimSpace(os.Getenv("XSEARCH_MAX_RESULTS")); v != "" {
        if n, err := strconv.Atoi(v); err == nil && n > 0 {
            cfg.MaxResults = n
        }
    }

    setFloat := func(dst *float64, envKey string) {
        if s := strings.TrimSpace(os.Getenv(envKey)); s != "" {
            if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
                *dst = f
            }
        }
    }
    setFloat(&cfg.Pricing.InputPerMillion, "XSEARCH_PRICE_INPUT")
    setFloat(&cfg.Pricing.OutputPerMillion, "XSEARCH_PRICE_OUTPUT")

    setDuration := func(dst *time.Duration, envKey string) {
        if s := os.Getenv(envKey); s != "" {
            if d, err := time.ParseDuration(s); err == nil {
                *dst = d
            }
        }
    }
    setDuration(&cfg.ConnectTimeout, "XSEARCH_CONNECT_TIMEOUT")
    setDuration(&cfg.ReadTimeout, "XSEARCH_READ_TIMEOUT")

    // Booleans override when env present and truthy/falsey
    setBool := func(dst *bool, envKey string) {
        if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
            switch s {
            case "1", "true", "yes", "on":
                *dst = true
            case "0", "false", "no", "off":
                *dst = false
            }
        }
    }
    setBool(&cfg.Analyze, "XSEARCH_ANALYZE")
    setBool(&cfg.Verbose, "VERBOSE")
}

func firstEnv(keys ...string) string {
    for _, k := range keys {
        if v := strings.TrimSpace(os.Getenv(k)); v != "" {
            return v
        }
    }
    return ""
}
