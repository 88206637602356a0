package app

import (
    "context"
    "errors"
    "fmt"
    "strings"
    "sync"

    "github.com/rs/zerolog/log"
    "github.com/tidwall/gjson"

    "github.com/hyperifyio/xsearch/internal/analyze"
    "github.com/hyperifyio/xsearch/internal/extract"
    "github.com/hyperifyio/xsearch/internal/llm"
    "github.com/hyperifyio/xsearch/internal/result"
    "github.com/hyperifyio/xsearch/internal/usage"
    "github.com/hyperifyio/xsearch/internal/xai"
)

// ErrInvalidResponse is returned when the provider answers 2xx with a body
// that is not JSON.
var ErrInvalidResponse = errors.New("decode response: invalid JSON")

type App struct {
    cfg       Config
    extractor *extract.Extractor

    mu       sync.Mutex
    client   *xai.Client
    analyzer *analyze.Analyzer
}

// New validates cfg and prepares an App. The transport is built on first use.
func New(cfg Config) (*App, error) {
    ApplyDefaults(&cfg)
    if err := ValidateConfig(cfg); err != nil {
        return nil, err
    }
    return &App{cfg: cfg, extractor: extract.New()}, nil
}

// Config returns the effective configuration.
func (a *App) Config() Config { return a.cfg }

// Close releases idle connections held by the transport.
func (a *App) Close() {
    a.mu.Lock()
    defer a.mu.Unlock()
    if a.client != nil {
        a.client.HTTPClient().CloseIdleConnections()
    }
}

// Search runs one query end to end. It never returns an error: every failure
// is folded into an error envelope so callers always have a document to emit.
func (a *App) Search(ctx context.Context, query string, deep bool) (res result.SearchResult) {
    model := a.cfg.Model
    defer func() {
        if r := recover(); r != nil {
            log.Error().Interface("panic", r).Str("query", query).Msg("search panicked")
            res = result.Failure(query, model, fmt.Errorf("%v", r))
        }
    }()

    res, err := a.search(ctx, query, deep)
    if err != nil {
        log.Error().Err(err).Str("query", query).Msg("search failed")
        return result.Failure(query, model, err)
    }
    return res
}

func (a *App) search(ctx context.Context, query string, deep bool) (result.SearchResult, error) {
    client, err := a.transport()
    if err != nil {
        return result.SearchResult{}, err
    }

    req := xai.BuildRequest(query, a.cfg.MaxResults, a.cfg.Model)
    log.Info().Str("query", query).Str("model", req.Model).Int("max", a.cfg.MaxResults).Msg("searching X")

    raw, err := client.Send(ctx, req)
    if err != nil {
        return result.SearchResult{}, fmt.Errorf("search: %w", err)
    }
    if !gjson.ValidBytes(raw) {
        return result.SearchResult{}, ErrInvalidResponse
    }

    posts := a.extractor.Extract(raw, a.cfg.MaxResults)
    rep := usage.Build(gjson.GetBytes(raw, "usage"), a.cfg.Pricing)
    res := result.Success(query, req.Model, posts, rep)
    log.Info().Int("posts", len(posts)).Int("tokens", rep.Usage.TotalTokens).Float64("cost", rep.Cost).Msg("search complete")

    if deep && len(posts) > 0 {
        // A failed digest does not void the posts already found.
        text, aerr := a.analyzer.Analyze(ctx, query, posts)
        if aerr != nil {
            log.Warn().Err(aerr).Msg("analysis failed; returning posts only")
        } else {
            res.Analysis = text
        }
    }
    return res, nil
}

// transport builds the shared client and analyzer once. Both reuse the same
// pooled HTTP client so the proxy applies to every call.
func (a *App) transport() (*xai.Client, error) {
    a.mu.Lock()
    defer a.mu.Unlock()
    if a.client != nil {
        return a.client, nil
    }
    client, err := xai.NewClient(xai.Options{
        BaseURL:        a.cfg.BaseURL,
        APIKey:         a.cfg.APIKey,
        Proxy:          a.cfg.Proxy,
        ConnectTimeout: a.cfg.ConnectTimeout,
        ReadTimeout:    a.cfg.ReadTimeout,
        UserAgent:      UserAgent(),
    })
    if err != nil {
        return nil, err
    }
    a.client = client
    a.analyzer = &analyze.Analyzer{
        Client: llm.NewOpenAI(client.BaseURL(), a.cfg.APIKey, client.HTTPClient()),
        Model:  a.cfg.AnalysisModel,
    }
    if p := strings.TrimSpace(a.cfg.Proxy); p != "" {
        log.Debug().Str("proxy", p).Msg("using proxy")
    }
    return a.client, nil
}
