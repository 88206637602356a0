package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/xsearch/internal/app"
	"github.com/hyperifyio/xsearch/internal/result"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run is main without the process: it parses args, layers configuration and
// returns the exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.RFC3339, NoColor: !isTerminal(stderr)})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	fs := flag.NewFlagSet("xsearch", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		query         string
		apiKey        string
		apiBase       string
		model         string
		maxResults    int
		proxyURL      string
		analyze       bool
		analysisModel string
		report        string
		configPath    string
		envFiles      string
		verbose       bool
		showVersion   bool
	)

	fs.StringVar(&query, "query", "", "Search query; also accepted as positional arguments. Empty starts the interactive menu")
	fs.StringVar(&apiKey, "api.key", "", "xAI API key (env GROK_API_KEY or XAI_API_KEY)")
	fs.StringVar(&apiBase, "api.base", "", "xAI API base URL (env GROK_API_BASE)")
	fs.StringVar(&model, "model", "", "Model used for x_search; must be a reasoning variant (env GROK_MODEL)")
	fs.IntVar(&maxResults, "max", app.DefaultMaxResults, "Maximum number of posts to return")
	fs.StringVar(&proxyURL, "proxy", "", "Proxy URL, e.g. socks5://127.0.0.1:1080 (env SOCKS5_PROXY)")
	fs.BoolVar(&analyze, "analyze", false, "Run a deep analysis of the extracted posts")
	fs.StringVar(&analysisModel, "analyze.model", "", "Model used for deep analysis")
	fs.StringVar(&report, "report", "", "Where the token report goes: stderr, stdout, json or off (env XSEARCH_REPORT)")
	fs.StringVar(&configPath, "config", "", "Path to YAML or JSON config file")
	fs.StringVar(&envFiles, "env", ".env", "Comma-separated dotenv files to load; missing files are ignored")
	fs.BoolVar(&verbose, "v", false, "Verbose logging")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if showVersion {
		fmt.Fprintf(stdout, "xsearch %s (%s)\n", app.BuildVersion, app.BuildCommit)
		return 0
	}

	if query == "" && fs.NArg() > 0 {
		query = strings.Join(fs.Args(), " ")
	}
	query = strings.TrimSpace(query)

	if err := app.LoadEnvFiles(strings.Split(envFiles, ",")...); err != nil {
		log.Warn().Err(err).Msg("dotenv load failed")
	}

	// Precedence: flags > env > file > defaults
	var cfg app.Config
	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("load config")
			return 1
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["api.key"] { cfg.APIKey = apiKey }
	if set["api.base"] { cfg.BaseURL = apiBase }
	if set["model"] { cfg.Model = model }
	if set["max"] { cfg.MaxResults = maxResults }
	if set["proxy"] { cfg.Proxy = proxyURL }
	if set["analyze"] { cfg.Analyze = analyze }
	if set["analyze.model"] { cfg.AnalysisModel = analysisModel }
	if set["report"] { cfg.Report = strings.ToLower(report) }
	if set["v"] { cfg.Verbose = verbose }

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		if errors.Is(err, app.ErrMissingAPIKey) {
			writeError(stdout, err)
		}
		return 1
	}
	defer a.Close()

	if query == "" {
		if err := a.RunInteractive(ctx, stdin, stdout, stderr); err != nil {
			log.Error().Err(err).Msg("interactive session failed")
			return 1
		}
		return 0
	}

	res := a.Search(ctx, query, a.Config().Analyze)
	if err := app.WriteResult(stdout, stderr, res, a.Config().Report); err != nil {
		log.Error().Err(err).Msg("write result")
		return 1
	}
	return 0
}

// writeError emits the minimal error document used before any search ran.
func writeError(w io.Writer, err error) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	_ = enc.Encode(map[string]string{"status": result.StatusError, "message": err.Error()})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
