package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// Canned Responses API bodies, one per extraction path.
const (
	structuredBody = `{"id":"resp_stub","model":%q,"output":[
  {"author":{"handle":"gopher"},"id":"1900000000000000001","content":"Go 1.24 is out","timestamp":"2026-02-11","engagement":{"likes":420,"reposts":37}},
  {"author":"@rustacean","id":"1900000000000000002","content":"Cargo workspaces tip","timestamp":"2026-02-12","engagement":{"likes":"88","reposts":"5"}}
],"usage":{"input_tokens":1800,"output_tokens":240,"server_side_tool_usage_details":{"x_search_calls":1}}}`

	narrativeText = "Here is what people are saying about %s:\n\n" +
		"1. **@gopher** (Feb 11, 2026): \"Generics made our codebase smaller\" [[1]](https://x.com/gopher/status/1900000000000000003)\n" +
		"2. **@kubeadmin** (Feb 12, 2026): \"Rolled out the new scheduler today\"\n"

	summaryText = "Posts about %s mostly discuss release notes and migration stories. No individual posts stood out."
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	model := os.Getenv("MODEL_ID")
	if strings.TrimSpace(model) == "" {
		model = "grok-4-1-fast-reasoning"
	}
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8081"
	}
	mode := os.Getenv("STUB_MODE")

	log.Info().Str("addr", addr).Str("model", model).Str("mode", mode).Msg("xai-stub listening")
	if err := http.ListenAndServe(addr, newMux(model, mode)); err != nil {
		log.Fatal().Err(err).Msg("listen")
	}
}

// newMux serves /v1/responses, /v1/models and /v1/chat/completions. mode
// selects the response shape: structured (default), narrative, summary or
// error.
func newMux(model, mode string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": model, "object": "model"}},
		})
	})
	mux.HandleFunc("/v1/responses", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			http.Error(w, `{"error":"missing bearer token"}`, http.StatusUnauthorized)
			return
		}
		req := gjson.Parse(readAll(r))
		if !req.Get(`tools.#(type=="x_search")`).Exists() {
			http.Error(w, `{"error":"x_search tool required"}`, http.StatusBadRequest)
			return
		}
		query := topic(req.Get("input").String())
		log.Debug().Str("query", query).Str("mode", mode).Msg("responses request")

		w.Header().Set("Content-Type", "application/json")
		switch mode {
		case "error":
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = fmt.Fprint(w, `{"error":"rate limit exceeded"}`)
		case "narrative":
			_, _ = fmt.Fprint(w, messageBody(model, fmt.Sprintf(narrativeText, query)))
		case "summary":
			_, _ = fmt.Fprint(w, messageBody(model, fmt.Sprintf(summaryText, query)))
		default:
			_, _ = fmt.Fprintf(w, structuredBody, model)
		}
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		user := gjson.Get(readAll(r), `messages.#(role=="user").content`).String()
		lines := 0
		for _, l := range strings.Split(user, "\n") {
			if len(l) > 1 && l[0] >= '0' && l[0] <= '9' {
				lines++
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": fmt.Sprintf("## Digest\n%d posts reviewed.", lines)}},
			},
		})
	})
	return mux
}

func messageBody(model, text string) string {
	b, _ := json.Marshal(map[string]any{
		"id":    "resp_stub",
		"model": model,
		"output": []map[string]any{
			{"type": "message", "role": "assistant", "content": []map[string]string{{"type": "output_text", "text": text}}},
		},
		"usage": map[string]int{"input_tokens": 900, "output_tokens": 120, "x_search_calls": 1},
	})
	return string(b)
}

// topic recovers the query from "Search X for: <q>. Return up to N posts."
func topic(input string) string {
	s := strings.TrimPrefix(input, "Search X for: ")
	if i := strings.LastIndex(s, ". Return up to "); i >= 0 {
		s = s[:i]
	}
	return s
}

func readAll(r *http.Request) string {
	defer r.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	return string(b)
}
