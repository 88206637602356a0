package extract

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// Strategy turns one text payload into zero or more posts. Implementations
// must be stateless and deterministic so a cascade can run them in any
// process and tests can exercise them one by one.
type Strategy interface {
	Name() string
	Extract(text string) []Post
}

// Stage is a group of strategies whose results accumulate. The cascade stops
// at the first stage that yields at least one post.
type Stage []Strategy

// DefaultStages is the built-in cascade: an embedded JSON array first, then
// every known markdown convention.
func DefaultStages() []Stage {
	return []Stage{
		{JSONArray{}},
		Patterns(),
	}
}

// Extractor recovers posts from a raw Responses API body. Each output item
// is handled on its own; a malformed item is logged and skipped so it never
// costs the rest of the response.
type Extractor struct {
	Stages []Stage
	// Logger receives extraction warnings. Nil uses the global logger.
	Logger *zerolog.Logger
}

// New returns an Extractor running DefaultStages.
func New() *Extractor {
	return &Extractor{Stages: DefaultStages()}
}

// Extract returns the deduplicated posts found in raw, in discovery order,
// cut to the first limit entries. limit <= 0 disables the cut.
func (e *Extractor) Extract(raw []byte, limit int) []Post {
	output := gjson.GetBytes(raw, "output")
	if !output.IsArray() {
		e.logger().Debug().Msg("response has no output array")
		return nil
	}
	var acc accumulator
	for i, item := range output.Array() {
		e.contain("item", i, func() { e.item(i, item, &acc) })
	}
	return acc.take(limit)
}

func (e *Extractor) item(i int, item gjson.Result, acc *accumulator) {
	switch {
	case IsStructured(item):
		p, err := FromItem(item, e.logger())
		if err != nil {
			e.logger().Warn().Err(err).Int("item", i).Msg("skip malformed post item")
			return
		}
		acc.add(p)
	case item.Get("type").String() == "message":
		for _, text := range messageTexts(item) {
			for _, p := range e.FromText(text) {
				acc.add(p)
			}
		}
	default:
		e.logger().Debug().Int("item", i).Str("type", item.Get("type").String()).Msg("ignore output item")
	}
}

// FromText runs the strategy cascade over one text payload, with CRLF line
// endings read as LF. When no stage yields anything, non-blank text becomes a
// single summary post.
func (e *Extractor) FromText(text string) []Post {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, stage := range e.stages() {
		var found []Post
		for _, s := range stage {
			s = e.bind(s)
			e.contain(s.Name(), -1, func() { found = append(found, s.Extract(text)...) })
		}
		if len(found) > 0 {
			e.logger().Debug().Int("posts", len(found)).Msg("text strategies matched")
			return found
		}
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return []Post{summaryPost(text)}
}

// bind hands the extractor's logger to strategies that log on their own.
func (e *Extractor) bind(s Strategy) Strategy {
	if j, ok := s.(JSONArray); ok && j.Logger == nil {
		j.Logger = e.logger()
		return j
	}
	return s
}

func (e *Extractor) stages() []Stage {
	if e.Stages == nil {
		return DefaultStages()
	}
	return e.Stages
}

func (e *Extractor) logger() *zerolog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return &log.Logger
}

// contain turns a panic inside one item or strategy into a warning.
func (e *Extractor) contain(what string, item int, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger().Warn().Str("stage", what).Int("item", item).Interface("panic", r).Msg("extraction step failed")
		}
	}()
	fn()
}

// messageTexts returns the text payloads of a message item. Content is
// either a plain string or a list of typed blocks of which only output_text
// counts.
func messageTexts(item gjson.Result) []string {
	content := item.Get("content")
	if content.Type == gjson.String {
		return []string{content.Str}
	}
	if !content.IsArray() {
		return nil
	}
	var out []string
	for _, block := range content.Array() {
		if block.Get("type").String() != "output_text" {
			continue
		}
		if t := block.Get("text"); t.Type == gjson.String {
			out = append(out, t.Str)
		}
	}
	return out
}

type accumulator struct {
	posts []Post
	seen  map[Post]struct{}
}

func (a *accumulator) add(p Post) {
	if a.seen == nil {
		a.seen = make(map[Post]struct{})
	}
	if _, dup := a.seen[p]; dup {
		return
	}
	a.seen[p] = struct{}{}
	a.posts = append(a.posts, p)
}

func (a *accumulator) take(limit int) []Post {
	if limit > 0 && len(a.posts) > limit {
		return a.posts[:limit]
	}
	return a.posts
}
