package extract

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
)

// ErrMalformedItem is wrapped by FromItem when a field has an unusable shape.
var ErrMalformedItem = errors.New("malformed post item")

var statusURLRe = regexp.MustCompile(`(?:x|twitter)\.com/([A-Za-z0-9_]+)/status(?:es)?/(\d+)`)

// IsStructured reports whether an output item is a native post record: it
// carries both a non-empty author and a non-empty id.
func IsStructured(item gjson.Result) bool {
	return truthy(item.Get("author")) && truthy(item.Get("id"))
}

// FromItem converts a post-shaped JSON object into a Post. It is used for
// structured output items and for objects found in embedded JSON arrays.
// Unreadable engagement counts become 0 with a warning on logger (nil uses
// the global logger); they never cost the post.
func FromItem(item gjson.Result, logger *zerolog.Logger) (Post, error) {
	if logger == nil {
		logger = &log.Logger
	}
	if !item.IsObject() {
		return Post{}, fmt.Errorf("%w: not an object", ErrMalformedItem)
	}

	handle := ""
	switch author := item.Get("author"); {
	case !author.Exists() || author.Type == gjson.Null:
	case author.IsObject():
		h := author.Get("handle")
		if h.Exists() && h.Type != gjson.String && h.Type != gjson.Null {
			return Post{}, fmt.Errorf("%w: author.handle is %s", ErrMalformedItem, h.Type)
		}
		handle = h.String()
	case author.Type == gjson.String:
		handle = author.Str
	default:
		return Post{}, fmt.Errorf("%w: author is %s", ErrMalformedItem, author.Type)
	}

	content, err := stringField(item, "content", "text")
	if err != nil {
		return Post{}, err
	}
	ts, err := stringField(item, "timestamp", "created_at")
	if err != nil {
		return Post{}, err
	}
	likes := countField(item, "engagement.likes", logger)
	reposts := countField(item, "engagement.reposts", logger)

	id, err := idField(item)
	if err != nil {
		return Post{}, err
	}
	if id == "" {
		if m := statusURLRe.FindStringSubmatch(item.Get("url").String()); m != nil {
			id = m[2]
			if handle == "" {
				handle = m[1]
			}
		}
	}

	return Post{
		Author:    NormalizeHandle(handle),
		Content:   cleanText(content, ContentCap),
		Timestamp: ts,
		Likes:     likes,
		Reposts:   reposts,
		URL:       Permalink(id),
	}, nil
}

func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	case gjson.JSON:
		if r.IsArray() {
			return len(r.Array()) > 0
		}
		return len(r.Map()) > 0
	}
	return r.Exists()
}

// stringField returns the first present key among keys. Numbers are
// accepted and rendered verbatim; objects and arrays are rejected.
func stringField(item gjson.Result, keys ...string) (string, error) {
	for _, k := range keys {
		v := item.Get(k)
		switch v.Type {
		case gjson.Null:
			continue
		case gjson.String:
			return v.Str, nil
		case gjson.Number:
			return v.Raw, nil
		case gjson.JSON:
			return "", fmt.Errorf("%w: %s is not a string", ErrMalformedItem, k)
		default:
			return v.String(), nil
		}
	}
	return "", nil
}

func countField(item gjson.Result, path string, logger *zerolog.Logger) int {
	v := item.Get(path)
	if !v.Exists() || v.Type == gjson.Null {
		return 0
	}
	n, err := parseCount(v)
	if err != nil {
		logger.Warn().Err(err).Str("field", path).Str("raw", v.Raw).Msg("unreadable engagement count; using 0")
		return 0
	}
	if n < 0 {
		return 0
	}
	return n
}

// countSuffixes are the compact notations shown on X ("1.2K", "3M").
var countSuffixes = map[byte]float64{'K': 1e3, 'M': 1e6, 'B': 1e9}

// parseCount reads a count as a base-10 integer. Strings may carry
// thousands separators or a K/M/B suffix; leading zeros are decimal.
func parseCount(v gjson.Result) (int, error) {
	if v.Type != gjson.String {
		return cast.ToIntE(v.Value())
	}
	s := strings.ReplaceAll(strings.TrimSpace(v.Str), ",", "")
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	mult := 1.0
	if s != "" {
		if m, ok := countSuffixes[strings.ToUpper(s[len(s)-1:])[0]]; ok {
			mult = m
			s = strings.TrimSpace(s[:len(s)-1])
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: count %q", ErrMalformedItem, v.Str)
	}
	return int(math.Round(f * mult)), nil
}

func idField(item gjson.Result) (string, error) {
	v := item.Get("id")
	switch v.Type {
	case gjson.Null:
		return "", nil
	case gjson.String:
		return v.Str, nil
	case gjson.Number:
		// Raw keeps every digit of ids beyond float64 precision.
		return v.Raw, nil
	default:
		return "", fmt.Errorf("%w: id is %s", ErrMalformedItem, v.Type)
	}
}
