package extract

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// maxArrayStarts caps how many '[' positions JSONArray tries. Text full of
// footnote markers would otherwise cost a quadratic number of parses.
const maxArrayStarts = 64

// JSONArray finds an embedded JSON array of post objects inside free text.
// It tries each '[' in order and, for each, the closing ']' from the last one
// backwards, so the widest valid span wins.
type JSONArray struct {
	// Logger receives warnings about skipped objects. An Extractor fills it
	// with its own logger when nil; standalone use falls back to the global.
	Logger *zerolog.Logger
}

func (JSONArray) Name() string { return "json_array" }

func (j JSONArray) Extract(text string) []Post {
	logger := j.Logger
	if logger == nil {
		logger = &log.Logger
	}
	arr, ok := findObjectArray(text)
	if !ok {
		return nil
	}
	var out []Post
	for i, obj := range arr.Array() {
		if !obj.IsObject() {
			continue
		}
		p, err := FromItem(obj, logger)
		if err != nil {
			logger.Warn().Err(err).Int("index", i).Msg("skip malformed object in embedded json array")
			continue
		}
		if p.Content == "" && p.URL == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func findObjectArray(text string) (gjson.Result, bool) {
	ends := closingIndexes(text)
	if len(ends) == 0 {
		return gjson.Result{}, false
	}
	starts := 0
	for i := 0; i < len(text) && starts < maxArrayStarts; i++ {
		if text[i] != '[' {
			continue
		}
		starts++
		for j := len(ends) - 1; j >= 0 && ends[j] > i; j-- {
			span := text[i : ends[j]+1]
			if !gjson.Valid(span) {
				continue
			}
			r := gjson.Parse(span)
			if r.IsArray() && hasObject(r) {
				return r, true
			}
		}
	}
	return gjson.Result{}, false
}

func closingIndexes(text string) []int {
	var out []int
	for i := strings.IndexByte(text, ']'); i >= 0; {
		out = append(out, i)
		next := strings.IndexByte(text[i+1:], ']')
		if next < 0 {
			break
		}
		i += next + 1
	}
	return out
}

func hasObject(arr gjson.Result) bool {
	for _, v := range arr.Array() {
		if v.IsObject() {
			return true
		}
	}
	return false
}
