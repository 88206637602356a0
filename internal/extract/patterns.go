package extract

import (
	"regexp"
	"strings"
)

// Markdown conventions observed in x_search answers. They are best-effort:
// when the provider changes its phrasing, yield drops and the summary
// fallback takes over.
const (
	cite    = `\[\[?\d+\]?\]\((https?://[^\s)]+)\)`
	handle  = `([A-Za-z0-9_]{1,50})`
	bullet  = `[-*•][ \t]+`
	ordinal = `\d+[.)][ \t]*`
	dash    = `[:\-–—]?`
)

var (
	citationRe = regexp.MustCompile(`[ \t]*` + cite)
	statusIDRe = regexp.MustCompile(`/status(?:es)?/(\d+)`)
)

type pattern struct {
	name  string
	re    *regexp.Regexp
	build func(m []string) Post
}

func (p pattern) Name() string { return p.name }

func (p pattern) Extract(text string) []Post {
	var out []Post
	for _, m := range p.re.FindAllStringSubmatch(text, -1) {
		post := p.build(m)
		if post.Content == "" {
			continue
		}
		out = append(out, post)
	}
	return out
}

// Patterns returns the markdown strategies in priority order.
func Patterns() Stage {
	return Stage{
		// 1. **@alice** (Jan 1, 2026): "hello world"
		pattern{
			name: "numbered_handle_date_quote",
			re: regexp.MustCompile(`(?m)^[ \t]*` + ordinal + `\*\*@?` + handle + `\*\*[ \t]*\(([^)\n]+)\)[ \t]*` + dash +
				`[ \t]*["“]([^"”\n]+)["”](?:[ \t]*` + cite + `)?`),
			build: func(m []string) Post {
				_, link := fromLink(m[4])
				return Post{Author: NormalizeHandle(m[1]), Timestamp: strings.TrimSpace(m[2]), Content: patternText(m[3]), URL: link}
			},
		},
		// **Jan 2, 2026** (1790000000000000001): text
		pattern{
			name: "bold_date_id_colon",
			re: regexp.MustCompile(`(?m)^[ \t]*(?:` + bullet + `|` + ordinal + `)?\*\*([^*\n]+?)\*\*[ \t]*\((\d{6,25})\)[ \t]*:[ \t]*(.+)$`),
			build: func(m []string) Post {
				return Post{Author: UnknownAuthor, Timestamp: strings.TrimSpace(m[1]), Content: patternText(m[3]), URL: Permalink(m[2])}
			},
		},
		// **Jan 3, 2026**
		// text [1](https://x.com/alice/status/123)
		// A content line opening with bold belongs to bold_title_colon_link.
		pattern{
			name: "bold_date_footnote_link",
			re: regexp.MustCompile(`(?m)^[ \t]*\*\*([^*\n]+)\*\*[ \t]*\n[ \t]*([^*\s].*?)[ \t]*\[\[?\d+\]?\]\((https?://[^\s)]*/status(?:es)?/\d+[^\s)]*)\)[ \t]*$`),
			build: func(m []string) Post {
				author, link := fromLink(m[3])
				return Post{Author: author, Timestamp: strings.TrimSpace(m[1]), Content: patternText(m[2]), URL: link}
			},
		},
		// - Name (@handle): description [2](https://x.com/handle/status/456)
		pattern{
			name: "dash_project_handle_link",
			re:   regexp.MustCompile(`(?m)^[ \t]*` + bullet + `([^\n(]+?)[ \t]*\(@` + handle + `\)[ \t]*:[ \t]*(.+?)` + citationTail),
			build: func(m []string) Post {
				_, link := fromLink(m[4])
				return Post{Author: NormalizeHandle(m[2]), Content: patternText(titled(m[1], m[3])), URL: link}
			},
		},
		// **Title**: description [3](https://x.com/bob/status/789)
		pattern{
			name: "bold_title_colon_link",
			re: regexp.MustCompile(`(?m)^[ \t]*(?:` + bullet + `|` + ordinal + `)?\*\*([^*\n]+?)(?::\*\*|\*\*[ \t]*:)[ \t]*(.+?)` + citationTail),
			build: func(m []string) Post {
				author, link := fromLink(m[3])
				return Post{Author: author, Content: patternText(titled(m[1], m[2])), URL: link}
			},
		},
		// 1. **Name** (@handle) - description [4](https://x.com/handle/status/1)
		pattern{
			name: "numbered_project_handle_link",
			re: regexp.MustCompile(`(?m)^[ \t]*` + ordinal + `\*\*([^*\n]+?)\*\*[ \t]*\(@` + handle + `\)[ \t]*` + dash + `[ \t]*(.+?)` + citationTail),
			build: func(m []string) Post {
				_, link := fromLink(m[4])
				return Post{Author: NormalizeHandle(m[2]), Content: patternText(titled(m[1], m[3])), URL: link}
			},
		},
	}
}

const citationTail = `[ \t]*` + cite

// fromLink returns the author handle and canonical permalink carried by a
// status URL. Links without a status id yield an empty permalink.
func fromLink(link string) (string, string) {
	author := UnknownAuthor
	if m := statusURLRe.FindStringSubmatch(link); m != nil && m[1] != "i" {
		author = NormalizeHandle(m[1])
	}
	id := ""
	if m := statusIDRe.FindStringSubmatch(link); m != nil {
		id = m[1]
	}
	return author, Permalink(id)
}

func titled(title, body string) string {
	title = strings.Trim(strings.TrimSpace(title), "*")
	body = strings.TrimSpace(body)
	if title == "" {
		return body
	}
	return title + ": " + body
}

func patternText(s string) string {
	s = strings.ReplaceAll(citationRe.ReplaceAllString(s, ""), "**", "")
	return cleanText(s, ContentCap)
}
