package usage

import (
	"strings"

	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Pricing holds per-million-token rates in USD. The defaults are estimates
// taken from the public price list at the time of writing, not values the
// API reports; override them in config if billing diverges.
type Pricing struct {
	InputPerMillion  float64 `yaml:"inputPerMillion" json:"inputPerMillion"`
	OutputPerMillion float64 `yaml:"outputPerMillion" json:"outputPerMillion"`
}

// DefaultPricing is the estimated grok-4-1-fast rate card.
var DefaultPricing = Pricing{InputPerMillion: 0.20, OutputPerMillion: 0.50}

// Usage is the machine-readable token accounting of one call.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
	XSearchCalls int `json:"x_search_calls"`
}

// Report pairs Usage with its estimated cost and the text rendering of both.
type Report struct {
	Usage Usage
	Cost  float64
	Text  string
}

// FromJSON reads provider usage metadata. Missing or non-numeric fields are
// 0 and total_tokens falls back to input+output.
func FromJSON(u gjson.Result) Usage {
	out := Usage{
		InputTokens:  count(u.Get("input_tokens")),
		OutputTokens: count(u.Get("output_tokens")),
		TotalTokens:  count(u.Get("total_tokens")),
		XSearchCalls: count(u.Get("x_search_calls")),
	}
	if out.XSearchCalls == 0 {
		out.XSearchCalls = count(u.Get("server_side_tool_usage_details.x_search_calls"))
	}
	if out.TotalTokens == 0 {
		out.TotalTokens = out.InputTokens + out.OutputTokens
	}
	return out
}

// Cost estimates the USD cost of u under p.
func (p Pricing) Cost(u Usage) float64 {
	return float64(u.InputTokens)/1_000_000*p.InputPerMillion +
		float64(u.OutputTokens)/1_000_000*p.OutputPerMillion
}

// Build derives the report from the usage object of a response body.
func Build(u gjson.Result, p Pricing) Report {
	return New(FromJSON(u), p)
}

// New renders a Report. Text is formatted from the same Usage and Cost
// values that are returned, never recomputed.
func New(u Usage, p Pricing) Report {
	cost := p.Cost(u)
	return Report{Usage: u, Cost: cost, Text: render(u, cost)}
}

var printer = message.NewPrinter(language.English)

func render(u Usage, cost float64) string {
	var b strings.Builder
	b.WriteString("Token usage report:\n")
	b.WriteString(printer.Sprintf("   Input tokens:   %d\n", u.InputTokens))
	b.WriteString(printer.Sprintf("   Output tokens:  %d\n", u.OutputTokens))
	b.WriteString(printer.Sprintf("   Total tokens:   %d\n", u.TotalTokens))
	b.WriteString(printer.Sprintf("   X search calls: %d\n", u.XSearchCalls))
	b.WriteString(printer.Sprintf("   Estimated cost: $%.4f ($%.2f per 1,000 calls)", cost, cost*1000))
	return b.String()
}

func count(r gjson.Result) int {
	if !r.Exists() {
		return 0
	}
	n, err := cast.ToIntE(r.Value())
	if err != nil || n < 0 {
		return 0
	}
	return n
}
