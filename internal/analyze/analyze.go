package analyze

import (
    "context"
    "errors"
    "fmt"
    "strings"

    openai "github.com/sashabaranov/go-openai"

    "github.com/hyperifyio/xsearch/internal/extract"
    "github.com/hyperifyio/xsearch/internal/llm"
)

// DefaultModel is used for the follow-up summary. Plain chat completions do
// not need x_search, so the cheaper non-reasoning variant is enough here.
const DefaultModel = "grok-4-1-fast-non-reasoning"

// ErrEmptyAnalysis indicates the model answered without usable text.
var ErrEmptyAnalysis = errors.New("empty analysis")

// Analyzer summarizes extracted posts with one chat completion.
type Analyzer struct {
    Client llm.Client
    Model  string
    // SystemPrompt, when non-empty, overrides the default system message.
    SystemPrompt string
}

// Analyze returns a short Markdown digest of posts. No posts means no call.
func (a *Analyzer) Analyze(ctx context.Context, query string, posts []extract.Post) (string, error) {
    if a.Client == nil {
        return "", errors.New("analyzer not configured")
    }
    if len(posts) == 0 {
        return "", nil
    }
    model := a.Model
    if strings.TrimSpace(model) == "" {
        model = DefaultModel
    }
    system := defaultSystemMessage
    if strings.TrimSpace(a.SystemPrompt) != "" {
        system = a.SystemPrompt
    }
    resp, err := a.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
        Model: model,
        Messages: []openai.ChatCompletionMessage{
            {Role: openai.ChatMessageRoleSystem, Content: system},
            {Role: openai.ChatMessageRoleUser, Content: buildUserMessage(query, posts)},
        },
        Temperature: 0,
        N:           1,
    })
    if err != nil {
        return "", fmt.Errorf("analysis call: %w", err)
    }
    if len(resp.Choices) == 0 {
        return "", ErrEmptyAnalysis
    }
    out := strings.TrimSpace(resp.Choices[0].Message.Content)
    if out == "" {
        return "", ErrEmptyAnalysis
    }
    return out, nil
}

const defaultSystemMessage = "You analyze social media posts. Use only the posts given. Be concise."

func buildUserMessage(query string, posts []extract.Post) string {
    var sb strings.Builder
    sb.WriteString("Summarize the main themes, overall sentiment and notable accounts in these X posts about: ")
    sb.WriteString(query)
    sb.WriteString("\nAnswer in at most 5 bullet points.\n\nPosts:\n")
    for i, p := range posts {
        sb.WriteString(fmt.Sprintf("%d. %s", i+1, p.Author))
        if p.Timestamp != "" {
            sb.WriteString(" (" + p.Timestamp + ")")
        }
        sb.WriteString(": ")
        sb.WriteString(p.Content)
        if p.Likes > 0 || p.Reposts > 0 {
            sb.WriteString(fmt.Sprintf(" [likes %d, reposts %d]", p.Likes, p.Reposts))
        }
        sb.WriteString("\n")
    }
    return sb.String()
}
