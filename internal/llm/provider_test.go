package llm

import (
    "context"
    "io"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    openai "github.com/sashabaranov/go-openai"
)

func TestOpenAIProvider_UsesBaseURLAndKey(t *testing.T) {
    var gotPath, gotAuth string
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        gotPath = r.URL.Path
        gotAuth = r.Header.Get("Authorization")
        w.Header().Set("Content-Type", "application/json")
        _, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`)
    }))
    defer srv.Close()

    var c Client = NewOpenAI(srv.URL+"/v1", "secret", srv.Client())
    resp, err := c.CreateChatCompletion(context.Background(), openai.ChatCompletionRequest{
        Model:    "m",
        Messages: []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: "hi"}},
    })
    if err != nil {
        t.Fatalf("CreateChatCompletion: %v", err)
    }
    if gotPath != "/v1/chat/completions" {
        t.Fatalf("path=%q", gotPath)
    }
    if gotAuth != "Bearer secret" {
        t.Fatalf("auth=%q", gotAuth)
    }
    if len(resp.Choices) != 1 || strings.TrimSpace(resp.Choices[0].Message.Content) != "ok" {
        t.Fatalf("unexpected response: %+v", resp)
    }
}
