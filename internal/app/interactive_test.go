package app

import (
    "bytes"
    "context"
    "io"
    "net/http"
    "strings"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestRunInteractive_QuickThenExit(t *testing.T) {
    srv := newStub(t, http.StatusOK, structuredBody)
    a := newTestApp(t, srv.URL)

    in := strings.NewReader("1\ngolang\n0\n")
    var out, diag bytes.Buffer
    require.NoError(t, a.RunInteractive(context.Background(), in, &out, &diag))

    s := out.String()
    assert.Contains(t, s, "Grok X Search")
    assert.Contains(t, s, "Quick search")
    assert.Contains(t, s, `"author": "@alice"`)
    assert.Contains(t, s, "Bye.")
    assert.Contains(t, diag.String(), "Token usage report:")
    assert.EqualValues(t, 1, srv.searches.Load())
    assert.EqualValues(t, 0, srv.chats.Load())
}

func TestRunInteractive_DeepAnalysis(t *testing.T) {
    srv := newStub(t, http.StatusOK, structuredBody)
    a := newTestApp(t, srv.URL)

    var out, diag bytes.Buffer
    require.NoError(t, a.RunInteractive(context.Background(), strings.NewReader("2\ngolang\n"), &out, &diag))
    assert.Contains(t, out.String(), `"analysis": "Two posts, both upbeat."`)
    assert.EqualValues(t, 1, srv.chats.Load())
}

func TestRunInteractive_InvalidAndEmptyInput(t *testing.T) {
    srv := newStub(t, http.StatusOK, structuredBody)
    a := newTestApp(t, srv.URL)

    var out, diag bytes.Buffer
    require.NoError(t, a.RunInteractive(context.Background(), strings.NewReader("9\n1\n\n"), &out, &diag))
    assert.Contains(t, out.String(), "Invalid choice: 9")
    assert.Contains(t, out.String(), "Empty query")
    assert.EqualValues(t, 0, srv.searches.Load())
}

func TestRunInteractive_CancelWhileWaitingForInput(t *testing.T) {
    a := newTestApp(t, "http://127.0.0.1:1")

    // stdin stays open for the whole test, like a terminal nobody types in.
    pr, pw := io.Pipe()
    defer pw.Close()

    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()

    var out bytes.Buffer
    done := make(chan error, 1)
    go func() { done <- a.RunInteractive(ctx, pr, &out, io.Discard) }()

    // Returns once the menu goroutine consumed the choice; the query prompt
    // is then waiting on the open pipe.
    _, err := io.WriteString(pw, "1\n")
    require.NoError(t, err)
    cancel()

    select {
    case err := <-done:
        require.NoError(t, err)
    case <-time.After(2 * time.Second):
        t.Fatal("RunInteractive did not return after cancellation")
    }
    assert.Contains(t, out.String(), "Bye.")
}
