package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/xsearch/internal/app"
	"github.com/hyperifyio/xsearch/internal/result"
)

func searchStub(t *testing.T, mode string, deep bool) result.SearchResult {
	t.Helper()
	srv := httptest.NewServer(newMux("grok-4-1-fast-reasoning", mode))
	t.Cleanup(srv.Close)

	a, err := app.New(app.Config{APIKey: "k", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a.Search(context.Background(), "golang", deep)
}

func TestStub_Structured(t *testing.T) {
	res := searchStub(t, "", true)
	require.Equal(t, result.StatusSuccess, res.Status, res.Message)
	require.Len(t, res.Tweets, 2)
	assert.Equal(t, "@gopher", res.Tweets[0].Author)
	assert.Equal(t, 420, res.Tweets[0].Likes)
	assert.Equal(t, 88, res.Tweets[1].Likes)
	assert.Equal(t, 1, res.Usage.XSearchCalls)
	assert.Equal(t, 2040, res.Usage.TotalTokens)
	assert.Equal(t, "## Digest\n2 posts reviewed.", res.Analysis)
}

func TestStub_Narrative(t *testing.T) {
	res := searchStub(t, "narrative", false)
	require.Equal(t, result.StatusSuccess, res.Status, res.Message)
	require.Len(t, res.Tweets, 2)
	assert.Equal(t, "@gopher", res.Tweets[0].Author)
	assert.Equal(t, "https://x.com/i/status/1900000000000000003", res.Tweets[0].URL)
	assert.Equal(t, "@kubeadmin", res.Tweets[1].Author)
}

func TestStub_Summary(t *testing.T) {
	res := searchStub(t, "summary", false)
	require.Len(t, res.Tweets, 1)
	assert.Equal(t, "@grok-summary", res.Tweets[0].Author)
	assert.True(t, strings.HasPrefix(res.Tweets[0].Content, "Posts about golang"))
}

func TestStub_Error(t *testing.T) {
	res := searchStub(t, "error", false)
	assert.Equal(t, result.StatusError, res.Status)
	assert.Equal(t, `API error: 429 - {"error":"rate limit exceeded"}`, res.Message)
}

func TestStub_RequiresXSearchTool(t *testing.T) {
	srv := httptest.NewServer(newMux("m", ""))
	defer srv.Close()
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/v1/responses", strings.NewReader(`{"model":"m","input":"x","tools":[]}`))
	req.Header.Set("Authorization", "Bearer k")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
