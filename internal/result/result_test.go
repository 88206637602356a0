package result

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/xsearch/internal/extract"
	"github.com/hyperifyio/xsearch/internal/usage"
	"github.com/hyperifyio/xsearch/internal/xai"
)

func TestFailure_HTTPStatus(t *testing.T) {
	err := fmt.Errorf("send: %w", &xai.TransportError{Kind: xai.KindHTTPStatus, StatusCode: 429, Body: strings.Repeat("x", 500)})
	r := Failure("golang", xai.DefaultModel, err)
	assert.Equal(t, StatusError, r.Status)
	assert.True(t, strings.HasPrefix(r.Message, "API error: 429 - "))
	assert.LessOrEqual(t, len(r.Message), len("API error: 429 - ")+200+len(extract.Ellipsis))
	assert.NotNil(t, r.Tweets)
}

func TestFailure_Network(t *testing.T) {
	r := Failure("q", "", &xai.TransportError{Kind: xai.KindNetwork, Err: errors.New("proxyconnect tcp: refused")})
	assert.Equal(t, "network/proxy error: proxyconnect tcp: refused", r.Message)
}

func TestFailure_Unexpected(t *testing.T) {
	r := Failure("q", "", errors.New("decode response: invalid json"))
	assert.Equal(t, "unexpected error: decode response: invalid json", r.Message)
}

func TestSuccess_JSONShape(t *testing.T) {
	rep := usage.New(usage.Usage{InputTokens: 1, OutputTokens: 2, TotalTokens: 3}, usage.DefaultPricing)
	r := Success("q", "m", nil, rep)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "success", m["status"])
	assert.Equal(t, []any{}, m["tweets"])
	assert.NotContains(t, m, "message")
	assert.NotContains(t, m, "analysis")
	assert.Equal(t, rep.Text, m["cost_report"])
	u := m["usage"].(map[string]any)
	assert.EqualValues(t, 3, u["total_tokens"])
	assert.EqualValues(t, 0, u["x_search_calls"])
}
