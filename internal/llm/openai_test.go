package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drivethru/internal/conversation"
	"drivethru/internal/order"
)

const toolCallResponse = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-5-nano",
  "choices": [{
    "index": 0,
    "finish_reason": "tool_calls",
    "message": {
      "role": "assistant",
      "content": null,
      "tool_calls": [{
        "id": "call_1",
        "type": "function",
        "function": {"name": "place_order", "arguments": "{\"items\":[]}"}
      }]
    }
  }]
}`

const textResponse = `{
  "id": "chatcmpl-2",
  "object": "chat.completion",
  "created": 1700000001,
  "model": "gpt-5-nano",
  "choices": [{
    "index": 0,
    "finish_reason": "stop",
    "message": {"role": "assistant", "content": "That will be $5.69."}
  }]
}`

type capture struct {
	requests []map[string]any
}

func newServer(t *testing.T, c *capture, bodies ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var req map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		c.requests = append(c.requests, req)

		body := bodies[0]
		if len(bodies) > 1 {
			bodies = bodies[1:]
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newChat(srv *httptest.Server) *Chat {
	return NewChat(NewClient("test", nil, option.WithBaseURL(srv.URL)), "")
}

func TestCompleteToolCall(t *testing.T) {
	c := &capture{}
	chat := newChat(newServer(t, c, toolCallResponse))

	turns := []conversation.Turn{
		conversation.SystemTurn("persona"),
		conversation.UserTurn("nothing, thanks"),
	}

	got, err := chat.Complete(context.Background(), turns, order.Catalogue())
	require.NoError(t, err)
	require.NotNil(t, got.Call)
	assert.Equal(t, "call_1", got.Call.ID)
	assert.Equal(t, "place_order", got.Call.Name)
	assert.Equal(t, `{"items":[]}`, got.Call.Arguments)

	require.Len(t, c.requests, 1)
	req := c.requests[0]
	assert.Equal(t, string(DefaultModel), req["model"])
	assert.Equal(t, "auto", req["tool_choice"])

	tools, ok := req["tools"].([]any)
	require.True(t, ok)
	require.Len(t, tools, 2)
	fn := tools[0].(map[string]any)["function"].(map[string]any)
	assert.Equal(t, "place_order", fn["name"])
}

func TestCompleteFollowUpWithoutTools(t *testing.T) {
	c := &capture{}
	chat := newChat(newServer(t, c, textResponse))

	turns := []conversation.Turn{
		conversation.SystemTurn("persona"),
		conversation.UserTurn("one big mac"),
		{
			Role: conversation.RoleAssistant,
			Call: &conversation.ActionCall{ID: "call_1", Name: "place_order", Arguments: `{"items":[]}`},
		},
		conversation.FunctionTurn("place_order", "call_1", `{"items": []}`),
	}

	got, err := chat.Complete(context.Background(), turns, nil)
	require.NoError(t, err)
	assert.Nil(t, got.Call)
	assert.Equal(t, "That will be $5.69.", got.Content)

	require.Len(t, c.requests, 1)
	req := c.requests[0]
	assert.NotContains(t, req, "tools")
	assert.NotContains(t, req, "tool_choice")

	msgs := req["messages"].([]any)
	require.Len(t, msgs, 4)

	roles := make([]string, 0, len(msgs))
	for _, m := range msgs {
		roles = append(roles, m.(map[string]any)["role"].(string))
	}
	assert.Equal(t, []string{"system", "user", "assistant", "tool"}, roles)

	asst := msgs[2].(map[string]any)
	calls := asst["tool_calls"].([]any)
	require.Len(t, calls, 1)
	assert.Equal(t, "call_1", calls[0].(map[string]any)["id"])

	tool := msgs[3].(map[string]any)
	assert.Equal(t, "call_1", tool["tool_call_id"])
}

func TestCompleteNoChoices(t *testing.T) {
	c := &capture{}
	chat := newChat(newServer(t, c, `{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`))

	_, err := chat.Complete(context.Background(), []conversation.Turn{conversation.SystemTurn("p")}, nil)
	assert.Error(t, err)
}

func TestToMessagesRejectsUnknownRole(t *testing.T) {
	_, err := toMessages([]conversation.Turn{{Role: "narrator"}})
	assert.Error(t, err)
}
