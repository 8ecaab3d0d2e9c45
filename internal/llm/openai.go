package llm

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"

	openai "github.com/openai/openai-go/v3"

	"drivethru/internal/conversation"
	"drivethru/internal/order"
)

const DefaultModel = openai.ChatModelGPT5Nano

// Chat is the order-taking chat model backed by OpenAI chat completions.
type Chat struct {
	client openai.Client
	model  openai.ChatModel
}

func NewChat(client openai.Client, model string) *Chat {
	if model == "" {
		model = string(DefaultModel)
	}
	return &Chat{client: client, model: openai.ChatModel(model)}
}

func (c *Chat) Complete(ctx context.Context, turns []conversation.Turn, catalogue []order.Definition) (conversation.Completion, error) {
	msgs, err := toMessages(turns)
	if err != nil {
		return conversation.Completion{}, err
	}

	params := openai.ChatCompletionNewParams{
		Messages: msgs,
		Model:    c.model,
	}
	if len(catalogue) > 0 {
		params.Tools = toTools(catalogue)
		params.ToolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{
			OfAuto: openai.String("auto"),
		}
	}

	log.Debug("Chat request", "messages", len(msgs), "tools", len(params.Tools))

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return conversation.Completion{}, fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return conversation.Completion{}, errors.New("no choices in response")
	}

	msg := resp.Choices[0].Message
	out := conversation.Completion{Content: msg.Content}

	switch {
	case len(msg.ToolCalls) > 0:
		if len(msg.ToolCalls) > 1 {
			log.Warn("Model requested several actions, running the first", "count", len(msg.ToolCalls))
		}
		tc := msg.ToolCalls[0]
		out.Call = &conversation.ActionCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		}
	case msg.FunctionCall.Name != "":
		out.Call = &conversation.ActionCall{
			Name:      msg.FunctionCall.Name,
			Arguments: msg.FunctionCall.Arguments,
		}
	}

	return out, nil
}

func toTools(defs []order.Definition) []openai.ChatCompletionToolUnionParam {
	tools := make([]openai.ChatCompletionToolUnionParam, 0, len(defs))
	for _, d := range defs {
		tools = append(tools, openai.ChatCompletionToolUnionParam{
			OfFunction: &openai.ChatCompletionFunctionToolParam{
				Function: openai.FunctionDefinitionParam{
					Name:        d.Name,
					Description: openai.String(d.Description),
					Parameters:  openai.FunctionParameters(d.Parameters),
				},
			},
		})
	}
	return tools
}

func toMessages(turns []conversation.Turn) ([]openai.ChatCompletionMessageParamUnion, error) {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))

	for i, t := range turns {
		switch t.Role {
		case conversation.RoleSystem:
			msgs = append(msgs, openai.SystemMessage(t.Content))
		case conversation.RoleUser:
			msgs = append(msgs, openai.UserMessage(t.Content))
		case conversation.RoleAssistant:
			if t.Call == nil {
				msgs = append(msgs, openai.AssistantMessage(t.Content))
				continue
			}
			var asst openai.ChatCompletionAssistantMessageParam
			if t.Call.ID == "" {
				// legacy function_call reply
				asst.FunctionCall = openai.ChatCompletionAssistantMessageParamFunctionCall{
					Name:      t.Call.Name,
					Arguments: t.Call.Arguments,
				}
			} else {
				asst.ToolCalls = []openai.ChatCompletionMessageToolCallUnionParam{{
					OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
						ID: t.Call.ID,
						Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
							Name:      t.Call.Name,
							Arguments: t.Call.Arguments,
						},
					},
				}}
			}
			if t.Content != "" {
				asst.Content.OfString = openai.String(t.Content)
			}
			msgs = append(msgs, openai.ChatCompletionMessageParamUnion{OfAssistant: &asst})
		case conversation.RoleFunction:
			if t.CallID != "" {
				msgs = append(msgs, openai.ToolMessage(t.Content, t.CallID))
				continue
			}
			msgs = append(msgs, openai.ChatCompletionMessageParamUnion{
				OfFunction: &openai.ChatCompletionFunctionMessageParam{
					Name:    t.Name,
					Content: openai.String(t.Content),
				},
			})
		default:
			return nil, fmt.Errorf("turn %d: unsupported role %q", i, t.Role)
		}
	}

	return msgs, nil
}
