// Package llm wraps the language-model API the assistant features
// delegate to: chat replies and mind-map generation. In development
// without an API key the client degrades to canned responses so the
// rest of the app stays usable offline.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/fayaebeb/mirai-app-sub001/internal/model"
)

const historyLimit = 20

type Client struct {
	api   *openai.Client
	model string
}

func New(apiKey, baseURL, modelName string) *Client {
	var api *openai.Client
	if apiKey != "" {
		cfg := openai.DefaultConfig(apiKey)
		if baseURL != "" {
			cfg.BaseURL = baseURL
		}
		api = openai.NewClientWithConfig(cfg)
	}

	return &Client{
		api:   api,
		model: modelName,
	}
}

// systemPrompts per conversation lane.
var systemPrompts = map[string]string{
	"general": "You are Mirai, a friendly personal productivity assistant. Help the user plan their day, stay motivated, and answer questions concisely.",
	"goal":    "You are Mirai's goal coach. Help the user break down goals into actionable steps, suggest priorities and realistic deadlines.",
	"notes":   "You are Mirai's notes assistant. Help the user summarize, organize, and find connections between their notes.",
}

// Reply produces the assistant's answer to the latest user message,
// with the lane's prior history as context. Only the most recent
// messages are sent to keep the request bounded.
func (c *Client) Reply(ctx context.Context, laneName string, history []*model.Message, userMessage string) (string, error) {
	if c.api == nil {
		slog.Info("llm reply (dev mode)", "lane", laneName)
		return devReply(userMessage), nil
	}

	system, ok := systemPrompts[laneName]
	if !ok {
		system = systemPrompts["general"]
	}

	msgs := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
	}

	start := 0
	if len(history) > historyLimit {
		start = len(history) - historyLimit
	}
	for _, m := range history[start:] {
		role := openai.ChatMessageRoleUser
		if m.IsBot {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: userMessage})

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: msgs,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// MindMapNode is one node of a generated mind map.
type MindMapNode struct {
	ID       string        `json:"id"`
	Label    string        `json:"label"`
	Children []MindMapNode `json:"children,omitempty"`
}

// GenerateMindMap asks the model for a hierarchical mind map on the
// given topic and returns it as a JSON document.
func (c *Client) GenerateMindMap(ctx context.Context, topic string) (string, error) {
	if c.api == nil {
		slog.Info("llm mind map (dev mode)", "topic", topic)
		return devMindMap(topic)
	}

	prompt := fmt.Sprintf(
		"Create a mind map for the topic %q. Respond with JSON only: a root node "+
			"{\"id\", \"label\", \"children\"} where children nest recursively. "+
			"Use 2-3 levels and 3-5 children per level.", topic)

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You generate mind maps as strict JSON. No prose, no code fences."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("mind map generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("mind map generation returned no choices")
	}

	raw := strings.TrimSpace(resp.Choices[0].Message.Content)

	// Validate the shape before persisting it.
	var root MindMapNode
	err = json.Unmarshal([]byte(raw), &root)
	if err != nil {
		return "", fmt.Errorf("model returned invalid mind map JSON: %w", err)
	}

	return raw, nil
}

func devReply(userMessage string) string {
	trimmed := userMessage
	if len(trimmed) > 60 {
		trimmed = trimmed[:60] + "..."
	}
	return fmt.Sprintf("(dev mode) I heard: %q. Configure OPENAI_API_KEY for real responses.", trimmed)
}

func devMindMap(topic string) (string, error) {
	root := MindMapNode{
		ID:    "root",
		Label: topic,
		Children: []MindMapNode{
			{ID: "n1", Label: "Ideas"},
			{ID: "n2", Label: "Tasks"},
			{ID: "n3", Label: "Resources"},
		},
	}
	b, err := json.Marshal(root)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
