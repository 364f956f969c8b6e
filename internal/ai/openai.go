package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient writes post descriptions using OpenAI Chat Completions API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string // optional
}

func NewOpenAI(cfg Config) (*OpenAIClient, error) {
	if cfg.Model == "" {
		return nil, errors.New("OpenAI model must be specified")
	}
	var c *openai.Client
	if cfg.BaseURL != "" {
		cc := openai.DefaultConfig(cfg.APIKey)
		cc.BaseURL = cfg.BaseURL
		c = openai.NewClientWithConfig(cc)
	} else {
		c = openai.NewClient(cfg.APIKey)
	}
	return &OpenAIClient{client: c, model: cfg.Model}, nil
}

// maxBodyRunes keeps prompts small; the opening of a post is enough to describe it.
const maxBodyRunes = 2000

// Describe returns one or two plain sentences about the post in the given language.
func (o *OpenAIClient) Describe(ctx context.Context, title, body, language string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 120*time.Second)
	defer cancel()
	body = strings.TrimSpace(body)
	if body == "" {
		body = title
	}
	if r := []rune(body); len(r) > maxBodyRunes {
		body = string(r[:maxBodyRunes])
	}

	sys := fmt.Sprintf(`
		Write a description for a blog post in %s.
		Return 1-2 plain sentences (at most 160 characters), no markdown, no quotes, no links.
		Keep the author's tone and do not invent facts that are not in the text.
		`, langOrDefault(language))
	user := fmt.Sprintf("Title: %s\nContent:\n%s", title, body)
	out, err := o.create(ctx, sys, user)
	if err != nil {
		slog.Error("openai: describe error", "title", title, "err", err)
		return "", err
	}
	return cleanDescription(out), nil
}

func (o *OpenAIClient) create(ctx context.Context, system, user string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.4,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// cleanDescription collapses the reply to a single line and drops wrapping quotes.
func cleanDescription(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, "\"'“”")
	return strings.TrimSpace(s)
}

func langOrDefault(lang string) string {
	l := strings.TrimSpace(lang)
	if l == "" {
		return "English"
	}
	return l
}
