package insight

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"

	"arha/internal/core"
)

const DefaultModel = openai.GPT4oMini

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAI asks a chat completion model for the dashboard sentences.
type OpenAI struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

var _ Advisor = (*OpenAI)(nil)

func NewOpenAI(cfg Config, logger *slog.Logger) *OpenAI {
	if logger == nil {
		logger = slog.Default()
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &OpenAI{client: openai.NewClientWithConfig(oc), model: model, logger: logger}
}

func (o *OpenAI) Greeting(ctx context.Context, name string) string {
	prompt := fmt.Sprintf("Berikan sambutan hangat, profesional, dan sangat singkat untuk aplikasi \"Jasa Arha\". "+
		"Sapa admin dengan ramah. Nama admin: %s. Gunakan Bahasa Indonesia yang sopan.", name)
	return o.ask(ctx, "greeting", prompt, FallbackEmptyGreeting, FallbackGreeting)
}

func (o *OpenAI) MonthlyInsight(ctx context.Context, revenue, expenses core.Money) string {
	prompt := fmt.Sprintf("Ringkas performa keuangan berikut dalam 1 kalimat menyemangati: "+
		"Pendapatan Kotor: Rp %s, Biaya Operasional: Rp %s. Berikan insight singkat dalam Bahasa Indonesia.",
		revenue.String(), expenses.String())
	return o.ask(ctx, "insight", prompt, FallbackEmptyInsight, FallbackInsight)
}

// ask returns onEmpty when the model answers with nothing and onError when
// the call fails.
func (o *OpenAI) ask(ctx context.Context, kind, prompt, onEmpty, onError string) string {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		o.logger.WarnContext(ctx, "Chat completion failed", "kind", kind, "model", o.model, "error", err)
		return onError
	}
	if len(resp.Choices) == 0 {
		return onEmpty
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return onEmpty
	}
	return text
}
