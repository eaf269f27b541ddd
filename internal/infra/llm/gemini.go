package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/andybrandt/lisesca/internal/config"
)

type geminiLLM struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// InitGeminiLLM 备选的远程评估传输层
func InitGeminiLLM(ctx context.Context, cfg *config.Config) (LLM, error) {
	if cfg.LLM.GeminiAPIKey == "" {
		return nil, fmt.Errorf("缺少Gemini API Key")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.LLM.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("初始化Gemini客户端失败: %w", err)
	}
	model := client.GenerativeModel(cfg.LLM.Model)
	return &geminiLLM{client: client, model: model}, nil
}

func (g *geminiLLM) Generate(ctx context.Context, messages []*schema.Message) (*schema.Message, error) {
	// Gemini没有与eino一致的消息结构,按角色前缀拍平成单个提示词
	var b strings.Builder
	for _, msg := range messages {
		switch msg.Role {
		case schema.System:
			fmt.Fprintf(&b, "[系统]\n%s\n\n", msg.Content)
		case schema.Assistant:
			fmt.Fprintf(&b, "[助手]\n%s\n\n", msg.Content)
		default:
			fmt.Fprintf(&b, "[用户]\n%s\n\n", msg.Content)
		}
	}
	resp, err := g.model.GenerateContent(ctx, genai.Text(b.String()))
	if err != nil {
		return nil, fmt.Errorf("Gemini调用失败: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("Gemini返回空结果")
	}
	var content strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			content.WriteString(string(text))
		}
	}
	return schema.AssistantMessage(content.String(), nil), nil
}
