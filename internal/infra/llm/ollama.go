package llm

import (
	"context"
	"strconv"

	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino/schema"

	"github.com/andybrandt/lisesca/internal/config"
)

type ollamaLLM struct {
	model *ollama.ChatModel
}

// InitOllamaLLM 初始化本地ollama模型,默认的评估传输层
func InitOllamaLLM(ctx context.Context, cfg *config.Config) (LLM, error) {
	model, err := ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
		BaseURL: cfg.LLM.Host + ":" + strconv.Itoa(cfg.LLM.Port),
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		return nil, err
	}
	return &ollamaLLM{model: model}, nil
}

func (o *ollamaLLM) Generate(ctx context.Context, messages []*schema.Message) (*schema.Message, error) {
	return o.model.Generate(ctx, messages)
}
