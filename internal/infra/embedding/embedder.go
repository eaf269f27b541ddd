package embedding

import (
	"context"
	"strconv"

	"github.com/cloudwego/eino-ext/components/embedding/ollama"

	"github.com/andybrandt/lisesca/internal/config"
)

type Embedder interface {
	BatchSize() int
	Embed(ctx context.Context, strings []string) ([][]float32, error)
}

type embedder struct {
	model     *ollama.Embedder
	batchSize int
}

// InitEmbedder 初始化嵌入器,导出到ES前给已接受记录生成向量
func InitEmbedder(ctx context.Context, cfg *config.Config) (Embedder, error) {
	model, err := ollama.NewEmbedder(ctx, &ollama.EmbeddingConfig{
		Model:   cfg.Embedder.Model,
		BaseURL: cfg.Embedder.Host + ":" + strconv.Itoa(cfg.Embedder.Port),
	})
	if err != nil {
		return nil, err
	}
	batchSize := cfg.Embedder.BatchSize
	if batchSize <= 0 {
		batchSize = 5
	}
	return &embedder{model: model, batchSize: batchSize}, nil
}

func (e *embedder) BatchSize() int {
	return e.batchSize
}

// Embed 将文本转换为向量表示
// 嵌入模型返回[][]float64,转成ES dense_vector使用的[]float32
func (e *embedder) Embed(ctx context.Context, strings []string) ([][]float32, error) {
	embeddingVectors, err := e.model.EmbedStrings(ctx, strings)
	if err != nil {
		return nil, err
	}
	allFloat32Vectors := make([][]float32, 0, len(embeddingVectors))
	for _, float64Vector := range embeddingVectors {
		float32Vector := make([]float32, len(float64Vector))
		for i, f := range float64Vector {
			float32Vector[i] = float32(f)
		}
		allFloat32Vectors = append(allFloat32Vectors, float32Vector)
	}
	return allFloat32Vectors, nil
}
