package export

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/andybrandt/lisesca/internal/domain/entity"
	"github.com/andybrandt/lisesca/internal/domain/model"
	"github.com/andybrandt/lisesca/internal/infra/embedding"
	"github.com/andybrandt/lisesca/internal/infra/persistence/es"
)

// esExporter 把已接受记录嵌入后批量写入Elasticsearch
// D由采集模式决定,pick从缓冲区记录里取出对应模式的可导出实体,
// 模式不匹配时返回nil
type esExporter[D model.Document] struct {
	client   es.TypedEsClient[D]
	embedder embedding.Embedder
	pick     func(*entity.Record) entity.Crawlable[D]
}

func InitESExporter[D model.Document](
	client es.TypedEsClient[D],
	embedder embedding.Embedder,
	pick func(*entity.Record) entity.Crawlable[D],
) Exporter {
	return &esExporter[D]{client: client, embedder: embedder, pick: pick}
}

func (e *esExporter[D]) Format() string {
	return "es"
}

func (e *esExporter[D]) Export(ctx context.Context, recs []*entity.Record) error {
	docs := make([]D, 0, len(recs))
	for _, rec := range recs {
		c := e.pick(rec)
		if c == nil {
			continue
		}
		docs = append(docs, c.ToDocument())
	}
	if len(docs) == 0 {
		return nil
	}

	if err := e.client.CreateIndexWithMapping(ctx); err != nil {
		return fmt.Errorf("创建索引失败: %w", err)
	}
	e.embedDocs(ctx, docs)

	reqCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	if err := e.client.BulkIndexDocsWithID(reqCtx, docs); err != nil {
		return fmt.Errorf("批量索引失败: %w", err)
	}
	return nil
}

// embedDocs 分批生成向量,嵌入失败只记录日志,不阻止索引
func (e *esExporter[D]) embedDocs(ctx context.Context, docs []D) {
	batchSize := e.embedder.BatchSize()
	for i := 0; i < len(docs); i += batchSize {
		end := min(i+batchSize, len(docs))
		embeddingStrings := make([]string, 0, end-i)
		for _, doc := range docs[i:end] {
			embeddingStrings = append(embeddingStrings, doc.GetEmbeddingString())
		}
		reqCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
		embeddingVectors, err := e.embedder.Embed(reqCtx, embeddingStrings)
		cancel()
		if err != nil {
			log.Printf("Embed error: %v", err)
			continue
		}
		for j := range embeddingVectors {
			docs[i+j].SetEmbedding(embeddingVectors[j])
		}
	}
}
