package es

import (
	"context"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/andybrandt/lisesca/internal/domain/model"
)

// TypedEsClient ES导出端的类型化客户端,D由采集模式决定
type TypedEsClient[D model.Document] interface {
	GetClient() *elasticsearch.TypedClient
	CreateIndexWithMapping(ctx context.Context) error
	BulkIndexDocsWithID(ctx context.Context, docs []D) error
	CountDocs(ctx context.Context) (int64, error)
}
