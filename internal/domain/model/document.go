package model

import (
	"github.com/elastic/go-elasticsearch/v9/typedapi/types"
)

// Document 可导出到Elasticsearch的文档接口
// 使用泛型类型集约束具体文档类型,D必须是*ProfileDoc或*JobDoc
type Document interface {
	*ProfileDoc | *JobDoc
	GetID() string
	GetIndex() string
	GetTypeMapping() *types.TypeMapping
	GetEmbeddingString() string
	SetEmbedding(embedding []float32)
	GetEmbedding() []float32
}

// 嵌入向量维度,与nomic-embed-text模型保持一致
const embeddingDims = 768

func denseVectorProperty() *types.DenseVectorProperty {
	dims := embeddingDims
	return &types.DenseVectorProperty{Dims: &dims}
}
