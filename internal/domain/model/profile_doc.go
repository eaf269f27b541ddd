package model

import (
	"strings"

	"github.com/elastic/go-elasticsearch/v9/typedapi/types"
)

// ProfileDoc 人才档案文档,人脉模式的导出结构
type ProfileDoc struct {
	ProfileID    string    `json:"profile_id"`
	Name         string    `json:"name"`
	Headline     string    `json:"headline"`
	Location     string    `json:"location"`
	CurrentTitle string    `json:"current_title"`
	Company      string    `json:"company"`
	About        string    `json:"about"`
	Skills       []string  `json:"skills"`
	ProfileURL   string    `json:"profile_url"`
	Embedding    []float32 `json:"embedding,omitempty"`
}

func (d *ProfileDoc) GetID() string {
	return d.ProfileID
}

func (d *ProfileDoc) GetIndex() string {
	return "lisesca-profiles"
}

func (d *ProfileDoc) GetTypeMapping() *types.TypeMapping {
	return &types.TypeMapping{
		Properties: map[string]types.Property{
			"profile_id":    types.NewKeywordProperty(),
			"name":          types.NewTextProperty(),
			"headline":      types.NewTextProperty(),
			"location":      types.NewTextProperty(),
			"current_title": types.NewTextProperty(),
			"company":       types.NewTextProperty(),
			"about":         types.NewTextProperty(),
			"skills":        types.NewKeywordProperty(),
			"profile_url":   types.NewKeywordProperty(),
			"embedding":     denseVectorProperty(),
		},
	}
}

// GetEmbeddingString 拼接用于词嵌入的文本
func (d *ProfileDoc) GetEmbeddingString() string {
	parts := []string{d.Name, d.Headline, d.CurrentTitle, d.Company, d.Location, d.About}
	parts = append(parts, d.Skills...)
	return strings.Join(parts, " ")
}

func (d *ProfileDoc) SetEmbedding(embedding []float32) {
	d.Embedding = embedding
}

func (d *ProfileDoc) GetEmbedding() []float32 {
	return d.Embedding
}
