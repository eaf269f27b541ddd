package model

import (
	"strings"

	"github.com/elastic/go-elasticsearch/v9/typedapi/types"
)

// JobDoc 职位文档,职位模式的导出结构
type JobDoc struct {
	JobID       string    `json:"job_id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Salary      string    `json:"salary"`
	Seniority   string    `json:"seniority"`
	Description string    `json:"description"`
	JobURL      string    `json:"job_url"`
	PostedAgo   string    `json:"posted_ago"`
	Embedding   []float32 `json:"embedding,omitempty"`
}

func (d *JobDoc) GetID() string {
	return d.JobID
}

func (d *JobDoc) GetIndex() string {
	return "lisesca-jobs"
}

func (d *JobDoc) GetTypeMapping() *types.TypeMapping {
	return &types.TypeMapping{
		Properties: map[string]types.Property{
			"job_id":      types.NewKeywordProperty(),
			"title":       types.NewTextProperty(),
			"company":     types.NewTextProperty(),
			"location":    types.NewTextProperty(),
			"salary":      types.NewKeywordProperty(),
			"seniority":   types.NewKeywordProperty(),
			"description": types.NewTextProperty(),
			"job_url":     types.NewKeywordProperty(),
			"posted_ago":  types.NewKeywordProperty(),
			"embedding":   denseVectorProperty(),
		},
	}
}

// GetEmbeddingString 拼接用于词嵌入的文本
func (d *JobDoc) GetEmbeddingString() string {
	return strings.Join([]string{d.Title, d.Company, d.Location, d.Seniority, d.Description}, " ")
}

func (d *JobDoc) SetEmbedding(embedding []float32) {
	d.Embedding = embedding
}

func (d *JobDoc) GetEmbedding() []float32 {
	return d.Embedding
}
