package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCriteriaEmptyPathUsesDefaults(t *testing.T) {
	c, err := LoadCriteria("")
	require.NoError(t, err)
	assert.NotEmpty(t, c.Prompt)
	assert.Equal(t, 20, c.TriageTimeoutSeconds)
	assert.Equal(t, 60, c.FullTimeoutSeconds)
	assert.Equal(t, 3, c.Stabilize.StableSamples)
}

func TestLoadCriteriaBackfillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "criteria.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"prompt: 只保留远程职位\ntriage_timeout_seconds: 5\n"), 0o644))

	c, err := LoadCriteria(path)
	require.NoError(t, err)
	assert.Equal(t, "只保留远程职位", c.Prompt)
	assert.Equal(t, 5, c.TriageTimeoutSeconds)
	// 文件里缺的字段回落到默认值
	assert.Equal(t, 60, c.FullTimeoutSeconds)
	assert.Equal(t, 500, c.Stabilize.IntervalMs)
	assert.Equal(t, 2000, c.Engagement.Page.MinMs)
}

func TestLoadCriteriaMissingFile(t *testing.T) {
	_, err := LoadCriteria(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestParseConfigEnvOverrides(t *testing.T) {
	t.Setenv("LISESCA_ES_PASSWORD", "secret-from-env")
	cfg, err := ParseConfig([]byte(`{
		"elasticsearch": {"username": "elastic", "password": "in-file", "address": "https://localhost:9200"}
	}`))
	require.NoError(t, err)
	assert.Equal(t, "secret-from-env", cfg.Elasticsearch.Password)
	assert.Equal(t, "elastic", cfg.Elasticsearch.Username)
}
