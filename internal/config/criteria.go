package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DelayRange 随机等待区间(毫秒),模拟人工浏览节奏
type DelayRange struct {
	MinMs int `yaml:"min_ms"`
	MaxMs int `yaml:"max_ms"`
}

// Criteria 用户可编辑的筛选标准与节奏配置
// 参考jobhunt的yaml规则文件做法,标准文本独立于程序配置,方便随手调整
type Criteria struct {
	// Prompt 自然语言的筛选标准,直接拼入评估提示词
	Prompt string `yaml:"prompt"`

	// TriageTimeoutSeconds 初筛调用超时(短)
	TriageTimeoutSeconds int `yaml:"triage_timeout_seconds"`
	// FullTimeoutSeconds 复评调用超时(长,完整记录更大)
	FullTimeoutSeconds int `yaml:"full_timeout_seconds"`

	Engagement struct {
		Page   DelayRange `yaml:"page"`
		Card   DelayRange `yaml:"card"`
		Detail DelayRange `yaml:"detail"`
	} `yaml:"engagement"`

	Stabilize struct {
		// 列表稳定判定: 连续StableSamples次采样数量一致才算就绪
		IntervalMs    int `yaml:"interval_ms"`
		StableSamples int `yaml:"stable_samples"`
		MaxWaitMs     int `yaml:"max_wait_ms"`
	} `yaml:"stabilize"`
}

// DefaultCriteria 未提供标准文件时的内置默认值
func DefaultCriteria() *Criteria {
	c := &Criteria{
		Prompt:               "保留与Go后端开发相关的条目",
		TriageTimeoutSeconds: 20,
		FullTimeoutSeconds:   60,
	}
	c.Engagement.Page = DelayRange{MinMs: 2000, MaxMs: 5000}
	c.Engagement.Card = DelayRange{MinMs: 800, MaxMs: 2500}
	c.Engagement.Detail = DelayRange{MinMs: 1500, MaxMs: 4000}
	c.Stabilize.IntervalMs = 500
	c.Stabilize.StableSamples = 3
	c.Stabilize.MaxWaitMs = 15000
	return c
}

// LoadCriteria 读取YAML标准文件,缺失的字段回落到默认值
func LoadCriteria(path string) (*Criteria, error) {
	c := DefaultCriteria()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取标准文件失败: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("解析标准文件失败: %w", err)
	}
	if c.TriageTimeoutSeconds <= 0 {
		c.TriageTimeoutSeconds = 20
	}
	if c.FullTimeoutSeconds <= 0 {
		c.FullTimeoutSeconds = 60
	}
	if c.Stabilize.IntervalMs <= 0 {
		c.Stabilize.IntervalMs = 500
	}
	if c.Stabilize.StableSamples <= 0 {
		c.Stabilize.StableSamples = 3
	}
	if c.Stabilize.MaxWaitMs <= 0 {
		c.Stabilize.MaxWaitMs = 15000
	}
	return c, nil
}
