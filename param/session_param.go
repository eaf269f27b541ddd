package param

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

type StrategyType string

// 两种评估策略,分层初筛+复评 或 单次二元判定
const (
	StrategyTiered StrategyType = "tiered"
	StrategyBinary StrategyType = "binary"
)

var validate = validator.New()

// Start 开始一次采集会话的参数
type Start struct {
	// Mode 采集模式 profiles | jobs
	Mode string `json:"mode" validate:"required,oneof=profiles jobs"`
	// URL 当前列表页地址,分页参数会被剥离后作为baseUrl保存
	URL string `json:"url" validate:"required,url"`
	// TargetPages 目标页数,0表示直到没有下一页
	TargetPages int `json:"target_pages" validate:"gte=0"`
	// Formats 导出格式,可多选
	Formats []string `json:"formats" validate:"required,min=1,dive,oneof=xlsx csv markdown es"`
	// IncludeSeen 职位模式下是否包含历史会话已见过的条目
	IncludeSeen bool `json:"include_seen"`
	// Strategy 评估策略,空值表示不启用AI筛选(全部保留)
	Strategy string `json:"strategy" validate:"omitempty,oneof=tiered binary"`
	// CriteriaPath 筛选标准YAML文件路径,可为空
	CriteriaPath string `json:"criteria_path"`
}

func (s *Start) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("开始参数不合法: %w", err)
	}
	if s.Strategy == "" && len(s.Formats) == 0 {
		return fmt.Errorf("开始参数不合法: 至少需要一个导出格式")
	}
	return nil
}

func (s *Start) IsValid() bool {
	return s.Validate() == nil
}
