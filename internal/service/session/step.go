package session

import (
	"github.com/andybrandt/lisesca/internal/infra/persistence/checkpoint"
)

// Step 会话状态机的状态
type Step string

const (
	StepIdle     Step = "idle"
	StepLoadPage Step = "page_loading"
	StepIterate  Step = "item_iterating"
	StepPaginate Step = "awaiting_page_transition"
	StepFinalize Step = "finalizing"
)

// DeriveNextStep 纯函数: 只看检查点推导下一步该做什么
// 执行环境随页面导航销毁重建,所以状态不能靠内存延续,
// 每轮启动都必须从持久状态重新推导
func DeriveNextStep(cp *checkpoint.Checkpoint) Step {
	if cp == nil {
		return StepIdle
	}
	if !cp.Active {
		return StepFinalize
	}
	if !cp.PageSnapshotted() {
		return StepLoadPage
	}
	if !cp.PageExhausted() {
		return StepIterate
	}
	return StepPaginate
}
