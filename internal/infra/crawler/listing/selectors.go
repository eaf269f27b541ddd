package listing

import (
	"fmt"

	"github.com/andybrandt/lisesca/internal/domain/entity"
)

// Selectors 一种模式下列表页的选择器集合
// 字段提取不属于核心逻辑,这里只维护每种模式一套有代表性的选择器
type Selectors struct {
	// ListingMarker 标识"受支持的列表页",恢复时的页面类型校验也用它
	ListingMarker string
	// ItemShell 虚拟化列表的轻量占位节点,稳定判定对它采样
	ItemShell string
	// List 条目容器,快照ID时解析它的outerHTML
	List string
	// CardLink 卡片内的详情链接
	CardLink string
	// NextButton 可用的下一页按钮,不存在即视为没有下一页
	NextButton string
	// DetailPane 人脉模式点击卡片后出现的详情面板
	DetailPane string
	// DetailClose 详情面板的关闭按钮
	DetailClose string
}

var profileSelectors = Selectors{
	ListingMarker: `div.search-results[data-mode="people"]`,
	ItemShell:     `li.result-item`,
	List:          `ul.results-list`,
	CardLink:      `a.item-link`,
	NextButton:    `button.pagination-next:not([disabled])`,
	DetailPane:    `div.profile-detail-pane`,
	DetailClose:   `button.detail-close`,
}

var jobSelectors = Selectors{
	ListingMarker: `div.search-results[data-mode="jobs"]`,
	ItemShell:     `li.job-item`,
	List:          `ul.jobs-list`,
	CardLink:      `a.item-link`,
	NextButton:    `button.pagination-next:not([disabled])`,
}

// SelectorsFor 返回模式对应的选择器集合
func SelectorsFor(mode entity.Mode) Selectors {
	if mode == entity.ModeJobs {
		return jobSelectors
	}
	return profileSelectors
}

// cardSelector 按快照到的条目ID定位卡片
func (s Selectors) cardSelector(id string) string {
	return fmt.Sprintf(`%s[data-item-id=%q]`, s.ItemShell, id)
}
