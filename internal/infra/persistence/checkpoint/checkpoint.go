package checkpoint

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/andybrandt/lisesca/internal/domain/entity"
)

type TriageDecision string

const (
	TriageReject TriageDecision = "reject"
	TriageKeep   TriageDecision = "keep"
	TriageMaybe  TriageDecision = "maybe"
)

// TriageRecord 单个条目的初筛结论,整页推进前不会被清除
type TriageRecord struct {
	Decision TriageDecision `json:"decision"`
	Reason   string         `json:"reason"`
}

// Checkpoint 恢复管线所需的全部持久状态
// 约定: 任何跨页面导航(等价于进程被杀)后仍需要的信息都必须进入这里,
// 不允许只存在于内存中
type Checkpoint struct {
	Active    bool        `json:"active"`
	SessionID string      `json:"session_id"`
	Mode      entity.Mode `json:"mode"`

	// Strategy 评估策略 tiered | binary,空值表示不启用AI筛选
	Strategy     string `json:"strategy"`
	CriteriaPath string `json:"criteria_path"`

	StartPage   int `json:"start_page"`
	CurrentPage int `json:"current_page"`
	// TargetPages 0表示直到没有下一页
	TargetPages int `json:"target_pages"`

	// BaseURL 剥离分页参数后的列表页地址,用于重建每页URL
	BaseURL string   `json:"base_url"`
	Formats []string `json:"formats"`
	// IncludeSeen 职位模式专用,是否包含历史会话已见条目
	IncludeSeen bool `json:"include_seen"`

	// 页内游标: ItemIDs每页只快照一次,ItemIndex指向下一个未处理条目
	ItemIDs   []string `json:"item_ids"`
	ItemIndex int      `json:"item_index"`

	// Triage 当前页每个条目的初筛结论
	Triage map[string]TriageRecord `json:"triage,omitempty"`

	// 单调递增的评估统计,崩溃后用于解释"零匹配"结果
	Evaluated int `json:"evaluated"`
	Accepted  int `json:"accepted"`

	// LastDetailURL 人脉模式深入详情页时的最后地址,用于识别恢复位置
	LastDetailURL string `json:"last_detail_url,omitempty"`
}

// PagesDone 已完成(含当前)的页数
func (cp *Checkpoint) PagesDone() int {
	return cp.CurrentPage - cp.StartPage + 1
}

// PageSnapshotted 当前页的条目ID是否已经快照
func (cp *Checkpoint) PageSnapshotted() bool {
	return cp.ItemIDs != nil
}

// PageExhausted 当前页的条目是否全部处理完
func (cp *Checkpoint) PageExhausted() bool {
	return cp.ItemIDs != nil && cp.ItemIndex >= len(cp.ItemIDs)
}

// ResetPageCursor 翻页时重置页内状态,初筛结论与游标一同作废
func (cp *Checkpoint) ResetPageCursor() {
	cp.ItemIDs = nil
	cp.ItemIndex = 0
	cp.Triage = nil
	cp.LastDetailURL = ""
}

// PageURL 由baseUrl重建指定页的地址
func (cp *Checkpoint) PageURL(page int) string {
	u, err := url.Parse(cp.BaseURL)
	if err != nil {
		return cp.BaseURL
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

// StripPageParam 剥离URL中的分页参数,返回baseUrl和当前页码(缺省为1)
func StripPageParam(rawURL string) (string, int, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", 0, fmt.Errorf("解析列表页URL失败: %w", err)
	}
	page := 1
	q := u.Query()
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	q.Del("page")
	u.RawQuery = q.Encode()
	return u.String(), page, nil
}
