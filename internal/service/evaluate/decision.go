package evaluate

import (
	"encoding/json"
	"strings"
)

// Decision AI评估的判定值
type Decision string

const (
	DecisionReject Decision = "reject"
	DecisionKeep   Decision = "keep"
	DecisionMaybe  Decision = "maybe"
	DecisionAccept Decision = "accept"
)

// Outcome 一次评估调用的结果
// FailedOpen为true表示远端调用失败或返回不可解析,按宽松默认值放行:
// 多收是用户可以自己再筛的,静默丢数据不可挽回
type Outcome struct {
	Decision   Decision
	Reason     string
	FailedOpen bool
}

// 模型返回的JSON结构,两种策略各一种
type triageReply struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason"`
}

// Download用指针区分"false"和"字段缺失": 模型答非所问(比如用初筛词汇回复)时
// 不能当成拒绝,必须走失败放行
type binaryReply struct {
	Download *bool  `json:"download"`
	Reason   string `json:"reason"`
}

// extractJSON 从模型输出里截取首尾花括号之间的JSON片段
// 模型偶尔会在JSON前后加说明文字,不能假定整段输出就是JSON
func extractJSON(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// parseTriage 解析初筛回复,任何不可识别的判定值都视为解析失败
func parseTriage(content string, allowed ...Decision) (Decision, string, bool) {
	raw, ok := extractJSON(content)
	if !ok {
		return "", "", false
	}
	var reply triageReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return "", "", false
	}
	decision := Decision(strings.ToLower(strings.TrimSpace(reply.Decision)))
	for _, a := range allowed {
		if decision == a {
			return decision, reply.Reason, true
		}
	}
	return "", "", false
}

func parseBinary(content string) (bool, string, bool) {
	raw, ok := extractJSON(content)
	if !ok {
		return false, "", false
	}
	var reply binaryReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return false, "", false
	}
	if reply.Download == nil {
		return false, "", false
	}
	return *reply.Download, reply.Reason, true
}
