package entity

import (
	"fmt"
	"strings"
)

// ProfileCard 人脉列表页上单张卡片的轻量摘要
type ProfileCard struct {
	ProfileID string `json:"profile_id"`
	Name      string `json:"name"`
	Headline  string `json:"headline"`
	Location  string `json:"location"`
	Degree    string `json:"degree"`
}

// JobCard 职位列表页上单张卡片的轻量摘要
type JobCard struct {
	JobID     string `json:"job_id"`
	Title     string `json:"title"`
	Company   string `json:"company"`
	Location  string `json:"location"`
	Salary    string `json:"salary"`
	PostedAgo string `json:"posted_ago"`
}

// Card 卡片摘要的标签联合,按Mode分发,避免两种模式互相引用
type Card struct {
	Mode    Mode         `json:"mode"`
	Profile *ProfileCard `json:"profile,omitempty"`
	Job     *JobCard     `json:"job,omitempty"`
}

func (c *Card) ID() string {
	switch c.Mode {
	case ModeProfiles:
		if c.Profile != nil {
			return c.Profile.ProfileID
		}
	case ModeJobs:
		if c.Job != nil {
			return c.Job.JobID
		}
	}
	return ""
}

// Summary 渲染用于AI初筛的纯文本摘要
func (c *Card) Summary() string {
	var b strings.Builder
	switch c.Mode {
	case ModeProfiles:
		if c.Profile == nil {
			return ""
		}
		fmt.Fprintf(&b, "姓名: %s\n", c.Profile.Name)
		fmt.Fprintf(&b, "头衔: %s\n", c.Profile.Headline)
		fmt.Fprintf(&b, "地点: %s\n", c.Profile.Location)
		if c.Profile.Degree != "" {
			fmt.Fprintf(&b, "人脉关系: %s\n", c.Profile.Degree)
		}
	case ModeJobs:
		if c.Job == nil {
			return ""
		}
		fmt.Fprintf(&b, "职位: %s\n", c.Job.Title)
		fmt.Fprintf(&b, "公司: %s\n", c.Job.Company)
		fmt.Fprintf(&b, "地点: %s\n", c.Job.Location)
		if c.Job.Salary != "" {
			fmt.Fprintf(&b, "薪资: %s\n", c.Job.Salary)
		}
		if c.Job.PostedAgo != "" {
			fmt.Fprintf(&b, "发布时间: %s\n", c.Job.PostedAgo)
		}
	}
	return b.String()
}
