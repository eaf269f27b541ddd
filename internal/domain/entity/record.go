package entity

import (
	"fmt"
	"strings"

	"github.com/andybrandt/lisesca/internal/domain/model"
)

// Crawlable 可转换为导出文档的实体约束
// D是文档类型,必须实现model.Document接口
type Crawlable[D model.Document] interface {
	ToDocument() D
}

// ProfileRecord 人脉详情的完整记录
type ProfileRecord struct {
	ProfileID    string   `json:"profile_id"`
	Name         string   `json:"name"`
	Headline     string   `json:"headline"`
	Location     string   `json:"location"`
	CurrentTitle string   `json:"current_title"`
	Company      string   `json:"company"`
	About        string   `json:"about"`
	Skills       []string `json:"skills"`
	ProfileURL   string   `json:"profile_url"`
}

func (r *ProfileRecord) ToDocument() *model.ProfileDoc {
	return &model.ProfileDoc{
		ProfileID:    r.ProfileID,
		Name:         r.Name,
		Headline:     r.Headline,
		Location:     r.Location,
		CurrentTitle: r.CurrentTitle,
		Company:      r.Company,
		About:        r.About,
		Skills:       r.Skills,
		ProfileURL:   r.ProfileURL,
	}
}

// JobRecord 职位详情的完整记录
type JobRecord struct {
	JobID       string `json:"job_id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Salary      string `json:"salary"`
	Seniority   string `json:"seniority"`
	Description string `json:"description"`
	JobURL      string `json:"job_url"`
	PostedAgo   string `json:"posted_ago"`
}

func (r *JobRecord) ToDocument() *model.JobDoc {
	return &model.JobDoc{
		JobID:       r.JobID,
		Title:       r.Title,
		Company:     r.Company,
		Location:    r.Location,
		Salary:      r.Salary,
		Seniority:   r.Seniority,
		Description: r.Description,
		JobURL:      r.JobURL,
		PostedAgo:   r.PostedAgo,
	}
}

// Record 完整记录的标签联合,结果缓冲区中的存储单元
type Record struct {
	Mode    Mode           `json:"mode"`
	Profile *ProfileRecord `json:"profile,omitempty"`
	Job     *JobRecord     `json:"job,omitempty"`
}

func (r *Record) ID() string {
	switch r.Mode {
	case ModeProfiles:
		if r.Profile != nil {
			return r.Profile.ProfileID
		}
	case ModeJobs:
		if r.Job != nil {
			return r.Job.JobID
		}
	}
	return ""
}

// Summary 渲染用于AI复评的完整文本,包含详情字段
func (r *Record) Summary() string {
	var b strings.Builder
	switch r.Mode {
	case ModeProfiles:
		if r.Profile == nil {
			return ""
		}
		fmt.Fprintf(&b, "姓名: %s\n", r.Profile.Name)
		fmt.Fprintf(&b, "头衔: %s\n", r.Profile.Headline)
		fmt.Fprintf(&b, "地点: %s\n", r.Profile.Location)
		fmt.Fprintf(&b, "当前职位: %s @ %s\n", r.Profile.CurrentTitle, r.Profile.Company)
		if len(r.Profile.Skills) > 0 {
			fmt.Fprintf(&b, "技能: %s\n", strings.Join(r.Profile.Skills, ", "))
		}
		if r.Profile.About != "" {
			fmt.Fprintf(&b, "简介:\n%s\n", r.Profile.About)
		}
	case ModeJobs:
		if r.Job == nil {
			return ""
		}
		fmt.Fprintf(&b, "职位: %s\n", r.Job.Title)
		fmt.Fprintf(&b, "公司: %s\n", r.Job.Company)
		fmt.Fprintf(&b, "地点: %s\n", r.Job.Location)
		if r.Job.Salary != "" {
			fmt.Fprintf(&b, "薪资: %s\n", r.Job.Salary)
		}
		if r.Job.Seniority != "" {
			fmt.Fprintf(&b, "级别: %s\n", r.Job.Seniority)
		}
		if r.Job.Description != "" {
			fmt.Fprintf(&b, "职位描述:\n%s\n", r.Job.Description)
		}
	}
	return b.String()
}
