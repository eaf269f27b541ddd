package export

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/andybrandt/lisesca/internal/domain/entity"
)

// Exporter 单一输出格式的导出器
type Exporter interface {
	Format() string
	Export(ctx context.Context, recs []*entity.Record) error
}

// Manager 按会话选择的格式并发执行各导出器
// 单个格式失败只记录日志,不阻止其他格式; 全部失败才向调用方报错,
// 调用方保留会话,缓冲区不会白白丢掉
type Manager struct {
	exporters map[string]Exporter
}

func InitManager(exporters ...Exporter) *Manager {
	m := &Manager{exporters: make(map[string]Exporter, len(exporters))}
	for _, e := range exporters {
		m.exporters[e.Format()] = e
	}
	return m
}

func (m *Manager) Export(ctx context.Context, recs []*entity.Record, formats []string) error {
	if len(recs) == 0 {
		return nil
	}
	var failed atomic.Int32
	attempted := 0
	g, ctx := errgroup.WithContext(ctx)
	for _, format := range formats {
		exporter, ok := m.exporters[format]
		if !ok {
			log.Printf("未知的导出格式: %s, 跳过", format)
			continue
		}
		attempted++
		g.Go(func() error {
			if err := exporter.Export(ctx, recs); err != nil {
				log.Printf("导出%s失败: %v", exporter.Format(), err)
				failed.Add(1)
				return nil
			}
			log.Printf("导出完成: %s, %d 条记录", exporter.Format(), len(recs))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if n := failed.Load(); n > 0 && int(n) == attempted {
		// 所有格式都失败才算导出失败,调用方会保留会话供重试
		return fmt.Errorf("全部 %d 种格式导出失败", n)
	}
	return nil
}

// outputName 导出文件名,按模式和时间戳区分
func outputName(mode entity.Mode, ext string) string {
	return fmt.Sprintf("lisesca_%s_%s.%s", mode, time.Now().Format("20060102_150405"), ext)
}

// headersFor 表格类导出格式共用的列定义
func headersFor(mode entity.Mode) []string {
	if mode == entity.ModeJobs {
		return []string{"ID", "职位", "公司", "地点", "薪资", "级别", "发布时间", "描述", "链接"}
	}
	return []string{"ID", "姓名", "头衔", "地点", "当前职位", "公司", "技能", "简介", "链接"}
}

func rowFor(rec *entity.Record) []string {
	switch rec.Mode {
	case entity.ModeJobs:
		j := rec.Job
		if j == nil {
			return nil
		}
		return []string{j.JobID, j.Title, j.Company, j.Location, j.Salary,
			j.Seniority, j.PostedAgo, j.Description, j.JobURL}
	default:
		p := rec.Profile
		if p == nil {
			return nil
		}
		return []string{p.ProfileID, p.Name, p.Headline, p.Location, p.CurrentTitle,
			p.Company, strings.Join(p.Skills, "; "), p.About, p.ProfileURL}
	}
}
