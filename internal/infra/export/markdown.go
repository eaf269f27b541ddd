package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybrandt/lisesca/internal/domain/entity"
)

type markdownExporter struct {
	dir string
}

func InitMarkdownExporter(dir string) Exporter {
	return &markdownExporter{dir: dir}
}

func (e *markdownExporter) Format() string {
	return "markdown"
}

func (e *markdownExporter) Export(ctx context.Context, recs []*entity.Record) error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	path := filepath.Join(e.dir, outputName(recs[0].Mode, "md"))

	var b strings.Builder
	headers := headersFor(recs[0].Mode)
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")
	for _, rec := range recs {
		row := rowFor(rec)
		if row == nil {
			continue
		}
		for i, cell := range row {
			// 表格单元格里不能出现竖线和换行
			cell = strings.ReplaceAll(cell, "|", "\\|")
			cell = strings.ReplaceAll(cell, "\n", " ")
			row[i] = cell
		}
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("写入Markdown文件失败: %w", err)
	}
	return nil
}
