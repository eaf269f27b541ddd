package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/andybrandt/lisesca/internal/domain/entity"
)

type csvExporter struct {
	dir string
}

func InitCSVExporter(dir string) Exporter {
	return &csvExporter{dir: dir}
}

func (e *csvExporter) Format() string {
	return "csv"
}

func (e *csvExporter) Export(ctx context.Context, recs []*entity.Record) error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	path := filepath.Join(e.dir, outputName(recs[0].Mode, "csv"))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建CSV文件失败: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(headersFor(recs[0].Mode)); err != nil {
		return fmt.Errorf("写入表头失败: %w", err)
	}
	for _, rec := range recs {
		row := rowFor(rec)
		if row == nil {
			continue
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("写入记录失败: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("刷新CSV失败: %w", err)
	}
	return nil
}
