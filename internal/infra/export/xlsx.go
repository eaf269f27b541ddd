package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/andybrandt/lisesca/internal/domain/entity"
)

type xlsxExporter struct {
	dir string
}

func InitXLSXExporter(dir string) Exporter {
	return &xlsxExporter{dir: dir}
}

func (e *xlsxExporter) Format() string {
	return "xlsx"
}

func (e *xlsxExporter) Export(ctx context.Context, recs []*entity.Record) error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	path := filepath.Join(e.dir, outputName(recs[0].Mode, "xlsx"))

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Sheet1"

	headers := headersFor(recs[0].Mode)
	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("写入表头失败: %w", err)
	}

	rowNum := 2
	for _, rec := range recs {
		row := rowFor(rec)
		if row == nil {
			continue
		}
		cells := make([]interface{}, len(row))
		for i, c := range row {
			cells[i] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return fmt.Errorf("计算单元格位置失败: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("写入记录失败: %w", err)
		}
		rowNum++
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("保存xlsx文件失败: %w", err)
	}
	return nil
}
