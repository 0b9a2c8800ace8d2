// writer.go
package file

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"SheetClean/src/table"
	"SheetClean/src/utils"
)

const sheetName = "Sheet1"

// Save 按指定格式("csv" 或 "xlsx", 不区分大小写)将表格写入path
//
// 不写索引列, 目标目录必须已存在
func Save(t *table.Table, path, format string) error {
	format = strings.ToLower(format)
	if format != FormatCSV && format != FormatXLSX {
		return fmt.Errorf("%w: %q, use csv or xlsx", ErrUnsupportedFormat, format)
	}
	if t == nil {
		return ErrNoTable
	}

	if format == FormatXLSX {
		return saveXLSX(t, path)
	}
	return saveCSV(t, path)
}

func saveCSV(t *table.Table, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %s: %w", ErrWrite, path, cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.WriteAll(t.Records()); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	return nil
}

// saveXLSX 将表格保存为Excel文件
func saveXLSX(t *table.Table, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	// 写入列名
	for i, c := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
		}
		if err := f.SetCellValue(sheetName, cell, c.Name); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
		}
	}

	// 写入数据, 缺失值留空
	for colIdx, c := range t.Columns {
		for rowIdx, v := range c.Cells {
			if v.Missing {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
			}
			if err := f.SetCellValue(sheetName, cell, xlsxValue(c.Kind, v)); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, path, err)
	}
	return nil
}

func xlsxValue(kind table.Kind, v table.Cell) interface{} {
	switch kind {
	case table.Numeric:
		return v.Num
	case table.Other:
		if tm, ok := utils.ParseTime(v.Text); ok {
			return tm
		}
	}
	return v.Text
}
