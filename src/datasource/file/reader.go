// reader.go
package file

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tealeg/xlsx"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"SheetClean/src/table"
	"SheetClean/src/utils"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// FormatFromPath 根据后缀判断文件格式, 不区分大小写
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q, use .csv or .xlsx", ErrUnsupportedFormat, path)
	}
}

// Load 读取 .csv 或 .xlsx 文件为表格
//
// 错误包装 ErrFileNotFound, ErrUnsupportedFormat, ErrParse 或 ErrIO 之一
func Load(path string) (*table.Table, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrFileNotFound)
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if format == FormatXLSX {
		return readXLSX(f, path)
	}
	return readCSV(f, path)
}

func openInput(path string) (*os.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, classifyOpenErr(path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrIO, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, classifyOpenErr(path, err)
	}
	return f, nil
}

func classifyOpenErr(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s: %w", ErrFileNotFound, path, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrIO, path, err)
}

// readCSV 首行为标题行; 去除 BOM, 其余内容必须是合法 UTF-8
// 字段数少于标题的行由 FromRecords 补齐缺失值, 多于标题的行视为解析错误
func readCSV(r io.Reader, path string) (*table.Table, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(encoding.UTF8Validator))
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s: no header row", ErrParse, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
		}
		if len(record) > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("%w: %s: record on line %d has %d fields, header has %d",
				ErrParse, path, line, len(record), len(header))
		}
		rows = append(rows, record)
	}

	return table.FromRecords(header, rows, nil), nil
}

func readXLSX(r io.Reader, path string) (t *table.Table, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrIO, path, err)
	}

	// 损坏的文件可能导致xlsx库panic
	defer func() {
		if p := recover(); p != nil {
			t, err = nil, fmt.Errorf("%w: %s: %v", ErrParse, path, p)
		}
	}()

	// 1. 使用tealeg/xlsx打开Excel文件
	xlFile, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}

	// 2. 获取第一个工作表
	if len(xlFile.Sheets) == 0 {
		return nil, fmt.Errorf("%w: %s: workbook has no sheets", ErrParse, path)
	}

	// 3. 转换为表格
	return convertSheet(xlFile.Sheets[0], xlFile.Date1904), nil
}

// convertSheet 将xlsx.Sheet转换为table.Table, 第一行是标题行
func convertSheet(sheet *xlsx.Sheet, date1904 bool) *table.Table {
	rows := trimBlankRows(sheet.Rows)
	if len(rows) == 0 {
		return &table.Table{}
	}

	var headers []string
	for _, cell := range rows[0].Cells {
		headers = append(headers, cellText(cell, date1904))
	}
	// 标题行末尾的空单元格不算列
	for len(headers) > 0 && headers[len(headers)-1] == "" {
		headers = headers[:len(headers)-1]
	}

	records := make([][]string, 0, len(rows)-1)
	dates := make([]int, len(headers))
	texts := make([]int, len(headers))
	values := make([]int, len(headers))
	for _, row := range rows[1:] {
		rec := make([]string, len(headers))
		for i, cell := range row.Cells {
			if i >= len(headers) {
				break
			}
			rec[i] = cellText(cell, date1904)
			if table.IsMissing(rec[i]) {
				continue
			}
			values[i]++
			switch {
			case isDateCell(cell):
				dates[i]++
			case isTextCell(cell):
				texts[i]++
			}
		}
		records = append(records, rec)
	}

	// 单元格类型优先于文本推断: 含字符串单元格的列保持文本, 全为日期的列为其他类型
	hints := make(map[int]table.Kind)
	for i := range headers {
		switch {
		case texts[i] > 0:
			hints[i] = table.Text
		case values[i] > 0 && dates[i] == values[i]:
			hints[i] = table.Other
		}
	}
	return table.FromRecords(headers, records, hints)
}

func trimBlankRows(rows []*xlsx.Row) []*xlsx.Row {
	for len(rows) > 0 && isBlankRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows
}

func isBlankRow(row *xlsx.Row) bool {
	if row == nil {
		return true
	}
	for _, cell := range row.Cells {
		if cell != nil && cell.Value != "" {
			return false
		}
	}
	return true
}

// isTextCell 字符串单元格, 如以文本保存的邮编 "00123"
func isTextCell(cell *xlsx.Cell) bool {
	if cell == nil {
		return false
	}
	switch cell.Type() {
	case xlsx.CellTypeString, xlsx.CellTypeInline, xlsx.CellTypeStringFormula:
		return true
	}
	return false
}

func isDateCell(cell *xlsx.Cell) bool {
	return cell != nil && cell.Type() == xlsx.CellTypeNumeric && utils.IsDateFormat(cell.NumFmt)
}

// cellText 返回单元格的文本形式: 布尔值为 TRUE/FALSE, 日期格式的数值转为日期文本
func cellText(cell *xlsx.Cell, date1904 bool) string {
	if cell == nil || cell.Value == "" {
		return ""
	}
	switch {
	case cell.Type() == xlsx.CellTypeBool:
		if cell.Value == "1" {
			return "TRUE"
		}
		return "FALSE"
	case isDateCell(cell):
		serial, err := cell.Float()
		if err != nil {
			return cell.Value
		}
		return utils.FormatTime(utils.ExcelSerialToTime(serial, date1904))
	}
	return cell.Value
}
