package table

import (
	"fmt"
	"math"
	"strconv"

	"SheetClean/src/utils"
)

// NAValues 默认被视为缺失值的字符串
var NAValues = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a",
	"nan", "null",
}

// IsMissing 判断原始值是否为缺失值: NA 标记, 或任何解析为 NaN 的写法(如 "NAN")
func IsMissing(s string) bool {
	if utils.Contains(NAValues, s) {
		return true
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && math.IsNaN(f)
}

// FromRecords 由标题行和原始字符串行构建表格
//
// 除非hints指定了列类型, 否则按列推断: 所有非缺失值都是数值则为Numeric, 否则为Text,
// 没有任何值的列为Text。较短的行用缺失值补齐, 超出标题的字段被丢弃
func FromRecords(header []string, rows [][]string, hints map[int]Kind) *Table {
	names := uniqueNames(header)
	t := &Table{Columns: make([]*Column, len(names))}

	for j, name := range names {
		raw := make([]string, len(rows))
		for i, row := range rows {
			if j < len(row) {
				raw[i] = row[j]
			}
		}

		kind, ok := hints[j]
		if !ok {
			kind = inferKind(raw)
		}
		t.Columns[j] = &Column{Name: name, Kind: kind, Cells: makeCells(raw, kind)}
	}
	return t
}

func inferKind(raw []string) Kind {
	seen := false
	for _, s := range raw {
		if IsMissing(s) {
			continue
		}
		seen = true
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return Text
		}
	}
	if !seen {
		return Text
	}
	return Numeric
}

func makeCells(raw []string, kind Kind) []Cell {
	cells := make([]Cell, len(raw))
	for i, s := range raw {
		if IsMissing(s) {
			cells[i] = Cell{Missing: true}
			continue
		}
		cells[i] = Cell{Text: s}
		if kind == Numeric {
			// inferKind 已确认可以解析
			cells[i].Num, _ = strconv.ParseFloat(s, 64)
		}
	}
	return cells
}

// uniqueNames 处理空列名和重复列名
func uniqueNames(header []string) []string {
	names := make([]string, len(header))
	counts := make(map[string]int, len(header))
	taken := make(map[string]bool, len(header))
	for _, h := range header {
		taken[h] = true
	}

	for i, h := range header {
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		n, dup := counts[h]
		if !dup {
			counts[h] = 1
			names[i] = h
			continue
		}
		name := fmt.Sprintf("%s.%d", h, n)
		for taken[name] {
			n++
			name = fmt.Sprintf("%s.%d", h, n)
		}
		counts[h] = n + 1
		taken[name] = true
		names[i] = name
	}
	return names
}
