package processor

import (
	"strconv"
	"strings"

	"github.com/go-gota/gota/series"

	"SheetClean/src/table"
)

// 缺失值填充的默认标签
const (
	FallbackText  = "N/A"
	FallbackOther = "Unknown"
)

// Method 缺失值填充方式
type Method int

const (
	MethodNone     Method = iota // 无缺失值
	MethodMedian                 // 中位数
	MethodMode                   // 众数
	MethodFallback               // 默认标签
)

// String 填充方式的名称
func (m Method) String() string {
	switch m {
	case MethodMedian:
		return "median"
	case MethodMode:
		return "mode"
	case MethodFallback:
		return "fallback"
	default:
		return "none"
	}
}

// ColumnReport 单列的缺失值填充结果
type ColumnReport struct {
	Name    string
	Kind    table.Kind
	Missing int
	Method  Method
	Fill    string
}

// Report 清洗结果, 只用于日志, 不保存
type Report struct {
	RowsBefore int
	Duplicates int
	Columns    []ColumnReport
}

// Clean 删除重复行并填充所有缺失值, 直接修改并返回t
// 需要保留原始数据时传入副本; t为nil时返回nil和空报告
func Clean(t *table.Table) (*table.Table, Report) {
	var rep Report
	if t == nil {
		return nil, rep
	}

	// 1. 删除重复行
	rep.RowsBefore = t.Nrow()
	rep.Duplicates = DropDuplicates(t)

	// 2. 按列填充缺失值
	rep.Columns = make([]ColumnReport, 0, t.Ncol())
	for _, c := range t.Columns {
		rep.Columns = append(rep.Columns, Impute(c))
	}
	return t, rep
}

// DropDuplicates 保留每个不同行的第一次出现, 保持原顺序, 返回删除的行数
func DropDuplicates(t *table.Table) int {
	n := t.Nrow()
	seen := make(map[string]struct{}, n)
	keep := make([]int, 0, n)

	var b strings.Builder
	for r := 0; r < n; r++ {
		b.Reset()
		for _, c := range t.Columns {
			writeKey(&b, c.Kind, c.Cells[r])
		}
		key := b.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keep = append(keep, r)
	}

	if len(keep) < n {
		t.Keep(keep)
	}
	return n - len(keep)
}

// writeKey 写入单元格的无歧义编码, 数值按值比较, "1" 与 "1.0" 视为相同
func writeKey(b *strings.Builder, kind table.Kind, cell table.Cell) {
	switch {
	case cell.Missing:
		b.WriteString("\x00;")
	case kind == table.Numeric:
		b.WriteString("n")
		b.WriteString(strconv.FormatFloat(cell.Num, 'g', -1, 64))
		b.WriteString(";")
	default:
		b.WriteString(strconv.Quote(cell.Text))
		b.WriteString(";")
	}
}

// Impute 按列类型填充缺失值
func Impute(c *table.Column) ColumnReport {
	rep := ColumnReport{Name: c.Name, Kind: c.Kind, Missing: c.MissingCount()}
	if rep.Missing == 0 {
		return rep
	}

	var fill table.Cell
	switch c.Kind {
	case table.Numeric:
		rep.Method = MethodMedian
		fill = table.NumberCell(Median(c))
	case table.Text:
		if mode, ok := Mode(c); ok {
			rep.Method = MethodMode
			fill = table.Cell{Text: mode}
		} else {
			rep.Method = MethodFallback
			fill = table.Cell{Text: FallbackText}
		}
	default:
		rep.Method = MethodFallback
		fill = table.Cell{Text: FallbackOther}
	}
	rep.Fill = fill.Text

	for i := range c.Cells {
		if c.Cells[i].Missing {
			c.Cells[i] = fill
		}
	}
	return rep
}

// Median 数值列非缺失值的中位数
// 全部缺失的列被推断为文本列, 因此数值列至少有一个值
func Median(c *table.Column) float64 {
	vals := make([]float64, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if !cell.Missing {
			vals = append(vals, cell.Num)
		}
	}
	return series.Floats(vals).Median()
}

// Mode 出现次数最多的非缺失值, 次数相同时取先出现的值; 没有值时ok为false
func Mode(c *table.Column) (string, bool) {
	counts := ValueCounts(c)
	if len(counts) == 0 {
		return "", false
	}
	return counts[0].Value, true
}
