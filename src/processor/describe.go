package processor

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"SheetClean/src/table"
)

const (
	// 只对前5列统计频次, 避免宽表输出过长
	frequencyColumns = 5
	frequencyTop     = 5
)

// ColumnInfo 列名、类型和缺失值数量
type ColumnInfo struct {
	Name       string
	Kind       table.Kind
	NonMissing int
}

// Frequencies 非数值列中出现最多的值
type Frequencies struct {
	Column string
	Top    []ValueCount
}

// Summary 表格的描述性统计
type Summary struct {
	Rows        int
	Cols        int
	Columns     []ColumnInfo
	Numeric     []NumericStats
	Frequencies []Frequencies
}

// Describe 统计表格, 不修改t; t为nil时返回nil
func Describe(t *table.Table) *Summary {
	if t == nil {
		return nil
	}

	s := &Summary{Rows: t.Nrow(), Cols: t.Ncol()}
	for i, c := range t.Columns {
		s.Columns = append(s.Columns, ColumnInfo{
			Name:       c.Name,
			Kind:       c.Kind,
			NonMissing: len(c.Cells) - c.MissingCount(),
		})

		if c.Kind == table.Numeric {
			s.Numeric = append(s.Numeric, DescribeNumeric(c))
			continue
		}
		if i < frequencyColumns {
			top := ValueCounts(c)
			if len(top) > frequencyTop {
				top = top[:frequencyTop]
			}
			s.Frequencies = append(s.Frequencies, Frequencies{Column: c.Name, Top: top})
		}
	}
	return s
}

// Render 将统计结果渲染为文本表格
func (s *Summary) Render() string {
	if s == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Rows: %d, Columns: %d\n", s.Rows, s.Cols)

	info := newTable("#", "Column", "Non-Missing", "Kind")
	for i, c := range s.Columns {
		info.Row(strconv.Itoa(i), c.Name, strconv.Itoa(c.NonMissing), c.Kind.String())
	}
	b.WriteString(info.String())
	b.WriteString("\n")

	if len(s.Numeric) > 0 {
		b.WriteString("\nDescriptive statistics (numeric columns):\n")
		stats := newTable("", "count", "mean", "std", "min", "25%", "50%", "75%", "max")
		for _, n := range s.Numeric {
			stats.Row(n.Name, strconv.Itoa(n.Count),
				formatStat(n.Mean), formatStat(n.Std), formatStat(n.Min),
				formatStat(n.Q1), formatStat(n.Median), formatStat(n.Q3), formatStat(n.Max))
		}
		b.WriteString(stats.String())
		b.WriteString("\n")
	}

	if len(s.Frequencies) > 0 {
		b.WriteString("\nMost frequent values (non-numeric columns among the first 5):\n")
		for _, f := range s.Frequencies {
			freq := newTable(f.Column, "count")
			for _, vc := range f.Top {
				freq.Row(vc.Value, strconv.Itoa(vc.Count))
			}
			b.WriteString(freq.String())
			b.WriteString("\n")
		}
	}
	return b.String()
}

func newTable(headers ...string) *ltable.Table {
	return ltable.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
