// table.go
package table

import (
	"fmt"
	"strconv"
)

// Kind 列的语义类型, 在加载时确定一次并随列携带
type Kind int

const (
	Numeric Kind = iota + 1 // 数值列
	Text                    // 文本/分类列
	Other                   // 其他类型(日期等)
)

// String 类型名称
func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Text:
		return "text"
	case Other:
		return "other"
	default:
		return "unknown"
	}
}

// Cell 单元格, Num 只对数值列有意义
type Cell struct {
	Text    string
	Num     float64
	Missing bool
}

// NumberCell 创建数值单元格, 文本为v的最短十进制形式
func NumberCell(v float64) Cell {
	return Cell{Text: strconv.FormatFloat(v, 'f', -1, 64), Num: v}
}

// Column 列: 列名、类型和单元格
type Column struct {
	Name  string
	Kind  Kind
	Cells []Cell
}

// MissingCount 缺失单元格数量
func (c *Column) MissingCount() int {
	n := 0
	for _, cell := range c.Cells {
		if cell.Missing {
			n++
		}
	}
	return n
}

// Table 等长列的有序集合
type Table struct {
	Columns []*Column
}

// Nrow 行数, 没有列的表格为0行
func (t *Table) Nrow() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// Ncol 列数
func (t *Table) Ncol() int {
	if t == nil {
		return 0
	}
	return len(t.Columns)
}

// Names 按顺序返回列名
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Col 按列名查找列, 不存在时返回nil
func (t *Table) Col(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Clone 深拷贝, 修改副本不影响原表
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{Columns: make([]*Column, len(t.Columns))}
	for i, c := range t.Columns {
		cells := make([]Cell, len(c.Cells))
		copy(cells, c.Cells)
		out.Columns[i] = &Column{Name: c.Name, Kind: c.Kind, Cells: cells}
	}
	return out
}

// Keep 按给定顺序只保留指定下标的行
func (t *Table) Keep(rows []int) {
	for _, c := range t.Columns {
		kept := make([]Cell, len(rows))
		for i, r := range rows {
			kept[i] = c.Cells[r]
		}
		c.Cells = kept
	}
}

// Records 返回标题行和所有数据行, 缺失值为空字符串
func (t *Table) Records() [][]string {
	records := make([][]string, 0, t.Nrow()+1)
	records = append(records, t.Names())
	for r := 0; r < t.Nrow(); r++ {
		rec := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			if !c.Cells[r].Missing {
				rec[i] = c.Cells[r].Text
			}
		}
		records = append(records, rec)
	}
	return records
}

// Validate 检查各列长度一致且列名唯一
func (t *Table) Validate() error {
	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if seen[c.Name] {
			return fmt.Errorf("duplicate column name %q", c.Name)
		}
		seen[c.Name] = true
		if len(c.Cells) != t.Nrow() {
			return fmt.Errorf("column %q has %d rows, want %d", c.Name, len(c.Cells), t.Nrow())
		}
	}
	return nil
}
