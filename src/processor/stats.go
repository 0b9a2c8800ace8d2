package processor

import (
	"math"
	"sort"

	"github.com/go-gota/gota/series"

	"SheetClean/src/table"
)

// ValueCount 值及其出现次数
type ValueCount struct {
	Value string
	Count int
}

// ValueCounts 统计非缺失值的出现次数, 次数多的在前, 次数相同时按首次出现顺序
func ValueCounts(c *table.Column) []ValueCount {
	index := make(map[string]int)
	var counts []ValueCount
	for _, cell := range c.Cells {
		if cell.Missing {
			continue
		}
		i, ok := index[cell.Text]
		if !ok {
			i = len(counts)
			index[cell.Text] = i
			counts = append(counts, ValueCount{Value: cell.Text})
		}
		counts[i].Count++
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// NumericStats 数值列的描述统计
type NumericStats struct {
	Name   string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// DescribeNumeric 计算非缺失值的数量、均值、样本标准差、最小值、四分位数和最大值
// 无法计算的统计量为NaN
func DescribeNumeric(c *table.Column) NumericStats {
	st := NumericStats{Name: c.Name}
	vals := make([]float64, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if !cell.Missing {
			vals = append(vals, cell.Num)
		}
	}

	st.Count = len(vals)
	nan := math.NaN()
	st.Mean, st.Std, st.Min, st.Q1, st.Median, st.Q3, st.Max = nan, nan, nan, nan, nan, nan, nan
	if st.Count == 0 {
		return st
	}

	s := series.Floats(vals)
	st.Mean = s.Mean()
	if st.Count > 1 {
		st.Std = s.StdDev()
	}
	st.Min = s.Min()
	st.Max = s.Max()
	ordered := s.Subset(s.Order(false)).Float()
	st.Q1 = quantile(ordered, 0.25)
	st.Median = s.Median()
	st.Q3 = quantile(ordered, 0.75)
	return st
}

// quantile 在已排序的数据上按线性插值计算分位数
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}
